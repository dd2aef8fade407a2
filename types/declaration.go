package types

// Declaration is a shared, reference-counted type descriptor. It is immutable
// once constructed and is freed when its last reference is dropped.
type Declaration interface {
	Kind() Kind
	// Alignment returns the required stream alignment in bits.
	Alignment() uint64
	Ref()
	Unref()
	RefCount() int
}

type declarationBase struct {
	refCount
	alignment uint64
	kind      Kind
}

func newDeclarationBase(kind Kind, alignment uint64) declarationBase {
	if alignment == 0 {
		alignment = 1
	}
	return declarationBase{
		refCount:  newRefCount(),
		kind:      kind,
		alignment: alignment,
	}
}

func (d *declarationBase) Kind() Kind {
	return d.kind
}

func (d *declarationBase) Alignment() uint64 {
	return d.alignment
}

// isTextElement reports whether elements of decl are packed into a byte buffer
// rather than materialized as child definitions.
func isTextElement(decl Declaration) bool {
	integer, ok := decl.(*IntegerDeclaration)
	if !ok {
		return false
	}
	return integer.Bits() == 8 && integer.Alignment() == 8 && integer.Encoding() != EncodingNone
}
