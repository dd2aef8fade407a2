package types

import (
	"fmt"

	"github.com/wippyai/ctf-runtime/errors"
)

// NewDefinition builds a definition of decl registered as name in scope.
// index orders it among its siblings; a non-empty rootName marks a root
// definition, which takes RootIndex and rootName as its path.
// On failure nothing is left registered in scope.
func NewDefinition(decl Declaration, scope *Scope, name string, index int, rootName string) (Definition, error) {
	switch d := decl.(type) {
	case *IntegerDeclaration:
		def, err := newIntegerDefinition(d, scope, name, index, rootName)
		return wrap(def, err)
	case *FloatDeclaration:
		def, err := newFloatDefinition(d, scope, name, index, rootName)
		return wrap(def, err)
	case *EnumDeclaration:
		def, err := newEnumDefinition(d, scope, name, index, rootName)
		return wrap(def, err)
	case *StringDeclaration:
		def, err := newStringDefinition(d, scope, name, index, rootName)
		return wrap(def, err)
	case *StructDeclaration:
		def, err := newStructDefinition(d, scope, name, index, rootName)
		return wrap(def, err)
	case *ArrayDeclaration:
		def, err := newArrayDefinition(d, scope, name, index, rootName)
		return wrap(def, err)
	case *SequenceDeclaration:
		def, err := newSequenceDefinition(d, scope, name, index, rootName)
		return wrap(def, err)
	case *VariantDeclaration:
		def, err := newVariantDefinition(d, scope, name, index, rootName)
		return wrap(def, err)
	case nil:
		return nil, errors.InvalidInput(errors.PhaseConstruct, "nil declaration")
	default:
		return nil, errors.Unsupported(errors.PhaseConstruct, fmt.Sprintf("declaration type %T", decl))
	}
}

// RW reads def from cur, or writes it, depending on the cursor mode.
// A failure aborts at once; members already processed keep their values.
func RW(cur Cursor, def Definition) error {
	switch d := def.(type) {
	case *IntegerDefinition:
		return integerRW(cur, d)
	case *FloatDefinition:
		return floatRW(cur, d)
	case *EnumDefinition:
		return enumRW(cur, d)
	case *StringDefinition:
		return stringRW(cur, d)
	case *StructDefinition:
		return structRW(cur, d)
	case *ArrayDefinition:
		return arrayRW(cur, d)
	case *SequenceDefinition:
		return sequenceRW(cur, d)
	case *VariantDefinition:
		return variantRW(cur, d)
	case nil:
		return errors.InvalidInput(errors.PhaseDecode, "nil definition")
	default:
		return errors.Unsupported(errors.PhaseDecode, fmt.Sprintf("definition type %T", def))
	}
}

// FreeDefinition drops the caller's reference to def. The last reference
// unregisters def from its parent scope and releases children, held references,
// the own scope and the declaration.
func FreeDefinition(def Definition) {
	if def != nil {
		def.Unref()
	}
}

func releaseDefinition(def Definition) {
	if b, ok := def.(interface{ detach(Definition) }); ok {
		b.detach(def)
	}
	switch d := def.(type) {
	case *IntegerDefinition:
		d.free()
	case *FloatDefinition:
		d.free()
	case *EnumDefinition:
		d.free()
	case *StringDefinition:
		d.free()
	case *StructDefinition:
		d.free()
	case *ArrayDefinition:
		d.free()
	case *SequenceDefinition:
		d.free()
	case *VariantDefinition:
		d.free()
	}
}

func wrap[T Definition](def T, err error) (Definition, error) {
	if err != nil {
		return nil, err
	}
	return def, nil
}

var (
	_ Definition = (*IntegerDefinition)(nil)
	_ Definition = (*FloatDefinition)(nil)
	_ Definition = (*EnumDefinition)(nil)
	_ Definition = (*StringDefinition)(nil)
	_ Definition = (*StructDefinition)(nil)
	_ Definition = (*ArrayDefinition)(nil)
	_ Definition = (*SequenceDefinition)(nil)
	_ Definition = (*VariantDefinition)(nil)
)
