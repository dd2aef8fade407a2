package types

import (
	"github.com/wippyai/ctf-runtime/errors"
)

// ArrayDeclaration describes a fixed-length run of elements.
type ArrayDeclaration struct {
	declarationBase
	elem   Declaration
	scope  *DeclarationScope
	length uint64
}

// NewArrayDeclaration takes a reference on elem.
func NewArrayDeclaration(length uint64, elem Declaration, parent *DeclarationScope) *ArrayDeclaration {
	elem.Ref()
	d := &ArrayDeclaration{
		declarationBase: newDeclarationBase(KindArray, elem.Alignment()),
		elem:            elem,
		scope:           NewDeclarationScope(parent),
		length:          length,
	}
	d.release = func() {
		d.scope.Release()
		d.elem.Unref()
	}
	return d
}

func (d *ArrayDeclaration) Len() uint64 {
	return d.length
}

func (d *ArrayDeclaration) Element() Declaration {
	return d.elem
}

type ArrayDefinition struct {
	definitionBase
	decl   *ArrayDeclaration
	elems  []Definition
	text   []byte
	isText bool
}

func newArrayDefinition(decl *ArrayDeclaration, parent *Scope, name string, index int, rootName string) (*ArrayDefinition, error) {
	decl.Ref()
	d := &ArrayDefinition{
		definitionBase: newDefinitionBase(parent, name, index, rootName),
		decl:           decl,
	}
	d.openScope()
	if err := d.register(d); err != nil {
		d.abandon(decl, false, err)
		return nil, err
	}
	if decl.length > uint64(maxLength) {
		err := errors.OutOfBounds(errors.PhaseConstruct, d.path, decl.length, uint64(maxLength))
		d.abandon(decl, true, err)
		return nil, err
	}
	n := int(decl.length)
	if isTextElement(decl.elem) {
		d.isText = true
		d.text = make([]byte, n)
	} else {
		d.elems = make([]Definition, 0, n)
		for i := 0; i < n; i++ {
			child, err := NewDefinition(decl.elem, d.scope, indexName(i), i, "")
			if err != nil {
				d.unrefElems()
				d.abandon(decl, true, err)
				return nil, err
			}
			d.elems = append(d.elems, child)
		}
	}
	d.release = func() { releaseDefinition(d) }
	return d, nil
}

func (d *ArrayDefinition) Declaration() Declaration {
	return d.decl
}

func (d *ArrayDefinition) Len() uint64 {
	return d.decl.length
}

// IsString reports whether elements are held as a byte buffer.
func (d *ArrayDefinition) IsString() bool {
	return d.isText
}

// Index returns element i. It is absent for text arrays and out of range indexes.
func (d *ArrayDefinition) Index(i uint64) (Definition, bool) {
	if d.IsString() || i >= uint64(len(d.elems)) {
		return nil, false
	}
	return d.elems[i], true
}

// Elements returns every element definition, nil for text arrays.
func (d *ArrayDefinition) Elements() []Definition {
	return d.elems
}

func (d *ArrayDefinition) Bytes() []byte {
	return d.text
}

// String returns the text payload up to the first NUL.
func (d *ArrayDefinition) String() string {
	return cString(d.text)
}

// SetBytes copies p into a text array, zero-padding to the array length.
func (d *ArrayDefinition) SetBytes(p []byte) error {
	if !d.IsString() {
		return errors.TypeMismatch(errors.PhaseEncode, d.path, KindArray.String(), "array elements are not text")
	}
	if uint64(len(p)) > d.decl.length {
		return errors.OutOfBounds(errors.PhaseEncode, d.path, uint64(len(p)), d.decl.length)
	}
	n := copy(d.text, p)
	clear(d.text[n:])
	return nil
}

func (d *ArrayDefinition) unrefElems() {
	for i := len(d.elems) - 1; i >= 0; i-- {
		d.elems[i].Unref()
	}
	d.elems = nil
}

func (d *ArrayDefinition) free() {
	d.unrefElems()
	d.text = nil
	d.scope.Release()
	d.decl.Unref()
}

func arrayRW(cur Cursor, d *ArrayDefinition) error {
	if err := cur.Align(d.decl.alignment); err != nil {
		return errors.WithPath(err, d.path)
	}
	if d.IsString() {
		if cur.Mode() == ModeWrite {
			return errors.WithPath(cur.WriteBytes(d.text), d.path)
		}
		data, err := cur.ReadBytes(uint64(len(d.text)))
		if err != nil {
			return errors.WithPath(err, d.path)
		}
		copy(d.text, data)
		return nil
	}
	for _, e := range d.elems {
		if err := RW(cur, e); err != nil {
			return err
		}
	}
	return nil
}
