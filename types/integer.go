package types

import (
	"github.com/wippyai/ctf-runtime/errors"
	"github.com/wippyai/ctf-runtime/internal/bitfield"
)

// IntegerSpec describes an integer field.
type IntegerSpec struct {
	// Bits is the field width, 1 to 64.
	Bits      uint
	Signed    bool
	ByteOrder ByteOrder
	// Alignment in bits. Zero selects 8 for whole-byte widths and 1 otherwise.
	Alignment uint64
	// Base is the preferred display base. Zero selects 10.
	Base     int
	Encoding Encoding
}

type IntegerDeclaration struct {
	declarationBase
	spec IntegerSpec
}

func NewIntegerDeclaration(spec IntegerSpec) *IntegerDeclaration {
	if spec.Alignment == 0 {
		if spec.Bits%8 == 0 {
			spec.Alignment = 8
		} else {
			spec.Alignment = 1
		}
	}
	if spec.Base == 0 {
		spec.Base = 10
	}
	return &IntegerDeclaration{
		declarationBase: newDeclarationBase(KindInteger, spec.Alignment),
		spec:            spec,
	}
}

func (d *IntegerDeclaration) Bits() uint           { return d.spec.Bits }
func (d *IntegerDeclaration) Signed() bool         { return d.spec.Signed }
func (d *IntegerDeclaration) ByteOrder() ByteOrder { return d.spec.ByteOrder }
func (d *IntegerDeclaration) Base() int            { return d.spec.Base }
func (d *IntegerDeclaration) Encoding() Encoding   { return d.spec.Encoding }

type IntegerDefinition struct {
	definitionBase
	decl  *IntegerDeclaration
	value uint64
}

func newIntegerDefinition(decl *IntegerDeclaration, parent *Scope, name string, index int, rootName string) (*IntegerDefinition, error) {
	decl.Ref()
	d := &IntegerDefinition{
		definitionBase: newDefinitionBase(parent, name, index, rootName),
		decl:           decl,
	}
	if err := d.register(d); err != nil {
		d.abandon(decl, false, err)
		return nil, err
	}
	d.release = func() { releaseDefinition(d) }
	return d, nil
}

func (d *IntegerDefinition) Declaration() Declaration {
	return d.decl
}

// IntegerDeclaration returns the typed declaration.
func (d *IntegerDefinition) IntegerDeclaration() *IntegerDeclaration {
	return d.decl
}

// Unsigned returns the raw field bits.
func (d *IntegerDefinition) Unsigned() uint64 {
	return d.value
}

// Signed returns the value sign-extended from the field width.
func (d *IntegerDefinition) Signed() int64 {
	return bitfield.SignExtend(d.value, d.decl.spec.Bits)
}

// SetUnsigned stores v truncated to the field width.
func (d *IntegerDefinition) SetUnsigned(v uint64) {
	d.value = bitfield.Mask(v, d.decl.spec.Bits)
}

// SetSigned stores the two's complement of v truncated to the field width.
func (d *IntegerDefinition) SetSigned(v int64) {
	d.value = bitfield.Mask(uint64(v), d.decl.spec.Bits)
}

func (d *IntegerDefinition) free() {
	d.decl.Unref()
}

func integerRW(cur Cursor, d *IntegerDefinition) error {
	spec := d.decl.spec
	if err := cur.Align(spec.Alignment); err != nil {
		return errors.WithPath(err, d.path)
	}
	if cur.Mode() == ModeWrite {
		return errors.WithPath(cur.WriteUnsigned(spec.Bits, spec.ByteOrder, d.value), d.path)
	}
	v, err := cur.ReadUnsigned(spec.Bits, spec.ByteOrder)
	if err != nil {
		return errors.WithPath(err, d.path)
	}
	d.value = v
	return nil
}
