package types

import (
	"math"

	"github.com/wippyai/ctf-runtime/errors"
)

// FloatSpec describes an IEEE 754 binary32 or binary64 field.
type FloatSpec struct {
	Bits      uint
	ByteOrder ByteOrder
	// Alignment in bits. Zero selects 8.
	Alignment uint64
}

type FloatDeclaration struct {
	declarationBase
	spec FloatSpec
}

func NewFloatDeclaration(spec FloatSpec) *FloatDeclaration {
	if spec.Alignment == 0 {
		spec.Alignment = 8
	}
	return &FloatDeclaration{
		declarationBase: newDeclarationBase(KindFloat, spec.Alignment),
		spec:            spec,
	}
}

func (d *FloatDeclaration) Bits() uint           { return d.spec.Bits }
func (d *FloatDeclaration) ByteOrder() ByteOrder { return d.spec.ByteOrder }

type FloatDefinition struct {
	definitionBase
	decl  *FloatDeclaration
	value float64
}

func newFloatDefinition(decl *FloatDeclaration, parent *Scope, name string, index int, rootName string) (*FloatDefinition, error) {
	decl.Ref()
	d := &FloatDefinition{
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

func (d *FloatDefinition) Declaration() Declaration {
	return d.decl
}

func (d *FloatDefinition) Value() float64 {
	return d.value
}

// SetValue stores v. Binary32 fields round it on write.
func (d *FloatDefinition) SetValue(v float64) {
	d.value = v
}

func (d *FloatDefinition) free() {
	d.decl.Unref()
}

func floatRW(cur Cursor, d *FloatDefinition) error {
	spec := d.decl.spec
	if spec.Bits != 32 && spec.Bits != 64 {
		return errors.New(errors.PhaseDecode, errors.KindUnsupported).
			Path(d.path...).
			TypeName(KindFloat.String()).
			Detail("float width %d", spec.Bits).
			Build()
	}
	if err := cur.Align(spec.Alignment); err != nil {
		return errors.WithPath(err, d.path)
	}
	if cur.Mode() == ModeWrite {
		var bits uint64
		if spec.Bits == 32 {
			bits = uint64(math.Float32bits(float32(d.value)))
		} else {
			bits = math.Float64bits(d.value)
		}
		return errors.WithPath(cur.WriteUnsigned(spec.Bits, spec.ByteOrder, bits), d.path)
	}
	bits, err := cur.ReadUnsigned(spec.Bits, spec.ByteOrder)
	if err != nil {
		return errors.WithPath(err, d.path)
	}
	if spec.Bits == 32 {
		d.value = float64(math.Float32frombits(uint32(bits)))
	} else {
		d.value = math.Float64frombits(bits)
	}
	return nil
}
