package types

import (
	"bytes"
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/wippyai/ctf-runtime/errors"
	"github.com/wippyai/ctf-runtime/internal/bitfield"
)

// maxLength bounds element counts to what a slice can index.
const maxLength = math.MaxInt32

// SequenceDeclaration describes a run of elements whose count is the current
// value of another, earlier field.
type SequenceDeclaration struct {
	declarationBase
	elem       Declaration
	scope      *DeclarationScope
	lengthPath Path
}

// NewSequenceDeclaration parses lengthField into a path and takes a reference
// on elem. Nothing is resolved until a definition is built. parent is the
// enclosing declaration scope and may be nil.
func NewSequenceDeclaration(lengthField string, elem Declaration, parent *DeclarationScope) *SequenceDeclaration {
	elem.Ref()
	d := &SequenceDeclaration{
		declarationBase: newDeclarationBase(KindSequence, elem.Alignment()),
		elem:            elem,
		scope:           NewDeclarationScope(parent),
		lengthPath:      ParsePath(lengthField),
	}
	d.release = func() {
		d.scope.Release()
		d.elem.Unref()
	}
	return d
}

// LengthPath returns the reference to the field holding the element count.
func (d *SequenceDeclaration) LengthPath() Path {
	return d.lengthPath
}

func (d *SequenceDeclaration) Element() Declaration {
	return d.elem
}

func (d *SequenceDeclaration) Scope() *DeclarationScope {
	return d.scope
}

// SequenceDefinition holds either one child definition per element or, for
// 8-bit text elements, a byte buffer. Storage only grows across decodes; the
// current length is always the value of the length field.
type SequenceDefinition struct {
	definitionBase
	decl   *SequenceDeclaration
	length *IntegerDefinition
	elems  []Definition
	text   []byte
	isText bool
}

func newSequenceDefinition(decl *SequenceDeclaration, parent *Scope, name string, index int, rootName string) (*SequenceDefinition, error) {
	decl.Ref()
	d := &SequenceDefinition{
		definitionBase: newDefinitionBase(parent, name, index, rootName),
		decl:           decl,
	}
	d.openScope()
	if err := d.register(d); err != nil {
		d.abandon(decl, false, err)
		return nil, err
	}

	found, err := d.scope.Resolve(decl.lengthPath)
	if err != nil {
		d.abandon(decl, true, err)
		return nil, err
	}
	length, ok := found.(*IntegerDefinition)
	if !ok {
		err := errors.TypeMismatch(errors.PhaseConstruct, d.path, found.Declaration().Kind().String(),
			"sequence length field "+decl.lengthPath.String()+" must be an integer")
		d.abandon(decl, true, err)
		return nil, err
	}
	if length.decl.Signed() {
		err := errors.SignedLengthField(d.path, decl.lengthPath.String())
		d.abandon(decl, true, err)
		return nil, err
	}
	length.Ref()
	d.length = length

	if isTextElement(decl.elem) {
		d.isText = true
		d.text = []byte{}
	}
	d.release = func() { releaseDefinition(d) }
	return d, nil
}

func (d *SequenceDefinition) Declaration() Declaration {
	return d.decl
}

// LengthField returns the resolved definition supplying the element count.
func (d *SequenceDefinition) LengthField() *IntegerDefinition {
	return d.length
}

// Len returns the current element count.
func (d *SequenceDefinition) Len() uint64 {
	return d.length.Unsigned()
}

// Capacity returns the storage retained for reuse: materialized child
// definitions, or the text buffer allocation.
func (d *SequenceDefinition) Capacity() int {
	if d.isText {
		return cap(d.text)
	}
	return len(d.elems)
}

// IsString reports whether elements are held as a byte buffer.
func (d *SequenceDefinition) IsString() bool {
	return d.isText
}

// Index returns element i. It is absent in text mode and for i >= Len.
func (d *SequenceDefinition) Index(i uint64) (Definition, bool) {
	if d.isText || i >= d.Len() || i >= uint64(len(d.elems)) {
		return nil, false
	}
	return d.elems[i], true
}

// Elements returns the elements below the current length.
func (d *SequenceDefinition) Elements() []Definition {
	n := min(d.Len(), uint64(len(d.elems)))
	return d.elems[:n]
}

// Bytes returns the text payload below the current length.
func (d *SequenceDefinition) Bytes() []byte {
	n := min(d.Len(), uint64(len(d.text)))
	return d.text[:n]
}

// String returns the text payload up to the first NUL.
func (d *SequenceDefinition) String() string {
	return cString(d.Bytes())
}

// SetBytes replaces a text payload and stores its length in the length field.
func (d *SequenceDefinition) SetBytes(p []byte) error {
	if !d.isText {
		return errors.TypeMismatch(errors.PhaseEncode, d.path, KindSequence.String(), "sequence elements are not text")
	}
	n := uint64(len(p))
	if limit := min(bitfield.Mask(math.MaxUint64, d.length.decl.Bits()), maxLength); n > limit {
		return errors.OutOfBounds(errors.PhaseEncode, d.path, n, limit)
	}
	d.growText(len(p))
	copy(d.text, p)
	d.length.SetUnsigned(n)
	return nil
}

// Materialize builds child definitions up to n elements without reading them,
// so their values can be set before an encode.
func (d *SequenceDefinition) Materialize(n uint64) error {
	if d.isText {
		return errors.TypeMismatch(errors.PhaseEncode, d.path, KindSequence.String(), "text sequences have no element definitions")
	}
	if n > maxLength {
		return errors.OutOfBounds(errors.PhaseEncode, d.path, n, maxLength)
	}
	d.reserve(int(n))
	for i := len(d.elems); i < int(n); i++ {
		if _, err := d.materialize(i); err != nil {
			return err
		}
	}
	return nil
}

func (d *SequenceDefinition) reserve(n int) {
	if c := len(d.elems); c < n {
		d.elems = slices.Grow(d.elems, n-c)
		Logger().Debug("sequence grown",
			zap.String("path", Path(d.path).String()),
			zap.Int("from", c),
			zap.Int("to", n))
	}
}

func (d *SequenceDefinition) materialize(i int) (Definition, error) {
	child, err := NewDefinition(d.decl.elem, d.scope, indexName(i), i, "")
	if err != nil {
		return nil, err
	}
	d.elems = append(d.elems, child)
	return child, nil
}

func (d *SequenceDefinition) growText(n int) {
	if cap(d.text) < n {
		grown := make([]byte, n)
		copy(grown, d.text)
		d.text = grown
		return
	}
	d.text = d.text[:n]
}

func (d *SequenceDefinition) free() {
	for i := len(d.elems) - 1; i >= 0; i-- {
		d.elems[i].Unref()
	}
	d.elems = nil
	d.text = nil
	d.length.Unref()
	d.scope.Release()
	d.decl.Unref()
}

func sequenceRW(cur Cursor, d *SequenceDefinition) error {
	if err := cur.Align(d.decl.alignment); err != nil {
		return errors.WithPath(err, d.path)
	}
	n := d.length.Unsigned()
	if n > maxLength {
		phase := errors.PhaseDecode
		if cur.Mode() == ModeWrite {
			phase = errors.PhaseEncode
		}
		return errors.OutOfBounds(phase, d.path, n, maxLength)
	}
	length := int(n)

	if d.isText {
		return d.rwText(cur, length)
	}

	d.reserve(length)
	for i := 0; i < length; i++ {
		elem, err := d.element(i)
		if err != nil {
			return err
		}
		if err := RW(cur, elem); err != nil {
			return err
		}
	}
	return nil
}

// element returns child i, building it when it was never materialized.
func (d *SequenceDefinition) element(i int) (Definition, error) {
	if i < len(d.elems) {
		return d.elems[i], nil
	}
	return d.materialize(i)
}

func (d *SequenceDefinition) rwText(cur Cursor, length int) error {
	if cur.Mode() == ModeWrite {
		if length > len(d.text) {
			return errors.OutOfBounds(errors.PhaseEncode, d.path, uint64(length), uint64(len(d.text)))
		}
		return errors.WithPath(cur.WriteBytes(d.text[:length]), d.path)
	}
	data, err := cur.ReadBytes(uint64(length))
	if err != nil {
		return errors.WithPath(err, d.path)
	}
	d.growText(length)
	copy(d.text, data)
	return nil
}

func cString(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
