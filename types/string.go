package types

import (
	"bytes"

	"github.com/wippyai/ctf-runtime/errors"
)

// StringDeclaration describes a NUL-terminated string field.
type StringDeclaration struct {
	declarationBase
	encoding Encoding
}

func NewStringDeclaration(encoding Encoding) *StringDeclaration {
	return &StringDeclaration{
		declarationBase: newDeclarationBase(KindString, 8),
		encoding:        encoding,
	}
}

func (d *StringDeclaration) Encoding() Encoding {
	return d.encoding
}

type StringDefinition struct {
	definitionBase
	decl  *StringDeclaration
	value []byte
}

func newStringDefinition(decl *StringDeclaration, parent *Scope, name string, index int, rootName string) (*StringDefinition, error) {
	decl.Ref()
	d := &StringDefinition{
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

func (d *StringDefinition) Declaration() Declaration {
	return d.decl
}

func (d *StringDefinition) Value() string {
	return string(d.value)
}

// Bytes returns the string payload without its terminator.
func (d *StringDefinition) Bytes() []byte {
	return d.value
}

// SetValue replaces the payload, reusing the existing allocation when it fits.
func (d *StringDefinition) SetValue(s string) {
	d.value = append(d.value[:0], s...)
}

func (d *StringDefinition) free() {
	d.value = nil
	d.decl.Unref()
}

func stringRW(cur Cursor, d *StringDefinition) error {
	if err := cur.Align(8); err != nil {
		return errors.WithPath(err, d.path)
	}
	if cur.Mode() == ModeWrite {
		if bytes.IndexByte(d.value, 0) >= 0 {
			return errors.InvalidData(errors.PhaseEncode, d.path, "string payload contains NUL")
		}
		if err := cur.WriteBytes(d.value); err != nil {
			return errors.WithPath(err, d.path)
		}
		return errors.WithPath(cur.WriteBytes([]byte{0}), d.path)
	}
	d.value = d.value[:0]
	for {
		b, err := cur.ReadBytes(1)
		if err != nil {
			return errors.WithPath(err, d.path)
		}
		if b[0] == 0 {
			return nil
		}
		d.value = append(d.value, b[0])
	}
}
