package types

import "github.com/wippyai/ctf-runtime/errors"

// StructField names a member declaration of a struct or a variant case.
type StructField struct {
	Declaration Declaration
	Name        string
}

type StructDeclaration struct {
	declarationBase
	scope  *DeclarationScope
	fields []StructField
}

// NewStructDeclaration takes a reference on every field declaration. parent is
// the enclosing declaration scope and may be nil.
func NewStructDeclaration(parent *DeclarationScope, fields ...StructField) *StructDeclaration {
	alignment := uint64(1)
	for _, f := range fields {
		f.Declaration.Ref()
		alignment = max(alignment, f.Declaration.Alignment())
	}
	d := &StructDeclaration{
		declarationBase: newDeclarationBase(KindStruct, alignment),
		scope:           NewDeclarationScope(parent),
		fields:          fields,
	}
	d.release = func() {
		d.scope.Release()
		for _, f := range d.fields {
			f.Declaration.Unref()
		}
	}
	return d
}

func (d *StructDeclaration) Fields() []StructField {
	return d.fields
}

// Scope returns the declaration scope nested in the struct.
func (d *StructDeclaration) Scope() *DeclarationScope {
	return d.scope
}

type StructDefinition struct {
	definitionBase
	decl   *StructDeclaration
	fields []Definition
}

func newStructDefinition(decl *StructDeclaration, parent *Scope, name string, index int, rootName string) (*StructDefinition, error) {
	decl.Ref()
	d := &StructDefinition{
		definitionBase: newDefinitionBase(parent, name, index, rootName),
		decl:           decl,
	}
	d.openScope()
	if err := d.register(d); err != nil {
		d.abandon(decl, false, err)
		return nil, err
	}
	d.fields = make([]Definition, 0, len(decl.fields))
	for i, f := range decl.fields {
		child, err := NewDefinition(f.Declaration, d.scope, f.Name, i, "")
		if err != nil {
			d.unrefFields()
			d.abandon(decl, true, err)
			return nil, err
		}
		d.fields = append(d.fields, child)
	}
	d.release = func() { releaseDefinition(d) }
	return d, nil
}

func (d *StructDefinition) Declaration() Declaration {
	return d.decl
}

// Fields returns the member definitions in declaration order.
func (d *StructDefinition) Fields() []Definition {
	return d.fields
}

// Field returns the member named name.
func (d *StructDefinition) Field(name string) (Definition, bool) {
	return d.scope.Lookup(name)
}

func (d *StructDefinition) unrefFields() {
	for i := len(d.fields) - 1; i >= 0; i-- {
		d.fields[i].Unref()
	}
	d.fields = nil
}

func (d *StructDefinition) free() {
	d.unrefFields()
	d.scope.Release()
	d.decl.Unref()
}

func structRW(cur Cursor, d *StructDefinition) error {
	if err := cur.Align(d.decl.alignment); err != nil {
		return errors.WithPath(err, d.path)
	}
	for _, f := range d.fields {
		if err := RW(cur, f); err != nil {
			return err
		}
	}
	return nil
}
