package types

import "github.com/wippyai/ctf-runtime/errors"

// VariantHooks bracket the read or write of a variant's selected member.
// Begin runs before the member and End after it succeeds.
type VariantHooks interface {
	Begin(cur Cursor, decl *VariantDeclaration)
	End(cur Cursor, decl *VariantDeclaration)
}

// NoopHooks is the default VariantHooks.
type NoopHooks struct{}

func (NoopHooks) Begin(Cursor, *VariantDeclaration) {}
func (NoopHooks) End(Cursor, *VariantDeclaration)   {}

// VariantDeclaration is a tagged union selected by the label of an enum field.
type VariantDeclaration struct {
	declarationBase
	hooks   VariantHooks
	scope   *DeclarationScope
	tagPath Path
	cases   []StructField
}

// NewVariantDeclaration takes a reference on every case declaration. tag is
// the reference to the selecting enum field, resolved per definition.
func NewVariantDeclaration(tag string, parent *DeclarationScope, cases ...StructField) *VariantDeclaration {
	for _, c := range cases {
		c.Declaration.Ref()
	}
	d := &VariantDeclaration{
		declarationBase: newDeclarationBase(KindVariant, 1),
		hooks:           NoopHooks{},
		scope:           NewDeclarationScope(parent),
		tagPath:         ParsePath(tag),
		cases:           cases,
	}
	d.release = func() {
		d.scope.Release()
		for _, c := range d.cases {
			c.Declaration.Unref()
		}
	}
	return d
}

// SetHooks replaces the member hooks. Call it before building definitions.
func (d *VariantDeclaration) SetHooks(h VariantHooks) {
	if h == nil {
		h = NoopHooks{}
	}
	d.hooks = h
}

func (d *VariantDeclaration) TagPath() Path {
	return d.tagPath
}

func (d *VariantDeclaration) Cases() []StructField {
	return d.cases
}

func (d *VariantDeclaration) Scope() *DeclarationScope {
	return d.scope
}

func (d *VariantDeclaration) caseIndex(label string) int {
	for i, c := range d.cases {
		if c.Name == label {
			return i
		}
	}
	return -1
}

type VariantDefinition struct {
	definitionBase
	decl    *VariantDeclaration
	tag     *EnumDefinition
	cases   []Definition
	current int
}

func newVariantDefinition(decl *VariantDeclaration, parent *Scope, name string, index int, rootName string) (*VariantDefinition, error) {
	decl.Ref()
	d := &VariantDefinition{
		definitionBase: newDefinitionBase(parent, name, index, rootName),
		decl:           decl,
		current:        -1,
	}
	d.openScope()
	if err := d.register(d); err != nil {
		d.abandon(decl, false, err)
		return nil, err
	}

	found, err := d.scope.Resolve(decl.tagPath)
	if err != nil {
		d.abandon(decl, true, err)
		return nil, err
	}
	tag, ok := found.(*EnumDefinition)
	if !ok {
		err := errors.TypeMismatch(errors.PhaseConstruct, d.path, found.Declaration().Kind().String(),
			"variant tag "+decl.tagPath.String()+" must be an enum")
		d.abandon(decl, true, err)
		return nil, err
	}

	d.cases = make([]Definition, 0, len(decl.cases))
	for i, c := range decl.cases {
		child, err := NewDefinition(c.Declaration, d.scope, c.Name, i, "")
		if err != nil {
			d.unrefCases()
			d.abandon(decl, true, err)
			return nil, err
		}
		d.cases = append(d.cases, child)
	}
	tag.Ref()
	d.tag = tag
	d.release = func() { releaseDefinition(d) }
	return d, nil
}

func (d *VariantDefinition) Declaration() Declaration {
	return d.decl
}

// Tag returns the resolved selecting enum.
func (d *VariantDefinition) Tag() *EnumDefinition {
	return d.tag
}

// Selected returns the member chosen by the last read or write.
func (d *VariantDefinition) Selected() (Definition, bool) {
	if d.current < 0 {
		return nil, false
	}
	return d.cases[d.current], true
}

// Case returns the member definition for the named case.
func (d *VariantDefinition) Case(name string) (Definition, bool) {
	i := d.decl.caseIndex(name)
	if i < 0 {
		return nil, false
	}
	return d.cases[i], true
}

func (d *VariantDefinition) unrefCases() {
	for i := len(d.cases) - 1; i >= 0; i-- {
		d.cases[i].Unref()
	}
	d.cases = nil
}

func (d *VariantDefinition) free() {
	d.unrefCases()
	d.tag.Unref()
	d.scope.Release()
	d.decl.Unref()
}

func variantRW(cur Cursor, d *VariantDefinition) error {
	label := d.tag.Label()
	i := d.decl.caseIndex(label)
	if i < 0 {
		phase := errors.PhaseDecode
		if cur.Mode() == ModeWrite {
			phase = errors.PhaseEncode
		}
		return errors.InvalidVariant(phase, d.path, label)
	}
	d.current = i
	d.decl.hooks.Begin(cur, d.decl)
	if err := RW(cur, d.cases[i]); err != nil {
		return err
	}
	d.decl.hooks.End(cur, d.decl)
	return nil
}
