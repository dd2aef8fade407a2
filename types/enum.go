package types

import (
	"github.com/wippyai/ctf-runtime/errors"
)

// EnumMapping maps the inclusive value range [Start, End] to Label.
type EnumMapping struct {
	Label string
	Start int64
	End   int64
}

type EnumDeclaration struct {
	declarationBase
	container *IntegerDeclaration
	mappings  []EnumMapping
}

// NewEnumDeclaration takes a reference on container.
func NewEnumDeclaration(container *IntegerDeclaration, mappings ...EnumMapping) *EnumDeclaration {
	container.Ref()
	d := &EnumDeclaration{
		declarationBase: newDeclarationBase(KindEnum, container.Alignment()),
		container:       container,
		mappings:        mappings,
	}
	d.release = func() { container.Unref() }
	return d
}

func (d *EnumDeclaration) Container() *IntegerDeclaration {
	return d.container
}

func (d *EnumDeclaration) Mappings() []EnumMapping {
	return d.mappings
}

// Labels returns the distinct labels in mapping order.
func (d *EnumDeclaration) Labels() []string {
	seen := make(map[string]struct{}, len(d.mappings))
	labels := make([]string, 0, len(d.mappings))
	for _, m := range d.mappings {
		if _, ok := seen[m.Label]; ok {
			continue
		}
		seen[m.Label] = struct{}{}
		labels = append(labels, m.Label)
	}
	return labels
}

func (d *EnumDeclaration) labelOf(def *IntegerDefinition) (string, bool) {
	if d.container.Signed() {
		v := def.Signed()
		for _, m := range d.mappings {
			if v >= m.Start && v <= m.End {
				return m.Label, true
			}
		}
		return "", false
	}
	v := def.Unsigned()
	for _, m := range d.mappings {
		if m.End < 0 {
			continue
		}
		if (m.Start < 0 || v >= uint64(m.Start)) && v <= uint64(m.End) {
			return m.Label, true
		}
	}
	return "", false
}

type EnumDefinition struct {
	definitionBase
	decl    *EnumDeclaration
	integer *IntegerDefinition
}

func newEnumDefinition(decl *EnumDeclaration, parent *Scope, name string, index int, rootName string) (*EnumDefinition, error) {
	decl.Ref()
	d := &EnumDefinition{
		definitionBase: newDefinitionBase(parent, name, index, rootName),
		decl:           decl,
	}
	if err := d.register(d); err != nil {
		d.abandon(decl, false, err)
		return nil, err
	}
	// The container shares the enum's path but is not registered anywhere.
	integer, err := newIntegerDefinition(decl.container, nil, name, index, Path(d.path).String())
	if err != nil {
		d.abandon(decl, true, err)
		return nil, err
	}
	d.integer = integer
	d.release = func() { releaseDefinition(d) }
	return d, nil
}

func (d *EnumDefinition) Declaration() Declaration {
	return d.decl
}

// Integer returns the container integer definition.
func (d *EnumDefinition) Integer() *IntegerDefinition {
	return d.integer
}

// Label returns the label mapped to the current value, or "" when unmapped.
func (d *EnumDefinition) Label() string {
	label, _ := d.decl.labelOf(d.integer)
	return label
}

// SetLabel stores the start of the first range mapped to label.
func (d *EnumDefinition) SetLabel(label string) error {
	for _, m := range d.decl.mappings {
		if m.Label == label {
			d.integer.SetSigned(m.Start)
			return nil
		}
	}
	return errors.New(errors.PhaseEncode, errors.KindInvalidInput).
		Path(d.path...).
		TypeName(KindEnum.String()).
		Value(label).
		Detail("no mapping for label %q", label).
		Build()
}

func (d *EnumDefinition) free() {
	d.integer.Unref()
	d.decl.Unref()
}

func enumRW(cur Cursor, d *EnumDefinition) error {
	return integerRW(cur, d.integer)
}
