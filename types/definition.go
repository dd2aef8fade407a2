package types

import (
	"strconv"

	"go.uber.org/zap"
)

// Definition is a live, scope-bound instance of a declaration holding decoded values.
// A definition is built once and read or written any number of times.
type Definition interface {
	Declaration() Declaration
	Name() string
	// Order is the ordering index within the enclosing scope.
	Order() int
	// Path is the field path from the root of the decode context.
	Path() []string
	// Scope returns the definition's own scope, nil for scalar kinds.
	Scope() *Scope
	Ref()
	Unref()
	RefCount() int
}

type definitionBase struct {
	refCount
	parent *Scope
	scope  *Scope
	name   string
	path   []string
	index  int
}

func newDefinitionBase(parent *Scope, name string, index int, rootName string) definitionBase {
	if rootName != "" {
		index = RootIndex
	}
	return definitionBase{
		refCount: newRefCount(),
		parent:   parent,
		name:     name,
		index:    index,
		path:     childPath(parent, name, rootName),
	}
}

func (d *definitionBase) Name() string {
	return d.name
}

func (d *definitionBase) Order() int {
	return d.index
}

func (d *definitionBase) Path() []string {
	return d.path
}

func (d *definitionBase) Scope() *Scope {
	return d.scope
}

// openScope builds the definition's own scope chained to its parent.
func (d *definitionBase) openScope() {
	d.scope = newScope(d.parent, d.path, d.index)
}

// register adds def to the parent scope, if any.
func (d *definitionBase) register(def Definition) error {
	if d.parent == nil {
		return nil
	}
	return d.parent.Register(d.name, def)
}

// detach removes def from the parent scope when it is still the entry registered
// under its name.
func (d *definitionBase) detach(def Definition) {
	if d.parent == nil || d.parent.released {
		return
	}
	if cur, ok := d.parent.fields[d.name]; ok && cur == def {
		d.parent.unregister(d.name)
	}
}

// abandon undoes a partially built definition: it removes the parent scope
// registration, releases the own scope and drops the declaration reference.
func (d *definitionBase) abandon(decl Declaration, registered bool, err error) {
	if registered && d.parent != nil {
		d.parent.unregister(d.name)
	}
	d.scope.Release()
	decl.Unref()
	d.refCount.n = 0
	Logger().Debug("definition construction failed",
		zap.String("path", Path(d.path).String()),
		zap.Stringer("kind", decl.Kind()),
		zap.Error(err))
}

func indexName(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}
