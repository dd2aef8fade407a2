package types

import (
	"math"
	"strings"

	"github.com/wippyai/ctf-runtime/errors"
)

// RootIndex is the ordering index of a root definition. It sorts after every
// sibling, so lookups leaving a root's scope see its parent fully populated.
const RootIndex = math.MaxInt

// Path is a field reference split into name segments.
type Path []string

// ParsePath splits a dotted field reference. Empty segments are dropped.
func ParsePath(s string) Path {
	parts := strings.Split(s, ".")
	path := make(Path, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			path = append(path, p)
		}
	}
	return path
}

func (p Path) String() string {
	return strings.Join(p, ".")
}

// Scope maps field names to the definitions registered in it and links to
// the enclosing scope for name resolution. The parent link does not own the parent.
type Scope struct {
	parent   *Scope
	fields   map[string]Definition
	order    []string
	path     []string
	index    int
	released bool
}

// NewRootScope creates a top-level scope with no parent.
func NewRootScope() *Scope {
	return newScope(nil, nil, RootIndex)
}

func newScope(parent *Scope, path []string, index int) *Scope {
	return &Scope{
		parent: parent,
		fields: make(map[string]Definition),
		path:   path,
		index:  index,
	}
}

// Parent returns the enclosing scope, nil at the root.
func (s *Scope) Parent() *Scope {
	return s.parent
}

// Path returns the field path of the definition owning this scope.
func (s *Scope) Path() []string {
	return s.path
}

// Len returns the number of registered fields.
func (s *Scope) Len() int {
	return len(s.order)
}

// Released reports whether the scope has been torn down.
func (s *Scope) Released() bool {
	return s.released
}

// Register adds def under name. A name can be registered once per scope.
func (s *Scope) Register(name string, def Definition) error {
	if s.released {
		return errors.InvalidInput(errors.PhaseConstruct, "register into released scope")
	}
	if _, ok := s.fields[name]; ok {
		return errors.DuplicateFieldName(s.path, name)
	}
	s.fields[name] = def
	s.order = append(s.order, name)
	return nil
}

func (s *Scope) unregister(name string) {
	if _, ok := s.fields[name]; !ok {
		return
	}
	delete(s.fields, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Lookup returns the definition registered under name in this scope only.
func (s *Scope) Lookup(name string) (Definition, bool) {
	def, ok := s.fields[name]
	return def, ok
}

// Fields returns the registered definitions in registration order.
func (s *Scope) Fields() []Definition {
	out := make([]Definition, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.fields[name])
	}
	return out
}

// Resolve finds the definition named by path. The first segment is searched in
// this scope, then in each ancestor; an ancestor field is visible only when it is
// ordered before the scope the search came from. Remaining segments descend
// through the scopes of the definitions found.
func (s *Scope) Resolve(path Path) (Definition, error) {
	if len(path) == 0 {
		return nil, errors.LookupFailed(s.path, "")
	}
	from := RootIndex
	for cur := s; cur != nil; cur = cur.parent {
		if def, ok := cur.fields[path[0]]; ok && (from == RootIndex || def.Order() < from) {
			return s.descend(def, path)
		}
		from = cur.index
	}
	return nil, errors.LookupFailed(s.path, path.String())
}

func (s *Scope) descend(def Definition, path Path) (Definition, error) {
	for _, name := range path[1:] {
		inner := def.Scope()
		if inner == nil {
			return nil, errors.LookupFailed(s.path, path.String())
		}
		next, ok := inner.fields[name]
		if !ok {
			return nil, errors.LookupFailed(s.path, path.String())
		}
		def = next
	}
	return def, nil
}

// Release tears the scope down. Registered definitions are not freed; their
// owners release them.
func (s *Scope) Release() {
	if s == nil || s.released {
		return
	}
	clear(s.fields)
	s.order = nil
	s.parent = nil
	s.released = true
}

func childPath(parent *Scope, name, rootName string) []string {
	if rootName != "" {
		return ParsePath(rootName)
	}
	if parent == nil {
		return []string{name}
	}
	path := make([]string, len(parent.path), len(parent.path)+1)
	copy(path, parent.path)
	return append(path, name)
}
