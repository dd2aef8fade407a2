package types

import "github.com/wippyai/ctf-runtime/errors"

// DeclarationScope is a registry of named declarations (type aliases, named
// structs, variants and enums) chained to an enclosing registry.
// Registered declarations are held by reference until the scope is released.
type DeclarationScope struct {
	parent   *DeclarationScope
	decls    map[string]Declaration
	released bool
}

// NewDeclarationScope creates a registry nested in parent, which may be nil.
func NewDeclarationScope(parent *DeclarationScope) *DeclarationScope {
	return &DeclarationScope{
		parent: parent,
		decls:  make(map[string]Declaration),
	}
}

// Parent returns the enclosing registry.
func (s *DeclarationScope) Parent() *DeclarationScope {
	return s.parent
}

// Register adds decl under name and takes a reference on it.
func (s *DeclarationScope) Register(name string, decl Declaration) error {
	if s.released {
		return errors.InvalidInput(errors.PhaseDeclare, "register into released declaration scope")
	}
	if _, ok := s.decls[name]; ok {
		return errors.DuplicateDeclaration(name)
	}
	decl.Ref()
	s.decls[name] = decl
	return nil
}

// Lookup searches this registry and its ancestors. No reference is taken;
// callers keeping the declaration must Ref it.
func (s *DeclarationScope) Lookup(name string) (Declaration, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if decl, ok := cur.decls[name]; ok {
			return decl, true
		}
	}
	return nil, false
}

// Len returns the number of declarations registered directly in this scope.
func (s *DeclarationScope) Len() int {
	return len(s.decls)
}

// Release drops every held reference.
func (s *DeclarationScope) Release() {
	if s == nil || s.released {
		return
	}
	for _, decl := range s.decls {
		decl.Unref()
	}
	clear(s.decls)
	s.parent = nil
	s.released = true
}
