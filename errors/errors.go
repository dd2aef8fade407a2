package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDeclare   Phase = "declare"   // declaration construction
	PhaseConstruct Phase = "construct" // definition instantiation
	PhaseDecode    Phase = "decode"    // stream to definitions
	PhaseEncode    Phase = "encode"    // definitions to stream
	PhaseConfig    Phase = "config"    // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindLookupFailed      Kind = "lookup_failed"
	KindSignedLength      Kind = "signed_length_field"
	KindDuplicateField    Kind = "duplicate_field_name"
	KindCursorReadFailed  Kind = "cursor_read_failed"
	KindCursorWriteFailed Kind = "cursor_write_failed"
	KindTypeMismatch      Kind = "type_mismatch"
	KindOutOfBounds       Kind = "out_of_bounds"
	KindInvalidData       Kind = "invalid_data"
	KindInvalidVariant    Kind = "invalid_variant"
	KindUnsupported       Kind = "unsupported"
	KindInvalidInput      Kind = "invalid_input"
)

// Sentinels for errors.Is. Matching compares Phase and Kind only.
var (
	ErrLookupFailed         = &Error{Phase: PhaseConstruct, Kind: KindLookupFailed}
	ErrSignedLengthField    = &Error{Phase: PhaseConstruct, Kind: KindSignedLength}
	ErrDuplicateFieldName   = &Error{Phase: PhaseConstruct, Kind: KindDuplicateField}
	ErrDuplicateDeclaration = &Error{Phase: PhaseDeclare, Kind: KindDuplicateField}
	ErrCursorReadFailed     = &Error{Phase: PhaseDecode, Kind: KindCursorReadFailed}
	ErrCursorWriteFailed    = &Error{Phase: PhaseEncode, Kind: KindCursorWriteFailed}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	TypeName string
	Detail   string
	Path     []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.TypeName != "" {
		b.WriteString(": type ")
		b.WriteString(e.TypeName)
	}

	if e.Detail != "" {
		if e.TypeName != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// TypeName sets the declaration kind name
func (b *Builder) TypeName(t string) *Builder {
	b.err.TypeName = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// LookupFailed creates an error for a field reference that did not resolve
func LookupFailed(path []string, target string) *Error {
	return &Error{
		Phase:  PhaseConstruct,
		Kind:   KindLookupFailed,
		Path:   path,
		Detail: fmt.Sprintf("field %q not found in any enclosing scope", target),
	}
}

// SignedLengthField creates an error for a sequence length field that is signed
func SignedLengthField(path []string, target string) *Error {
	return &Error{
		Phase:  PhaseConstruct,
		Kind:   KindSignedLength,
		Path:   path,
		Detail: fmt.Sprintf("length field %q must be unsigned", target),
	}
}

// DuplicateFieldName creates a registration collision error
func DuplicateFieldName(path []string, name string) *Error {
	return &Error{
		Phase:  PhaseConstruct,
		Kind:   KindDuplicateField,
		Path:   path,
		Detail: fmt.Sprintf("field %q already registered in scope", name),
		Value:  name,
	}
}

// DuplicateDeclaration creates a declaration scope collision error
func DuplicateDeclaration(name string) *Error {
	return &Error{
		Phase:  PhaseDeclare,
		Kind:   KindDuplicateField,
		Detail: fmt.Sprintf("declaration %q already registered in scope", name),
		Value:  name,
	}
}

// TypeMismatch creates an error for a resolved field of the wrong kind
func TypeMismatch(phase Phase, path []string, typeName, detail string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Path:     path,
		TypeName: typeName,
		Detail:   detail,
	}
}

// CursorRead creates a stream read failure at a bit offset
func CursorRead(offset uint64, bits uint64, cause error) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindCursorReadFailed,
		Detail: fmt.Sprintf("read %d bits at bit offset %d", bits, offset),
		Value:  offset,
		Cause:  cause,
	}
}

// CursorWrite creates a stream write failure at a bit offset
func CursorWrite(offset uint64, bits uint64, cause error) *Error {
	return &Error{
		Phase:  PhaseEncode,
		Kind:   KindCursorWriteFailed,
		Detail: fmt.Sprintf("write %d bits at bit offset %d", bits, offset),
		Value:  offset,
		Cause:  cause,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// InvalidVariant creates an error for a variant tag with no matching case
func InvalidVariant(phase Phase, path []string, label string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidVariant,
		Path:   path,
		Detail: fmt.Sprintf("no variant case for tag %q", label),
		Value:  label,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// WithPath returns err with its path set when it is an *Error without one.
// Other errors are returned unchanged.
func WithPath(err error, path []string) error {
	e, ok := err.(*Error)
	if !ok || len(e.Path) > 0 {
		return err
	}
	cp := *e
	cp.Path = path
	return &cp
}
