// Package errors provides structured error types for the ctf-runtime module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, declaration kind name, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindOutOfBounds).
//		Path("event", "fields", "payload").
//		TypeName("sequence").
//		Detail("length %d exceeds addressable size", n).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.LookupFailed(path, "len")
//	err := errors.CursorRead(offset, 32, cause)
//
// Construction errors are matched with the standard library against the
// exported sentinels:
//
//	if errors.Is(err, ctferrors.ErrSignedLengthField) { ... }
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
