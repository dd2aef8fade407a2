// Package stream implements the stream position cursor.
//
// Pos tracks a bit offset into a ctfruntime.Buffer and reads or writes
// integers of 1 to 64 bits at any offset, in either byte order. Byte runs
// (string payloads, text sequences) require a byte-aligned offset.
//
// Read failures are reported as errors.ErrCursorReadFailed and write failures
// as errors.ErrCursorWriteFailed; both carry the bit offset of the failure.
//
// A Pos is not safe for concurrent use.
package stream
