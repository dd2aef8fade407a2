// Package witschema exports CTF declarations as WebAssembly component model
// (WIT) types, so decoded records can cross a component boundary.
//
// Type mapping:
//
//	integer (1-64 bits)           u8, u16, u32, u64 or s8 .. s64, rounded up
//	float (32 or 64 bits)         f32, f64
//	string                        string
//	text sequence / text array    string
//	sequence<T>, array<T>         list<T>
//	struct                        record
//	enum                          enum
//	variant                       variant
//
// Field, label and case names are converted to kebab-case.
package witschema
