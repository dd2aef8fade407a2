// Package wasmmem exposes WebAssembly linear memory as a ctfruntime.Buffer.
//
// Trace data staged in a guest's memory can be decoded in place by wrapping
// the guest's api.Memory with New. Open creates a standalone memory when no
// guest module is involved.
//
// Linear memory only grows. Writes past the end grow it by whole pages;
// reads past the end fail.
package wasmmem
