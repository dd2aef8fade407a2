// Package ctfruntime provides the runtime type layer of a Common Trace Format decoder.
//
// A trace schema is a tree of declarations (integer, float, enum, string, struct,
// array, sequence, variant). Declarations are shared and reference counted. Each
// occurrence of a declared field in a decode context is a definition: a live,
// scope-bound object holding decoded values. Definitions are built once and then
// read (or written) again for every record of the stream.
//
// # Architecture Overview
//
//	ctfruntime/          Root package with the Cursor and Buffer interfaces
//	├── stream/          Bit-addressed stream cursor over a Buffer
//	├── wasmmem/         Buffer backed by wazero linear memory
//	├── types/           Scopes, declarations, definitions and the rw dispatcher
//	├── trace/           Top-level decode context and record loop
//	├── witschema/       Export of declarations as WIT types
//	├── printer/         Text rendering of decoded definitions
//	├── config/          TOML configuration
//	└── errors/          Structured error types for debugging
//
// # Quick Start
//
//	count := types.NewIntegerDeclaration(types.IntegerSpec{Bits: 8})
//	elem := types.NewIntegerDeclaration(types.IntegerSpec{Bits: 32})
//	seq := types.NewSequenceDeclaration("count", elem, nil)
//	packet := types.NewStructDeclaration(nil,
//	    types.StructField{Name: "count", Declaration: count},
//	    types.StructField{Name: "values", Declaration: seq},
//	)
//
//	dec := trace.NewDecoder(stream.NewReader(stream.NewBytes(data)))
//	defer dec.Close()
//
//	root, err := dec.Bind("packet", packet)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for {
//	    if err := dec.Next(); err != nil {
//	        break
//	    }
//	    printer.New(os.Stdout).Print(root)
//	}
//
// # Reuse
//
// A sequence definition never shrinks its storage. Decoding a shorter record after
// a longer one keeps the surplus elements allocated; the current length is always
// the value of the referenced length field.
//
// # Thread Safety
//
// Nothing in this module is safe for concurrent use. Declarations, definitions,
// scopes and cursors belong to a single decoding goroutine.
package ctfruntime
