// Package trace is the top-level decode context of a CTF stream.
//
// A Decoder owns the root scope. Each bound root declaration becomes one
// root definition, built once and processed again on every call to Next:
//
//	dec := trace.NewDecoder(stream.NewReader(buf))
//	defer dec.Close()
//
//	header, _ := dec.Bind("header", headerDecl)
//	event, _ := dec.Bind("event", eventDecl)
//	for {
//	    err := dec.Next()
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    ...
//	}
//
// Root definitions take the maximal ordering index, so a field of one root
// can refer to any root bound before it, e.g. a sequence length of
// "header.len" inside the event root.
package trace
