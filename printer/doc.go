// Package printer renders decoded definitions as text, one root per line:
//
//	packet = { count = 3, values = [ [0] = 10, [1] = 20, [2] = 30 ] }
//	event = { id = ( "large" : container = 1 ), payload = { large = 3735928559 } }
//
// Text sequences and arrays print as quoted strings, enums as their label and
// raw value, and variants as the member selected by the last read. Colour is
// applied with lipgloss when the writer is a terminal, or always when forced.
package printer
