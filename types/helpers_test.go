package types

import (
	"encoding/binary"
	"testing"

	"github.com/wippyai/ctf-runtime/stream"
)

func newTestReader(data ...byte) *stream.Pos {
	return stream.NewReader(stream.NewBytes(data))
}

func le32(vals ...uint32) []byte {
	out := make([]byte, 0, 4*len(vals))
	for _, v := range vals {
		out = binary.LittleEndian.AppendUint32(out, v)
	}
	return out
}

func u8Decl() *IntegerDeclaration {
	return NewIntegerDeclaration(IntegerSpec{Bits: 8})
}

func u32Decl() *IntegerDeclaration {
	return NewIntegerDeclaration(IntegerSpec{Bits: 32})
}

func textDecl() *IntegerDeclaration {
	return NewIntegerDeclaration(IntegerSpec{Bits: 8, Encoding: EncodingUTF8})
}

// packetDecl is struct { count: length; values: sequence<elem>[count] }.
func packetDecl(length, elem Declaration) *StructDeclaration {
	seq := NewSequenceDeclaration("count", elem, nil)
	decl := NewStructDeclaration(nil,
		StructField{Name: "count", Declaration: length},
		StructField{Name: "values", Declaration: seq},
	)
	seq.Unref()
	return decl
}

func mustDefine(t *testing.T, decl Declaration, scope *Scope, name string) Definition {
	t.Helper()
	def, err := NewDefinition(decl, scope, name, 0, "")
	if err != nil {
		t.Fatalf("NewDefinition(%s): %v", name, err)
	}
	return def
}

func mustRW(t *testing.T, cur Cursor, def Definition) {
	t.Helper()
	if err := RW(cur, def); err != nil {
		t.Fatalf("RW(%s): %v", def.Name(), err)
	}
}

func field[T Definition](t *testing.T, s *StructDefinition, name string) T {
	t.Helper()
	def, ok := s.Field(name)
	if !ok {
		t.Fatalf("field %q missing", name)
	}
	typed, ok := def.(T)
	if !ok {
		t.Fatalf("field %q is %T", name, def)
	}
	return typed
}
