package types

import (
	"errors"
	"math"
	"testing"

	ctfruntime "github.com/wippyai/ctf-runtime"
	ctferrors "github.com/wippyai/ctf-runtime/errors"
	"github.com/wippyai/ctf-runtime/stream"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind   Kind
		name   string
		scalar bool
	}{
		{KindInteger, "integer", true},
		{KindFloat, "float", true},
		{KindEnum, "enum", true},
		{KindString, "string", true},
		{KindStruct, "struct", false},
		{KindVariant, "variant", false},
		{KindArray, "array", false},
		{KindSequence, "sequence", false},
		{Kind(99), "unknown", false},
	}
	for _, tc := range tests {
		if tc.kind.String() != tc.name {
			t.Errorf("Kind(%d).String() = %q, want %q", tc.kind, tc.kind.String(), tc.name)
		}
		if tc.kind.IsScalar() != tc.scalar {
			t.Errorf("%s.IsScalar() = %v", tc.name, tc.kind.IsScalar())
		}
	}
}

func TestInteger_Signed(t *testing.T) {
	tests := []struct {
		name     string
		spec     IntegerSpec
		data     []byte
		unsigned uint64
		signed   int64
	}{
		{"u8", IntegerSpec{Bits: 8}, []byte{0xFF}, 0xFF, -1},
		{"s8", IntegerSpec{Bits: 8, Signed: true}, []byte{0x80}, 0x80, -128},
		{"s16 be", IntegerSpec{Bits: 16, Signed: true, ByteOrder: ctfruntime.BigEndian}, []byte{0xFF, 0xFE}, 0xFFFE, -2},
		{"u32 le", IntegerSpec{Bits: 32}, le32(0x12345678), 0x12345678, 0x12345678},
		{"s64", IntegerSpec{Bits: 64, Signed: true}, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, math.MaxUint64, -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			def := mustDefine(t, NewIntegerDeclaration(tc.spec), NewRootScope(), "v").(*IntegerDefinition)
			mustRW(t, newTestReader(tc.data...), def)
			if def.Unsigned() != tc.unsigned {
				t.Errorf("Unsigned() = %#x, want %#x", def.Unsigned(), tc.unsigned)
			}
			if def.Signed() != tc.signed {
				t.Errorf("Signed() = %d, want %d", def.Signed(), tc.signed)
			}
		})
	}
}

func TestInteger_Bitfields(t *testing.T) {
	tests := []struct {
		name  string
		order ByteOrder
		a, b  uint64
	}{
		{"little endian", ctfruntime.LittleEndian, 0b011, 0b10101},
		{"big endian", ctfruntime.BigEndian, 0b101, 0b01011},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decl := NewStructDeclaration(nil,
				StructField{Name: "a", Declaration: NewIntegerDeclaration(IntegerSpec{Bits: 3, ByteOrder: tc.order})},
				StructField{Name: "b", Declaration: NewIntegerDeclaration(IntegerSpec{Bits: 5, ByteOrder: tc.order})},
			)
			if decl.Alignment() != 1 {
				t.Errorf("alignment = %d, want 1", decl.Alignment())
			}
			s := mustDefine(t, decl, NewRootScope(), "bits").(*StructDefinition)
			cur := newTestReader(0b10101011)
			mustRW(t, cur, s)

			if got := field[*IntegerDefinition](t, s, "a").Unsigned(); got != tc.a {
				t.Errorf("a = %#b, want %#b", got, tc.a)
			}
			if got := field[*IntegerDefinition](t, s, "b").Unsigned(); got != tc.b {
				t.Errorf("b = %#b, want %#b", got, tc.b)
			}
			if cur.Offset() != 8 {
				t.Errorf("offset = %d, want 8", cur.Offset())
			}
		})
	}
}

func TestInteger_AlignmentPadding(t *testing.T) {
	decl := NewStructDeclaration(nil,
		StructField{Name: "flag", Declaration: NewIntegerDeclaration(IntegerSpec{Bits: 3})},
		StructField{Name: "value", Declaration: u8Decl()},
	)
	s := mustDefine(t, decl, NewRootScope(), "rec").(*StructDefinition)
	cur := newTestReader(0x05, 0x42)
	mustRW(t, cur, s)

	if got := field[*IntegerDefinition](t, s, "flag").Unsigned(); got != 5 {
		t.Errorf("flag = %d, want 5", got)
	}
	if got := field[*IntegerDefinition](t, s, "value").Unsigned(); got != 0x42 {
		t.Errorf("value = %#x, want 0x42", got)
	}
	if cur.Offset() != 16 {
		t.Errorf("offset = %d, want 16", cur.Offset())
	}
}

func TestInteger_SetTruncates(t *testing.T) {
	def := mustDefine(t, NewIntegerDeclaration(IntegerSpec{Bits: 4, Signed: true}), NewRootScope(), "n").(*IntegerDefinition)

	def.SetUnsigned(0xFF)
	if def.Unsigned() != 0xF {
		t.Errorf("Unsigned() = %#x, want 0xf", def.Unsigned())
	}
	def.SetSigned(-3)
	if def.Unsigned() != 0xD || def.Signed() != -3 {
		t.Errorf("after SetSigned(-3): raw %#x signed %d", def.Unsigned(), def.Signed())
	}
}

func TestFloat_RW(t *testing.T) {
	tests := []struct {
		name  string
		spec  FloatSpec
		value float64
	}{
		{"binary32 le", FloatSpec{Bits: 32}, 1.5},
		{"binary64 be", FloatSpec{Bits: 64, ByteOrder: ctfruntime.BigEndian}, -2.25},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			decl := NewFloatDeclaration(tc.spec)
			out := mustDefine(t, decl, NewRootScope(), "f").(*FloatDefinition)
			out.SetValue(tc.value)

			buf := stream.NewBytes(nil)
			mustRW(t, stream.NewWriter(buf), out)
			if len(buf.Bytes()) != int(tc.spec.Bits/8) {
				t.Fatalf("encoded %d bytes, want %d", len(buf.Bytes()), tc.spec.Bits/8)
			}

			in := mustDefine(t, decl, NewRootScope(), "f").(*FloatDefinition)
			mustRW(t, stream.NewReader(buf), in)
			if in.Value() != tc.value {
				t.Errorf("decoded %v, want %v", in.Value(), tc.value)
			}
		})
	}
}

func TestFloat_UnsupportedWidth(t *testing.T) {
	def := mustDefine(t, NewFloatDeclaration(FloatSpec{Bits: 16}), NewRootScope(), "half")
	err := RW(newTestReader(0, 0), def)
	var e *ctferrors.Error
	if !errors.As(err, &e) || e.Kind != ctferrors.KindUnsupported {
		t.Errorf("err = %v, want unsupported", err)
	}
}

func TestEnum_Labels(t *testing.T) {
	decl := NewEnumDeclaration(u8Decl(),
		EnumMapping{Label: "idle", Start: 0, End: 0},
		EnumMapping{Label: "busy", Start: 1, End: 9},
		EnumMapping{Label: "idle", Start: 200, End: 200},
	)
	if labels := decl.Labels(); len(labels) != 2 || labels[0] != "idle" || labels[1] != "busy" {
		t.Errorf("Labels() = %v", labels)
	}

	def := mustDefine(t, decl, NewRootScope(), "state").(*EnumDefinition)
	if Path(def.Integer().Path()).String() != "state" {
		t.Errorf("container path = %v, want state", def.Integer().Path())
	}

	cur := newTestReader(5, 200, 42)
	for _, want := range []string{"busy", "idle", ""} {
		mustRW(t, cur, def)
		if def.Label() != want {
			t.Errorf("label = %q, want %q (value %d)", def.Label(), want, def.Integer().Unsigned())
		}
	}

	if err := def.SetLabel("busy"); err != nil {
		t.Fatal(err)
	}
	if def.Integer().Unsigned() != 1 {
		t.Errorf("SetLabel(busy) stored %d, want 1", def.Integer().Unsigned())
	}
	err := def.SetLabel("gone")
	var e *ctferrors.Error
	if !errors.As(err, &e) || e.Kind != ctferrors.KindInvalidInput {
		t.Errorf("err = %v, want invalid input", err)
	}
}

func TestEnum_SignedContainer(t *testing.T) {
	container := NewIntegerDeclaration(IntegerSpec{Bits: 8, Signed: true})
	decl := NewEnumDeclaration(container,
		EnumMapping{Label: "neg", Start: -10, End: -1},
		EnumMapping{Label: "zero", Start: 0, End: 0},
	)
	def := mustDefine(t, decl, NewRootScope(), "sign").(*EnumDefinition)

	mustRW(t, newTestReader(0xFB), def)
	if def.Label() != "neg" {
		t.Errorf("label = %q, want neg", def.Label())
	}
	if err := def.SetLabel("neg"); err != nil {
		t.Fatal(err)
	}
	if def.Integer().Signed() != -10 {
		t.Errorf("stored %d, want -10", def.Integer().Signed())
	}
}

func TestString_RW(t *testing.T) {
	decl := NewStructDeclaration(nil,
		StructField{Name: "first", Declaration: NewStringDeclaration(EncodingUTF8)},
		StructField{Name: "second", Declaration: NewStringDeclaration(EncodingASCII)},
	)
	s := mustDefine(t, decl, NewRootScope(), "names").(*StructDefinition)
	mustRW(t, newTestReader([]byte("ab\x00\x00")...), s)

	if got := field[*StringDefinition](t, s, "first").Value(); got != "ab" {
		t.Errorf("first = %q, want ab", got)
	}
	if got := field[*StringDefinition](t, s, "second").Value(); got != "" {
		t.Errorf("second = %q, want empty", got)
	}

	field[*StringDefinition](t, s, "second").SetValue("xyz")
	buf := stream.NewBytes(nil)
	mustRW(t, stream.NewWriter(buf), s)
	if string(buf.Bytes()) != "ab\x00xyz\x00" {
		t.Errorf("encoded %q", buf.Bytes())
	}

	field[*StringDefinition](t, s, "first").SetValue("a\x00b")
	err := RW(stream.NewWriter(stream.NewBytes(nil)), s)
	var e *ctferrors.Error
	if !errors.As(err, &e) || e.Kind != ctferrors.KindInvalidData {
		t.Errorf("err = %v, want invalid data", err)
	}
}

func TestString_Unterminated(t *testing.T) {
	def := mustDefine(t, NewStringDeclaration(EncodingUTF8), NewRootScope(), "s")
	if err := RW(newTestReader('a', 'b'), def); !errors.Is(err, ctferrors.ErrCursorReadFailed) {
		t.Errorf("err = %v, want cursor read failure", err)
	}
}

func TestArray_Text(t *testing.T) {
	decl := NewArrayDeclaration(4, textDecl(), nil)
	def := mustDefine(t, decl, NewRootScope(), "tag").(*ArrayDefinition)

	if !def.IsString() || def.Len() != 4 {
		t.Fatalf("IsString = %v, Len = %d", def.IsString(), def.Len())
	}
	mustRW(t, newTestReader('h', 'i', 0, 'x'), def)
	if def.String() != "hi" {
		t.Errorf("String() = %q, want hi", def.String())
	}
	if _, ok := def.Index(0); ok {
		t.Error("Index is not applicable to text arrays")
	}

	if err := def.SetBytes([]byte("ok")); err != nil {
		t.Fatal(err)
	}
	buf := stream.NewBytes(nil)
	mustRW(t, stream.NewWriter(buf), def)
	if string(buf.Bytes()) != "ok\x00\x00" {
		t.Errorf("encoded %q", buf.Bytes())
	}

	err := def.SetBytes([]byte("toolong"))
	var e *ctferrors.Error
	if !errors.As(err, &e) || e.Kind != ctferrors.KindOutOfBounds {
		t.Errorf("err = %v, want out of bounds", err)
	}
}

func TestArray_Elements(t *testing.T) {
	decl := NewArrayDeclaration(3, u8Decl(), nil)
	def := mustDefine(t, decl, NewRootScope(), "triple").(*ArrayDefinition)

	if def.IsString() {
		t.Fatal("plain bytes must not use text mode")
	}
	if def.Scope().Len() != 3 {
		t.Fatalf("elements are built at construction: scope has %d", def.Scope().Len())
	}
	mustRW(t, newTestReader(7, 8, 9), def)
	for i, want := range []uint64{7, 8, 9} {
		elem, ok := def.Index(uint64(i))
		if !ok {
			t.Fatalf("Index(%d) absent", i)
		}
		if got := elem.(*IntegerDefinition).Unsigned(); got != want {
			t.Errorf("element %d = %d, want %d", i, got, want)
		}
	}
	if _, ok := def.Index(3); ok {
		t.Error("Index(3) should be absent")
	}
	if err := def.SetBytes([]byte{1}); err == nil {
		t.Error("SetBytes on an element array should fail")
	}
}

type foreignDecl struct{ refCount }

func (foreignDecl) Kind() Kind        { return KindUnknown }
func (foreignDecl) Alignment() uint64 { return 1 }

func TestDispatch_Rejects(t *testing.T) {
	root := NewRootScope()

	_, err := NewDefinition(nil, root, "x", 0, "")
	var e *ctferrors.Error
	if !errors.As(err, &e) || e.Kind != ctferrors.KindInvalidInput {
		t.Errorf("nil declaration: err = %v, want invalid input", err)
	}

	_, err = NewDefinition(&foreignDecl{refCount: newRefCount()}, root, "x", 0, "")
	if !errors.As(err, &e) || e.Kind != ctferrors.KindUnsupported {
		t.Errorf("foreign declaration: err = %v, want unsupported", err)
	}

	err = RW(newTestReader(), nil)
	if !errors.As(err, &e) || e.Kind != ctferrors.KindInvalidInput {
		t.Errorf("nil definition: err = %v, want invalid input", err)
	}
	if root.Len() != 0 {
		t.Errorf("scope has %d fields, want 0", root.Len())
	}
	FreeDefinition(nil)
}

func TestRootDefinition(t *testing.T) {
	root := NewRootScope()
	mustDefine(t, u8Decl(), root, "late")

	def, err := NewDefinition(u8Decl(), root, "header", 0, "trace.packet.header")
	if err != nil {
		t.Fatal(err)
	}
	if def.Order() != RootIndex {
		t.Errorf("index = %d, want RootIndex", def.Order())
	}
	if Path(def.Path()).String() != "trace.packet.header" {
		t.Errorf("path = %v", def.Path())
	}
	if _, ok := root.Lookup("header"); !ok {
		t.Error("root definition should still register under its name")
	}
}
