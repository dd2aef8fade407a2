package trace

import (
	"errors"
	"io"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	ctferrors "github.com/wippyai/ctf-runtime/errors"
	"github.com/wippyai/ctf-runtime/stream"
	"github.com/wippyai/ctf-runtime/types"
)

type schema struct {
	header *types.StructDeclaration
	event  *types.StructDeclaration
}

// newSchema builds header { len: u8 } and event { values: sequence<u8>[header.len] }.
func newSchema() schema {
	u8 := types.NewIntegerDeclaration(types.IntegerSpec{Bits: 8})
	defer u8.Unref()
	seq := types.NewSequenceDeclaration("header.len", u8, nil)
	defer seq.Unref()
	return schema{
		header: types.NewStructDeclaration(nil, types.StructField{Name: "len", Declaration: u8}),
		event:  types.NewStructDeclaration(nil, types.StructField{Name: "values", Declaration: seq}),
	}
}

func bindSchema(t *testing.T, dec *Decoder, s schema) {
	t.Helper()
	if _, err := dec.Bind("header", s.header); err != nil {
		t.Fatalf("Bind(header): %v", err)
	}
	if _, err := dec.Bind("event", s.event); err != nil {
		t.Fatalf("Bind(event): %v", err)
	}
}

func values(t *testing.T, dec *Decoder) []uint64 {
	t.Helper()
	def, err := dec.Lookup("event.values")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	seq := def.(*types.SequenceDefinition)
	var out []uint64
	for _, e := range seq.Elements() {
		out = append(out, e.(*types.IntegerDefinition).Unsigned())
	}
	return out
}

func TestDecoder_Records(t *testing.T) {
	dec := NewDecoder(stream.NewReader(stream.NewBytes([]byte{2, 10, 20, 3, 30, 40, 50, 1, 60})))
	defer dec.Close()
	bindSchema(t, dec, newSchema())

	want := [][]uint64{{10, 20}, {30, 40, 50}, {60}}
	for i, w := range want {
		if err := dec.Next(); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		got := values(t, dec)
		if len(got) != len(w) {
			t.Fatalf("record %d: values = %v, want %v", i, got, w)
		}
		for j := range w {
			if got[j] != w[j] {
				t.Errorf("record %d: values = %v, want %v", i, got, w)
				break
			}
		}
	}
	if err := dec.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("after last record: err = %v, want io.EOF", err)
	}
	if dec.Records() != 3 {
		t.Errorf("records = %d, want 3", dec.Records())
	}

	def, _ := dec.Lookup("event.values")
	if c := def.(*types.SequenceDefinition).Capacity(); c != 3 {
		t.Errorf("capacity = %d, want 3", c)
	}
}

func TestDecoder_RootsAreReused(t *testing.T) {
	dec := NewDecoder(stream.NewReader(stream.NewBytes([]byte{1, 5, 1, 6})))
	defer dec.Close()
	bindSchema(t, dec, newSchema())

	if err := dec.Next(); err != nil {
		t.Fatal(err)
	}
	first, _ := dec.Lookup("event.values.[0]")
	if err := dec.Next(); err != nil {
		t.Fatal(err)
	}
	second, _ := dec.Lookup("event.values.[0]")
	if first != second {
		t.Error("element definitions should be reused across records")
	}
	if second.(*types.IntegerDefinition).Unsigned() != 6 {
		t.Errorf("value = %d, want 6", second.(*types.IntegerDefinition).Unsigned())
	}
	if len(dec.Roots()) != 2 || dec.Roots()[0].Name() != "header" {
		t.Errorf("roots = %v", dec.Roots())
	}
}

func TestDecoder_FailedRecordIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	SetLogger(zap.New(core))
	defer SetLogger(zap.NewNop())

	dec := NewDecoder(stream.NewReader(stream.NewBytes([]byte{1, 7, 4, 8})))
	defer dec.Close()
	bindSchema(t, dec, newSchema())

	if err := dec.Next(); err != nil {
		t.Fatal(err)
	}
	err := dec.Next()
	if !errors.Is(err, ctferrors.ErrCursorReadFailed) {
		t.Fatalf("err = %v, want cursor read failure", err)
	}
	if dec.Records() != 1 {
		t.Errorf("records = %d, want 1", dec.Records())
	}
	// The element decoded before the failure stays visible.
	if got, _ := dec.Lookup("event.values.[0]"); got.(*types.IntegerDefinition).Unsigned() != 8 {
		t.Errorf("partial element = %d, want 8", got.(*types.IntegerDefinition).Unsigned())
	}

	entries := logs.FilterMessage("record failed").All()
	if len(entries) != 1 {
		t.Fatalf("%d warn entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["record"] != uint64(1) || fields["start"] != uint64(16) || fields["root"] != "event" {
		t.Errorf("log fields = %v", fields)
	}
}

func TestDecoder_Encode(t *testing.T) {
	buf := stream.NewBytes(nil)
	enc := NewDecoder(stream.NewWriter(buf))
	defer enc.Close()
	bindSchema(t, enc, newSchema())

	length, err := enc.Lookup("header.len")
	if err != nil {
		t.Fatal(err)
	}
	def, _ := enc.Lookup("event.values")
	seq := def.(*types.SequenceDefinition)

	for _, record := range [][]uint64{{1, 2, 3}, {4}} {
		length.(*types.IntegerDefinition).SetUnsigned(uint64(len(record)))
		if err := seq.Materialize(uint64(len(record))); err != nil {
			t.Fatal(err)
		}
		for i, v := range record {
			elem, _ := seq.Index(uint64(i))
			elem.(*types.IntegerDefinition).SetUnsigned(v)
		}
		if err := enc.Next(); err != nil {
			t.Fatal(err)
		}
	}

	want := []byte{3, 1, 2, 3, 1, 4}
	if string(buf.Bytes()) != string(want) {
		t.Errorf("encoded % x, want % x", buf.Bytes(), want)
	}
}

func TestDecoder_BindErrors(t *testing.T) {
	dec := NewDecoder(stream.NewReader(stream.NewBytes(nil)))
	s := newSchema()

	if _, err := dec.Bind("event", s.event); !errors.Is(err, ctferrors.ErrLookupFailed) {
		t.Errorf("event before header: err = %v, want lookup failed", err)
	}
	if _, err := dec.Bind("header", s.header); err != nil {
		t.Fatal(err)
	}
	if _, err := dec.Bind("header", s.header); !errors.Is(err, ctferrors.ErrDuplicateFieldName) {
		t.Errorf("second header: err = %v, want duplicate field name", err)
	}
	if err := dec.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("empty input: err = %v, want io.EOF", err)
	}
	if _, err := dec.Lookup("missing"); !errors.Is(err, ctferrors.ErrLookupFailed) {
		t.Errorf("Lookup(missing): err = %v", err)
	}
	_ = dec.Close()
}

func TestDecoder_Close(t *testing.T) {
	s := newSchema()
	dec := NewDecoder(stream.NewReader(stream.NewBytes([]byte{1, 9})))
	bindSchema(t, dec, s)
	if err := dec.Next(); err != nil {
		t.Fatal(err)
	}
	if s.header.RefCount() != 2 || s.event.RefCount() != 2 {
		t.Fatalf("refs before close: header=%d event=%d", s.header.RefCount(), s.event.RefCount())
	}

	if err := dec.Close(); err != nil {
		t.Fatal(err)
	}
	if s.header.RefCount() != 1 || s.event.RefCount() != 1 {
		t.Errorf("refs after close: header=%d event=%d, want 1 1", s.header.RefCount(), s.event.RefCount())
	}
	if err := dec.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := dec.Next(); err == nil {
		t.Error("Next after Close should fail")
	}
	if _, err := dec.Bind("x", s.header); err == nil {
		t.Error("Bind after Close should fail")
	}
}
