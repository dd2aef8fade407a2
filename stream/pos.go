package stream

import (
	"fmt"
	"math"

	ctfruntime "github.com/wippyai/ctf-runtime"
	"github.com/wippyai/ctf-runtime/errors"
	"github.com/wippyai/ctf-runtime/internal/bitfield"
)

// Pos is a bit-addressed cursor over a Buffer.
type Pos struct {
	buf     ctfruntime.Buffer
	scratch []byte
	offset  uint64
	mode    ctfruntime.Mode
}

// NewReader creates a read cursor at offset 0.
func NewReader(buf ctfruntime.Buffer) *Pos {
	return &Pos{buf: buf, mode: ctfruntime.ModeRead}
}

// NewWriter creates a write cursor at offset 0.
func NewWriter(buf ctfruntime.Buffer) *Pos {
	return &Pos{buf: buf, mode: ctfruntime.ModeWrite}
}

// Buffer returns the underlying byte store.
func (p *Pos) Buffer() ctfruntime.Buffer {
	return p.buf
}

func (p *Pos) Mode() ctfruntime.Mode {
	return p.mode
}

// Offset returns the current position in bits.
func (p *Pos) Offset() uint64 {
	return p.offset
}

// Remaining returns the number of unread bits before the end of the buffer.
func (p *Pos) Remaining() uint64 {
	size := uint64(p.buf.Size()) * 8
	if p.offset >= size {
		return 0
	}
	return size - p.offset
}

// SetOffset moves the cursor. In read mode the offset may not pass the end of the buffer;
// in write mode it may not pass 32-bit byte addressing.
func (p *Pos) SetOffset(bits uint64) error {
	if p.mode == ctfruntime.ModeRead && bits > uint64(p.buf.Size())*8 {
		return errors.CursorRead(p.offset, 0,
			fmt.Errorf("seek to bit %d past end of %d-byte buffer", bits, p.buf.Size()))
	}
	if bits/8 > math.MaxUint32 {
		return p.fail(0, fmt.Errorf("seek to bit %d exceeds buffer addressing", bits))
	}
	p.offset = bits
	return nil
}

// Align rounds the offset up to a multiple of bits.
func (p *Pos) Align(bits uint64) error {
	if bits <= 1 {
		return nil
	}
	rem := p.offset % bits
	if rem == 0 {
		return nil
	}
	return p.SetOffset(p.offset + bits - rem)
}

func (p *Pos) ReadUnsigned(bits uint, order ctfruntime.ByteOrder) (uint64, error) {
	if bits == 0 || bits > 64 {
		return 0, errors.Unsupported(errors.PhaseDecode, fmt.Sprintf("integer width %d", bits))
	}
	start := uint(p.offset % 8)
	span := bitfield.Span(start, bits)
	off, err := p.byteOffset(uint64(span))
	if err != nil {
		return 0, errors.CursorRead(p.offset, uint64(bits), err)
	}
	data, err := p.buf.Read(off, uint32(span))
	if err != nil {
		return 0, errors.CursorRead(p.offset, uint64(bits), err)
	}
	var v uint64
	if order == ctfruntime.BigEndian {
		v = bitfield.ReadBE(data, start, bits)
	} else {
		v = bitfield.ReadLE(data, start, bits)
	}
	p.offset += uint64(bits)
	return v, nil
}

// ReadBytes returns n bytes at the current offset, which must be byte aligned.
// The returned slice may alias the buffer; copy it before the buffer changes.
func (p *Pos) ReadBytes(n uint64) ([]byte, error) {
	if p.offset%8 != 0 {
		return nil, errors.InvalidData(errors.PhaseDecode, nil,
			fmt.Sprintf("byte read at unaligned bit offset %d", p.offset))
	}
	if n == 0 {
		return nil, nil
	}
	off, err := p.byteOffset(n)
	if err != nil {
		return nil, errors.CursorRead(p.offset, n*8, err)
	}
	data, err := p.buf.Read(off, uint32(n))
	if err != nil {
		return nil, errors.CursorRead(p.offset, n*8, err)
	}
	p.offset += n * 8
	return data, nil
}

func (p *Pos) WriteUnsigned(bits uint, order ctfruntime.ByteOrder, value uint64) error {
	if bits == 0 || bits > 64 {
		return errors.Unsupported(errors.PhaseEncode, fmt.Sprintf("integer width %d", bits))
	}
	start := uint(p.offset % 8)
	span := bitfield.Span(start, bits)
	off, err := p.byteOffset(uint64(span))
	if err != nil {
		return errors.CursorWrite(p.offset, uint64(bits), err)
	}
	data := p.existing(off, span)
	value = bitfield.Mask(value, bits)
	if order == ctfruntime.BigEndian {
		bitfield.WriteBE(data, start, bits, value)
	} else {
		bitfield.WriteLE(data, start, bits, value)
	}
	if err := p.buf.Write(off, data); err != nil {
		return errors.CursorWrite(p.offset, uint64(bits), err)
	}
	p.offset += uint64(bits)
	return nil
}

// WriteBytes writes data at the current offset, which must be byte aligned.
func (p *Pos) WriteBytes(data []byte) error {
	if p.offset%8 != 0 {
		return errors.InvalidData(errors.PhaseEncode, nil,
			fmt.Sprintf("byte write at unaligned bit offset %d", p.offset))
	}
	if len(data) == 0 {
		return nil
	}
	off, err := p.byteOffset(uint64(len(data)))
	if err != nil {
		return errors.CursorWrite(p.offset, uint64(len(data))*8, err)
	}
	if err := p.buf.Write(off, data); err != nil {
		return errors.CursorWrite(p.offset, uint64(len(data))*8, err)
	}
	p.offset += uint64(len(data)) * 8
	return nil
}

// byteOffset returns the byte offset of the cursor, failing when n bytes from it
// would pass the 32-bit addressing of a Buffer.
func (p *Pos) byteOffset(n uint64) (uint32, error) {
	off := p.offset / 8
	if off > math.MaxUint32 || n > math.MaxUint32+1-off {
		return 0, fmt.Errorf("%d bytes at byte offset %d exceed buffer addressing", n, off)
	}
	return uint32(off), nil
}

func (p *Pos) fail(bits uint64, err error) error {
	if p.mode == ctfruntime.ModeWrite {
		return errors.CursorWrite(p.offset, bits, err)
	}
	return errors.CursorRead(p.offset, bits, err)
}

// existing returns a scratch copy of the n bytes at byte offset off,
// zero-filled past the end of the buffer, so partial-byte writes keep their neighbours.
func (p *Pos) existing(off uint32, n int) []byte {
	if cap(p.scratch) < n {
		p.scratch = make([]byte, n)
	}
	data := p.scratch[:n]
	clear(data)
	size := p.buf.Size()
	if off < size {
		avail := min(uint32(n), size-off)
		if cur, err := p.buf.Read(off, avail); err == nil {
			copy(data, cur)
		}
	}
	return data
}

var _ ctfruntime.Cursor = (*Pos)(nil)
