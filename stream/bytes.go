package stream

import (
	"fmt"
	"math"

	ctfruntime "github.com/wippyai/ctf-runtime"
)

// Bytes is a growable in-memory Buffer.
type Bytes struct {
	data []byte
}

// NewBytes wraps data. The slice is used in place, not copied.
func NewBytes(data []byte) *Bytes {
	return &Bytes{data: data}
}

// Bytes returns the buffer contents.
func (b *Bytes) Bytes() []byte {
	return b.data
}

func (b *Bytes) Size() uint32 {
	return uint32(len(b.data))
}

func (b *Bytes) Read(offset uint32, length uint32) ([]byte, error) {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(b.data)) {
		return nil, fmt.Errorf("read out of bounds: offset=%d, length=%d, size=%d", offset, length, len(b.data))
	}
	return b.data[offset:end], nil
}

func (b *Bytes) Write(offset uint32, data []byte) error {
	end := uint64(offset) + uint64(len(data))
	if end > math.MaxUint32 {
		return fmt.Errorf("write out of bounds: offset=%d, length=%d", offset, len(data))
	}
	if end > uint64(len(b.data)) {
		if end > uint64(cap(b.data)) {
			grown := make([]byte, end, max(end, 2*uint64(cap(b.data))))
			copy(grown, b.data)
			b.data = grown
		} else {
			b.data = b.data[:end]
		}
	}
	copy(b.data[offset:], data)
	return nil
}

var _ ctfruntime.Buffer = (*Bytes)(nil)
