package ctfruntime

// Mode selects whether a cursor consumes or produces stream bytes.
type Mode uint8

const (
	ModeRead Mode = iota
	ModeWrite
)

func (m Mode) String() string {
	if m == ModeWrite {
		return "write"
	}
	return "read"
}

// ByteOrder is the byte order of an integer or float field.
type ByteOrder uint8

const (
	LittleEndian ByteOrder = iota
	BigEndian
)

func (o ByteOrder) String() string {
	if o == BigEndian {
		return "be"
	}
	return "le"
}

// Cursor is a bit-addressed position in a trace stream.
// Offsets and alignments are expressed in bits.
type Cursor interface {
	Mode() Mode
	Offset() uint64
	SetOffset(bits uint64) error
	Align(bits uint64) error
	ReadUnsigned(bits uint, order ByteOrder) (uint64, error)
	ReadBytes(n uint64) ([]byte, error)
	WriteUnsigned(bits uint, order ByteOrder, value uint64) error
	WriteBytes(data []byte) error
}

// Buffer is the byte store a cursor reads from and writes to
type Buffer interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	Size() uint32
}
