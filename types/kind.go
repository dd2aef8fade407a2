package types

import ctfruntime "github.com/wippyai/ctf-runtime"

type Cursor = ctfruntime.Cursor
type ByteOrder = ctfruntime.ByteOrder

type Kind uint8

const (
	KindUnknown Kind = iota
	KindInteger
	KindFloat
	KindEnum
	KindString
	KindStruct
	KindVariant
	KindArray
	KindSequence
)

var kindNames = [...]string{
	KindUnknown:  "unknown",
	KindInteger:  "integer",
	KindFloat:    "float",
	KindEnum:     "enum",
	KindString:   "string",
	KindStruct:   "struct",
	KindVariant:  "variant",
	KindArray:    "array",
	KindSequence: "sequence",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsScalar reports whether definitions of this kind hold a single value and no scope.
func (k Kind) IsScalar() bool {
	switch k {
	case KindInteger, KindFloat, KindEnum, KindString:
		return true
	default:
		return false
	}
}

// Encoding is the text encoding of an integer or string declaration.
type Encoding uint8

const (
	EncodingNone Encoding = iota
	EncodingUTF8
	EncodingASCII
)

func (e Encoding) String() string {
	switch e {
	case EncodingUTF8:
		return "UTF8"
	case EncodingASCII:
		return "ASCII"
	default:
		return "none"
	}
}

const (
	ModeRead  = ctfruntime.ModeRead
	ModeWrite = ctfruntime.ModeWrite
)
