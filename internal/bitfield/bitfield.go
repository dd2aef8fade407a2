package bitfield

// Span returns the number of bytes touched by a field of bits width starting
// at bit offset start within its first byte.
func Span(start, bits uint) int {
	return int((start%8 + bits + 7) / 8)
}

// ReadLE extracts a little endian field. data must cover Span(start, bits) bytes.
func ReadLE(data []byte, start, bits uint) uint64 {
	if start%8 == 0 && bits%8 == 0 {
		var v uint64
		first := start / 8
		for i := int(bits/8) - 1; i >= 0; i-- {
			v = v<<8 | uint64(data[first+uint(i)])
		}
		return v
	}
	var v uint64
	for i := uint(0); i < bits; i++ {
		pos := start + i
		bit := (data[pos/8] >> (pos % 8)) & 1
		v |= uint64(bit) << i
	}
	return v
}

// ReadBE extracts a big endian field. data must cover Span(start, bits) bytes.
func ReadBE(data []byte, start, bits uint) uint64 {
	if start%8 == 0 && bits%8 == 0 {
		var v uint64
		first := start / 8
		for i := uint(0); i < bits/8; i++ {
			v = v<<8 | uint64(data[first+i])
		}
		return v
	}
	var v uint64
	for i := uint(0); i < bits; i++ {
		pos := start + i
		bit := (data[pos/8] >> (7 - pos%8)) & 1
		v = v<<1 | uint64(bit)
	}
	return v
}

// WriteLE stores the low bits of v as a little endian field, leaving the
// surrounding bits of data untouched.
func WriteLE(data []byte, start, bits uint, v uint64) {
	if start%8 == 0 && bits%8 == 0 {
		first := start / 8
		for i := uint(0); i < bits/8; i++ {
			data[first+i] = byte(v >> (8 * i))
		}
		return
	}
	for i := uint(0); i < bits; i++ {
		pos := start + i
		mask := byte(1) << (pos % 8)
		if (v>>i)&1 != 0 {
			data[pos/8] |= mask
		} else {
			data[pos/8] &^= mask
		}
	}
}

// WriteBE stores the low bits of v as a big endian field.
func WriteBE(data []byte, start, bits uint, v uint64) {
	if start%8 == 0 && bits%8 == 0 {
		first := start / 8
		n := bits / 8
		for i := uint(0); i < n; i++ {
			data[first+i] = byte(v >> (8 * (n - 1 - i)))
		}
		return
	}
	for i := uint(0); i < bits; i++ {
		pos := start + i
		mask := byte(1) << (7 - pos%8)
		if (v>>(bits-1-i))&1 != 0 {
			data[pos/8] |= mask
		} else {
			data[pos/8] &^= mask
		}
	}
}

// SignExtend interprets the low bits of v as a two's complement value.
func SignExtend(v uint64, bits uint) int64 {
	if bits == 0 || bits >= 64 {
		return int64(v)
	}
	shift := 64 - bits
	return int64(v<<shift) >> shift
}

// Mask returns v truncated to its low bits.
func Mask(v uint64, bits uint) uint64 {
	if bits >= 64 {
		return v
	}
	return v & (1<<bits - 1)
}
