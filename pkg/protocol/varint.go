package protocol

// MaxVarintLen is the longest varint encoding of a uint64.
const MaxVarintLen = 10

// EncodeUvarint writes v into buf, which must hold MaxVarintLen bytes, and
// returns the number of bytes written.
func EncodeUvarint(buf []byte, v uint64) int {
	i := 0
	for v >= 0x80 {
		buf[i] = byte(v) | 0x80
		v >>= 7
		i++
	}
	buf[i] = byte(v)
	return i + 1
}

// DecodeUvarint reads a varint from buf. The count is -1 when buf ends
// mid-varint and -2 when the encoding exceeds MaxVarintLen bytes.
func DecodeUvarint(buf []byte) (uint64, int) {
	var v uint64
	var shift uint
	for i, b := range buf {
		if i >= MaxVarintLen {
			return 0, -2
		}
		v |= uint64(b&0x7F) << shift
		if b < 0x80 {
			return v, i + 1
		}
		shift += 7
	}
	return 0, -1
}

// EncodeSvarint writes v with zigzag encoding.
func EncodeSvarint(buf []byte, v int64) int {
	return EncodeUvarint(buf, zigzag(v))
}

// DecodeSvarint reads a zigzag varint. See DecodeUvarint for the count.
func DecodeSvarint(buf []byte) (int64, int) {
	uv, n := DecodeUvarint(buf)
	if n < 0 {
		return 0, n
	}
	return unzigzag(uv), n
}

// UvarintLen returns the encoded size of v.
func UvarintLen(v uint64) int {
	n := 1
	for v >= 0x80 {
		n++
		v >>= 7
	}
	return n
}

// StringLen returns the encoded size of a length-prefixed string.
func StringLen(s string) int {
	return UvarintLen(uint64(len(s))) + len(s)
}

func zigzag(v int64) uint64 { return uint64((v << 1) ^ (v >> 63)) }

func unzigzag(uv uint64) int64 {
	v := int64(uv >> 1)
	if uv&1 != 0 {
		v = ^v
	}
	return v
}
