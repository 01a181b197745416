package protocol

import (
	"math"
	"testing"
)

func TestEncodeDecodeUvarint(t *testing.T) {
	tests := []struct {
		name  string
		value uint64
		bytes int
	}{
		{"zero", 0, 1},
		{"max_1byte", 127, 1},
		{"min_2byte", 128, 2},
		{"min_3byte", 16384, 3},
		{"max_uint32", math.MaxUint32, 5},
		{"max_uint64", math.MaxUint64, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			buf := make([]byte, MaxVarintLen)
			n := EncodeUvarint(buf, tc.value)
			if n != tc.bytes {
				t.Errorf("EncodeUvarint(%d) = %d bytes, want %d", tc.value, n, tc.bytes)
			}
			if l := UvarintLen(tc.value); l != n {
				t.Errorf("UvarintLen(%d) = %d, want %d", tc.value, l, n)
			}
			got, read := DecodeUvarint(buf[:n])
			if read != n || got != tc.value {
				t.Errorf("DecodeUvarint = (%d, %d), want (%d, %d)", got, read, tc.value, n)
			}
		})
	}
}

func TestZigzag(t *testing.T) {
	tests := []struct {
		v    int64
		want uint64
	}{
		{0, 0}, {-1, 1}, {1, 2}, {-2, 3}, {math.MaxInt64, math.MaxUint64 - 1}, {math.MinInt64, math.MaxUint64},
	}
	for _, tc := range tests {
		if got := zigzag(tc.v); got != tc.want {
			t.Errorf("zigzag(%d) = %d, want %d", tc.v, got, tc.want)
		}
		buf := make([]byte, MaxVarintLen)
		n := EncodeSvarint(buf, tc.v)
		if got, _ := DecodeSvarint(buf[:n]); got != tc.v {
			t.Errorf("DecodeSvarint = %d, want %d", got, tc.v)
		}
	}
}

func TestDecodeUvarintErrors(t *testing.T) {
	if _, n := DecodeUvarint([]byte{0x80, 0x80}); n != -1 {
		t.Errorf("incomplete: n = %d, want -1", n)
	}
	long := []byte{0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x80, 0x01}
	if _, n := DecodeUvarint(long); n != -2 {
		t.Errorf("overflow: n = %d, want -2", n)
	}

	d := NewDecoder(long)
	if _, err := d.ReadUvarint(); err != ErrVarintOverflow {
		t.Errorf("ReadUvarint error = %v, want ErrVarintOverflow", err)
	}
}

func TestDecoderLimits(t *testing.T) {
	e := NewEncoder()
	e.WriteUvarint(MaxStringLen + 1)
	if _, err := NewDecoder(e.Bytes()).ReadString(); err != ErrAllocationTooLarge {
		t.Errorf("ReadString error = %v, want ErrAllocationTooLarge", err)
	}

	e.Reset()
	e.WriteUvarint(5)
	e.WriteByte('a')
	if _, err := NewDecoder(e.Bytes()).ReadString(); err != ErrBufferTooShort {
		t.Errorf("ReadString error = %v, want ErrBufferTooShort", err)
	}

	e.Reset()
	e.WriteUvarint(MaxCollectionCount + 1)
	if _, err := NewDecoder(e.Bytes()).ReadCount(); err != ErrCollectionTooLarge {
		t.Errorf("ReadCount error = %v, want ErrCollectionTooLarge", err)
	}

	if _, err := NewDecoder([]byte{0x02}).ReadBool(); err != ErrInvalidBool {
		t.Errorf("ReadBool error = %v, want ErrInvalidBool", err)
	}
}
