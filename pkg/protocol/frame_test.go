package protocol

import (
	"bytes"
	"io"
	"testing"
)

func TestFrameEncodeDecode(t *testing.T) {
	f := &Frame{Type: FramePatches, Flags: FlagFinal, Payload: []byte{1, 2, 3}}
	data, err := f.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := []byte{0x02, 0x01, 0x00, 0x03, 1, 2, 3}
	if !bytes.Equal(data, want) {
		t.Fatalf("Encode = %x, want %x", data, want)
	}

	got, err := DecodeFrame(data)
	if err != nil {
		t.Fatalf("DecodeFrame: %v", err)
	}
	if got.Type != FramePatches || !got.Flags.Has(FlagFinal) || !bytes.Equal(got.Payload, f.Payload) {
		t.Errorf("DecodeFrame = %+v, want %+v", got, f)
	}
}

func TestDecodeFrameErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"short_header", []byte{0x01, 0x00}, io.ErrUnexpectedEOF},
		{"short_payload", []byte{0x01, 0x00, 0x00, 0x05, 1}, io.ErrUnexpectedEOF},
		{"trailing", []byte{0x01, 0x00, 0x00, 0x00, 9}, ErrTrailingData},
		{"bad_type", []byte{0x7f, 0x00, 0x00, 0x00}, ErrInvalidFrameType},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeFrame(tc.data); err != tc.want {
				t.Errorf("DecodeFrame error = %v, want %v", err, tc.want)
			}
		})
	}
}

func TestFrameTooLarge(t *testing.T) {
	f := NewFrame(FramePatches, make([]byte, MaxPayloadSize+1))
	if _, err := f.Encode(); err != ErrFrameTooLarge {
		t.Errorf("Encode error = %v, want ErrFrameTooLarge", err)
	}
	if err := WriteFrame(io.Discard, f); err != ErrFrameTooLarge {
		t.Errorf("WriteFrame error = %v, want ErrFrameTooLarge", err)
	}
}

func TestReadWriteFrameStream(t *testing.T) {
	var buf bytes.Buffer
	WriteFrame(&buf, NewFrame(FrameHello, EncodeHello(&Hello{Version: Version, SessionID: "s1", Root: 1})))
	WriteFrame(&buf, NewFrame(FrameEvent, nil))

	f, err := ReadFrame(&buf)
	if err != nil || f.Type != FrameHello {
		t.Fatalf("ReadFrame = %v, %v", f, err)
	}
	h, err := DecodeHello(f.Payload)
	if err != nil {
		t.Fatalf("DecodeHello: %v", err)
	}
	if h.SessionID != "s1" || h.Root != 1 {
		t.Errorf("hello = %+v", h)
	}

	f, err = ReadFrame(&buf)
	if err != nil || f.Type != FrameEvent || len(f.Payload) != 0 {
		t.Errorf("ReadFrame = %v, %v", f, err)
	}
	if _, err := ReadFrame(&buf); err != io.EOF {
		t.Errorf("ReadFrame at end = %v, want io.EOF", err)
	}
}

func TestFrameTypeString(t *testing.T) {
	if FramePatches.String() != "Patches" {
		t.Errorf("String = %s", FramePatches)
	}
	if FrameType(9).String() != "FrameType(9)" {
		t.Errorf("String = %s", FrameType(9))
	}
}
