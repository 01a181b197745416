package protocol

import "errors"

// Version is the protocol version sent in every hello.
const Version uint16 = 1

// ErrVersionMismatch is returned by DecodeHello for a different major version.
var ErrVersionMismatch = errors.New("protocol: version mismatch")

// Hello opens a session. Root is the node ID the client maps to its mount
// point; every later mutation is relative to it.
type Hello struct {
	Version   uint16
	SessionID string
	Root      uint64
}

// EncodeHello encodes h as a FrameHello payload.
func EncodeHello(h *Hello) []byte {
	e := NewEncoder()
	e.WriteUint16(h.Version)
	e.WriteString(h.SessionID)
	e.WriteUvarint(h.Root)
	return e.Bytes()
}

// DecodeHello decodes a FrameHello payload.
func DecodeHello(payload []byte) (*Hello, error) {
	d := NewDecoder(payload)
	h := &Hello{}
	var err error
	if h.Version, err = d.ReadUint16(); err != nil {
		return nil, err
	}
	if h.Version != Version {
		return nil, ErrVersionMismatch
	}
	if h.SessionID, err = d.ReadString(); err != nil {
		return nil, err
	}
	if h.Root, err = d.ReadUvarint(); err != nil {
		return nil, err
	}
	return h, nil
}
