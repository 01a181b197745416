package protocol

// Event is a client event aimed at a host node.
//
// Value and Checked carry the target's live input state at the time of the
// event so the server can sync it before dispatching.
type Event struct {
	NodeID  uint64
	Type    string
	Value   string
	Checked bool
	// Key is the key name for keyboard events.
	Key string
}

// EncodeEvent encodes ev as a FrameEvent payload.
func EncodeEvent(ev *Event) []byte {
	e := NewEncoder()
	e.WriteUvarint(ev.NodeID)
	e.WriteString(ev.Type)
	e.WriteString(ev.Value)
	e.WriteBool(ev.Checked)
	e.WriteString(ev.Key)
	return e.Bytes()
}

// DecodeEvent decodes a FrameEvent payload.
func DecodeEvent(payload []byte) (*Event, error) {
	d := NewDecoder(payload)
	ev := &Event{}
	var err error
	if ev.NodeID, err = d.ReadUvarint(); err != nil {
		return nil, err
	}
	if ev.Type, err = d.ReadString(); err != nil {
		return nil, err
	}
	if ev.Value, err = d.ReadString(); err != nil {
		return nil, err
	}
	if ev.Checked, err = d.ReadBool(); err != nil {
		return nil, err
	}
	if ev.Key, err = d.ReadString(); err != nil {
		return nil, err
	}
	if !d.EOF() {
		return nil, ErrTrailingData
	}
	return ev, nil
}
