package protocol

// ErrorMessage reports a failure to the peer. Code is an error code from
// internal/errors, such as "L002".
type ErrorMessage struct {
	Code    string
	Message string
	// Fatal means the sender closes the connection after this frame.
	Fatal bool
}

// EncodeError encodes em as a FrameError payload.
func EncodeError(em *ErrorMessage) []byte {
	e := NewEncoder()
	e.WriteString(em.Code)
	e.WriteString(em.Message)
	e.WriteBool(em.Fatal)
	return e.Bytes()
}

// DecodeError decodes a FrameError payload.
func DecodeError(payload []byte) (*ErrorMessage, error) {
	d := NewDecoder(payload)
	em := &ErrorMessage{}
	var err error
	if em.Code, err = d.ReadString(); err != nil {
		return nil, err
	}
	if em.Message, err = d.ReadString(); err != nil {
		return nil, err
	}
	if em.Fatal, err = d.ReadBool(); err != nil {
		return nil, err
	}
	return em, nil
}
