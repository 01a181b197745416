package protocol

import (
	"errors"

	"github.com/vango-dev/retained/pkg/dom"
)

// ErrUnknownMutation is returned for a mutation kind this version cannot decode.
var ErrUnknownMutation = errors.New("protocol: unknown mutation kind")

// Patch payload layout:
//
//	seq:uvarint count:uvarint { kind:byte node:uvarint fields... }*
//
// The fields after the node ID depend on the kind:
//
//	CreateElement  name namespace
//	CreateText     value
//	SetText        value
//	SetAttr        namespace name value
//	RemoveAttr     namespace name
//	SetProperty    name value flag
//	SetStyle       name value
//	SetInnerHTML   value
//	Insert         parent:uvarint before:uvarint
//	Remove
//	Listen         name flag
//	Unlisten       name flag

// EncodePatches encodes a whole mutation batch as one payload, without a
// size limit. Use PatchFrames to produce frames for the wire.
func EncodePatches(seq uint64, muts []dom.Mutation) []byte {
	e := NewEncoder()
	e.WriteUvarint(seq)
	e.WriteUvarint(uint64(len(muts)))
	for i := range muts {
		encodeMutation(e, &muts[i])
	}
	return e.Bytes()
}

// PatchFrames splits a batch into FramePatches frames that each fit in
// MaxPayloadSize. Every frame carries seq and the last one has FlagFinal.
// An empty batch yields a single empty final frame. A mutation too large
// for any frame fails with ErrFrameTooLarge.
func PatchFrames(seq uint64, muts []dom.Mutation) ([]*Frame, error) {
	budget := MaxPayloadSize - UvarintLen(seq) - UvarintLen(MaxCollectionCount)

	var frames []*Frame
	start, size := 0, 0
	flush := func(end int) {
		frames = append(frames, NewFrame(FramePatches, EncodePatches(seq, muts[start:end])))
		start, size = end, 0
	}
	for i := range muts {
		n := mutationLen(&muts[i])
		if n > budget {
			return nil, ErrFrameTooLarge
		}
		if size+n > budget || i-start == MaxCollectionCount {
			flush(i)
		}
		size += n
	}
	flush(len(muts))
	frames[len(frames)-1].Flags |= FlagFinal
	return frames, nil
}

// DecodePatches decodes a patch payload.
func DecodePatches(payload []byte) (uint64, []dom.Mutation, error) {
	d := NewDecoder(payload)
	seq, err := d.ReadUvarint()
	if err != nil {
		return 0, nil, err
	}
	count, err := d.ReadCount()
	if err != nil {
		return 0, nil, err
	}
	// Every mutation takes at least two bytes.
	if count > d.Remaining()/2 {
		return 0, nil, ErrBufferTooShort
	}
	muts := make([]dom.Mutation, count)
	for i := range muts {
		if err := decodeMutation(d, &muts[i]); err != nil {
			return 0, nil, err
		}
	}
	if !d.EOF() {
		return 0, nil, ErrTrailingData
	}
	return seq, muts, nil
}

func encodeMutation(e *Encoder, m *dom.Mutation) {
	e.WriteByte(byte(m.Kind))
	e.WriteUvarint(m.Node)
	switch m.Kind {
	case dom.MutCreateElement:
		e.WriteString(m.Name)
		e.WriteString(m.Namespace)
	case dom.MutCreateText, dom.MutSetText, dom.MutSetInnerHTML:
		e.WriteString(m.Value)
	case dom.MutSetAttr:
		e.WriteString(m.Namespace)
		e.WriteString(m.Name)
		e.WriteString(m.Value)
	case dom.MutRemoveAttr:
		e.WriteString(m.Namespace)
		e.WriteString(m.Name)
	case dom.MutSetProperty:
		e.WriteString(m.Name)
		e.WriteString(m.Value)
		e.WriteBool(m.Flag)
	case dom.MutSetStyle:
		e.WriteString(m.Name)
		e.WriteString(m.Value)
	case dom.MutInsert:
		e.WriteUvarint(m.Parent)
		e.WriteUvarint(m.Before)
	case dom.MutListen, dom.MutUnlisten:
		e.WriteString(m.Name)
		e.WriteBool(m.Flag)
	}
}

func mutationLen(m *dom.Mutation) int {
	n := 1 + UvarintLen(m.Node)
	switch m.Kind {
	case dom.MutCreateElement:
		n += StringLen(m.Name) + StringLen(m.Namespace)
	case dom.MutCreateText, dom.MutSetText, dom.MutSetInnerHTML:
		n += StringLen(m.Value)
	case dom.MutSetAttr:
		n += StringLen(m.Namespace) + StringLen(m.Name) + StringLen(m.Value)
	case dom.MutRemoveAttr:
		n += StringLen(m.Namespace) + StringLen(m.Name)
	case dom.MutSetProperty:
		n += StringLen(m.Name) + StringLen(m.Value) + 1
	case dom.MutSetStyle:
		n += StringLen(m.Name) + StringLen(m.Value)
	case dom.MutInsert:
		n += UvarintLen(m.Parent) + UvarintLen(m.Before)
	case dom.MutListen, dom.MutUnlisten:
		n += StringLen(m.Name) + 1
	}
	return n
}

func decodeMutation(d *Decoder, m *dom.Mutation) error {
	kind, err := d.ReadByte()
	if err != nil {
		return err
	}
	m.Kind = dom.MutationKind(kind)
	if m.Node, err = d.ReadUvarint(); err != nil {
		return err
	}

	str := func(dst *string) {
		if err == nil {
			*dst, err = d.ReadString()
		}
	}
	flag := func() {
		if err == nil {
			m.Flag, err = d.ReadBool()
		}
	}

	switch m.Kind {
	case dom.MutCreateElement:
		str(&m.Name)
		str(&m.Namespace)
	case dom.MutCreateText, dom.MutSetText, dom.MutSetInnerHTML:
		str(&m.Value)
	case dom.MutSetAttr:
		str(&m.Namespace)
		str(&m.Name)
		str(&m.Value)
	case dom.MutRemoveAttr:
		str(&m.Namespace)
		str(&m.Name)
	case dom.MutSetProperty:
		str(&m.Name)
		str(&m.Value)
		flag()
	case dom.MutSetStyle:
		str(&m.Name)
		str(&m.Value)
	case dom.MutInsert:
		if m.Parent, err = d.ReadUvarint(); err == nil {
			m.Before, err = d.ReadUvarint()
		}
	case dom.MutRemove:
	case dom.MutListen, dom.MutUnlisten:
		str(&m.Name)
		flag()
	default:
		return ErrUnknownMutation
	}
	return err
}
