package protocol

import (
	"reflect"
	"strings"
	"testing"

	"github.com/vango-dev/retained/pkg/dom"
)

type nopListener struct{}

func (nopListener) HandleEvent(*dom.Event) {}

// recordedBatch exercises every mutation kind the document records.
func recordedBatch() []dom.Mutation {
	doc := dom.NewDocument()
	div := doc.CreateElement("div")
	div.SetAttribute("id", "app")
	div.RemoveAttribute("id")
	svg := doc.CreateElementNS(dom.SVGNamespace, "svg")
	svg.SetAttributeNS(dom.XLinkNamespace, "href", "#a")
	text := doc.CreateTextNode("hello")
	text.SetNodeValue("bye")
	input := doc.CreateElement("input")
	input.SetProperty("value", "x")
	input.SetProperty("checked", true)
	div.Style().Set("color", "red")
	div.AppendChild(text)
	div.InsertBefore(input, text)
	doc.Body().AppendChild(div)
	l := nopListener{}
	div.AddEventListener("click", l, false)
	div.RemoveEventListener("click", l, false)
	svg.SetInnerHTML("<g/>")
	input.Remove()
	return doc.TakeMutations()
}

func TestPatchesRoundTrip(t *testing.T) {
	muts := recordedBatch()
	kinds := map[dom.MutationKind]bool{}
	for _, m := range muts {
		kinds[m.Kind] = true
	}
	if len(kinds) != 12 {
		t.Fatalf("batch covers %d kinds, want 12", len(kinds))
	}

	seq, got, err := DecodePatches(EncodePatches(7, muts))
	if err != nil {
		t.Fatalf("DecodePatches: %v", err)
	}
	if seq != 7 {
		t.Errorf("seq = %d, want 7", seq)
	}
	if !reflect.DeepEqual(got, muts) {
		t.Errorf("DecodePatches = %+v\nwant %+v", got, muts)
	}
}

func TestPatchFramesSplitsLargeBatches(t *testing.T) {
	big := strings.Repeat("x", 20000)
	var muts []dom.Mutation
	for i := 0; i < 10; i++ {
		muts = append(muts, dom.Mutation{Kind: dom.MutSetText, Node: uint64(i + 1), Value: big})
	}

	frames, err := PatchFrames(3, muts)
	if err != nil {
		t.Fatalf("PatchFrames: %v", err)
	}
	if len(frames) != 4 {
		t.Fatalf("frames = %d, want 4", len(frames))
	}

	var all []dom.Mutation
	for i, f := range frames {
		if f.Flags.Has(FlagFinal) != (i == len(frames)-1) {
			t.Errorf("frame %d final = %v", i, f.Flags.Has(FlagFinal))
		}
		if _, err := f.Encode(); err != nil {
			t.Errorf("frame %d Encode: %v", i, err)
		}
		seq, part, err := DecodePatches(f.Payload)
		if err != nil || seq != 3 {
			t.Fatalf("frame %d: seq=%d err=%v", i, seq, err)
		}
		all = append(all, part...)
	}
	if !reflect.DeepEqual(all, muts) {
		t.Errorf("reassembled batch differs")
	}
}

func TestPatchFramesEmptyAndOversized(t *testing.T) {
	frames, err := PatchFrames(1, nil)
	if err != nil || len(frames) != 1 || !frames[0].Flags.Has(FlagFinal) {
		t.Fatalf("PatchFrames(nil) = %v, %v", frames, err)
	}
	if _, muts, _ := DecodePatches(frames[0].Payload); len(muts) != 0 {
		t.Errorf("muts = %v, want none", muts)
	}

	huge := []dom.Mutation{{Kind: dom.MutSetInnerHTML, Node: 1, Value: strings.Repeat("y", MaxPayloadSize)}}
	if _, err := PatchFrames(1, huge); err != ErrFrameTooLarge {
		t.Errorf("PatchFrames error = %v, want ErrFrameTooLarge", err)
	}
}

func TestDecodePatchesErrors(t *testing.T) {
	e := NewEncoder()
	e.WriteUvarint(1)
	e.WriteUvarint(1)
	e.WriteByte(0x7f)
	e.WriteUvarint(1)
	if _, _, err := DecodePatches(e.Bytes()); err != ErrUnknownMutation {
		t.Errorf("unknown kind error = %v, want ErrUnknownMutation", err)
	}

	e.Reset()
	e.WriteUvarint(1)
	e.WriteUvarint(1000)
	if _, _, err := DecodePatches(e.Bytes()); err != ErrBufferTooShort {
		t.Errorf("inflated count error = %v, want ErrBufferTooShort", err)
	}

	payload := append(EncodePatches(1, nil), 0x00)
	if _, _, err := DecodePatches(payload); err != ErrTrailingData {
		t.Errorf("trailing error = %v, want ErrTrailingData", err)
	}
}
