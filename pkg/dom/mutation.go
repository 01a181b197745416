package dom

// MutationKind identifies the type of a recorded host-tree mutation.
type MutationKind uint8

const (
	MutCreateElement MutationKind = 0x01 // Node created; Name=tag, Namespace
	MutCreateText    MutationKind = 0x02 // Text node created; Value
	MutSetText       MutationKind = 0x03 // Text node value changed; Value
	MutSetAttr       MutationKind = 0x04 // Attribute set; Namespace, Name, Value
	MutRemoveAttr    MutationKind = 0x05 // Attribute removed; Namespace, Name
	MutSetProperty   MutationKind = 0x06 // Live property set; Name, Value or Flag
	MutSetStyle      MutationKind = 0x07 // Style property set; Name (empty for cssText), Value
	MutSetInnerHTML  MutationKind = 0x08 // Raw inner HTML replaced; Value
	MutInsert        MutationKind = 0x09 // Node inserted into Parent before Before (0 = append)
	MutRemove        MutationKind = 0x0A // Node detached from its parent
	MutListen        MutationKind = 0x0B // Listener registered; Name=event type, Flag=capture
	MutUnlisten      MutationKind = 0x0C // Listener removed; Name=event type, Flag=capture
)

// String returns the string representation of the MutationKind.
func (k MutationKind) String() string {
	switch k {
	case MutCreateElement:
		return "CreateElement"
	case MutCreateText:
		return "CreateText"
	case MutSetText:
		return "SetText"
	case MutSetAttr:
		return "SetAttr"
	case MutRemoveAttr:
		return "RemoveAttr"
	case MutSetProperty:
		return "SetProperty"
	case MutSetStyle:
		return "SetStyle"
	case MutSetInnerHTML:
		return "SetInnerHTML"
	case MutInsert:
		return "Insert"
	case MutRemove:
		return "Remove"
	case MutListen:
		return "Listen"
	case MutUnlisten:
		return "Unlisten"
	default:
		return "Unknown"
	}
}

// Mutation is a single recorded change to the host tree.
type Mutation struct {
	Kind      MutationKind
	Node      uint64 // Target node ID
	Parent    uint64 // For MutInsert
	Before    uint64 // For MutInsert; 0 means append
	Namespace string
	Name      string
	Value     string
	Flag      bool
}

// IsStructural reports whether the mutation creates, moves or removes nodes.
func (m Mutation) IsStructural() bool {
	switch m.Kind {
	case MutCreateElement, MutCreateText, MutInsert, MutRemove:
		return true
	}
	return false
}

// CountMutations returns how many mutations in muts have one of the given kinds.
// With no kinds it returns len(muts).
func CountMutations(muts []Mutation, kinds ...MutationKind) int {
	if len(kinds) == 0 {
		return len(muts)
	}
	n := 0
	for _, m := range muts {
		for _, k := range kinds {
			if m.Kind == k {
				n++
				break
			}
		}
	}
	return n
}
