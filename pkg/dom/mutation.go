package dom

import "encoding/json"

// MutationOp is the type of a recorded mutation.
type MutationOp uint8

const (
	MutationSetText    MutationOp = 0x01 // Character data changed
	MutationSetAttr    MutationOp = 0x02 // Attribute set/updated
	MutationRemoveAttr MutationOp = 0x03 // Attribute removed
	MutationInsertNode MutationOp = 0x04 // Detached node inserted
	MutationRemoveNode MutationOp = 0x05 // Node removed
	MutationMoveNode   MutationOp = 0x06 // Attached node relocated
)

// String returns the string representation of the MutationOp.
func (op MutationOp) String() string {
	switch op {
	case MutationSetText:
		return "SetText"
	case MutationSetAttr:
		return "SetAttr"
	case MutationRemoveAttr:
		return "RemoveAttr"
	case MutationInsertNode:
		return "InsertNode"
	case MutationRemoveNode:
		return "RemoveNode"
	case MutationMoveNode:
		return "MoveNode"
	default:
		return "Unknown"
	}
}

// Mutation describes a single change to a document.
type Mutation struct {
	Op MutationOp

	// Target is the node that changed: the parent for node operations,
	// the element for attribute operations, the character data node for
	// SetText.
	Target Node

	// Node is the inserted, removed or moved child.
	Node Node

	Namespace string
	Name      string
	Value     string
}

// mutationJSON is the wire form used by the inspector.
type mutationJSON struct {
	Op     string `json:"op"`
	Target uint64 `json:"target"`
	Node   uint64 `json:"node,omitempty"`
	Name   string `json:"name,omitempty"`
	Value  string `json:"value,omitempty"`
}

// MarshalJSON encodes the mutation with node IDs instead of nodes.
func (m Mutation) MarshalJSON() ([]byte, error) {
	return json.Marshal(mutationJSON{
		Op:     m.Op.String(),
		Target: NodeID(m.Target),
		Node:   NodeID(m.Node),
		Name:   m.Name,
		Value:  m.Value,
	})
}

// NodeID returns the identifier of a node created by NewDocument, or 0.
func NodeID(n Node) uint64 {
	if m, ok := n.(*memNode); ok {
		return m.id
	}
	return 0
}
