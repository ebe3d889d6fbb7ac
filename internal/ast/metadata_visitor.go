package ast

import (
	"fmt"
	"strings"
)

// MetadataVisitor assigns node ids and parent links to a whole tree
type MetadataVisitor struct {
	tracker *NodeTracker
}

// NewMetadataVisitor creates a new metadata visitor
func NewMetadataVisitor() *MetadataVisitor {
	return &MetadataVisitor{tracker: NewNodeTracker()}
}

// AssignMetadata assigns metadata to a node and all its children. Nodes
// reachable twice (a shared sub-expression) keep their first parent.
func (mv *MetadataVisitor) AssignMetadata(node Node, parent Node) {
	if isNil(node) {
		return
	}
	if node.GetMetadata() != nil {
		return
	}

	var parentID NodeID
	if parent != nil && parent.GetMetadata() != nil {
		parentID = parent.GetMetadata().NodeID
	}

	metadata := &Metadata{
		NodeID:   mv.tracker.GenerateID(),
		ParentID: parentID,
		Parent:   parent,
	}
	metadata.Source.Begin = node.NodePos()
	metadata.Source.End = node.NodeEndPos()

	node.SetMetadata(metadata)
	mv.tracker.track(node, metadata)

	for _, child := range Children(node) {
		mv.AssignMetadata(child, node)
	}
	// the syntactic form of an init list is not a child, but it still needs
	// a parent for ancestor queries
	if il, ok := node.(*InitListExpr); ok && il.Syntactic != nil {
		mv.AssignMetadata(il.Syntactic, parent)
	}
}

// GetTracker returns the node tracker
func (mv *MetadataVisitor) GetTracker() *NodeTracker {
	return mv.tracker
}

// GetNodesByType returns all nodes of a specific type in id order
func (mv *MetadataVisitor) GetNodesByType(nodeType NodeType) []Node {
	var result []Node
	for id := NodeID(1); id < mv.tracker.nextID; id++ {
		if n := mv.tracker.nodes[id]; n != nil && n.NodeType() == nodeType {
			result = append(result, n)
		}
	}
	return result
}

// PrintDebugInfo prints debugging information about all nodes
func (mv *MetadataVisitor) PrintDebugInfo() string {
	var sb strings.Builder
	sb.WriteString("=== AST Metadata Debug Info ===\n")
	for id := NodeID(1); id < mv.tracker.nextID; id++ {
		meta := mv.tracker.metadata[id]
		if meta == nil {
			continue
		}
		fmt.Fprintf(&sb, "%s %s\n", mv.tracker.nodes[id].NodeType(), meta)
	}
	return sb.String()
}

// AssignParents is the entry point used after building a tree.
func AssignParents(root Node) *NodeTracker {
	mv := NewMetadataVisitor()
	mv.AssignMetadata(root, nil)
	return mv.GetTracker()
}
