package ast

import (
	"fmt"

	"cxxlint/internal/source"
)

// NodeID is a unique identifier for each AST node of a translation unit
type NodeID uint32

// Metadata contains identity and tree information for AST nodes
type Metadata struct {
	// Unique identifier for this AST node
	NodeID NodeID

	// Source range as given by the dump
	Source source.Range

	// Parent node ID (0 if root)
	ParentID NodeID
	Parent   Node
}

// NodeTracker manages node IDs and metadata
type NodeTracker struct {
	nextID   NodeID
	metadata map[NodeID]*Metadata
	nodes    map[NodeID]Node
}

// NewNodeTracker creates a new node tracker
func NewNodeTracker() *NodeTracker {
	return &NodeTracker{
		nextID:   1, // Start at 1, reserve 0 for "no parent"
		metadata: make(map[NodeID]*Metadata),
		nodes:    make(map[NodeID]Node),
	}
}

// GenerateID creates a new unique node ID
func (nt *NodeTracker) GenerateID() NodeID {
	id := nt.nextID
	nt.nextID++
	return id
}

func (nt *NodeTracker) track(n Node, meta *Metadata) {
	nt.metadata[meta.NodeID] = meta
	nt.nodes[meta.NodeID] = n
}

// GetMetadata retrieves metadata for a node ID
func (nt *NodeTracker) GetMetadata(id NodeID) *Metadata {
	return nt.metadata[id]
}

// Node returns the node registered under id.
func (nt *NodeTracker) Node(id NodeID) Node {
	return nt.nodes[id]
}

// Len returns the number of tracked nodes.
func (nt *NodeTracker) Len() int {
	return len(nt.nodes)
}

// String returns a human-readable representation of metadata
func (m *Metadata) String() string {
	return fmt.Sprintf("NodeID:%d Source:%s-%s Parent:%d", m.NodeID, m.Source.Begin, m.Source.End, m.ParentID)
}
