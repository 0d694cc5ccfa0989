// Package config loads the description of a simulated network and the
// settings of the process that runs it.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var (
	// ErrInvalidTopology is returned when a topology cannot be built.
	ErrInvalidTopology = errors.New("config: invalid topology")
)

// Personalities a topology node can have.
const (
	TypeMedia  = "media"
	TypeText   = "text"
	TypeChat   = "chat"
	TypeClient = "client"
)

// Topology describes a simulated network.
type Topology struct {
	// LinkCapacity is the number of packets a link buffers.
	LinkCapacity int `yaml:"link_capacity"`

	// MaxPendingSessions bounds reassembly on every server. Zero keeps the
	// node default.
	MaxPendingSessions int `yaml:"max_pending_sessions"`

	Nodes []NodeSpec `yaml:"nodes"`
	Links []LinkSpec `yaml:"links"`
}

// NodeSpec describes one node.
type NodeSpec struct {
	ID         uint8           `yaml:"id"`
	Name       string          `yaml:"name"`
	Type       string          `yaml:"type"`
	MediaFiles []MediaFileSpec `yaml:"media_files,omitempty"`
	TextFiles  []TextFileSpec  `yaml:"text_files,omitempty"`
}

// MediaFileSpec seeds a media catalog. An empty ID picks a fresh one.
type MediaFileSpec struct {
	ID      string `yaml:"id,omitempty"`
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

// TextFileSpec seeds a text catalog. MediaRefs hold media file IDs.
type TextFileSpec struct {
	ID        string   `yaml:"id,omitempty"`
	Title     string   `yaml:"title"`
	Content   string   `yaml:"content"`
	MediaRefs []string `yaml:"media_refs,omitempty"`
}

// LinkSpec connects two nodes in both directions.
type LinkSpec struct {
	A uint8 `yaml:"a"`
	B uint8 `yaml:"b"`
}

// LoadTopology reads and validates a YAML topology file.
func LoadTopology(path string) (Topology, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Topology{}, fmt.Errorf("reading topology: %w", err)
	}

	return ParseTopology(b)
}

// ParseTopology parses and validates a YAML topology.
func ParseTopology(b []byte) (Topology, error) {
	t := Topology{LinkCapacity: 64}

	if err := yaml.Unmarshal(b, &t); err != nil {
		return Topology{}, fmt.Errorf("%w: %w", ErrInvalidTopology, err)
	}

	if err := t.Validate(); err != nil {
		return Topology{}, err
	}

	return t, nil
}

// Validate checks that nodes are unique and that links join known nodes.
func (t Topology) Validate() error {
	if t.LinkCapacity <= 0 {
		return fmt.Errorf("%w: link capacity %d", ErrInvalidTopology,
			t.LinkCapacity)
	}

	if t.MaxPendingSessions < 0 {
		return fmt.Errorf("%w: max pending sessions %d", ErrInvalidTopology,
			t.MaxPendingSessions)
	}

	nodes := make(map[uint8]bool, len(t.Nodes))
	for _, n := range t.Nodes {
		if nodes[n.ID] {
			return fmt.Errorf("%w: node %d defined twice", ErrInvalidTopology, n.ID)
		}

		switch n.Type {
		case TypeMedia, TypeText, TypeChat, TypeClient:
		default:
			return fmt.Errorf("%w: node %d has unknown type %q",
				ErrInvalidTopology, n.ID, n.Type)
		}

		nodes[n.ID] = true
	}

	links := make(map[[2]uint8]bool, len(t.Links))
	for _, l := range t.Links {
		if l.A == l.B {
			return fmt.Errorf("%w: node %d linked to itself",
				ErrInvalidTopology, l.A)
		}

		if !nodes[l.A] || !nodes[l.B] {
			return fmt.Errorf("%w: link %d-%d joins an unknown node",
				ErrInvalidTopology, l.A, l.B)
		}

		key := [2]uint8{min(l.A, l.B), max(l.A, l.B)}
		if links[key] {
			return fmt.Errorf("%w: link %d-%d defined twice",
				ErrInvalidTopology, l.A, l.B)
		}

		links[key] = true
	}

	return nil
}

// Node returns the node with the given ID.
func (t Topology) Node(id uint8) (NodeSpec, bool) {
	for _, n := range t.Nodes {
		if n.ID == id {
			return n, true
		}
	}

	return NodeSpec{}, false
}

// NodeName returns the configured name of a node or a default one.
func (n NodeSpec) NodeName() string {
	if n.Name != "" {
		return n.Name
	}

	return fmt.Sprintf("Node%d", n.ID)
}
