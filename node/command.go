package node

import "github.com/sarchlab/overlaynet/network"

// A Command controls a node. AddSender, RemoveSender, and Shutdown are
// understood by every node; any other command is passed to the Handler.
type Command interface{}

// AddSender adds a neighbor, or replaces the channel of a known one.
type AddSender struct {
	ID      network.NodeID
	Channel network.Channel
}

// RemoveSender removes a neighbor.
type RemoveSender struct {
	ID network.NodeID
}

// Shutdown stops the node for good.
type Shutdown struct{}
