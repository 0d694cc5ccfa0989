// Package node implements the dispatch engine shared by every server
// personality of the overlay network.
//
// A node runs one loop that takes commands and packets from two channels.
// Commands are served before packets. Packets are reassembled into messages,
// the messages are decoded and handled by the personality Handler, and the
// single response to every request is fragmented and sent along the path the
// Handler chooses. Everything the node does is reported as an Event through
// the hooks registered on the node.
//
// All the state of a node is owned by its loop. Other goroutines talk to a
// node only through its command and packet channels.
package node
