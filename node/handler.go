package node

import "github.com/sarchlab/overlaynet/network"

// Request is a decoded message. Its concrete type belongs to the Handler.
type Request interface{}

// Response is the answer to a Request. Its concrete type belongs to the
// Handler.
type Response interface{}

// RequestContext describes where a request came from.
type RequestContext struct {
	Self      network.NodeID
	From      network.NodeID
	SessionID uint64

	// ReplyPath is the traversed part of the request path, reversed. It starts
	// at Self and ends at From.
	ReplyPath []network.NodeID
}

// Reply is the single response to a request and the path it travels. A nil
// Path sends the response back to the requester.
type Reply struct {
	Response Response
	Event    Event
	Path     []network.NodeID
}

// Outcome is one result of a personality command.
type Outcome struct {
	Event    Event
	Outbound *network.Packet
}

// A Handler gives a node its personality. A Handler must never panic.
type Handler interface {
	// ServerType names the personality.
	ServerType() string

	// Decode parses a reassembled message.
	Decode(payload []byte) (Request, error)

	// Encode serializes a response.
	Encode(rsp Response) []byte

	// InvalidRequest builds the response sent back when a message cannot be
	// decoded.
	InvalidRequest(reason string) Response

	// HandleRequest serves one request and returns exactly one reply.
	HandleRequest(req Request, ctx RequestContext) Reply

	// HandleCommand serves a personality command.
	HandleCommand(cmd Command) []Outcome
}
