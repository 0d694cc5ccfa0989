package node

import (
	"fmt"

	"github.com/sarchlab/overlaynet/hooking"
	"github.com/sarchlab/overlaynet/network"
	"github.com/sarchlab/overlaynet/network/assembler"
)

// HookPosEvent marks when a node emits an event.
var HookPosEvent = &hooking.HookPos{Name: "Node Event"}

// An Event reports something a node did. Events are for observers only; the
// node never depends on them.
type Event interface {
	Kind() string
	String() string
}

// NeighborAdded reports a processed AddSender command. Replaced is set when
// the neighbor was already known and its channel was swapped.
type NeighborAdded struct {
	ID       network.NodeID
	Replaced bool
}

func (NeighborAdded) Kind() string { return "neighbor_added" }

func (e NeighborAdded) String() string {
	if e.Replaced {
		return fmt.Sprintf("neighbor %d replaced", e.ID)
	}

	return fmt.Sprintf("neighbor %d added", e.ID)
}

// NeighborRemoved reports a processed RemoveSender command.
type NeighborRemoved struct {
	ID network.NodeID
}

func (NeighborRemoved) Kind() string { return "neighbor_removed" }

func (e NeighborRemoved) String() string {
	return fmt.Sprintf("neighbor %d removed", e.ID)
}

// NodeStopped reports that the node will not process anything anymore.
type NodeStopped struct {
	Reason            string
	DiscardedSessions int
}

func (NodeStopped) Kind() string { return "node_stopped" }

func (e NodeStopped) String() string {
	return fmt.Sprintf("stopped (%s), %d incomplete sessions discarded",
		e.Reason, e.DiscardedSessions)
}

// CommandRejected reports a command that could not be applied.
type CommandRejected struct {
	Command Command
	Reason  string
}

func (CommandRejected) Kind() string { return "command_rejected" }

func (e CommandRejected) String() string {
	return fmt.Sprintf("command %T rejected: %s", e.Command, e.Reason)
}

// PacketRejected reports a packet dropped before or during reassembly.
type PacketRejected struct {
	Session assembler.SessionKey
	Index   uint64
	Err     error
}

func (PacketRejected) Kind() string { return "packet_rejected" }

func (e PacketRejected) String() string {
	return fmt.Sprintf("fragment %d of session %s rejected: %v",
		e.Index, e.Session, e.Err)
}

// PacketForwarded reports a packet that only passed through the node.
type PacketForwarded struct {
	Session assembler.SessionKey
	Index   uint64
	To      network.NodeID
}

func (PacketForwarded) Kind() string { return "packet_forwarded" }

func (e PacketForwarded) String() string {
	return fmt.Sprintf("fragment %d of session %s forwarded to %d",
		e.Index, e.Session, e.To)
}

// SessionEvicted reports an incomplete session dropped to make room for a new
// one.
type SessionEvicted struct {
	Session assembler.SessionKey
}

func (SessionEvicted) Kind() string { return "session_evicted" }

func (e SessionEvicted) String() string {
	return fmt.Sprintf("incomplete session %s evicted", e.Session)
}

// DecodeFailed reports a message that the Handler could not decode. The
// sender is answered with an invalid-request response; SendErr is set if
// that answer could not be sent.
type DecodeFailed struct {
	From      network.NodeID
	SessionID uint64
	Err       error
	SendErr   error
}

func (DecodeFailed) Kind() string { return "decode_failed" }

func (e DecodeFailed) String() string {
	s := fmt.Sprintf("message %d from %d not decoded: %v",
		e.SessionID, e.From, e.Err)
	if e.SendErr != nil {
		s += fmt.Sprintf("; error response not sent: %v", e.SendErr)
	}

	return s
}

// SendFailed reports a response or an outbound packet that could not be
// sent. Cause is the event the Handler produced for the same work, if any.
type SendFailed struct {
	SessionID uint64
	Path      []network.NodeID
	Err       error
	Cause     Event
}

func (SendFailed) Kind() string { return "send_failed" }

func (e SendFailed) String() string {
	s := fmt.Sprintf("session %d along %v not sent: %v",
		e.SessionID, e.Path, e.Err)
	if e.Cause != nil {
		s += fmt.Sprintf(" (after %s)", e.Cause)
	}

	return s
}
