// Package routing resolves next hops on source-routed paths and turns
// messages into fragments.
package routing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sarchlab/overlaynet/network"
)

var (
	// ErrUnknownNextHop is returned when the hop after the current node is not
	// a neighbor, when the path has no hop after the current node, or when
	// the path visits a node twice.
	ErrUnknownNextHop = errors.New("routing: unknown next hop")

	// ErrChannelUnavailable is returned when the neighbor channel is full or
	// closed.
	ErrChannelUnavailable = errors.New("routing: channel unavailable")
)

// IsRoutingError tells if err is one of the errors that Send may return.
func IsRoutingError(err error) bool {
	return errors.Is(err, ErrUnknownNextHop) ||
		errors.Is(err, ErrChannelUnavailable)
}

// Handler owns the neighbor table of one node.
type Handler struct {
	self      network.NodeID
	neighbors map[network.NodeID]network.Channel
}

// NewHandler creates a handler for the node self with an empty neighbor
// table.
func NewHandler(self network.NodeID) *Handler {
	return &Handler{
		self:      self,
		neighbors: make(map[network.NodeID]network.Channel),
	}
}

// Self returns the node that owns the handler.
func (h *Handler) Self() network.NodeID {
	return h.self
}

// AddNeighbor registers the channel to a neighbor. Adding a neighbor that is
// already known replaces its channel.
func (h *Handler) AddNeighbor(id network.NodeID, ch network.Channel) {
	if ch == nil {
		panic(fmt.Sprintf("node %d: nil channel for neighbor %d", h.self, id))
	}

	h.neighbors[id] = ch
}

// RemoveNeighbor forgets a neighbor. Removing an unknown neighbor is a no-op.
func (h *Handler) RemoveNeighbor(id network.NodeID) {
	delete(h.neighbors, id)
}

// HasNeighbor tells if id is in the neighbor table.
func (h *Handler) HasNeighbor(id network.NodeID) bool {
	_, found := h.neighbors[id]
	return found
}

// Neighbors returns the IDs of all the neighbors in ascending order.
func (h *Handler) Neighbors() []network.NodeID {
	ids := make([]network.NodeID, 0, len(h.neighbors))
	for id := range h.neighbors {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// NextHop finds the neighbor that the packet must be forwarded to. Paths
// that visit a node twice are refused.
func (h *Handler) NextHop(path []network.NodeID) (network.NodeID, error) {
	if hop, repeated := network.RepeatedHop(path); repeated {
		return 0, fmt.Errorf("%w: node %d appears twice on %v",
			ErrUnknownNextHop, hop, path)
	}

	next, ok := network.NextHop(path, h.self)
	if !ok {
		return 0, fmt.Errorf("%w: node %d has no successor on %v",
			ErrUnknownNextHop, h.self, path)
	}

	if !h.HasNeighbor(next) {
		return 0, fmt.Errorf("%w: %d is not a neighbor of %d",
			ErrUnknownNextHop, next, h.self)
	}

	return next, nil
}

// Send forwards the packet, unmodified, to the hop after the current node on
// the packet path. It never blocks.
func (h *Handler) Send(p network.Packet) error {
	next, err := h.NextHop(p.Path)
	if err != nil {
		return err
	}

	err = h.neighbors[next].TrySend(p)
	if err != nil {
		return fmt.Errorf("%w: to %d: %w", ErrChannelUnavailable, next, err)
	}

	return nil
}

// BuildFragments splits the payload into packets of at most
// network.FragmentSize bytes. An empty payload still produces one packet so
// that the receiver sees a message.
func (h *Handler) BuildFragments(
	payload []byte,
	sessionID uint64,
	path []network.NodeID,
) []network.Packet {
	numFrag := 1
	if len(payload) > 0 {
		numFrag = (len(payload)-1)/network.FragmentSize + 1
	}

	packets := make([]network.Packet, numFrag)
	for i := 0; i < numFrag; i++ {
		start := i * network.FragmentSize
		end := min(start+network.FragmentSize, len(payload))

		packets[i] = network.PacketBuilder{}.
			WithPath(path).
			WithSessionID(sessionID).
			WithFragmentIndex(uint64(i)).
			WithFragmentTotal(uint64(numFrag)).
			WithBody(payload[start:end]).
			Build()
	}

	return packets
}

// SendMessage fragments the payload and sends every fragment. It stops at the
// first fragment that cannot be sent.
func (h *Handler) SendMessage(
	payload []byte,
	sessionID uint64,
	path []network.NodeID,
) error {
	for _, p := range h.BuildFragments(payload, sessionID, path) {
		if err := h.Send(p); err != nil {
			return err
		}
	}

	return nil
}
