package network

import "fmt"

// FragmentSize is the maximum number of body bytes a packet carries.
const FragmentSize = 128

// NodeID identifies a participant of the network.
type NodeID uint8

// Header carries the source route and the fragment bookkeeping of a packet.
type Header struct {
	Path          []NodeID
	FragmentIndex uint64
	FragmentTotal uint64
	SessionID     uint64
}

// Packet is the smallest transferring unit between two neighbors.
type Packet struct {
	Header
	Body []byte
}

// Src returns the node that originated the packet, which is the first hop of
// its path.
func (p Packet) Src() (NodeID, bool) {
	if len(p.Path) == 0 {
		return 0, false
	}

	return p.Path[0], true
}

// Dst returns the final hop of the packet path.
func (p Packet) Dst() (NodeID, bool) {
	if len(p.Path) == 0 {
		return 0, false
	}

	return p.Path[len(p.Path)-1], true
}

// Clone returns a deep copy of the packet so that the copy does not alias the
// path or the body of the original.
func (p Packet) Clone() Packet {
	c := p
	c.Path = append([]NodeID(nil), p.Path...)
	c.Body = append([]byte(nil), p.Body...)

	return c
}

func (p Packet) String() string {
	return fmt.Sprintf("pkt[session=%d frag=%d/%d path=%v len=%d]",
		p.SessionID, p.FragmentIndex, p.FragmentTotal, p.Path, len(p.Body))
}

// PacketBuilder can build packets.
type PacketBuilder struct {
	path         []NodeID
	sessionID    uint64
	index, total uint64
	body         []byte
}

// WithPath sets the source route of the packet to build.
func (b PacketBuilder) WithPath(path []NodeID) PacketBuilder {
	b.path = path
	return b
}

// WithSessionID sets the session that the packet belongs to.
func (b PacketBuilder) WithSessionID(id uint64) PacketBuilder {
	b.sessionID = id
	return b
}

// WithFragmentIndex sets the position of the packet within its session.
func (b PacketBuilder) WithFragmentIndex(i uint64) PacketBuilder {
	b.index = i
	return b
}

// WithFragmentTotal sets the number of fragments in the session.
func (b PacketBuilder) WithFragmentTotal(n uint64) PacketBuilder {
	b.total = n
	return b
}

// WithBody sets the payload bytes of the packet.
func (b PacketBuilder) WithBody(body []byte) PacketBuilder {
	b.body = body
	return b
}

// Build creates a new packet. The path and the body are copied.
func (b PacketBuilder) Build() Packet {
	b.bodyMustFit()

	return Packet{
		Header: Header{
			Path:          append([]NodeID(nil), b.path...),
			FragmentIndex: b.index,
			FragmentTotal: b.total,
			SessionID:     b.sessionID,
		},
		Body: append([]byte(nil), b.body...),
	}
}

func (b PacketBuilder) bodyMustFit() {
	if len(b.body) > FragmentSize {
		panic(fmt.Sprintf("packet body of %d bytes exceeds fragment size %d",
			len(b.body), FragmentSize))
	}
}
