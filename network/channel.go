package network

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrChannelFull is returned when a channel cannot take a packet without
	// blocking.
	ErrChannelFull = errors.New("network: channel full")

	// ErrChannelClosed is returned when sending on a closed channel.
	ErrChannelClosed = errors.New("network: channel closed")
)

// A Channel is the sending end of a connection to a neighbor. TrySend must
// never block.
type Channel interface {
	TrySend(p Packet) error
}

// Link is an in-memory, bounded, one-directional connection. The owner of the
// receiving node reads from Incoming; neighbors hold the Link as a Channel.
type Link struct {
	name string

	lock   sync.RWMutex
	closed bool
	buf    chan Packet
}

// NewLink creates a link that can buffer up to capacity packets.
func NewLink(name string, capacity int) *Link {
	if capacity <= 0 {
		panic(fmt.Sprintf("link %s: capacity must be positive", name))
	}

	return &Link{
		name: name,
		buf:  make(chan Packet, capacity),
	}
}

// Name returns the name of the link.
func (l *Link) Name() string {
	return l.name
}

// TrySend pushes a packet into the link if there is room. The packet is
// cloned so the receiver never aliases the sender's memory.
func (l *Link) TrySend(p Packet) error {
	l.lock.RLock()
	defer l.lock.RUnlock()

	if l.closed {
		return fmt.Errorf("%w: %s", ErrChannelClosed, l.name)
	}

	select {
	case l.buf <- p.Clone():
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrChannelFull, l.name)
	}
}

// Incoming returns the receiving end of the link.
func (l *Link) Incoming() <-chan Packet {
	return l.buf
}

// Size returns the number of packets waiting in the link.
func (l *Link) Size() int {
	return len(l.buf)
}

// Capacity returns the number of packets the link can buffer.
func (l *Link) Capacity() int {
	return cap(l.buf)
}

// Close makes every later TrySend fail. Packets already buffered can still be
// received. Closing twice is a no-op.
func (l *Link) Close() {
	l.lock.Lock()
	defer l.lock.Unlock()

	if l.closed {
		return
	}

	l.closed = true
	close(l.buf)
}
