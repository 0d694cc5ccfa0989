package node

import (
	"fmt"

	"github.com/sarchlab/overlaynet/network"
	"github.com/sarchlab/overlaynet/network/assembler"
	"github.com/sarchlab/overlaynet/network/routing"
	"go.uber.org/zap"
)

// Builder can build nodes.
type Builder struct {
	id                 network.NodeID
	idGiven            bool
	handler            Handler
	commands           <-chan Command
	packets            <-chan network.Packet
	logger             *zap.Logger
	maxPendingSessions int
	neighbors          map[network.NodeID]network.Channel
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		logger:             zap.NewNop(),
		maxPendingSessions: 64,
	}
}

// WithID sets the network identifier of the node.
func (b Builder) WithID(id network.NodeID) Builder {
	b.id = id
	b.idGiven = true

	return b
}

// WithHandler sets the personality of the node.
func (b Builder) WithHandler(h Handler) Builder {
	b.handler = h
	return b
}

// WithCommandSource sets the channel that the node takes commands from.
func (b Builder) WithCommandSource(ch <-chan Command) Builder {
	b.commands = ch
	return b
}

// WithPacketSource sets the channel that the node takes packets from.
func (b Builder) WithPacketSource(ch <-chan network.Packet) Builder {
	b.packets = ch
	return b
}

// WithLogger sets the logger of the node.
func (b Builder) WithLogger(l *zap.Logger) Builder {
	b.logger = l
	return b
}

// WithMaxPendingSessions bounds the number of messages under reassembly.
// Zero means unbounded.
func (b Builder) WithMaxPendingSessions(n int) Builder {
	b.maxPendingSessions = n
	return b
}

// WithNeighbors sets the neighbors the node starts with.
func (b Builder) WithNeighbors(n map[network.NodeID]network.Channel) Builder {
	b.neighbors = n
	return b
}

// Build creates a new node.
func (b Builder) Build(name string) *Comp {
	b.idMustBeGiven()
	b.handlerMustBeGiven()
	b.sourcesMustBeGiven()

	if name == "" {
		name = fmt.Sprintf("Node%d", b.id)
	}

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Comp{
		name:     name,
		id:       b.id,
		handler:  b.handler,
		logger:   logger,
		commands: b.commands,
		packets:  b.packets,
		router:   routing.NewHandler(b.id),
		done:     make(chan struct{}),
	}

	c.assembler = assembler.MakeBuilder().
		WithMaxPendingSessions(b.maxPendingSessions).
		WithEvictionCallback(c.onSessionEvicted).
		Build()

	for id, ch := range b.neighbors {
		c.router.AddNeighbor(id, ch)
	}

	return c
}

func (b Builder) idMustBeGiven() {
	if !b.idGiven {
		panic("node id is not given")
	}
}

func (b Builder) handlerMustBeGiven() {
	if b.handler == nil {
		panic("handler is not given")
	}
}

func (b Builder) sourcesMustBeGiven() {
	if b.commands == nil {
		panic("command source is not given")
	}

	if b.packets == nil {
		panic("packet source is not given")
	}
}
