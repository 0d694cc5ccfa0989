package node

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sarchlab/overlaynet/hooking"
	"github.com/sarchlab/overlaynet/network"
	"github.com/sarchlab/overlaynet/network/assembler"
	"github.com/sarchlab/overlaynet/network/routing"
	"go.uber.org/zap"
)

// ErrNotOnPath is reported when a packet reaches a node that is not part of
// its path.
var ErrNotOnPath = errors.New("node: packet path does not include this node")

// State is the lifecycle state of a node.
type State uint32

// A node is created running and can only move to stopped.
const (
	StateRunning State = iota
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", uint32(s))
	}
}

// relaySessionBase is the first session ID a node allocates for itself.
// Sessions below it are chosen by requesters and echoed in replies.
const relaySessionBase = uint64(1) << 63

// Comp is a node of the overlay network.
type Comp struct {
	hooking.HookableBase

	name    string
	id      network.NodeID
	handler Handler
	logger  *zap.Logger

	commands <-chan Command
	packets  <-chan network.Packet

	router    *routing.Handler
	assembler *assembler.Assembler

	state       atomic.Uint32
	stopOnce    sync.Once
	done        chan struct{}
	nextSession uint64
}

// Name returns the name of the node.
func (c *Comp) Name() string {
	return c.name
}

// ID returns the network identifier of the node.
func (c *Comp) ID() network.NodeID {
	return c.id
}

// ServerType returns the personality of the node.
func (c *Comp) ServerType() string {
	return c.handler.ServerType()
}

// State returns the lifecycle state of the node.
func (c *Comp) State() State {
	return State(c.state.Load())
}

// Done is closed when the node stops.
func (c *Comp) Done() <-chan struct{} {
	return c.done
}

// Neighbors returns the IDs of the neighbors. It must not be called while the
// loop runs in another goroutine.
func (c *Comp) Neighbors() []network.NodeID {
	return c.router.Neighbors()
}

// NumPendingSessions returns the number of messages under reassembly. It
// must not be called while the loop runs in another goroutine.
func (c *Comp) NumPendingSessions() int {
	return c.assembler.NumPending()
}

// Run processes commands and packets until the node stops. Cancelling ctx
// has the same effect as a Shutdown command.
func (c *Comp) Run(ctx context.Context) {
	c.logger.Info("node running",
		zap.String("node", c.name),
		zap.Uint8("id", uint8(c.id)),
		zap.String("type", c.handler.ServerType()))

	for c.State() == StateRunning {
		c.step(ctx)
	}

	c.logger.Info("node stopped", zap.String("node", c.name))
}

func (c *Comp) step(ctx context.Context) {
	select {
	case cmd, ok := <-c.commands:
		c.recvCommand(cmd, ok)
		return
	default:
	}

	select {
	case <-ctx.Done():
		c.stop("context done")
	case cmd, ok := <-c.commands:
		c.recvCommand(cmd, ok)
	case p, ok := <-c.packets:
		if !ok {
			c.logger.Warn("packet source closed", zap.String("node", c.name))
			c.packets = nil

			return
		}

		c.HandlePacket(p)
	}
}

func (c *Comp) recvCommand(cmd Command, ok bool) {
	if !ok {
		c.stop("command source closed")
		return
	}

	c.HandleCommand(cmd)
}

// HandleCommand processes one command. Commands are ignored once the node has
// stopped.
func (c *Comp) HandleCommand(cmd Command) {
	if c.State() == StateStopped {
		return
	}

	switch cmd := cmd.(type) {
	case AddSender:
		c.addSender(cmd)
	case RemoveSender:
		c.removeSender(cmd)
	case Shutdown:
		c.stop("shutdown")
	default:
		c.handlePersonalityCommand(cmd)
	}
}

func (c *Comp) addSender(cmd AddSender) {
	if cmd.Channel == nil {
		c.emit(CommandRejected{Command: cmd, Reason: "nil channel"})
		return
	}

	replaced := c.router.HasNeighbor(cmd.ID)
	c.router.AddNeighbor(cmd.ID, cmd.Channel)
	c.emit(NeighborAdded{ID: cmd.ID, Replaced: replaced})
}

func (c *Comp) removeSender(cmd RemoveSender) {
	c.router.RemoveNeighbor(cmd.ID)
	c.emit(NeighborRemoved{ID: cmd.ID})
}

func (c *Comp) handlePersonalityCommand(cmd Command) {
	for _, o := range c.handler.HandleCommand(cmd) {
		if o.Outbound == nil {
			c.emit(o.Event)
			continue
		}

		err := c.router.Send(*o.Outbound)
		if err != nil {
			c.emit(SendFailed{
				SessionID: o.Outbound.SessionID,
				Path:      o.Outbound.Path,
				Err:       err,
				Cause:     o.Event,
			})

			continue
		}

		c.emit(o.Event)
	}
}

func (c *Comp) stop(reason string) {
	c.stopOnce.Do(func() {
		discarded := c.assembler.NumPending()
		c.assembler.Reset()
		c.state.Store(uint32(StateStopped))
		c.emit(NodeStopped{Reason: reason, DiscardedSessions: discarded})
		close(c.done)
	})
}

// HandlePacket processes one packet. Packets are ignored once the node has
// stopped.
func (c *Comp) HandlePacket(p network.Packet) {
	if c.State() == StateStopped {
		return
	}

	key := assembler.KeyOf(p)

	if network.IndexOf(p.Path, c.id) < 0 {
		c.emit(PacketRejected{
			Session: key,
			Index:   p.FragmentIndex,
			Err:     ErrNotOnPath,
		})
		return
	}

	if dst, _ := p.Dst(); dst != c.id {
		c.forward(p, key)
		return
	}

	payload, complete, err := c.assembler.Ingest(p)
	if err != nil {
		c.logger.Debug("fragment rejected",
			zap.String("node", c.name),
			zap.Stringer("session", key),
			zap.Error(err))
		c.emit(PacketRejected{Session: key, Index: p.FragmentIndex, Err: err})

		return
	}

	if !complete {
		return
	}

	c.handleMessage(p, payload)
}

func (c *Comp) forward(p network.Packet, key assembler.SessionKey) {
	next, err := c.router.NextHop(p.Path)
	if err == nil {
		err = c.router.Send(p)
	}

	if err != nil {
		c.emit(SendFailed{SessionID: p.SessionID, Path: p.Path, Err: err})
		return
	}

	c.emit(PacketForwarded{Session: key, Index: p.FragmentIndex, To: next})
}

func (c *Comp) handleMessage(last network.Packet, payload []byte) {
	from, _ := last.Src()
	back := network.ReversePath(last.Path, c.id)

	req, err := c.handler.Decode(payload)
	if err != nil {
		rsp := c.handler.InvalidRequest(err.Error())
		sendErr := c.router.SendMessage(c.handler.Encode(rsp),
			last.SessionID, back)

		c.logger.Debug("message not decoded",
			zap.String("node", c.name),
			zap.Uint8("from", uint8(from)),
			zap.Error(err))
		c.emit(DecodeFailed{
			From:      from,
			SessionID: last.SessionID,
			Err:       err,
			SendErr:   sendErr,
		})

		return
	}

	reply := c.handler.HandleRequest(req, RequestContext{
		Self:      c.id,
		From:      from,
		SessionID: last.SessionID,
		ReplyPath: back,
	})

	path := reply.Path
	if path == nil {
		path = back
	}

	sessionID := last.SessionID
	if len(path) == 0 || path[len(path)-1] != from {
		sessionID = c.newSessionID()
	}

	err = c.router.SendMessage(c.handler.Encode(reply.Response), sessionID, path)
	if err != nil {
		c.logger.Warn("reply not sent",
			zap.String("node", c.name),
			zap.Uint64("session", sessionID),
			zap.Error(err))
		c.emit(SendFailed{
			SessionID: sessionID,
			Path:      path,
			Err:       err,
			Cause:     reply.Event,
		})

		return
	}

	c.emit(reply.Event)
}

func (c *Comp) newSessionID() uint64 {
	id := relaySessionBase | c.nextSession
	c.nextSession++

	return id
}

func (c *Comp) onSessionEvicted(key assembler.SessionKey) {
	c.emit(SessionEvicted{Session: key})
}

func (c *Comp) emit(e Event) {
	if e == nil || c.NumHooks() == 0 {
		return
	}

	c.InvokeHook(hooking.HookCtx{
		Domain: c,
		Pos:    HookPosEvent,
		Item:   e,
	})
}
