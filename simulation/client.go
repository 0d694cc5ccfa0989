package simulation

import (
	"context"
	"errors"
	"fmt"

	"github.com/sarchlab/overlaynet/network"
	"github.com/sarchlab/overlaynet/network/assembler"
	"github.com/sarchlab/overlaynet/network/routing"
)

// ErrClientClosed is returned by Receive once the inbound link of a client is
// closed and drained.
var ErrClientClosed = errors.New("simulation: client closed")

// Message is a reassembled message received by a client.
type Message struct {
	From      network.NodeID
	SessionID uint64
	Path      []network.NodeID
	Payload   []byte
}

// A Client is a traffic endpoint. It sends requests along explicit paths and
// reassembles whatever arrives on its inbound link. A Client is used from one
// goroutine at a time.
type Client struct {
	name      string
	id        network.NodeID
	inbound   *network.Link
	router    *routing.Handler
	assembler *assembler.Assembler

	nextSession uint64
	dropped     int
}

func newClient(name string, id network.NodeID, capacity int) *Client {
	return &Client{
		name:      name,
		id:        id,
		inbound:   network.NewLink(name+".In", capacity),
		router:    routing.NewHandler(id),
		assembler: assembler.MakeBuilder().Build(),
	}
}

// Name returns the name of the client.
func (c *Client) Name() string {
	return c.name
}

// ID returns the network identifier of the client.
func (c *Client) ID() network.NodeID {
	return c.id
}

// Neighbors returns the IDs of the nodes the client is linked to.
func (c *Client) Neighbors() []network.NodeID {
	return c.router.Neighbors()
}

// Dropped returns how many received packets were not meant for the client or
// could not be reassembled.
func (c *Client) Dropped() int {
	return c.dropped
}

// Request fragments the payload and sends it along the path, which must start
// at the client. It returns the session ID of the request.
func (c *Client) Request(payload []byte, path []network.NodeID) (uint64, error) {
	if len(path) < 2 || path[0] != c.id {
		return 0, fmt.Errorf("%w: %v does not start at %d",
			routing.ErrUnknownNextHop, path, c.id)
	}

	c.nextSession++
	session := c.nextSession

	err := c.router.SendMessage(payload, session, path)
	if err != nil {
		return 0, err
	}

	return session, nil
}

// Receive waits for the next complete message.
func (c *Client) Receive(ctx context.Context) (Message, error) {
	for {
		select {
		case <-ctx.Done():
			return Message{}, ctx.Err()
		case p, ok := <-c.inbound.Incoming():
			if !ok {
				return Message{}, ErrClientClosed
			}

			if msg, complete := c.ingest(p); complete {
				return msg, nil
			}
		}
	}
}

func (c *Client) ingest(p network.Packet) (Message, bool) {
	if dst, _ := p.Dst(); dst != c.id {
		c.dropped++
		return Message{}, false
	}

	payload, complete, err := c.assembler.Ingest(p)
	if err != nil {
		c.dropped++
		return Message{}, false
	}

	if !complete {
		return Message{}, false
	}

	from, _ := p.Src()

	return Message{
		From:      from,
		SessionID: p.SessionID,
		Path:      p.Path,
		Payload:   payload,
	}, true
}
