// Package simulation runs a network of nodes and clients in one process.
// Every node runs its dispatch loop in its own goroutine; nodes and clients
// only talk through links.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/sarchlab/overlaynet/datarecording"
	"github.com/sarchlab/overlaynet/hooking"
	"github.com/sarchlab/overlaynet/monitoring"
	"github.com/sarchlab/overlaynet/network"
	"github.com/sarchlab/overlaynet/node"
	"go.uber.org/zap"
)

var (
	// ErrUnknownNode is returned for an ID that is not part of the
	// simulation.
	ErrUnknownNode = errors.New("simulation: unknown node")

	// ErrNotRunning is returned when a command is sent to a stopped
	// simulation.
	ErrNotRunning = errors.New("simulation: not running")
)

type server struct {
	comp     *node.Comp
	commands chan node.Command
	inbound  *network.Link
}

// A Simulation owns the nodes and clients of a network.
type Simulation struct {
	id                 string
	logger             *zap.Logger
	linkCapacity       int
	maxPendingSessions int
	logEvents          bool

	recorder *datarecording.EventRecorder
	monitor  *monitoring.Monitor

	servers map[network.NodeID]*server
	clients map[network.NodeID]*Client
	links   map[network.NodeID]map[network.NodeID]bool

	lock    sync.Mutex
	running bool
	stopped bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// Recorder returns the event recorder, if any.
func (s *Simulation) Recorder() *datarecording.EventRecorder {
	return s.recorder
}

// Monitor returns the monitor, if any.
func (s *Simulation) Monitor() *monitoring.Monitor {
	return s.monitor
}

// AddServer creates a node with the given personality. Servers can only be
// added before Start.
func (s *Simulation) AddServer(
	id network.NodeID,
	name string,
	handler node.Handler,
) *node.Comp {
	s.mustNotBeStarted()
	s.idMustBeFree(id)

	if name == "" {
		name = fmt.Sprintf("Node%d", id)
	}

	srv := &server{
		commands: make(chan node.Command, 16),
		inbound:  network.NewLink(name+".In", s.linkCapacity),
	}

	srv.comp = node.MakeBuilder().
		WithID(id).
		WithHandler(handler).
		WithCommandSource(srv.commands).
		WithPacketSource(srv.inbound.Incoming()).
		WithLogger(s.logger).
		WithMaxPendingSessions(s.maxPendingSessions).
		Build(name)

	if s.logEvents {
		srv.comp.AcceptHook(hooking.NewLogHook(s.logger))
	}

	if s.recorder != nil {
		srv.comp.AcceptHook(s.recorder)
	}

	if s.monitor != nil {
		s.monitor.RegisterNode(srv.comp)
	}

	s.servers[id] = srv

	return srv.comp
}

// AddClient creates a client. Clients can only be added before Start.
func (s *Simulation) AddClient(id network.NodeID, name string) *Client {
	s.mustNotBeStarted()
	s.idMustBeFree(id)

	if name == "" {
		name = fmt.Sprintf("Client%d", id)
	}

	c := newClient(name, id, s.linkCapacity)
	s.clients[id] = c

	return c
}

// Connect links two members in both directions. Before Start the link is set
// up directly; afterwards AddSender commands are sent to the nodes.
func (s *Simulation) Connect(a, b network.NodeID) error {
	inA, err := s.inbound(a)
	if err != nil {
		return err
	}

	inB, err := s.inbound(b)
	if err != nil {
		return err
	}

	if err := s.addSender(a, b, inB); err != nil {
		return err
	}

	if err := s.addSender(b, a, inA); err != nil {
		return err
	}

	s.link(a, b, true)

	return nil
}

// Disconnect removes the link between two members in both directions.
func (s *Simulation) Disconnect(a, b network.NodeID) error {
	if err := s.removeSender(a, b); err != nil {
		return err
	}

	if err := s.removeSender(b, a); err != nil {
		return err
	}

	s.link(a, b, false)

	return nil
}

func (s *Simulation) link(a, b network.NodeID, up bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	for _, pair := range [][2]network.NodeID{{a, b}, {b, a}} {
		if s.links[pair[0]] == nil {
			s.links[pair[0]] = make(map[network.NodeID]bool)
		}

		if up {
			s.links[pair[0]][pair[1]] = true
		} else {
			delete(s.links[pair[0]], pair[1])
		}
	}
}

// Path returns a shortest path between two members. Clients do not forward,
// so they only appear at the ends of a path.
func (s *Simulation) Path(from, to network.NodeID) ([]network.NodeID, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	prev := map[network.NodeID]network.NodeID{from: from}
	queue := []network.NodeID{from}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur == to {
			break
		}

		if _, isClient := s.clients[cur]; isClient && cur != from {
			continue
		}

		next := make([]network.NodeID, 0, len(s.links[cur]))
		for n := range s.links[cur] {
			next = append(next, n)
		}

		sort.Slice(next, func(i, j int) bool { return next[i] < next[j] })

		for _, n := range next {
			if _, seen := prev[n]; !seen {
				prev[n] = cur
				queue = append(queue, n)
			}
		}
	}

	if _, reached := prev[to]; !reached {
		return nil, false
	}

	path := []network.NodeID{to}
	for cur := to; cur != from; {
		cur = prev[cur]
		path = append(path, cur)
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	return path, true
}

func (s *Simulation) inbound(id network.NodeID) (*network.Link, error) {
	if srv, found := s.servers[id]; found {
		return srv.inbound, nil
	}

	if c, found := s.clients[id]; found {
		return c.inbound, nil
	}

	return nil, fmt.Errorf("%w: %d", ErrUnknownNode, id)
}

func (s *Simulation) addSender(
	owner, neighbor network.NodeID,
	ch network.Channel,
) error {
	if c, found := s.clients[owner]; found {
		c.router.AddNeighbor(neighbor, ch)
		return nil
	}

	return s.Command(owner, node.AddSender{ID: neighbor, Channel: ch})
}

func (s *Simulation) removeSender(owner, neighbor network.NodeID) error {
	if c, found := s.clients[owner]; found {
		c.router.RemoveNeighbor(neighbor)
		return nil
	}

	return s.Command(owner, node.RemoveSender{ID: neighbor})
}

// Command delivers a command to a node. Before Start the node handles it
// right away; afterwards it is queued for the node loop.
func (s *Simulation) Command(id network.NodeID, cmd node.Command) error {
	srv, found := s.servers[id]
	if !found {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}

	s.lock.Lock()
	switch {
	case s.stopped:
		s.lock.Unlock()
		return ErrNotRunning
	case !s.running:
		// Start waits for the lock, so no node loop runs yet.
		srv.comp.HandleCommand(cmd)
		s.lock.Unlock()

		return nil
	}
	s.lock.Unlock()

	select {
	case srv.commands <- cmd:
		return nil
	case <-srv.comp.Done():
		return ErrNotRunning
	}
}

// Node returns a server node.
func (s *Simulation) Node(id network.NodeID) (*node.Comp, bool) {
	srv, found := s.servers[id]
	if !found {
		return nil, false
	}

	return srv.comp, true
}

// Client returns a client.
func (s *Simulation) Client(id network.NodeID) (*Client, bool) {
	c, found := s.clients[id]
	return c, found
}

// Nodes returns the server nodes ordered by ID.
func (s *Simulation) Nodes() []*node.Comp {
	comps := make([]*node.Comp, 0, len(s.servers))
	for _, srv := range s.servers {
		comps = append(comps, srv.comp)
	}

	sort.Slice(comps, func(i, j int) bool { return comps[i].ID() < comps[j].ID() })

	return comps
}

// Start runs every node in its own goroutine. Cancelling ctx stops them.
func (s *Simulation) Start(ctx context.Context) {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.running || s.stopped {
		panic("simulation already started")
	}

	ctx, s.cancel = context.WithCancel(ctx)
	s.running = true

	for _, srv := range s.servers {
		s.wg.Add(1)

		go func(comp *node.Comp) {
			defer s.wg.Done()
			comp.Run(ctx)
		}(srv.comp)
	}

	s.logger.Info("simulation started",
		zap.String("id", s.id),
		zap.Int("servers", len(s.servers)),
		zap.Int("clients", len(s.clients)))
}

// Shutdown stops every node, waits for the loops to exit and closes all
// links. It is safe to call more than once.
func (s *Simulation) Shutdown() {
	s.lock.Lock()
	if s.stopped {
		s.lock.Unlock()
		return
	}

	running := s.running
	s.running = false
	s.stopped = true
	s.lock.Unlock()

	for _, srv := range s.servers {
		if !running {
			srv.comp.HandleCommand(node.Shutdown{})
			continue
		}

		select {
		case srv.commands <- node.Shutdown{}:
		case <-srv.comp.Done():
		}
	}

	s.wg.Wait()

	if s.cancel != nil {
		s.cancel()
	}

	for _, srv := range s.servers {
		srv.inbound.Close()
	}

	for _, c := range s.clients {
		c.inbound.Close()
	}

	s.logger.Info("simulation stopped", zap.String("id", s.id))
}

// Terminate shuts the simulation down and closes the recording.
func (s *Simulation) Terminate() error {
	s.Shutdown()

	if s.recorder == nil {
		return nil
	}

	return s.recorder.Close()
}

func (s *Simulation) mustNotBeStarted() {
	s.lock.Lock()
	defer s.lock.Unlock()

	if s.running || s.stopped {
		panic("members cannot be added to a started simulation")
	}
}

func (s *Simulation) idMustBeFree(id network.NodeID) {
	_, isServer := s.servers[id]
	_, isClient := s.clients[id]

	if isServer || isClient {
		panic(fmt.Sprintf("node %d already exists", id))
	}
}
