package simulation

import (
	"github.com/rs/xid"
	"github.com/sarchlab/overlaynet/datarecording"
	"github.com/sarchlab/overlaynet/monitoring"
	"github.com/sarchlab/overlaynet/network"
	"go.uber.org/zap"
)

// Builder can be used to build a simulation.
type Builder struct {
	logger             *zap.Logger
	linkCapacity       int
	maxPendingSessions int
	logEvents          bool
	recorder           datarecording.DataRecorder
	monitor            *monitoring.Monitor
}

// MakeBuilder creates a new builder.
func MakeBuilder() Builder {
	return Builder{
		logger:             zap.NewNop(),
		linkCapacity:       64,
		maxPendingSessions: 64,
	}
}

// WithLogger sets the logger shared by every node.
func (b Builder) WithLogger(logger *zap.Logger) Builder {
	b.logger = logger
	return b
}

// WithLinkCapacity sets how many packets each inbound link buffers.
func (b Builder) WithLinkCapacity(n int) Builder {
	b.linkCapacity = n
	return b
}

// WithMaxPendingSessions bounds reassembly on every node.
func (b Builder) WithMaxPendingSessions(n int) Builder {
	b.maxPendingSessions = n
	return b
}

// WithEventLogging logs every node event at debug level.
func (b Builder) WithEventLogging() Builder {
	b.logEvents = true
	return b
}

// WithDataRecorder records every node event.
func (b Builder) WithDataRecorder(r datarecording.DataRecorder) Builder {
	b.recorder = r
	return b
}

// WithMonitor makes every node visible to the monitor.
func (b Builder) WithMonitor(m *monitoring.Monitor) Builder {
	b.monitor = m
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.linkCapacity <= 0 {
		panic("link capacity must be positive")
	}

	if b.maxPendingSessions < 0 {
		panic("max pending sessions must not be negative")
	}
}

// Build builds the simulation.
func (b Builder) Build() *Simulation {
	b.parametersMustBeValid()

	logger := b.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Simulation{
		id:                 xid.New().String(),
		logger:             logger,
		linkCapacity:       b.linkCapacity,
		maxPendingSessions: b.maxPendingSessions,
		logEvents:          b.logEvents,
		monitor:            b.monitor,
		servers:            make(map[network.NodeID]*server),
		clients:            make(map[network.NodeID]*Client),
		links:              make(map[network.NodeID]map[network.NodeID]bool),
	}

	if b.recorder != nil {
		s.recorder = datarecording.NewEventRecorder(b.recorder)
	}

	return s
}
