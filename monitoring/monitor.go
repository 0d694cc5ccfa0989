// Package monitoring serves what the nodes of a running simulation observed
// over HTTP.
package monitoring

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/rs/xid"
	"github.com/sarchlab/overlaynet/hooking"
	"github.com/sarchlab/overlaynet/monitoring/web"
	"github.com/sarchlab/overlaynet/network"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
	"go.uber.org/zap"
)

// A Node can be monitored.
type Node interface {
	hooking.Hookable
	Name() string
	ID() network.NodeID
	ServerType() string
}

type monitoredNode struct {
	node  Node
	stats *hooking.StatsHook
}

// Monitor turns a simulation into a server that reports per-node statistics.
type Monitor struct {
	logger          *zap.Logger
	portNumber      int
	recentCap       int
	profileDuration time.Duration

	lock  sync.RWMutex
	nodes map[network.NodeID]*monitoredNode

	progressBarsLock sync.Mutex
	progressBars     []*ProgressBar

	server *http.Server
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{
		logger:          zap.NewNop(),
		recentCap:       256,
		profileDuration: time.Second,
		nodes:           make(map[network.NodeID]*monitoredNode),
	}
}

// WithPortNumber sets the port number of the monitor. Ports below 1000 are
// refused and a random port is used instead.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber < 1000 {
		m.logger.Warn("port number not allowed, using a random port",
			zap.Int("port", portNumber))

		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// WithLogger sets the logger of the monitor.
func (m *Monitor) WithLogger(logger *zap.Logger) *Monitor {
	m.logger = logger
	return m
}

// WithRecentEvents sets how many recent events are kept per node.
func (m *Monitor) WithRecentEvents(n int) *Monitor {
	m.recentCap = n
	return m
}

// RegisterNode starts observing a node. It must be called before the node
// runs.
func (m *Monitor) RegisterNode(n Node) {
	m.lock.Lock()
	defer m.lock.Unlock()

	if _, found := m.nodes[n.ID()]; found {
		panic(fmt.Sprintf("node %d already registered", n.ID()))
	}

	stats := hooking.NewStatsHook(m.recentCap)
	n.AcceptHook(stats)

	m.nodes[n.ID()] = &monitoredNode{node: n, stats: stats}
}

// Stats returns what was observed on a node.
func (m *Monitor) Stats(id network.NodeID) (hooking.Stats, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	n, found := m.nodes[id]
	if !found {
		return hooking.Stats{}, false
	}

	return n.stats.Snapshot(0), true
}

// CreateProgressBar creates a progress bar and reports it until it is
// completed. A zero total means the total is unknown.
func (m *Monitor) CreateProgressBar(name string, total uint64) *ProgressBar {
	bar := &ProgressBar{
		id:    xid.New().String(),
		name:  name,
		start: time.Now(),
		total: total,
	}

	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	m.progressBars = append(m.progressBars, bar)

	return bar
}

// CompleteProgressBar removes a bar.
func (m *Monitor) CompleteProgressBar(pb *ProgressBar) {
	m.progressBarsLock.Lock()
	defer m.progressBarsLock.Unlock()

	newBars := make([]*ProgressBar, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		if b != pb {
			newBars = append(newBars, b)
		}
	}

	m.progressBars = newBars
}

// Handler returns the routes of the monitor.
func (m *Monitor) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/nodes", m.listNodes)
	r.HandleFunc("/api/node/{id:[0-9]+}", m.nodeDetails)
	r.HandleFunc("/api/node/{id:[0-9]+}/events", m.nodeEvents)
	r.HandleFunc("/api/progress", m.listProgressBars)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)
	r.PathPrefix("/").Handler(http.FileServer(web.GetAssets()))

	return r
}

// StartServer serves the monitor in the background and returns the port it
// listens on.
func (m *Monitor) StartServer() (int, error) {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(m.portNumber))
	if err != nil {
		return 0, fmt.Errorf("starting monitor: %w", err)
	}

	port := listener.Addr().(*net.TCPAddr).Port
	m.server = &http.Server{
		Handler:           m.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	fmt.Fprintf(os.Stderr,
		"Monitoring simulation with http://localhost:%d\n", port)

	go func() {
		err := m.server.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.logger.Error("monitor stopped", zap.Error(err))
		}
	}()

	return port, nil
}

// Close stops the server started by StartServer.
func (m *Monitor) Close(ctx context.Context) error {
	if m.server == nil {
		return nil
	}

	return m.server.Shutdown(ctx)
}

type nodeRsp struct {
	ID    network.NodeID `json:"id"`
	Name  string         `json:"name"`
	Type  string         `json:"type"`
	Total uint64         `json:"total"`
}

func (m *Monitor) listNodes(w http.ResponseWriter, _ *http.Request) {
	m.lock.RLock()

	rsp := make([]nodeRsp, 0, len(m.nodes))
	for id, n := range m.nodes {
		rsp = append(rsp, nodeRsp{
			ID:    id,
			Name:  n.node.Name(),
			Type:  n.node.ServerType(),
			Total: n.stats.Snapshot(-1).Total,
		})
	}

	m.lock.RUnlock()

	sort.Slice(rsp, func(i, j int) bool { return rsp[i].ID < rsp[j].ID })

	m.writeJSON(w, rsp)
}

type nodeDetail struct {
	ID    network.NodeID
	Name  string
	Type  string
	Stats hooking.Stats
}

func (m *Monitor) nodeDetails(w http.ResponseWriter, r *http.Request) {
	n := m.findNodeOr404(w, r)
	if n == nil {
		return
	}

	detail := &nodeDetail{
		ID:    n.node.ID(),
		Name:  n.node.Name(),
		Type:  n.node.ServerType(),
		Stats: n.stats.Snapshot(-1),
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(detail)
	serializer.SetMaxDepth(3)

	if err := serializer.Serialize(w); err != nil {
		m.logger.Warn("node details not written", zap.Error(err))
	}
}

func (m *Monitor) nodeEvents(w http.ResponseWriter, r *http.Request) {
	n := m.findNodeOr404(w, r)
	if n == nil {
		return
	}

	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		var err error

		limit, err = strconv.Atoi(s)
		if err != nil || limit < 0 {
			http.Error(w, "invalid limit "+s, http.StatusBadRequest)
			return
		}
	}

	m.writeJSON(w, n.stats.Snapshot(limit).Recent)
}

func (m *Monitor) findNodeOr404(
	w http.ResponseWriter,
	r *http.Request,
) *monitoredNode {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 8)
	if err != nil {
		http.Error(w, "Node not found", http.StatusNotFound)
		return nil
	}

	m.lock.RLock()
	n, found := m.nodes[network.NodeID(id)]
	m.lock.RUnlock()

	if !found {
		http.Error(w, "Node not found", http.StatusNotFound)
		return nil
	}

	return n
}

func (m *Monitor) listProgressBars(w http.ResponseWriter, _ *http.Request) {
	m.progressBarsLock.Lock()
	bars := make([]ProgressBarStatus, 0, len(m.progressBars))
	for _, b := range m.progressBars {
		bars = append(bars, b.Status())
	}
	m.progressBarsLock.Unlock()

	m.writeJSON(w, bars)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memoryInfo, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	m.writeJSON(w, resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	})
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}

	time.Sleep(m.profileDuration)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	m.writeJSON(w, prof)
}

func (m *Monitor) writeJSON(w http.ResponseWriter, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if _, err := w.Write(b); err != nil {
		m.logger.Debug("response not written", zap.Error(err))
	}
}
