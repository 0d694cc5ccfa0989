package datarecording

import (
	"fmt"
	"sync"

	"github.com/rs/xid"
	"github.com/sarchlab/overlaynet/hooking"
)

// EventTable is the table that an EventRecorder writes to.
const EventTable = "node_events"

// EventEntry is one row of the event table.
type EventEntry struct {
	ID     string
	Seq    int64
	Node   string
	Kind   string
	Detail string
}

// EventRecorder is a hook that stores every item it observes as an
// EventEntry. A single recorder can be attached to many nodes.
type EventRecorder struct {
	lock     sync.Mutex
	recorder DataRecorder
	seq      int64
}

// NewEventRecorder creates the event table and returns a hook writing to it.
func NewEventRecorder(recorder DataRecorder) *EventRecorder {
	recorder.CreateTable(EventTable, EventEntry{})

	return &EventRecorder{recorder: recorder}
}

// Func records the hook context.
func (h *EventRecorder) Func(ctx hooking.HookCtx) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.seq++
	h.recorder.InsertData(EventTable, EventEntry{
		ID:     xid.New().String(),
		Seq:    h.seq,
		Node:   hooking.DomainName(ctx),
		Kind:   hooking.ItemKind(ctx),
		Detail: fmt.Sprint(ctx.Item),
	})
}

// NumRecorded returns how many events were recorded.
func (h *EventRecorder) NumRecorded() int64 {
	h.lock.Lock()
	defer h.lock.Unlock()

	return h.seq
}

// Flush writes the buffered events.
func (h *EventRecorder) Flush() {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.recorder.Flush()
}

// Close flushes the buffered events and closes the database.
func (h *EventRecorder) Close() error {
	h.lock.Lock()
	defer h.lock.Unlock()

	return h.recorder.Close()
}
