// Package assembler reconstructs messages from the fragments that arrive at a
// node, in whatever order they arrive.
package assembler

import (
	"bytes"
	"container/list"
	"errors"
	"fmt"

	"github.com/sarchlab/overlaynet/network"
)

var (
	// ErrInconsistentTotal is returned when a fragment advertises a fragment
	// total that differs from the one of its session. The session is kept.
	ErrInconsistentTotal = errors.New("assembler: inconsistent fragment total")

	// ErrIndexOutOfRange is returned when the fragment index is not smaller
	// than the fragment total.
	ErrIndexOutOfRange = errors.New("assembler: fragment index out of range")

	// ErrOversizedFragment is returned when the body is larger than
	// network.FragmentSize.
	ErrOversizedFragment = errors.New("assembler: oversized fragment")

	// ErrSessionCompleted is returned for a fragment of a session that was
	// already reassembled and delivered.
	ErrSessionCompleted = errors.New("assembler: session already completed")
)

// A sender controls the advertised total, so it only serves as a size hint up
// to this bound.
const maxSizeHint = 1024

// defaultCompletedRecord is how many completed sessions an assembler without
// a pending bound remembers.
const defaultCompletedRecord = 64

// SessionKey identifies one message under reassembly.
type SessionKey struct {
	Src       network.NodeID
	SessionID uint64
}

func (k SessionKey) String() string {
	return fmt.Sprintf("%d/%d", k.Src, k.SessionID)
}

// KeyOf returns the session a packet belongs to.
func KeyOf(p network.Packet) SessionKey {
	src, _ := p.Src()
	return SessionKey{Src: src, SessionID: p.SessionID}
}

type sessionBuffer struct {
	key       SessionKey
	total     uint64
	fragments map[uint64][]byte
}

func (b *sessionBuffer) complete() bool {
	return uint64(len(b.fragments)) == b.total
}

func (b *sessionBuffer) concat() []byte {
	var buf bytes.Buffer
	for i := uint64(0); i < b.total; i++ {
		buf.Write(b.fragments[i])
	}

	return buf.Bytes()
}

// Assembler keeps one buffer per session until all of its fragments arrive.
type Assembler struct {
	maxPending int
	onEvict    func(SessionKey)

	sessionTable map[SessionKey]*list.Element
	sessions     *list.List

	// Recently completed sessions, oldest first.
	maxCompleted   int
	completedTable map[SessionKey]*list.Element
	completed      *list.List
}

// Ingest adds a fragment to its session. It returns the reassembled payload
// and true exactly once per session, when the last distinct fragment arrives.
// While fragments are missing it returns nil, false and no error. A late
// fragment of a recently completed session yields ErrSessionCompleted.
func (a *Assembler) Ingest(p network.Packet) ([]byte, bool, error) {
	if len(p.Body) > network.FragmentSize {
		return nil, false, fmt.Errorf("%w: %d bytes", ErrOversizedFragment,
			len(p.Body))
	}

	key := KeyOf(p)

	if _, done := a.completedTable[key]; done {
		return nil, false, fmt.Errorf("%w: session %s, index %d",
			ErrSessionCompleted, key, p.FragmentIndex)
	}

	elem, found := a.sessionTable[key]
	if found {
		buf := elem.Value.(*sessionBuffer)
		if buf.total != p.FragmentTotal {
			return nil, false, fmt.Errorf("%w: session %s has %d, got %d",
				ErrInconsistentTotal, key, buf.total, p.FragmentTotal)
		}
	}

	if p.FragmentIndex >= p.FragmentTotal {
		return nil, false, fmt.Errorf("%w: index %d, total %d",
			ErrIndexOutOfRange, p.FragmentIndex, p.FragmentTotal)
	}

	if !found {
		elem = a.admit(key, p.FragmentTotal)
	} else {
		a.sessions.MoveToBack(elem)
	}

	buf := elem.Value.(*sessionBuffer)
	buf.fragments[p.FragmentIndex] = append([]byte(nil), p.Body...)

	if !buf.complete() {
		return nil, false, nil
	}

	a.remove(elem)
	a.markCompleted(key)

	return buf.concat(), true, nil
}

func (a *Assembler) markCompleted(key SessionKey) {
	for a.completed.Len() >= a.maxCompleted {
		oldest := a.completed.Front()
		a.completed.Remove(oldest)
		delete(a.completedTable, oldest.Value.(SessionKey))
	}

	a.completedTable[key] = a.completed.PushBack(key)
}

func (a *Assembler) admit(key SessionKey, total uint64) *list.Element {
	for a.maxPending > 0 && a.sessions.Len() >= a.maxPending {
		oldest := a.sessions.Front()
		a.remove(oldest)

		if a.onEvict != nil {
			a.onEvict(oldest.Value.(*sessionBuffer).key)
		}
	}

	hint := total
	if hint > maxSizeHint {
		hint = maxSizeHint
	}

	elem := a.sessions.PushBack(&sessionBuffer{
		key:       key,
		total:     total,
		fragments: make(map[uint64][]byte, hint),
	})
	a.sessionTable[key] = elem

	return elem
}

func (a *Assembler) remove(elem *list.Element) {
	buf := elem.Value.(*sessionBuffer)
	a.sessions.Remove(elem)
	delete(a.sessionTable, buf.key)
}

// Drop discards the buffer of a session. Dropping an unknown session is a
// no-op.
func (a *Assembler) Drop(key SessionKey) {
	elem, found := a.sessionTable[key]
	if !found {
		return
	}

	a.remove(elem)
}

// Reset discards every incomplete session. Completed sessions stay
// remembered.
func (a *Assembler) Reset() {
	a.sessions.Init()
	a.sessionTable = make(map[SessionKey]*list.Element)
}

// NumCompleted returns how many completed sessions are remembered.
func (a *Assembler) NumCompleted() int {
	return a.completed.Len()
}

// NumPending returns the number of sessions under reassembly.
func (a *Assembler) NumPending() int {
	return a.sessions.Len()
}

// NumReceived returns how many distinct fragments of a session have arrived.
func (a *Assembler) NumReceived(key SessionKey) int {
	elem, found := a.sessionTable[key]
	if !found {
		return 0
	}

	return len(elem.Value.(*sessionBuffer).fragments)
}
