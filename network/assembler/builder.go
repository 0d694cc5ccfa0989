package assembler

import "container/list"

// Builder can build assemblers.
type Builder struct {
	maxPendingSessions int
	onEvict            func(SessionKey)
}

// MakeBuilder creates a builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		maxPendingSessions: 64,
	}
}

// WithMaxPendingSessions sets how many incomplete sessions the assembler
// keeps. When full, admitting a new session evicts the least recently
// updated one. Zero means unbounded. The same number of completed sessions
// is remembered so that late fragments are not delivered again.
func (b Builder) WithMaxPendingSessions(n int) Builder {
	b.maxPendingSessions = n
	return b
}

// WithEvictionCallback sets the function called for every evicted session.
func (b Builder) WithEvictionCallback(f func(SessionKey)) Builder {
	b.onEvict = f
	return b
}

// Build creates a new assembler.
func (b Builder) Build() *Assembler {
	if b.maxPendingSessions < 0 {
		panic("max pending sessions must not be negative")
	}

	maxCompleted := b.maxPendingSessions
	if maxCompleted == 0 {
		maxCompleted = defaultCompletedRecord
	}

	return &Assembler{
		maxPending:     b.maxPendingSessions,
		onEvict:        b.onEvict,
		sessionTable:   make(map[SessionKey]*list.Element),
		sessions:       list.New(),
		maxCompleted:   maxCompleted,
		completedTable: make(map[SessionKey]*list.Element),
		completed:      list.New(),
	}
}
