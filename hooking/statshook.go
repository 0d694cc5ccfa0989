package hooking

import (
	"fmt"
	"sort"
	"sync"
)

// Record is one observed item, kept by a StatsHook.
type Record struct {
	Seq    uint64 `json:"seq"`
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
}

// Stats is a point-in-time copy of what a StatsHook observed.
type Stats struct {
	Domain string            `json:"domain"`
	Total  uint64            `json:"total"`
	Counts map[string]uint64 `json:"counts"`
	Recent []Record          `json:"recent"`
}

// Kinds returns the observed kinds in alphabetical order.
func (s Stats) Kinds() []string {
	kinds := make([]string, 0, len(s.Counts))
	for k := range s.Counts {
		kinds = append(kinds, k)
	}

	sort.Strings(kinds)

	return kinds
}

// StatsHook counts observed items per kind and remembers the most recent
// ones. It can be read from other goroutines while the domain runs.
type StatsHook struct {
	lock      sync.Mutex
	domain    string
	total     uint64
	counts    map[string]uint64
	recent    []Record
	recentCap int
}

// NewStatsHook creates a StatsHook that remembers up to recentCap items.
func NewStatsHook(recentCap int) *StatsHook {
	if recentCap < 0 {
		panic("recent capacity must not be negative")
	}

	return &StatsHook{
		counts:    make(map[string]uint64),
		recentCap: recentCap,
	}
}

// Func records the hook context.
func (h *StatsHook) Func(ctx HookCtx) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if h.domain == "" {
		h.domain = DomainName(ctx)
	}

	kind := ItemKind(ctx)
	h.total++
	h.counts[kind]++

	if h.recentCap == 0 {
		return
	}

	if len(h.recent) == h.recentCap {
		h.recent = h.recent[1:]
	}

	h.recent = append(h.recent, Record{
		Seq:    h.total,
		Kind:   kind,
		Detail: fmt.Sprint(ctx.Item),
	})
}

// Count returns how many items of a kind were observed.
func (h *StatsHook) Count(kind string) uint64 {
	h.lock.Lock()
	defer h.lock.Unlock()

	return h.counts[kind]
}

// Snapshot copies the current statistics. At most limit recent records are
// returned, newest last; a non-positive limit returns all of them.
func (h *StatsHook) Snapshot(limit int) Stats {
	h.lock.Lock()
	defer h.lock.Unlock()

	counts := make(map[string]uint64, len(h.counts))
	for k, v := range h.counts {
		counts[k] = v
	}

	recent := h.recent
	if limit > 0 && len(recent) > limit {
		recent = recent[len(recent)-limit:]
	}

	return Stats{
		Domain: h.domain,
		Total:  h.total,
		Counts: counts,
		Recent: append([]Record(nil), recent...),
	}
}
