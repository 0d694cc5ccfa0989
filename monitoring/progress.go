package monitoring

import (
	"sync"
	"time"
)

// A ProgressBar counts the requests of a scenario as they start and finish.
// It is safe for concurrent use.
type ProgressBar struct {
	id    string
	name  string
	start time.Time
	total uint64

	lock       sync.Mutex
	inProgress uint64
	succeeded  uint64
	failed     uint64
}

// ProgressBarStatus is a snapshot of a progress bar. Finished counts both
// succeeded and failed requests.
type ProgressBarStatus struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	InProgress uint64    `json:"in_progress"`
	Finished   uint64    `json:"finished"`
	Failed     uint64    `json:"failed"`
}

// Status takes a snapshot of the bar.
func (b *ProgressBar) Status() ProgressBarStatus {
	b.lock.Lock()
	defer b.lock.Unlock()

	return ProgressBarStatus{
		ID:         b.id,
		Name:       b.name,
		StartTime:  b.start,
		Total:      b.total,
		InProgress: b.inProgress,
		Finished:   b.succeeded + b.failed,
		Failed:     b.failed,
	}
}

// Start records a request that has been sent.
func (b *ProgressBar) Start() {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.inProgress++
}

// Finish records the outcome of a started request.
func (b *ProgressBar) Finish(ok bool) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.inProgress > 0 {
		b.inProgress--
	}

	if ok {
		b.succeeded++
	} else {
		b.failed++
	}
}
