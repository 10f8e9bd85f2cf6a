package scheduler

import (
	"sort"
	"sync"
	"time"

	"github.com/timeclock/backend/internal/domain/shared"
)

// Virtual is a Scheduler driven by an explicit Advance call instead of the
// wall clock. Callbacks run synchronously on the advancing goroutine, in due
// order, so tests are deterministic.
type Virtual struct {
	mu      sync.Mutex
	elapsed time.Duration
	nextID  int
	tasks   map[int]*virtualTask
}

type virtualTask struct {
	id        int
	due       time.Duration
	period    time.Duration // 0 for one-shot
	fn        func()
	cancelled bool
}

// NewVirtual creates a virtual scheduler at elapsed time zero
func NewVirtual() *Virtual {
	return &Virtual{tasks: make(map[int]*virtualTask)}
}

// After schedules fn once at now+d
func (s *Virtual) After(d time.Duration, fn func()) shared.CancelHandle {
	return s.add(d, 0, fn)
}

// Every schedules fn at now+d and then every d
func (s *Virtual) Every(d time.Duration, fn func()) shared.CancelHandle {
	return s.add(d, d, fn)
}

func (s *Virtual) add(d, period time.Duration, fn func()) shared.CancelHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	task := &virtualTask{id: s.nextID, due: s.elapsed + d, period: period, fn: fn}
	s.tasks[task.id] = task
	return &virtualHandle{scheduler: s, id: task.id}
}

// Advance moves virtual time forward by d, firing everything that comes due,
// in due order. Recurring tasks may fire multiple times within one Advance.
func (s *Virtual) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.elapsed + d

	for {
		task := s.nextDue(target)
		if task == nil {
			break
		}
		s.elapsed = task.due
		if task.period > 0 {
			task.due += task.period
		} else {
			delete(s.tasks, task.id)
		}
		fn := task.fn
		s.mu.Unlock()
		fn()
		s.mu.Lock()
	}

	s.elapsed = target
	s.mu.Unlock()
}

// Pending returns the number of live scheduled tasks. Tests use it to assert
// that shutdown leaks no timers.
func (s *Virtual) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}

// nextDue returns the earliest non-cancelled task due at or before target.
// Caller holds the lock.
func (s *Virtual) nextDue(target time.Duration) *virtualTask {
	candidates := make([]*virtualTask, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.cancelled && t.due <= target {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].due != candidates[j].due {
			return candidates[i].due < candidates[j].due
		}
		return candidates[i].id < candidates[j].id
	})
	return candidates[0]
}

type virtualHandle struct {
	scheduler *Virtual
	id        int
}

func (h *virtualHandle) Cancel() {
	h.scheduler.mu.Lock()
	defer h.scheduler.mu.Unlock()
	if task, ok := h.scheduler.tasks[h.id]; ok {
		task.cancelled = true
		delete(h.scheduler.tasks, h.id)
	}
}

var _ shared.Scheduler = (*Virtual)(nil)
