package finmind

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultToastDuration is how long a toast stays up before auto-close.
const DefaultToastDuration = 5000 * time.Millisecond

// DefaultMaxVisible caps how many toasts show at once.
const DefaultMaxVisible = 3

// Scheduler is a cancellable single-shot callback abstraction. The
// returned function cancels the pending callback; cancelling after the
// callback fired is a no-op.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) (cancel func())
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(d time.Duration, fn func()) func()

func (f SchedulerFunc) Schedule(d time.Duration, fn func()) func() {
	return f(d, fn)
}

type timerScheduler struct{}

func (timerScheduler) Schedule(d time.Duration, fn func()) func() {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}

// Toaster presents the newest slice of the notification queue as
// auto-expiring toasts. Auto-close removes the record through the same
// queue Remove operation the list page uses; dismissing a toast and
// deleting it from the list are the same state transition.
type Toaster struct {
	mu          sync.Mutex
	queue       *Queue
	timers      map[uuid.UUID]func()
	scheduler   Scheduler
	duration    time.Duration
	autoClose   bool
	maxVisible  int
	unsubscribe func()
}

type ToasterOption func(*Toaster)

// WithToastDuration overrides the auto-close delay.
func WithToastDuration(d time.Duration) ToasterOption {
	return func(t *Toaster) {
		if d > 0 {
			t.duration = d
		}
	}
}

// WithoutAutoClose disables the auto-close timers; toasts then stay up
// until manually dismissed.
func WithoutAutoClose() ToasterOption {
	return func(t *Toaster) {
		t.autoClose = false
	}
}

// WithToastScheduler injects a custom scheduler (useful for tests).
func WithToastScheduler(s Scheduler) ToasterOption {
	return func(t *Toaster) {
		if s != nil {
			t.scheduler = s
		}
	}
}

// WithMaxVisible overrides how many toasts show at once.
func WithMaxVisible(n int) ToasterOption {
	return func(t *Toaster) {
		if n > 0 {
			t.maxVisible = n
		}
	}
}

func NewToaster(queue *Queue, opts ...ToasterOption) *Toaster {
	t := &Toaster{
		queue:      queue,
		timers:     map[uuid.UUID]func(){},
		scheduler:  timerScheduler{},
		duration:   DefaultToastDuration,
		autoClose:  true,
		maxVisible: DefaultMaxVisible,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}

	t.unsubscribe = queue.Subscribe(t.sync)
	t.sync()

	return t
}

// Visible returns at most the newest maxVisible records, regardless of
// total queue size.
func (t *Toaster) Visible() []Notification {
	return t.queue.Newest(t.maxVisible)
}

// Dismiss removes the toast immediately and cancels its pending
// auto-close timer.
func (t *Toaster) Dismiss(id uuid.UUID) {
	t.cancelTimer(id)
	t.queue.Remove(id)
}

// Stop cancels every pending timer and detaches from the queue.
func (t *Toaster) Stop() {
	if t.unsubscribe != nil {
		t.unsubscribe()
	}

	t.mu.Lock()
	for id, cancel := range t.timers {
		cancel()
		delete(t.timers, id)
	}
	t.mu.Unlock()
}

// sync reconciles timers with the visible window: toasts entering the
// window get a single-shot auto-close timer, toasts leaving it get their
// timer cancelled so a later fire cannot touch a reused or removed id.
func (t *Toaster) sync() {
	visible := t.queue.Newest(t.maxVisible)

	shown := make(map[uuid.UUID]struct{}, len(visible))
	for _, n := range visible {
		shown[n.ID] = struct{}{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for id, cancel := range t.timers {
		if _, ok := shown[id]; !ok {
			cancel()
			delete(t.timers, id)
		}
	}

	if !t.autoClose {
		return
	}

	for _, n := range visible {
		if _, ok := t.timers[n.ID]; ok {
			continue
		}
		id := n.ID
		t.timers[id] = t.scheduler.Schedule(t.duration, func() {
			t.expire(id)
		})
	}
}

func (t *Toaster) expire(id uuid.UUID) {
	t.mu.Lock()
	_, pending := t.timers[id]
	delete(t.timers, id)
	t.mu.Unlock()

	if !pending {
		return
	}

	t.queue.Remove(id)
}

func (t *Toaster) cancelTimer(id uuid.UUID) {
	t.mu.Lock()
	if cancel, ok := t.timers[id]; ok {
		cancel()
		delete(t.timers, id)
	}
	t.mu.Unlock()
}
