package finmind

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Level is the notification severity
type Level = string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
	LevelInfo    Level = "info"
)

// Notification is a transient record in the process-wide queue. IDs are
// unique for the life of the collection and Read only ever moves from
// false to true; removal is the only way back out.
type Notification struct {
	ID        uuid.UUID `json:"id"`
	Level     Level     `json:"level"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	Read      bool      `json:"read"`
}

// QueueListener is invoked after every queue mutation.
type QueueListener func()

// Queue is the ordered, newest-first notification collection shared by
// the toast presenter and the notifications page. All mutations are
// applied in call order; the unread count is always computed from the
// live records, never cached.
type Queue struct {
	mu        sync.RWMutex
	items     []Notification
	listeners map[int]QueueListener
	nextID    int
	now       func() time.Time
}

type QueueOption func(*Queue)

// WithQueueClock injects a custom clock (useful for tests).
func WithQueueClock(clock func() time.Time) QueueOption {
	return func(q *Queue) {
		if clock != nil {
			q.now = clock
		}
	}
}

func NewQueue(opts ...QueueOption) *Queue {
	q := &Queue{
		listeners: map[int]QueueListener{},
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(q)
		}
	}
	return q
}

// Add creates an unread notification, prepends it to the collection, and
// returns its generated id.
func (q *Queue) Add(level Level, title, message string) uuid.UUID {
	record := Notification{
		ID:        uuid.New(),
		Level:     level,
		Title:     title,
		Message:   message,
		Read:      false,
	}

	q.mu.Lock()
	record.CreatedAt = q.now()
	q.items = append([]Notification{record}, q.items...)
	q.mu.Unlock()

	q.publish()
	return record.ID
}

// MarkRead flags the matching record as read. Absent or already-read ids
// are a no-op, not an error.
func (q *Queue) MarkRead(id uuid.UUID) {
	q.mu.Lock()
	changed := false
	for i := range q.items {
		if q.items[i].ID == id && !q.items[i].Read {
			q.items[i].Read = true
			changed = true
			break
		}
	}
	q.mu.Unlock()

	if changed {
		q.publish()
	}
}

// MarkAllRead flags every record as read. Idempotent.
func (q *Queue) MarkAllRead() {
	q.mu.Lock()
	changed := false
	for i := range q.items {
		if !q.items[i].Read {
			q.items[i].Read = true
			changed = true
		}
	}
	q.mu.Unlock()

	if changed {
		q.publish()
	}
}

// Remove deletes the record. No-op if absent.
func (q *Queue) Remove(id uuid.UUID) {
	q.mu.Lock()
	changed := false
	for i := range q.items {
		if q.items[i].ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			changed = true
			break
		}
	}
	q.mu.Unlock()

	if changed {
		q.publish()
	}
}

// ClearAll empties the collection.
func (q *Queue) ClearAll() {
	q.mu.Lock()
	changed := len(q.items) > 0
	q.items = nil
	q.mu.Unlock()

	if changed {
		q.publish()
	}
}

// UnreadCount is the live count of records with Read=false.
func (q *Queue) UnreadCount() int {
	q.mu.RLock()
	defer q.mu.RUnlock()

	count := 0
	for i := range q.items {
		if !q.items[i].Read {
			count++
		}
	}
	return count
}

// Len returns the collection size.
func (q *Queue) Len() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return len(q.items)
}

// All returns a newest-first copy of the collection.
func (q *Queue) All() []Notification {
	q.mu.RLock()
	defer q.mu.RUnlock()

	out := make([]Notification, len(q.items))
	copy(out, q.items)
	return out
}

// Newest returns a copy of at most the n most recently added records.
func (q *Queue) Newest(n int) []Notification {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if n > len(q.items) {
		n = len(q.items)
	}
	if n < 0 {
		n = 0
	}
	out := make([]Notification, n)
	copy(out, q.items[:n])
	return out
}

// Subscribe registers a listener invoked after every mutation. The
// returned function removes the listener.
func (q *Queue) Subscribe(fn QueueListener) func() {
	if fn == nil {
		return func() {}
	}

	q.mu.Lock()
	id := q.nextID
	q.nextID++
	q.listeners[id] = fn
	q.mu.Unlock()

	return func() {
		q.mu.Lock()
		delete(q.listeners, id)
		q.mu.Unlock()
	}
}

func (q *Queue) publish() {
	q.mu.RLock()
	listeners := make([]QueueListener, 0, len(q.listeners))
	for _, fn := range q.listeners {
		listeners = append(listeners, fn)
	}
	q.mu.RUnlock()

	for _, fn := range listeners {
		fn()
	}
}

// ReadFilter narrows a notification listing by read state.
type ReadFilter = string

const (
	FilterAll    ReadFilter = "all"
	FilterRead   ReadFilter = "read"
	FilterUnread ReadFilter = "unread"
)

// FilterNotifications narrows a listing by read state and by a
// case-insensitive substring match over title and message. It operates on
// the copy it is given and never mutates the queue.
func FilterNotifications(items []Notification, filter ReadFilter, query string) []Notification {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]Notification, 0, len(items))
	for _, item := range items {
		switch filter {
		case FilterRead:
			if !item.Read {
				continue
			}
		case FilterUnread:
			if item.Read {
				continue
			}
		}

		if query != "" {
			haystack := strings.ToLower(item.Title + " " + item.Message)
			if !strings.Contains(haystack, query) {
				continue
			}
		}

		out = append(out, item)
	}
	return out
}
