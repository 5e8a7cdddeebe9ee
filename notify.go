package finmind

import "github.com/google/uuid"

// Notifier is the convenience surface components use to raise toasts.
// Titles default to the level name, mirroring how pages report upload and
// API outcomes.
type Notifier struct {
	queue *Queue
}

func NewNotifier(queue *Queue) *Notifier {
	return &Notifier{queue: queue}
}

func (n *Notifier) Success(message string, title ...string) uuid.UUID {
	return n.queue.Add(LevelSuccess, firstOr("Success", title), message)
}

func (n *Notifier) Error(message string, title ...string) uuid.UUID {
	return n.queue.Add(LevelError, firstOr("Error", title), message)
}

func (n *Notifier) Warning(message string, title ...string) uuid.UUID {
	return n.queue.Add(LevelWarning, firstOr("Warning", title), message)
}

func (n *Notifier) Info(message string, title ...string) uuid.UUID {
	return n.queue.Add(LevelInfo, firstOr("Info", title), message)
}

func firstOr(def string, vals []string) string {
	if len(vals) > 0 && vals[0] != "" {
		return vals[0]
	}
	return def
}
