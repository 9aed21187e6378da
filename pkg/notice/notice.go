// Package notice carries the transient, user-facing messages shown after an
// action (welcome banners, validation failures, gateway errors). Front ends
// decide how to present them; controllers only emit.
package notice

import "sync"

// Level is the notification severity.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

// Notice is a single transient message.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier receives notices.
type Notifier interface {
	Notify(level Level, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(level Level, message string)

func (f NotifierFunc) Notify(level Level, message string) {
	f(level, message)
}

// Discard drops every notice.
var Discard Notifier = NotifierFunc(func(Level, string) {})

// Success, Info and Error are shorthands that tolerate a nil notifier.
func Success(n Notifier, message string) { emit(n, LevelSuccess, message) }
func Info(n Notifier, message string)    { emit(n, LevelInfo, message) }
func Error(n Notifier, message string)   { emit(n, LevelError, message) }

func emit(n Notifier, level Level, message string) {
	if n == nil {
		return
	}
	n.Notify(level, message)
}

// Queue buffers notices until a front end drains them.
type Queue struct {
	mu      sync.Mutex
	notices []Notice
}

// NewQueue returns an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) Notify(level Level, message string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.notices = append(q.notices, Notice{Level: level, Message: message})
}

// Drain returns the buffered notices and empties the queue.
func (q *Queue) Drain() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.notices
	q.notices = nil
	return out
}

// Peek returns a copy of the buffered notices without removing them.
func (q *Queue) Peek() []Notice {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]Notice(nil), q.notices...)
}

// Len reports how many notices are buffered.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.notices)
}
