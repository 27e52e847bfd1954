// Package notify carries fire-and-forget, auto-expiring user-facing
// messages reporting the outcome of asynchronous operations.
//
// The channel decouples "an operation finished" from "the screen showing it
// is still mounted": any component posts, any consumer renders whatever is
// pending. Repeated identical messages each get independent entries and
// independent expiry timers; nothing is coalesced.
package notify

import (
	"sync"
	"time"

	platformid "github.com/duynhne/bookstored/internal/platform/id"
)

// DefaultTTL is how long a notification stays pending before it
// self-destructs.
const DefaultTTL = 3000 * time.Millisecond

// Severity classifies a notification for display.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Notification is one pending user-facing message.
type Notification struct {
	ID       string
	Severity Severity
	Message  string
}

// Channel holds pending notifications and expires them on schedule.
type Channel struct {
	ttl       time.Duration
	afterFunc func(d time.Duration, f func()) *time.Timer
	newID     func() (string, error)
	observer  func(Notification)

	mu      sync.Mutex
	pending []Notification
}

// Option customizes channel construction.
type Option func(*Channel)

// WithTTL overrides the auto-expiry window.
func WithTTL(ttl time.Duration) Option {
	return func(c *Channel) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithAfterFunc replaces the timer scheduler, letting tests fire expiry
// deterministically.
func WithAfterFunc(afterFunc func(d time.Duration, f func()) *time.Timer) Option {
	return func(c *Channel) {
		if afterFunc != nil {
			c.afterFunc = afterFunc
		}
	}
}

// WithObserver registers a callback invoked for every posted notification.
func WithObserver(observer func(Notification)) Option {
	return func(c *Channel) {
		if observer != nil {
			c.observer = observer
		}
	}
}

// New creates an empty notification channel.
func New(opts ...Option) *Channel {
	c := &Channel{
		ttl:       DefaultTTL,
		afterFunc: time.AfterFunc,
		newID:     platformid.NewID,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Post appends a notification and schedules its removal after the expiry
// window. Each post gets its own id and its own timer.
func (c *Channel) Post(message string, severity Severity) (Notification, error) {
	id, err := c.newID()
	if err != nil {
		return Notification{}, err
	}
	notification := Notification{ID: id, Severity: severity, Message: message}

	c.mu.Lock()
	c.pending = append(c.pending, notification)
	c.mu.Unlock()

	c.afterFunc(c.ttl, func() { c.Dismiss(id) })
	if c.observer != nil {
		c.observer(notification)
	}
	return notification, nil
}

// Success posts a success message, discarding the entry. Posting is
// fire-and-forget; the only possible failure is id generation.
func (c *Channel) Success(message string) { _, _ = c.Post(message, SeveritySuccess) }

// Error posts an error message, discarding the entry.
func (c *Channel) Error(message string) { _, _ = c.Post(message, SeverityError) }

// Warning posts a warning message, discarding the entry.
func (c *Channel) Warning(message string) { _, _ = c.Post(message, SeverityWarning) }

// Info posts an info message, discarding the entry.
func (c *Channel) Info(message string) { _, _ = c.Post(message, SeverityInfo) }

// Dismiss removes a notification immediately. Dismissing an id that already
// expired is a no-op.
func (c *Channel) Dismiss(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, notification := range c.pending {
		if notification.ID == id {
			c.pending = append(c.pending[:i], c.pending[i+1:]...)
			return
		}
	}
}

// Pending returns a copy of the notifications awaiting display, oldest
// first.
func (c *Channel) Pending() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	pending := make([]Notification, len(c.pending))
	copy(pending, c.pending)
	return pending
}
