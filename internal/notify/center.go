// Package notify hosts the single process-wide notification center. Every
// dashboard surface reports operation outcomes here instead of keeping its
// own show/dismiss machinery.
package notify

import (
	"sync"
	"time"
)

const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelInfo    = "info"

	// PhaseIdle through PhaseClosing mirror the display lifecycle of a single
	// notification: it appears, stays visible, animates out, then the next
	// queued notification (if any) is shown.
	PhaseIdle    = "idle"
	PhaseVisible = "visible"
	PhaseClosing = "closing"

	defaultVisibleDuration = 3 * time.Second
	defaultClosingDuration = 300 * time.Millisecond

	eventChannelBuffer = 8
)

// Notification is one toast-equivalent message addressed to an owner.
type Notification struct {
	OwnerID string    `json:"-"`
	Level   string    `json:"level"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	SentAt  time.Time `json:"sentAt"`
}

// Event is a phase transition delivered to subscribers.
type Event struct {
	Phase        string       `json:"phase"`
	Notification Notification `json:"notification"`
}

// Center serializes notifications through one state machine with a queue.
// Notifications display for the visible duration, spend the closing duration
// animating out, and may be dismissed early by the owner.
type Center struct {
	mutex           sync.Mutex
	phase           string
	current         Notification
	queue           []Notification
	nextID          int64
	subscribers     map[int64]chan Event
	closed          bool
	visibleDuration time.Duration
	closingDuration time.Duration
	timer           *time.Timer
}

// NewCenter constructs a notification center with the standard display timing.
func NewCenter() *Center {
	return &Center{
		phase:           PhaseIdle,
		subscribers:     make(map[int64]chan Event),
		visibleDuration: defaultVisibleDuration,
		closingDuration: defaultClosingDuration,
	}
}

// WithDurations overrides display timing, primarily for tests.
func (center *Center) WithDurations(visibleDuration time.Duration, closingDuration time.Duration) *Center {
	center.mutex.Lock()
	defer center.mutex.Unlock()
	if visibleDuration > 0 {
		center.visibleDuration = visibleDuration
	}
	if closingDuration > 0 {
		center.closingDuration = closingDuration
	}
	return center
}

// Success enqueues a success notification.
func (center *Center) Success(ownerID string, title string, message string) {
	center.Publish(Notification{OwnerID: ownerID, Level: LevelSuccess, Title: title, Message: message})
}

// Error enqueues an error notification.
func (center *Center) Error(ownerID string, title string, message string) {
	center.Publish(Notification{OwnerID: ownerID, Level: LevelError, Title: title, Message: message})
}

// Publish enqueues a notification; it is shown immediately when the center is
// idle, otherwise once earlier notifications finish their display cycle.
func (center *Center) Publish(notification Notification) {
	notification.SentAt = time.Now().UTC()

	center.mutex.Lock()
	defer center.mutex.Unlock()
	if center.closed {
		return
	}
	if center.phase != PhaseIdle {
		center.queue = append(center.queue, notification)
		return
	}
	center.showLocked(notification)
}

// Dismiss closes the currently visible notification ahead of its timer. The
// closing animation still runs to completion.
func (center *Center) Dismiss() {
	center.mutex.Lock()
	defer center.mutex.Unlock()
	if center.phase != PhaseVisible {
		return
	}
	center.stopTimerLocked()
	center.beginClosingLocked()
}

// Phase reports the current display phase.
func (center *Center) Phase() string {
	center.mutex.Lock()
	defer center.mutex.Unlock()
	return center.phase
}

// State reports the current phase, the notification on display, and how
// many notifications are queued behind it.
func (center *Center) State() (string, Notification, int) {
	center.mutex.Lock()
	defer center.mutex.Unlock()
	return center.phase, center.current, len(center.queue)
}

// QueueLength reports how many notifications are waiting behind the current one.
func (center *Center) QueueLength() int {
	center.mutex.Lock()
	defer center.mutex.Unlock()
	return len(center.queue)
}

// Subscribe returns a subscription that streams display events.
func (center *Center) Subscribe() *Subscription {
	center.mutex.Lock()
	defer center.mutex.Unlock()
	if center.closed {
		return nil
	}
	subscriptionID := center.nextID
	center.nextID++
	eventChannel := make(chan Event, eventChannelBuffer)
	center.subscribers[subscriptionID] = eventChannel
	return &Subscription{center: center, identifier: subscriptionID, events: eventChannel}
}

// Close stops the center and closes all subscriber channels.
func (center *Center) Close() {
	center.mutex.Lock()
	defer center.mutex.Unlock()
	if center.closed {
		return
	}
	center.closed = true
	center.stopTimerLocked()
	for identifier, channel := range center.subscribers {
		close(channel)
		delete(center.subscribers, identifier)
	}
	center.queue = nil
	center.phase = PhaseIdle
}

func (center *Center) showLocked(notification Notification) {
	center.phase = PhaseVisible
	center.current = notification
	center.broadcastLocked(Event{Phase: PhaseVisible, Notification: notification})
	center.timer = time.AfterFunc(center.visibleDuration, center.onVisibleElapsed)
}

func (center *Center) onVisibleElapsed() {
	center.mutex.Lock()
	defer center.mutex.Unlock()
	if center.closed || center.phase != PhaseVisible {
		return
	}
	center.beginClosingLocked()
}

func (center *Center) beginClosingLocked() {
	center.phase = PhaseClosing
	center.broadcastLocked(Event{Phase: PhaseClosing, Notification: center.current})
	center.timer = time.AfterFunc(center.closingDuration, center.onClosingElapsed)
}

func (center *Center) onClosingElapsed() {
	center.mutex.Lock()
	defer center.mutex.Unlock()
	if center.closed || center.phase != PhaseClosing {
		return
	}
	center.phase = PhaseIdle
	center.current = Notification{}
	center.broadcastLocked(Event{Phase: PhaseIdle})
	if len(center.queue) > 0 {
		nextNotification := center.queue[0]
		center.queue = center.queue[1:]
		center.showLocked(nextNotification)
	}
}

func (center *Center) broadcastLocked(event Event) {
	for _, channel := range center.subscribers {
		select {
		case channel <- event:
		default:
		}
	}
}

func (center *Center) stopTimerLocked() {
	if center.timer != nil {
		center.timer.Stop()
		center.timer = nil
	}
}

func (center *Center) remove(identifier int64) {
	center.mutex.Lock()
	defer center.mutex.Unlock()
	channel, exists := center.subscribers[identifier]
	if exists {
		delete(center.subscribers, identifier)
		close(channel)
	}
}

// Subscription represents a single subscriber to notification events.
type Subscription struct {
	center     *Center
	identifier int64
	events     chan Event
	once       sync.Once
}

// Events exposes the receive-only event channel.
func (subscription *Subscription) Events() <-chan Event {
	if subscription == nil {
		return nil
	}
	return subscription.events
}

// Close unregisters the subscription and closes its channel.
func (subscription *Subscription) Close() {
	if subscription == nil {
		return
	}
	subscription.once.Do(func() {
		if subscription.center != nil {
			subscription.center.remove(subscription.identifier)
		}
	})
}
