package mqtt

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sweeney/reflow-hotplate/internal/logic"
)

var (
	// ErrQueueFull is returned when a message is dropped because the
	// publisher goroutine has fallen behind.
	ErrQueueFull = errors.New("mqtt queue full")

	// ErrQueueClosed is returned for messages enqueued after Close.
	ErrQueueClosed = errors.New("mqtt queue closed")

	// ErrFlushTimeout is returned by Close when queued messages could not
	// be handed to the publisher in time.
	ErrFlushTimeout = errors.New("mqtt queue flush timed out")
)

// DefaultQueueCapacity is the number of messages a Queue holds.
const DefaultQueueCapacity = 64

const flushTimeout = 5 * time.Second

type queued struct {
	event  logic.Event
	system *SystemEvent
}

// Queue hands messages to a Publisher on its own goroutine so callers never
// wait on the broker. Messages are delivered in enqueue order; when the
// queue is full new messages are dropped.
type Queue struct {
	pub Publisher
	log *zap.SugaredLogger
	ch  chan queued

	done chan struct{}

	mu      sync.Mutex
	closed  bool
	dropped int
}

// NewQueue starts a queue in front of pub.
func NewQueue(pub Publisher, capacity int, log *zap.SugaredLogger) *Queue {
	if capacity < 1 {
		capacity = DefaultQueueCapacity
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	q := &Queue{
		pub:  pub,
		log:  log,
		ch:   make(chan queued, capacity),
		done: make(chan struct{}),
	}
	go q.run()
	return q
}

func (q *Queue) run() {
	defer close(q.done)
	for m := range q.ch {
		if m.system != nil {
			if err := q.pub.PublishSystem(*m.system); err != nil {
				q.log.Warnw("system publish error", "event", m.system.Event, "error", err)
			}
			continue
		}
		if err := q.pub.Publish(m.event); err != nil {
			q.log.Warnw("publish error", "type", m.event.Type, "error", err)
		}
	}
}

// Publish enqueues a controller event.
func (q *Queue) Publish(event logic.Event) error {
	return q.enqueue(queued{event: event})
}

// PublishSystem enqueues a system lifecycle event.
func (q *Queue) PublishSystem(event SystemEvent) error {
	return q.enqueue(queued{system: &event})
}

func (q *Queue) enqueue(m queued) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.ch <- m:
		return nil
	default:
		q.dropped++
		return ErrQueueFull
	}
}

// Dropped returns how many messages were rejected because the queue was full.
func (q *Queue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

// Close stops accepting messages and waits up to five seconds for the
// queued ones to reach the publisher. The wrapped publisher stays open.
func (q *Queue) Close() error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.ch)
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		return nil
	case <-time.After(flushTimeout):
		return ErrFlushTimeout
	}
}
