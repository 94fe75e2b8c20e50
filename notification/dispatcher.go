package notification

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

var ErrDispatcherStopped = errors.New("notification dispatcher stopped")

// Fanout delivers to every sink, the first failure is returned after all sinks were tried.
type Fanout []Sink

func (f Fanout) Enqueue(n Notification) error {
	var first error
	for _, s := range f {
		if err := s.Enqueue(n); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Dispatcher decouples delivery from the caller. A single worker drains the queue, so
// notifications reach the downstream sink in the order they were enqueued.
type Dispatcher struct {
	downstream Sink
	queue      chan Notification

	mu      sync.RWMutex
	stopped bool
	done    chan struct{}
}

// NewDispatcher starts the worker right away, call Stop to drain and release it.
func NewDispatcher(downstream Sink, capacity int) *Dispatcher {
	if capacity <= 0 {
		capacity = 256
	}
	d := &Dispatcher{downstream: downstream, queue: make(chan Notification, capacity), done: make(chan struct{})}
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for n := range d.queue {
		if err := d.downstream.Enqueue(n); err != nil {
			logrus.Warnf("deliver notification %d (%s) to user %d: %v", n.ID, n.Type, n.UserID, err)
		} else {
			logrus.Debugf("notification %d (%s) delivered to user %d", n.ID, n.Type, n.UserID)
		}
	}
}

func (d *Dispatcher) Enqueue(n Notification) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrDispatcherStopped
	}
	d.queue <- n
	return nil
}

// Stop rejects new notifications and waits until the queued ones are delivered.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()
	<-d.done
}
