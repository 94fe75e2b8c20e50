package event

import (
	"sync"

	"github.com/sirupsen/logrus"
)

/*
return nil if not support
*/
type EventHandler func(e *EventRecord) *EventHandleResult

type EventHandleResult struct {
	Success           bool
	Message           string
	HandlerIdentifier string
}

// Bus holds the handlers invoked after a mutation has been committed.
type Bus struct {
	mu       sync.RWMutex
	handlers []EventHandler
}

func NewBus(handlers ...EventHandler) *Bus {
	return &Bus{handlers: handlers}
}

func (b *Bus) Register(h EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

func (b *Bus) InvokeHandlers(record *EventRecord) []EventHandleResult {
	if b == nil {
		return nil
	}
	b.mu.RLock()
	handlers := b.handlers
	b.mu.RUnlock()

	results := []EventHandleResult{}
	for _, handler := range handlers {
		logrus.Debug("pre handle event ", record.Event)
		r := handler(record)

		if r == nil {
			continue
		}

		results = append(results, *r)

		if r.Success {
			logrus.Info("post handle event. ", r)
		} else {
			logrus.Error("post handler error. ", r)
		}
	}
	return results
}
