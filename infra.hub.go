package main

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// ObserverHub fans one change event out to every currently subscribed
// observer. Observers join and leave independently of the request and
// response cycle; a slow observer never blocks a broadcast.
type ObserverHub struct {
	mu        sync.RWMutex
	observers map[chan struct{}]struct{}
}

func NewObserverHub() *ObserverHub {
	return &ObserverHub{observers: make(map[chan struct{}]struct{})}
}

// Subscribe registers a new observer and returns its events channel
// with the matching unsubscribe function.
func (h *ObserverHub) Subscribe() (<-chan struct{}, func()) {
	events := make(chan struct{}, 1)
	h.mu.Lock()
	h.observers[events] = struct{}{}
	h.mu.Unlock()

	unsubscribe := func() {
		h.mu.Lock()
		delete(h.observers, events)
		h.mu.Unlock()
	}
	return events, unsubscribe
}

// Broadcast delivers one event to each observer. An observer with an
// undrained pending event is left as is: it will wake up anyway.
func (h *ObserverHub) Broadcast() {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for events := range h.observers {
		select {
		case events <- struct{}{}:
		default:
		}
	}
}

// Count returns the number of currently subscribed observers.
func (h *ObserverHub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.observers)
}

// hubForwarder drains the notification gateway subscription and relays
// each change event to the in-process observer hub.
type hubForwarder struct {
	logger   *zap.Logger
	notifier Notifier
	hub      *ObserverHub
}

func NewHubForwarder(logger *zap.Logger, notifier Notifier, hub *ObserverHub) *hubForwarder {
	return &hubForwarder{logger: logger, notifier: notifier, hub: hub}
}

// Forward consumes change events until the context dies. It is meant
// to run inside the application errgroup.
func (hf *hubForwarder) Forward(ctx context.Context) error {
	events, stop := hf.notifier.Subscribe(ctx)
	defer stop()

	for {
		select {
		case <-ctx.Done():
			hf.logger.Info("forwarder: context is done: exit", zap.String("reason", ctx.Err().Error()))
			return nil
		case _, ok := <-events:
			if !ok {
				hf.logger.Info("forwarder: events channel closed: exit")
				return nil
			}
			hf.hub.Broadcast()
		}
	}
}
