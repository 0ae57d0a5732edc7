// Copyright 2025 Reelcraft Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");

package output

import "sync"

// OutputEventStream fans output events out to registered subscribers.
// Emission is synchronous and in registration order; subscribers decide via
// ShouldHandle which events they render.
type OutputEventStream struct {
	mu          sync.RWMutex
	subscribers []Subscriber
}

// NewOutputEventStream creates an empty stream.
func NewOutputEventStream() *OutputEventStream {
	return &OutputEventStream{}
}

// Subscribe registers a subscriber. A subscriber with a name already
// present replaces the previous registration.
func (s *OutputEventStream) Subscribe(sub Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.subscribers {
		if existing.Name() == sub.Name() {
			s.subscribers[i] = sub
			return
		}
	}
	s.subscribers = append(s.subscribers, sub)
}

// Unsubscribe removes a subscriber by name.
func (s *OutputEventStream) Unsubscribe(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.subscribers {
		if existing.Name() == name {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			return
		}
	}
}

// Emit dispatches one event to every interested subscriber.
func (s *OutputEventStream) Emit(event OutputEvent) {
	s.mu.RLock()
	subs := make([]Subscriber, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.RUnlock()

	for _, sub := range subs {
		if sub.ShouldHandle(event) {
			sub.Handle(event)
		}
	}
}
