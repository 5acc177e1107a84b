// Package memory provides a publisher that keeps completion events in
// memory, for tests and local runs without Pub/Sub credentials.
package memory

import (
	"context"
	"fmt"
	"sync"
)

// Publisher records every event handed to it in arrival order.
type Publisher struct {
	mu     sync.Mutex
	events []Event
}

// Event is one recorded publish: the topic it targeted and the payload.
type Event struct {
	Topic   string
	Payload any
}

// New returns an empty Publisher.
func New() *Publisher {
	return &Publisher{}
}

// Publish appends the event and returns a synthetic message ID.
func (p *Publisher) Publish(_ context.Context, topic string, payload any) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, Event{Topic: topic, Payload: payload})
	return fmt.Sprintf("local-%d", len(p.events)), nil
}

// Events returns a copy of everything published so far.
func (p *Publisher) Events() []Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Event, len(p.events))
	copy(out, p.events)
	return out
}

// Topics returns the topic of each recorded event, in publish order.
func (p *Publisher) Topics() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	topics := make([]string, len(p.events))
	for i, ev := range p.events {
		topics[i] = ev.Topic
	}
	return topics
}
