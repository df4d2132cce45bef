// Copyright 2025 CompliK Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package eventbus is a small in-process topic broker used to fan completed
// compliance reports out to handler plugins.
package eventbus

import (
	"sync"
)

// DefaultBufferSize is used when NewEventBus is given a non-positive size
const DefaultBufferSize = 100

// Event wraps a topic payload
type Event struct {
	Payload any
}

// EventChan receives the events of one subscription
type EventChan chan Event

// EventBus delivers events to per-subscriber buffered channels. Publishing
// never blocks: an event is dropped for a subscriber whose buffer is full.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[string][]EventChan
	bufferSize  int
}

// NewEventBus creates a bus whose subscriptions buffer bufferSize events
func NewEventBus(bufferSize int) *EventBus {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}
	return &EventBus{
		subscribers: make(map[string][]EventChan),
		bufferSize:  bufferSize,
	}
}

// Publish sends event to every subscriber of topic and returns how many
// subscribers it was dropped for
func (eb *EventBus) Publish(topic string, event Event) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	dropped := 0
	for _, ch := range eb.subscribers[topic] {
		select {
		case ch <- event:
		default:
			dropped++
		}
	}
	return dropped
}

// Subscribe registers a new buffered subscription on topic
func (eb *EventBus) Subscribe(topic string) EventChan {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	ch := make(EventChan, eb.bufferSize)
	eb.subscribers[topic] = append(eb.subscribers[topic], ch)
	return ch
}

// Unsubscribe removes ch from topic and closes it; pending events are discarded
func (eb *EventBus) Unsubscribe(topic string, ch EventChan) {
	eb.mu.Lock()
	defer eb.mu.Unlock()
	subscribers := eb.subscribers[topic]
	for i, subscriber := range subscribers {
		if subscriber != ch {
			continue
		}
		eb.subscribers[topic] = append(subscribers[:i:i], subscribers[i+1:]...)
		close(ch)
		for range ch {
		}
		return
	}
}

// SubscriberCount returns the number of live subscriptions on topic
func (eb *EventBus) SubscriberCount(topic string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subscribers[topic])
}
