// Package bus is a topic-based publish/subscribe fan-out for dynamic
// values. With isolation on, every handler receives its own deep clone of
// the published payload, so handlers can mutate what they are given
// without stepping on the publisher or each other.
package bus

import (
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dynlib/dynaval/dyn"
)

// Event pairs a topic with its payload.
type Event struct {
	Topic   string
	Payload dyn.Value
}

// Handler consumes one delivered event. Handlers on a topic run
// concurrently with each other; Publish waits for all of them.
type Handler func(Event)

type Config struct {
	// Isolate hands every handler a deep clone of the payload instead of
	// the published value itself.
	Isolate bool

	// Caps feeds the clone engine used for isolation.
	Caps dyn.Capabilities
}

// Subscription identifies one handler registration.
type Subscription struct {
	Topic string
	ID    string
}

type Bus struct {
	cfg  Config
	mu   sync.RWMutex
	subs map[string]map[string]Handler
}

func New(cfg Config) *Bus {
	return &Bus{cfg: cfg, subs: map[string]map[string]Handler{}}
}

// Subscribe registers h for every event published on topic.
func (b *Bus) Subscribe(topic string, h Handler) (Subscription, error) {
	if topic == "" {
		return Subscription{}, fmt.Errorf("subscribe requires a topic")
	}
	if h == nil {
		return Subscription{}, fmt.Errorf("subscribe requires a handler")
	}
	sub := Subscription{Topic: topic, ID: uuid.NewString()}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subs[topic]; !ok {
		b.subs[topic] = map[string]Handler{}
	}
	b.subs[topic][sub.ID] = h
	return sub, nil
}

// Unsubscribe removes a registration and reports whether it was present.
func (b *Bus) Unsubscribe(sub Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	m, ok := b.subs[sub.Topic]
	if !ok {
		return false
	}
	if _, ok := m[sub.ID]; !ok {
		return false
	}
	delete(m, sub.ID)
	if len(m) == 0 {
		delete(b.subs, sub.Topic)
	}
	return true
}

// Publish delivers e to every handler subscribed to its topic and waits
// for them to finish. With isolation on, all payload clones are taken
// before any handler runs, so a clone failure means no handler saw the
// event.
func (b *Bus) Publish(e Event) error {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[e.Topic]))
	for _, h := range b.subs[e.Topic] {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	if len(handlers) == 0 {
		return nil
	}

	deliveries := make([]Event, len(handlers))
	for i := range handlers {
		deliveries[i] = e
		if b.cfg.Isolate {
			payload, err := dyn.CloneWith(e.Payload, b.cfg.Caps)
			if err != nil {
				return fmt.Errorf("isolate payload for %q: %w", e.Topic, err)
			}
			deliveries[i].Payload = payload
		}
	}

	var wg sync.WaitGroup
	for i, h := range handlers {
		wg.Add(1)
		go func(h Handler, e Event) {
			defer wg.Done()
			h(e)
		}(h, deliveries[i])
	}
	wg.Wait()
	return nil
}

// Topics returns the topics that currently have subscribers, sorted.
func (b *Bus) Topics() []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]string, 0, len(b.subs))
	for topic := range b.subs {
		out = append(out, topic)
	}
	sort.Strings(out)
	return out
}

// Subscribers reports how many handlers are registered on topic.
func (b *Bus) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}
