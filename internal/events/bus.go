// Package events carries transaction mutations to whoever needs to react
// to them: the insights tracker and the optional AMQP mirror.
package events

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"wealthway/internal/core"
)

type Kind string

const (
	TransactionCreated Kind = "transaction.created"
	TransactionDeleted Kind = "transaction.deleted"
)

// TransactionEvent describes one mutation of the transaction set.
type TransactionEvent struct {
	Kind        Kind             `json:"kind"`
	Transaction core.Transaction `json:"transaction"`
	At          time.Time        `json:"at"`
}

// Month returns the month the event affects and whether the transaction's
// date could be parsed at all.
func (e TransactionEvent) Month() (core.MonthPointer, bool) {
	d, ok := e.Transaction.ParsedDate()
	if !ok {
		return core.MonthPointer{}, false
	}
	return core.MonthOf(d), true
}

// Publisher emits transaction events.
type Publisher interface {
	Publish(ctx context.Context, e TransactionEvent)
}

// Bus is an in-process fan-out of transaction events. Each subscriber gets
// its own buffered channel; a subscriber that falls behind loses events
// rather than blocking the mutation that produced them.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]chan TransactionEvent
	nextID int
	buffer int
	closed bool
}

func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = 64
	}
	return &Bus{subs: make(map[int]chan TransactionEvent), buffer: buffer}
}

// Publish implements Publisher.
func (b *Bus) Publish(ctx context.Context, e TransactionEvent) {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			slog.WarnContext(ctx, "Dropping event for slow subscriber", "subscriber", id, "kind", e.Kind)
		}
	}
}

// Subscribe returns a channel of future events and a func that
// unsubscribes and closes it.
func (b *Bus) Subscribe() (<-chan TransactionEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan TransactionEvent, b.buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if c, ok := b.subs[id]; ok {
				delete(b.subs, id)
				close(c)
			}
		})
	}
}

// Close closes every subscriber channel. Later publishes are dropped.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
