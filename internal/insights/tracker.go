package insights

import (
	"context"
	"log/slog"
	"sync"

	"wealthway/internal/core"
	"wealthway/internal/events"
)

// Advisor produces advice for a set of transactions. *Client implements it.
type Advisor interface {
	Generate(ctx context.Context, txs []core.Transaction) string
	Regenerate(ctx context.Context, txs []core.Transaction) string
}

// MonthSource returns the transactions of one month.
type MonthSource interface {
	Month(year, month int) []core.Transaction
}

// Notifier is told about every loading transition and applied result.
type Notifier interface {
	NotifyInsight(ctx context.Context, s State)
}

// State is the insight shown for one month.
type State struct {
	Month   core.MonthPointer
	Text    string
	Loading bool
	// Ready is false until a first result was applied.
	Ready bool
	Seq   uint64
}

// maxTrackedMonths bounds how many months keep state. Past it, the least
// recently used month with no request in flight is forgotten.
const maxTrackedMonths = 240

type monthState struct {
	used     uint64
	observed bool
	count    int
	text     string
	ready    bool
	loading  bool
	seq      uint64
	cancel   context.CancelFunc
}

// Tracker keeps one insight per month. Each refresh bumps the month's
// sequence number and cancels the request in flight; a response is applied
// only if its sequence is still the latest, so the last request wins.
type Tracker struct {
	advisor  Advisor
	source   MonthSource
	notifier Notifier

	mu     sync.Mutex
	months map[core.MonthPointer]*monthState
	clock  uint64
	wg     sync.WaitGroup
}

// NewTracker creates a tracker. notifier may be nil.
func NewTracker(advisor Advisor, source MonthSource, notifier Notifier) *Tracker {
	return &Tracker{
		advisor:  advisor,
		source:   source,
		notifier: notifier,
		months:   make(map[core.MonthPointer]*monthState),
	}
}

func (t *Tracker) stateLocked(m core.MonthPointer) *monthState {
	t.clock++
	st, ok := t.months[m]
	if !ok {
		if len(t.months) >= maxTrackedMonths {
			t.evictLocked()
		}
		st = &monthState{}
		t.months[m] = st
	}
	st.used = t.clock
	return st
}

func (t *Tracker) evictLocked() {
	var (
		victim core.MonthPointer
		oldest *monthState
	)
	for m, st := range t.months {
		if st.loading || st.cancel != nil {
			continue
		}
		if oldest == nil || st.used < oldest.used {
			victim, oldest = m, st
		}
	}
	if oldest != nil {
		delete(t.months, victim)
	}
}

// Observe records the number of transactions visible for month m and
// starts a refresh when that number changed or m was never observed.
// A month without transactions is recorded but never refreshed
// automatically. It reports whether a refresh was started.
func (t *Tracker) Observe(ctx context.Context, m core.MonthPointer, txs []core.Transaction) bool {
	t.mu.Lock()
	st := t.stateLocked(m)
	if st.observed && st.count == len(txs) {
		t.mu.Unlock()
		return false
	}
	st.observed = true
	st.count = len(txs)
	t.mu.Unlock()

	if len(txs) == 0 {
		return false
	}
	t.Refresh(ctx, m, txs, false)
	return true
}

// Refresh asks for new advice about txs. With force the response cache is
// bypassed. The returned channel yields the applied state, or is closed
// empty when a newer refresh superseded this one.
func (t *Tracker) Refresh(ctx context.Context, m core.MonthPointer, txs []core.Transaction, force bool) <-chan State {
	txs = append([]core.Transaction(nil), txs...)
	reqCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	t.mu.Lock()
	st := t.stateLocked(m)
	if st.cancel != nil {
		st.cancel()
	}
	st.seq++
	seq := st.seq
	st.cancel = cancel
	st.loading = true
	loading := st.snapshot(m)
	t.mu.Unlock()

	t.notify(ctx, loading)

	out := make(chan State, 1)
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		defer close(out)
		defer cancel()

		var text string
		if force {
			text = t.advisor.Regenerate(reqCtx, txs)
		} else {
			text = t.advisor.Generate(reqCtx, txs)
		}

		t.mu.Lock()
		if st.seq != seq {
			t.mu.Unlock()
			slog.DebugContext(reqCtx, "Discarding stale insight", "month", m.Key(), "seq", seq)
			return
		}
		st.text = text
		st.ready = true
		st.loading = false
		st.cancel = nil
		applied := st.snapshot(m)
		t.mu.Unlock()

		t.notify(reqCtx, applied)
		out <- applied
	}()
	return out
}

func (st *monthState) snapshot(m core.MonthPointer) State {
	return State{Month: m, Text: st.text, Loading: st.loading, Ready: st.ready, Seq: st.seq}
}

// Current returns the state of month m.
func (t *Tracker) Current(m core.MonthPointer) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	st, ok := t.months[m]
	if !ok {
		return State{Month: m}
	}
	return st.snapshot(m)
}

func (t *Tracker) notify(ctx context.Context, s State) {
	if t.notifier != nil {
		t.notifier.NotifyInsight(ctx, s)
	}
}

// Run observes the affected month of every event from sub until ctx is
// done or sub is closed, then cancels and waits for requests in flight.
func (t *Tracker) Run(ctx context.Context, sub <-chan events.TransactionEvent) error {
	defer t.stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case e, ok := <-sub:
			if !ok {
				return nil
			}
			m, ok := e.Month()
			if !ok {
				continue
			}
			t.Observe(ctx, m, t.source.Month(m.Year, m.Month))
		}
	}
}

func (t *Tracker) stop() {
	t.mu.Lock()
	for _, st := range t.months {
		if st.cancel != nil {
			st.cancel()
		}
	}
	t.mu.Unlock()
	t.wg.Wait()
}
