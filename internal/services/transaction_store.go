package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"wealthway/internal/core"
	"wealthway/internal/events"
	"wealthway/internal/storage"
)

// TransactionStore owns the authoritative transaction list. Every mutation
// rewrites the whole list under storage.TransactionsKey before the
// in-memory copy changes, so a failed write leaves both sides untouched.
type TransactionStore struct {
	kv        storage.KeyValue
	publisher events.Publisher

	mu  sync.RWMutex
	txs []core.Transaction
}

// NewTransactionStore returns an empty store. Call Load to read the
// persisted list. publisher may be nil.
func NewTransactionStore(kv storage.KeyValue, publisher events.Publisher) *TransactionStore {
	return &TransactionStore{kv: kv, publisher: publisher}
}

// Load replaces the in-memory list with the persisted one. Missing or
// malformed data yields an empty list; the problem is logged, not returned.
func (s *TransactionStore) Load(ctx context.Context) {
	txs := s.read(ctx)
	s.mu.Lock()
	s.txs = txs
	s.mu.Unlock()
	slog.InfoContext(ctx, "Transactions loaded", "count", len(txs))
}

func (s *TransactionStore) read(ctx context.Context) []core.Transaction {
	raw, ok, err := s.kv.Get(ctx, storage.TransactionsKey)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read transactions, starting empty", "error", err)
		return []core.Transaction{}
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return []core.Transaction{}
	}
	var txs []core.Transaction
	if err := json.Unmarshal([]byte(raw), &txs); err != nil {
		slog.WarnContext(ctx, "Persisted transactions are malformed, starting empty", "error", err)
		return []core.Transaction{}
	}
	if txs == nil {
		txs = []core.Transaction{}
	}
	return txs
}

// Add validates in, stores it as a new transaction and returns it.
// Incomplete input is rejected with core.ErrIncomplete before anything changes.
func (s *TransactionStore) Add(ctx context.Context, in core.NewTransaction) (core.Transaction, error) {
	if err := in.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	tx := core.Transaction{
		ID:       s.newIDLocked(),
		Name:     strings.TrimSpace(in.Name),
		Amount:   in.Amount,
		Date:     strings.TrimSpace(in.Date),
		Category: core.DefaultCategory,
		Type:     in.Type,
	}
	next := make([]core.Transaction, 0, len(s.txs)+1)
	next = append(next, s.txs...)
	next = append(next, tx)
	if err := s.persistLocked(ctx, next); err != nil {
		s.mu.Unlock()
		return core.Transaction{}, err
	}
	s.txs = next
	s.mu.Unlock()

	slog.InfoContext(ctx, "Transaction added",
		"id", tx.ID,
		"type", tx.Type,
		"amount", tx.Amount.StringFixed(2),
		"date", tx.Date)
	s.emit(ctx, events.TransactionCreated, tx)
	return tx, nil
}

// Delete removes the transaction with the given id. An unknown id is a
// no-op: nothing is written and removed is false.
func (s *TransactionStore) Delete(ctx context.Context, id string) (removed bool, err error) {
	s.mu.Lock()
	idx := -1
	for i, tx := range s.txs {
		if tx.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		slog.DebugContext(ctx, "Delete of unknown transaction ignored", "id", id)
		return false, nil
	}
	victim := s.txs[idx]
	next := make([]core.Transaction, 0, len(s.txs)-1)
	next = append(next, s.txs[:idx]...)
	next = append(next, s.txs[idx+1:]...)
	if err := s.persistLocked(ctx, next); err != nil {
		s.mu.Unlock()
		return false, err
	}
	s.txs = next
	s.mu.Unlock()

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	s.emit(ctx, events.TransactionDeleted, victim)
	return true, nil
}

// List returns a copy of every transaction in insertion order.
func (s *TransactionStore) List() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	return out
}

// Month returns the transactions dated in the given month.
func (s *TransactionStore) Month(year, month int) []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.FilterByMonth(s.txs, year, month)
}

func (s *TransactionStore) newIDLocked() string {
	for {
		id := uuid.NewString()
		taken := false
		for _, tx := range s.txs {
			if tx.ID == id {
				taken = true
				break
			}
		}
		if !taken {
			return id
		}
	}
}

func (s *TransactionStore) persistLocked(ctx context.Context, txs []core.Transaction) error {
	data, err := json.Marshal(txs)
	if err != nil {
		return fmt.Errorf("encode transactions: %w", err)
	}
	if err := s.kv.Set(ctx, storage.TransactionsKey, string(data)); err != nil {
		return fmt.Errorf("persist transactions: %w", err)
	}
	return nil
}

func (s *TransactionStore) emit(ctx context.Context, kind events.Kind, tx core.Transaction) {
	if s.publisher == nil {
		return
	}
	s.publisher.Publish(ctx, events.TransactionEvent{Kind: kind, Transaction: tx})
}
