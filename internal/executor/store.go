package executor

import (
	"context"
	"slices"

	"github.com/sasha-s/go-deadlock"

	"github.com/nivschuman/ChainDemocracy/internal/address"
	"github.com/nivschuman/ChainDemocracy/internal/models"
)

// Store is the committed record state.
type Store interface {
	// GetRecord returns nil without error when no record exists at addr.
	GetRecord(ctx context.Context, addr address.Address) (*models.Record, error)
	// ApplyRecords upserts every record or none of them.
	ApplyRecords(ctx context.Context, records []*models.Record) error
}

// BlockStore is a Store that persists the app state and the receipts of a
// block in the same write as its records.
type BlockStore interface {
	Store
	ApplyBlock(ctx context.Context, appState *models.AppState, records []*models.Record, receipts []*models.TransactionReceipt) error
}

type MemoryStore struct {
	mu       deadlock.RWMutex
	records  map[address.Address]*models.Record
	appState models.AppState
	receipts []*models.TransactionReceipt
}

var _ BlockStore = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[address.Address]*models.Record),
	}
}

func (store *MemoryStore) GetRecord(ctx context.Context, addr address.Address) (*models.Record, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	record, exists := store.records[addr]
	if !exists {
		return nil, nil
	}
	return record.Clone(), nil
}

func (store *MemoryStore) ApplyRecords(ctx context.Context, records []*models.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	store.applyRecords(records)
	return nil
}

func (store *MemoryStore) ApplyBlock(ctx context.Context, appState *models.AppState, records []*models.Record, receipts []*models.TransactionReceipt) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	store.applyRecords(records)
	store.receipts = append(store.receipts, receipts...)
	store.appState = *appState
	return nil
}

func (store *MemoryStore) applyRecords(records []*models.Record) {
	for _, record := range records {
		store.records[record.Address] = record.Clone()
	}
}

// AppState returns the app state of the last applied block.
func (store *MemoryStore) AppState() models.AppState {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.appState
}

func (store *MemoryStore) Receipts() []*models.TransactionReceipt {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return slices.Clone(store.receipts)
}

func (store *MemoryStore) Len() int {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return len(store.records)
}
