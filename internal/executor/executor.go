// Package executor hosts the election program: it hands records to the
// program, enforces allocation and ownership rules and commits every write
// of an instruction together or not at all.
package executor

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/sasha-s/go-deadlock"

	"github.com/nivschuman/ChainDemocracy/internal/address"
	"github.com/nivschuman/ChainDemocracy/internal/crypto/hash"
	"github.com/nivschuman/ChainDemocracy/internal/crypto/merkle"
	"github.com/nivschuman/ChainDemocracy/internal/ledger"
	"github.com/nivschuman/ChainDemocracy/internal/logger"
	"github.com/nivschuman/ChainDemocracy/internal/models"
)

const MaxRecordSize = 10 * 1024 * 1024

type Option func(*Executor)

func WithLogger(log *logger.Logger) Option {
	return func(executor *Executor) {
		executor.log = log.WithComponent("Executor")
	}
}

// WithAppHash restores the app hash of the last committed block.
func WithAppHash(appHash []byte) Option {
	return func(executor *Executor) {
		executor.appHash = bytes.Clone(appHash)
	}
}

type Executor struct {
	mu        deadlock.Mutex
	store     Store
	programId address.Address
	program   ledger.Program
	pending   *Overlay
	height    int64
	blockTime time.Time
	appHash   []byte
	log       *logger.Logger
}

func New(store Store, programId address.Address, program ledger.Program, options ...Option) *Executor {
	executor := &Executor{
		store:     store,
		programId: programId,
		program:   program,
		pending:   newOverlay(storeSource{store: store}),
		log:       logger.Discard(),
	}
	for _, option := range options {
		option(executor)
	}
	return executor
}

func (executor *Executor) ProgramId() address.Address {
	return executor.programId
}

// SetTime sets the clock reported to the program until the next call.
func (executor *Executor) SetTime(blockTime time.Time) {
	executor.mu.Lock()
	defer executor.mu.Unlock()
	executor.blockTime = blockTime.UTC()
}

// SetHeight sets the height the pending records will be committed at.
func (executor *Executor) SetHeight(height int64) {
	executor.mu.Lock()
	defer executor.mu.Unlock()
	executor.height = height
}

func (executor *Executor) Height() int64 {
	executor.mu.Lock()
	defer executor.mu.Unlock()
	return executor.height
}

// CheckTransaction verifies the envelope of a transaction without running it.
func (executor *Executor) CheckTransaction(transaction *models.Transaction) error {
	valid, err := transaction.VerifySignature()
	if err != nil {
		return ledger.WrapError(ledger.MissingSignature, err, "payer public key")
	}
	if !valid {
		return ledger.NewError(ledger.MissingSignature, "invalid signature for transaction %x", transaction.Id)
	}
	if transaction.ProgramId != executor.programId {
		return ledger.NewError(ledger.UnauthorizedOwner, "transaction addressed to program %s", transaction.ProgramId.Short())
	}
	return nil
}

func (executor *Executor) Execute(ctx context.Context, transaction *models.Transaction) error {
	if err := executor.CheckTransaction(transaction); err != nil {
		return err
	}
	return executor.Invoke(ctx, transaction.PayerAddress(), transaction.Accounts, transaction.Data)
}

// Invoke runs one instruction signed by payer. On failure none of its writes
// become visible.
func (executor *Executor) Invoke(ctx context.Context, payer address.Address, metas []models.AccountMeta, data []byte) error {
	executor.mu.Lock()
	defer executor.mu.Unlock()

	call := newCall(ctx, executor, executor.pending.child())

	accounts, err := call.load(payer, metas)
	if err != nil {
		return err
	}

	if err := executor.program.Process(call, executor.programId, accounts, data); err != nil {
		return err
	}
	if call.err != nil {
		return call.err
	}
	if err := call.collect(); err != nil {
		return err
	}

	call.view.mergeInto(executor.pending)
	return nil
}

func (executor *Executor) PendingAppHash() []byte {
	executor.mu.Lock()
	defer executor.mu.Unlock()
	return AppHash(executor.appHash, executor.pending.Records())
}

// PendingRecords is the number of records the next commit will write.
func (executor *Executor) PendingRecords() int {
	executor.mu.Lock()
	defer executor.mu.Unlock()
	return executor.pending.Len()
}

// Commit writes the pending records and the receipts of the block to the
// store and returns the new app hash.
func (executor *Executor) Commit(ctx context.Context, receipts ...*models.TransactionReceipt) ([]byte, error) {
	executor.mu.Lock()
	defer executor.mu.Unlock()

	records := executor.pending.Records()
	appHash := AppHash(executor.appHash, records)

	var err error
	if blockStore, ok := executor.store.(BlockStore); ok {
		err = blockStore.ApplyBlock(ctx, &models.AppState{Height: executor.height, AppHash: appHash}, records, receipts)
	} else if len(receipts) > 0 {
		err = fmt.Errorf("store cannot keep %d receipts", len(receipts))
	} else {
		err = executor.store.ApplyRecords(ctx, records)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to apply %d records: %w", len(records), err)
	}

	executor.appHash = appHash
	executor.pending = newOverlay(storeSource{store: executor.store})
	executor.log.Printf("Committed %d records, app hash %x", len(records), executor.appHash)

	return bytes.Clone(executor.appHash), nil
}

func (executor *Executor) Discard() {
	executor.mu.Lock()
	defer executor.mu.Unlock()
	executor.pending = newOverlay(storeSource{store: executor.store})
}

func (executor *Executor) AppHash() []byte {
	executor.mu.Lock()
	defer executor.mu.Unlock()
	return bytes.Clone(executor.appHash)
}

// GetRecord reads committed state.
func (executor *Executor) GetRecord(ctx context.Context, addr address.Address) (*models.Record, error) {
	return executor.store.GetRecord(ctx, addr)
}

// AppHash chains the previous hash with the merkle root of the records
// written by a block. A block without writes keeps the previous hash.
func AppHash(previous []byte, records []*models.Record) []byte {
	if len(records) == 0 {
		return bytes.Clone(previous)
	}
	return hash.HashParts(previous, merkle.CalculateMerkleRoot(records))
}
