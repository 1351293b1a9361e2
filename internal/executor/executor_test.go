package executor_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nivschuman/ChainDemocracy/internal/address"
	"github.com/nivschuman/ChainDemocracy/internal/crypto/ppk"
	"github.com/nivschuman/ChainDemocracy/internal/executor"
	"github.com/nivschuman/ChainDemocracy/internal/ledger"
	"github.com/nivschuman/ChainDemocracy/internal/models"
)

type programFunc func(runtime ledger.Runtime, programId address.Address, accounts []*ledger.AccountInfo, data []byte) error

func (f programFunc) Process(runtime ledger.Runtime, programId address.Address, accounts []*ledger.AccountInfo, data []byte) error {
	return f(runtime, programId, accounts, data)
}

var (
	programId = address.FromPublicKey([]byte("program"))
	payer     = address.FromPublicKey([]byte("payer"))
	target    = address.FromPublicKey([]byte("target"))
	other     = address.FromPublicKey([]byte("other"))
)

// createAndWrite allocates accounts[1] and copies data into it.
func createAndWrite(runtime ledger.Runtime, programId address.Address, accounts []*ledger.AccountInfo, data []byte) error {
	if err := runtime.CreateAccount(accounts[0], accounts[1], 8, programId); err != nil {
		return err
	}
	copy(accounts[1].Data, data)
	return nil
}

func metas(writable bool, addrs ...address.Address) []models.AccountMeta {
	result := []models.AccountMeta{{Address: payer, IsWritable: true}}
	for _, addr := range addrs {
		result = append(result, models.AccountMeta{Address: addr, IsWritable: writable})
	}
	return result
}

func TestInvokeCommitsOnlyAfterCommit(t *testing.T) {
	store := executor.NewMemoryStore()
	exec := executor.New(store, programId, programFunc(createAndWrite))
	ctx := context.Background()

	require.NoError(t, exec.Invoke(ctx, payer, metas(true, target), []byte{1, 2, 3}))
	require.Zero(t, store.Len())

	pendingHash := exec.PendingAppHash()
	appHash, err := exec.Commit(ctx)
	require.NoError(t, err)
	require.Equal(t, pendingHash, appHash)

	record, err := exec.GetRecord(ctx, target)
	require.NoError(t, err)
	require.Equal(t, programId, record.Owner)
	require.Equal(t, []byte{1, 2, 3, 0, 0, 0, 0, 0}, record.Data)
}

func TestInvokeDiscardsWritesOfFailedInstruction(t *testing.T) {
	store := executor.NewMemoryStore()
	failure := errors.New("late failure")
	exec := executor.New(store, programId, programFunc(func(runtime ledger.Runtime, programId address.Address, accounts []*ledger.AccountInfo, data []byte) error {
		if err := createAndWrite(runtime, programId, accounts, data); err != nil {
			return err
		}
		return failure
	}))
	ctx := context.Background()

	require.ErrorIs(t, exec.Invoke(ctx, payer, metas(true, target), []byte{1}), failure)
	_, err := exec.Commit(ctx)
	require.NoError(t, err)
	require.Zero(t, store.Len())
}

func TestCreateAccountRejectsExistingRecord(t *testing.T) {
	store := executor.NewMemoryStore()
	exec := executor.New(store, programId, programFunc(createAndWrite))
	ctx := context.Background()

	require.NoError(t, exec.Invoke(ctx, payer, metas(true, target), []byte{1}))
	err := exec.Invoke(ctx, payer, metas(true, target), []byte{2})
	require.ErrorIs(t, err, ledger.ErrAccountAlreadyInitialized)

	_, err = exec.Commit(ctx)
	require.NoError(t, err)
	record, err := exec.GetRecord(ctx, target)
	require.NoError(t, err)
	require.Equal(t, byte(1), record.Data[0])
}

func TestCreateAccountRequiresSigner(t *testing.T) {
	exec := executor.New(executor.NewMemoryStore(), programId, programFunc(createAndWrite))

	err := exec.Invoke(context.Background(), other, metas(true, target), nil)
	require.ErrorIs(t, err, ledger.ErrMissingSignature)
}

func TestCreateAccountRequiresWritableTarget(t *testing.T) {
	exec := executor.New(executor.NewMemoryStore(), programId, programFunc(createAndWrite))

	err := exec.Invoke(context.Background(), payer, metas(false, target), nil)
	require.ErrorIs(t, err, ledger.ErrReadOnlyRecord)
}

func TestCreateAccountRejectsOversizedRecords(t *testing.T) {
	exec := executor.New(executor.NewMemoryStore(), programId, programFunc(func(runtime ledger.Runtime, programId address.Address, accounts []*ledger.AccountInfo, data []byte) error {
		return runtime.CreateAccount(accounts[0], accounts[1], executor.MaxRecordSize+1, programId)
	}))

	err := exec.Invoke(context.Background(), payer, metas(true, target), nil)
	require.ErrorIs(t, err, ledger.ErrAllocationFailure)
}

func TestInvokeRejectsWritesToForeignRecords(t *testing.T) {
	store := executor.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.ApplyRecords(ctx, []*models.Record{{Address: target, Owner: other, Data: []byte{0}}}))

	exec := executor.New(store, programId, programFunc(func(runtime ledger.Runtime, programId address.Address, accounts []*ledger.AccountInfo, data []byte) error {
		owner, exists := runtime.OwnerOf(accounts[1].Key)
		require.True(t, exists)
		require.Equal(t, other, owner)
		accounts[1].Data[0] = 9
		return nil
	}))

	err := exec.Invoke(ctx, payer, metas(true, target), nil)
	require.ErrorIs(t, err, ledger.ErrUnauthorizedOwner)
}

func TestInvokeRejectsWritesToReadOnlyRecords(t *testing.T) {
	store := executor.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.ApplyRecords(ctx, []*models.Record{{Address: target, Owner: programId, Data: []byte{0}}}))

	exec := executor.New(store, programId, programFunc(func(runtime ledger.Runtime, programId address.Address, accounts []*ledger.AccountInfo, data []byte) error {
		accounts[1].Data[0] = 9
		return nil
	}))

	err := exec.Invoke(ctx, payer, metas(false, target), nil)
	require.ErrorIs(t, err, ledger.ErrReadOnlyRecord)
}

func TestInvokeRejectsResizedRecords(t *testing.T) {
	store := executor.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.ApplyRecords(ctx, []*models.Record{{Address: target, Owner: programId, Data: []byte{0}}}))

	exec := executor.New(store, programId, programFunc(func(runtime ledger.Runtime, programId address.Address, accounts []*ledger.AccountInfo, data []byte) error {
		accounts[1].Data = append(accounts[1].Data, 1)
		return nil
	}))

	err := exec.Invoke(ctx, payer, metas(true, target), nil)
	require.ErrorIs(t, err, ledger.ErrAllocationFailure)
}

func TestInvokeSharesHandlesOfRepeatedAccounts(t *testing.T) {
	exec := executor.New(executor.NewMemoryStore(), programId, programFunc(func(runtime ledger.Runtime, programId address.Address, accounts []*ledger.AccountInfo, data []byte) error {
		require.Same(t, accounts[1], accounts[2])
		require.True(t, accounts[1].IsWritable)
		return nil
	}))

	accountMetas := append(metas(false, target), models.AccountMeta{Address: target, IsWritable: true})
	require.NoError(t, exec.Invoke(context.Background(), payer, accountMetas, nil))
}

func TestExecuteVerifiesEnvelope(t *testing.T) {
	keyPair, err := ppk.GenerateKeyPair()
	require.NoError(t, err)
	signer := address.FromPublicKey(keyPair.PublicKey.AsBytes())

	exec := executor.New(executor.NewMemoryStore(), programId, programFunc(createAndWrite))
	ctx := context.Background()

	accountMetas := []models.AccountMeta{{Address: signer, IsWritable: true}, {Address: target, IsWritable: true}}

	transaction := models.NewTransaction(keyPair.PublicKey.AsBytes(), programId, accountMetas, []byte{7})
	require.NoError(t, transaction.Sign(keyPair.PrivateKey))
	require.NoError(t, exec.Execute(ctx, transaction))

	unsigned := models.NewTransaction(keyPair.PublicKey.AsBytes(), programId, accountMetas, []byte{7})
	require.ErrorIs(t, exec.Execute(ctx, unsigned), ledger.ErrMissingSignature)

	misrouted := models.NewTransaction(keyPair.PublicKey.AsBytes(), other, accountMetas, []byte{7})
	require.NoError(t, misrouted.Sign(keyPair.PrivateKey))
	require.ErrorIs(t, exec.Execute(ctx, misrouted), ledger.ErrUnauthorizedOwner)
}

func TestAppHashIsDeterministic(t *testing.T) {
	run := func() []byte {
		exec := executor.New(executor.NewMemoryStore(), programId, programFunc(createAndWrite), executor.WithAppHash([]byte("genesis")))
		ctx := context.Background()
		require.NoError(t, exec.Invoke(ctx, payer, metas(true, target), []byte{1}))
		require.NoError(t, exec.Invoke(ctx, payer, metas(true, other), []byte{2}))
		appHash, err := exec.Commit(ctx)
		require.NoError(t, err)
		return appHash
	}

	first := run()
	require.Equal(t, first, run())
	require.NotEqual(t, []byte("genesis"), first)
}

func TestEmptyBlockKeepsAppHash(t *testing.T) {
	exec := executor.New(executor.NewMemoryStore(), programId, programFunc(createAndWrite), executor.WithAppHash([]byte("genesis")))

	appHash, err := exec.Commit(context.Background())
	require.NoError(t, err)
	require.Equal(t, []byte("genesis"), appHash)
}

func TestDiscardDropsPendingWrites(t *testing.T) {
	store := executor.NewMemoryStore()
	exec := executor.New(store, programId, programFunc(createAndWrite))
	ctx := context.Background()

	require.NoError(t, exec.Invoke(ctx, payer, metas(true, target), []byte{1}))
	exec.Discard()
	_, err := exec.Commit(ctx)
	require.NoError(t, err)
	require.Zero(t, store.Len())
}
