package executor_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nivschuman/ChainDemocracy/internal/config"
	db_connection "github.com/nivschuman/ChainDemocracy/internal/database/connection"
	"github.com/nivschuman/ChainDemocracy/internal/database/repositories"
	"github.com/nivschuman/ChainDemocracy/internal/executor"
	"github.com/nivschuman/ChainDemocracy/internal/models"
)

func TestCommitThroughRecordRepository(t *testing.T) {
	db, err := db_connection.OpenDatabase(config.DatabaseDialectSqlite, ":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { db_connection.CloseDatabaseConnection(db) })

	recordRepo := repositories.NewRecordRepositoryImpl(db)
	appStateRepo := repositories.NewAppStateRepositoryImpl(db)
	ctx := context.Background()

	exec := executor.New(recordRepo, programId, programFunc(createAndWrite))
	exec.SetHeight(3)
	require.NoError(t, exec.Invoke(ctx, payer, metas(true, target), []byte{5}))

	receipt := &models.TransactionReceipt{TransactionId: []byte{1}, Height: 3, Payer: payer, Instruction: "Write"}
	appHash, err := exec.Commit(ctx, receipt)
	require.NoError(t, err)

	stored, err := repositories.NewReceiptRepositoryImpl(db).GetReceipt(ctx, receipt.TransactionId)
	require.NoError(t, err)
	require.Equal(t, receipt, stored)

	record, err := recordRepo.GetRecord(ctx, target)
	require.NoError(t, err)
	require.Equal(t, byte(5), record.Data[0])

	appState, err := appStateRepo.GetAppState(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(3), appState.Height)
	require.Equal(t, appHash, appState.AppHash)
}

type recordsOnly struct {
	executor.Store
}

func TestCommitRefusesReceiptsWithoutBlockStore(t *testing.T) {
	store := executor.NewMemoryStore()
	exec := executor.New(recordsOnly{store}, programId, programFunc(createAndWrite))
	ctx := context.Background()
	require.NoError(t, exec.Invoke(ctx, payer, metas(true, target), []byte{1}))

	_, err := exec.Commit(ctx, &models.TransactionReceipt{TransactionId: []byte{1}})
	require.Error(t, err)
	require.Zero(t, store.Len())

	_, err = exec.Commit(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, store.Len())
}
