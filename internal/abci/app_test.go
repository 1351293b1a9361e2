package abci_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	"github.com/stretchr/testify/require"

	"github.com/nivschuman/ChainDemocracy/internal/abci"
	"github.com/nivschuman/ChainDemocracy/internal/address"
	"github.com/nivschuman/ChainDemocracy/internal/client"
	"github.com/nivschuman/ChainDemocracy/internal/crypto/ppk"
	"github.com/nivschuman/ChainDemocracy/internal/executor"
	"github.com/nivschuman/ChainDemocracy/internal/ledger"
	"github.com/nivschuman/ChainDemocracy/internal/metrics"
	"github.com/nivschuman/ChainDemocracy/internal/models"
	"github.com/nivschuman/ChainDemocracy/internal/program"
	"github.com/nivschuman/ChainDemocracy/internal/query"
)

var (
	electionStart = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	electionEnd   = time.Date(2024, 5, 2, 20, 0, 0, 0, time.UTC)
)

type testNode struct {
	t       *testing.T
	app     *abci.Application
	store   *executor.MemoryStore
	builder *client.Builder
	height  int64
}

func newTestNode(t *testing.T) *testNode {
	programId := address.FromPublicKey([]byte("chain-democracy"))
	store := executor.NewMemoryStore()
	exec := executor.New(store, programId, program.New())

	keyPair, err := ppk.GenerateKeyPair()
	require.NoError(t, err)

	app := abci.NewApplication(exec, abci.WithMetrics(metrics.New()))

	return &testNode{
		t:       t,
		app:     app,
		store:   store,
		builder: client.NewBuilder(programId, keyPair),
	}
}

func (n *testNode) block(transactions ...*models.Transaction) *abcitypes.ResponseFinalizeBlock {
	txs := make([][]byte, 0, len(transactions))
	for _, transaction := range transactions {
		txs = append(txs, transaction.AsBytes())
	}
	return n.rawBlock(txs...)
}

func (n *testNode) rawBlock(txs ...[]byte) *abcitypes.ResponseFinalizeBlock {
	n.height++
	ctx := context.Background()

	response, err := n.app.FinalizeBlock(ctx, &abcitypes.RequestFinalizeBlock{
		Txs:    txs,
		Height: n.height,
		Time:   electionStart.Add(time.Hour),
	})
	require.NoError(n.t, err)
	require.Len(n.t, response.TxResults, len(txs))

	_, err = n.app.Commit(ctx, &abcitypes.RequestCommit{})
	require.NoError(n.t, err)
	return response
}

func (n *testNode) tx(transaction *models.Transaction, err error) *models.Transaction {
	require.NoError(n.t, err)
	return transaction
}

func (n *testNode) query(path string, data []byte) *abcitypes.ResponseQuery {
	response, err := n.app.Query(context.Background(), &abcitypes.RequestQuery{Path: path, Data: data})
	require.NoError(n.t, err)
	return response
}

func (n *testNode) setupElection() {
	response := n.block(
		n.tx(n.builder.AddElectionAccount("mayor-2024", electionStart, electionEnd)),
	)
	require.Equal(n.t, abcitypes.CodeTypeOK, response.TxResults[0].Code, response.TxResults[0].Log)

	response = n.block(
		n.tx(n.builder.AddCandidate("mayor-2024", "Alice", "")),
		n.tx(n.builder.AddCandidate("mayor-2024", "Bob", "")),
	)
	for _, result := range response.TxResults {
		require.Equal(n.t, abcitypes.CodeTypeOK, result.Code, result.Log)
	}
}

func TestCheckTx(t *testing.T) {
	n := newTestNode(t)
	ctx := context.Background()

	valid := n.tx(n.builder.AddElectionAccount("mayor-2024", electionStart, electionEnd))
	response, err := n.app.CheckTx(ctx, &abcitypes.RequestCheckTx{Tx: valid.AsBytes()})
	require.NoError(t, err)
	require.Equal(t, abcitypes.CodeTypeOK, response.Code)
	require.Equal(t, "AddElectionAccount", response.Info)

	response, err = n.app.CheckTx(ctx, &abcitypes.RequestCheckTx{Tx: []byte{1, 2, 3}})
	require.NoError(t, err)
	require.Equal(t, uint32(ledger.MalformedInstruction), response.Code)
	require.Equal(t, abci.Codespace, response.Codespace)

	tampered := n.tx(n.builder.AddElectionAccount("mayor-2024", electionStart, electionEnd))
	tampered.Data = append(tampered.Data, 0)
	response, err = n.app.CheckTx(ctx, &abcitypes.RequestCheckTx{Tx: tampered.AsBytes()})
	require.NoError(t, err)
	require.Equal(t, uint32(ledger.MalformedInstruction), response.Code)
}

func TestCheckTxRejectsForeignProgram(t *testing.T) {
	n := newTestNode(t)

	keyPair, err := ppk.GenerateKeyPair()
	require.NoError(t, err)
	foreign := client.NewBuilder(address.FromPublicKey([]byte("other-program")), keyPair)

	transaction, err := foreign.CountingVotes("mayor-2024")
	require.NoError(t, err)

	response, err := n.app.CheckTx(context.Background(), &abcitypes.RequestCheckTx{Tx: transaction.AsBytes()})
	require.NoError(t, err)
	require.Equal(t, uint32(ledger.UnauthorizedOwner), response.Code)
}

func TestUnknownVariantLeavesStateUntouched(t *testing.T) {
	n := newTestNode(t)
	n.setupElection()
	records := n.store.Len()

	info, err := n.app.Info(context.Background(), &abcitypes.RequestInfo{})
	require.NoError(t, err)

	keyPair, err := ppk.GenerateKeyPair()
	require.NoError(t, err)
	publicKey := keyPair.PublicKey.AsBytes()
	metas := []models.AccountMeta{{Address: address.FromPublicKey(publicKey), IsWritable: true}}

	transaction := models.NewTransaction(publicKey, n.builder.ProgramId(), metas, []byte{0xFF})
	require.NoError(t, transaction.Sign(keyPair.PrivateKey))

	response := n.block(transaction)
	require.Equal(t, uint32(ledger.UnknownVariant), response.TxResults[0].Code)
	require.Equal(t, info.LastBlockAppHash, response.AppHash)
	require.Equal(t, records, n.store.Len())
}

func TestElectionFlow(t *testing.T) {
	n := newTestNode(t)
	n.setupElection()

	response := n.block(
		n.tx(n.builder.AddVote("mayor-2024", "CARD-001", "Alice", "")),
		n.tx(n.builder.AddVote("mayor-2024", "CARD-002", "Alice", "")),
		n.tx(n.builder.AddVote("mayor-2024", "CARD-003", "Alice", "")),
		n.tx(n.builder.AddVote("mayor-2024", "CARD-004", "Bob", "")),
		n.tx(n.builder.AddVote("mayor-2024", "CARD-001", "Bob", "")),
	)
	for _, result := range response.TxResults[:4] {
		require.Equal(t, abcitypes.CodeTypeOK, result.Code, result.Log)
		require.Len(t, result.Events, 1)
		require.Equal(t, abci.EventType, result.Events[0].Type)
	}
	require.Equal(t, uint32(ledger.AccountAlreadyInitialized), response.TxResults[4].Code)

	response = n.block(n.tx(n.builder.CountingVotes("mayor-2024")))
	require.Equal(t, abcitypes.CodeTypeOK, response.TxResults[0].Code, response.TxResults[0].Log)

	resultResponse := n.query(query.PathResult, []byte("mayor-2024"))
	require.Equal(t, query.CodeOK, resultResponse.Code, resultResponse.Log)

	var result query.ResultView
	require.NoError(t, json.Unmarshal(resultResponse.Value, &result))
	require.Equal(t, int64(4), result.NumberOfVotes)
	require.Equal(t, []query.ResultEntryView{
		{Name: "Alice", Percentage: 75},
		{Name: "Bob", Percentage: 25},
	}, result.Results)

	electionResponse := n.query(query.PathElection, []byte("mayor-2024"))
	require.Equal(t, query.CodeOK, electionResponse.Code, electionResponse.Log)

	var election query.ElectionView
	require.NoError(t, json.Unmarshal(electionResponse.Value, &election))
	require.Equal(t, "mayor-2024", election.Name)
	require.Equal(t, int64(4), election.NumberOfVotes)
	require.Len(t, election.Candidates, 2)
	require.Equal(t, "Alice", election.Candidates[0].Name)
	require.Equal(t, int64(3), election.Candidates[0].Votes)
	require.Equal(t, "Bob", election.Candidates[1].Name)
	require.Equal(t, int64(1), election.Candidates[1].Votes)

	receipts := n.store.Receipts()
	require.Len(t, receipts, 9)
	failed := receipts[7]
	require.Equal(t, "AddVote", failed.Instruction)
	require.Equal(t, uint32(ledger.AccountAlreadyInitialized), failed.Code)
	require.Equal(t, n.builder.Payer(), failed.Payer)
}

func TestAppHashFollowsCommits(t *testing.T) {
	n := newTestNode(t)
	ctx := context.Background()

	response := n.block(n.tx(n.builder.AddElectionAccount("mayor-2024", electionStart, electionEnd)))
	require.NotEmpty(t, response.AppHash)

	info, err := n.app.Info(ctx, &abcitypes.RequestInfo{})
	require.NoError(t, err)
	require.Equal(t, int64(1), info.LastBlockHeight)
	require.Equal(t, response.AppHash, info.LastBlockAppHash)

	empty := n.rawBlock()
	require.Equal(t, response.AppHash, empty.AppHash)

	info, err = n.app.Info(ctx, &abcitypes.RequestInfo{})
	require.NoError(t, err)
	require.Equal(t, int64(2), info.LastBlockHeight)
}

func TestQueryRecord(t *testing.T) {
	n := newTestNode(t)
	n.setupElection()

	addr, err := program.ElectionAddress(n.builder.ProgramId(), "mayor-2024")
	require.NoError(t, err)

	response := n.query(query.PathRecord, addr.Bytes())
	require.Equal(t, query.CodeOK, response.Code, response.Log)
	require.Equal(t, addr.Bytes(), response.Key)
	require.Equal(t, n.builder.ProgramId().String(), response.Info)

	election, err := models.ElectionRecordFromBytes(response.Value)
	require.NoError(t, err)
	require.True(t, election.IsInitialized)
	require.Len(t, election.Votes, 2)
}

func TestQueryErrors(t *testing.T) {
	n := newTestNode(t)

	require.Equal(t, query.CodeBadRequest, n.query("/unknown", nil).Code)
	require.Equal(t, query.CodeBadRequest, n.query(query.PathRecord, []byte{1, 2}).Code)
	require.Equal(t, query.CodeNotFound, n.query(query.PathRecord, make([]byte, address.Size)).Code)
	require.Equal(t, query.CodeNotFound, n.query(query.PathElection, []byte("missing")).Code)
	require.Equal(t, query.CodeNotFound, n.query(query.PathResult, []byte("missing")).Code)
}

type flakyStore struct {
	*executor.MemoryStore
	fail bool
}

func (s *flakyStore) ApplyBlock(ctx context.Context, appState *models.AppState, records []*models.Record, receipts []*models.TransactionReceipt) error {
	if s.fail {
		return errors.New("disk full")
	}
	return s.MemoryStore.ApplyBlock(ctx, appState, records, receipts)
}

func TestCommitFailureKeepsRecordsAndReceiptsTogether(t *testing.T) {
	store := &flakyStore{MemoryStore: executor.NewMemoryStore(), fail: true}
	programId := address.FromPublicKey([]byte("chain-democracy"))
	app := abci.NewApplication(executor.New(store, programId, program.New()))

	keyPair, err := ppk.GenerateKeyPair()
	require.NoError(t, err)
	builder := client.NewBuilder(programId, keyPair)
	transaction, err := builder.AddElectionAccount("mayor-2024", electionStart, electionEnd)
	require.NoError(t, err)

	ctx := context.Background()
	response, err := app.FinalizeBlock(ctx, &abcitypes.RequestFinalizeBlock{
		Txs:    [][]byte{transaction.AsBytes()},
		Height: 1,
		Time:   electionStart,
	})
	require.NoError(t, err)
	require.Equal(t, abcitypes.CodeTypeOK, response.TxResults[0].Code, response.TxResults[0].Log)

	_, err = app.Commit(ctx, &abcitypes.RequestCommit{})
	require.Error(t, err)
	require.Zero(t, store.Len())
	require.Empty(t, store.Receipts())

	store.fail = false
	_, err = app.Commit(ctx, &abcitypes.RequestCommit{})
	require.NoError(t, err)
	require.Equal(t, 3, store.Len())
	require.Len(t, store.Receipts(), 1)
	require.Equal(t, transaction.Id, store.Receipts()[0].TransactionId)
	require.Equal(t, models.AppState{Height: 1, AppHash: response.AppHash}, store.AppState())
}
