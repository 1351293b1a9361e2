package voters_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sasha-s/go-deadlock"
	"github.com/stretchr/testify/require"

	"github.com/nivschuman/ChainDemocracy/internal/address"
	"github.com/nivschuman/ChainDemocracy/internal/client"
	"github.com/nivschuman/ChainDemocracy/internal/crypto/ppk"
	"github.com/nivschuman/ChainDemocracy/internal/executor"
	"github.com/nivschuman/ChainDemocracy/internal/ledger"
	"github.com/nivschuman/ChainDemocracy/internal/logger"
	"github.com/nivschuman/ChainDemocracy/internal/models"
	"github.com/nivschuman/ChainDemocracy/internal/program"
	"github.com/nivschuman/ChainDemocracy/internal/voters"
)

const ballotsJSON = `[
	{"card_number": "CARD-001", "first_name": "Alice"},
	{"card_number": "CARD-002", "first_name": "Alice"},
	{"card_number": "CARD-003", "first_name": "Alice"},
	{"card_number": "CARD-004", "first_name": "Bob"},
	{"card_number": "CARD-001", "first_name": "Bob"}
]`

func TestBallotsFromJSON(t *testing.T) {
	ballots, err := voters.BallotsFromJSON([]byte(ballotsJSON))
	require.NoError(t, err)
	require.Len(t, ballots, 5)
	require.Equal(t, &voters.Ballot{CardNumber: "CARD-004", FirstName: "Bob"}, ballots[3])
	require.Equal(t, "Bob", ballots[3].CandidateName())

	_, err = voters.BallotsFromJSON([]byte(`[{"first_name": "Alice"}]`))
	require.ErrorIs(t, err, voters.ErrInvalidBallot)

	_, err = voters.BallotsFromJSON([]byte(`[{"card_number": "CARD-001"}]`))
	require.ErrorIs(t, err, voters.ErrInvalidBallot)

	_, err = voters.BallotsFromJSON([]byte(`{`))
	require.Error(t, err)
}

func TestBallotsFileRoundTrip(t *testing.T) {
	ballots := []*voters.Ballot{
		{CardNumber: "CARD-001", FirstName: "Alice", LastName: "Smith"},
		{CardNumber: "CARD-002", FirstName: "Bob"},
	}

	data, err := voters.BallotsToJSON(ballots)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "ballots.json")
	require.NoError(t, os.WriteFile(path, data, 0o600))

	loaded, err := voters.BallotsFromJSONFile(path)
	require.NoError(t, err)
	require.Equal(t, ballots, loaded)
}

func TestGenerateBallots(t *testing.T) {
	candidates := [][2]string{{"Alice", ""}, {"Bob", "Jones"}}
	ballots := voters.GenerateBallots(50, candidates, rand.New(rand.NewPCG(1, 2)))
	require.Len(t, ballots, 50)
	require.Equal(t, "CARD-000001", ballots[0].CardNumber)
	require.Equal(t, "CARD-000050", ballots[49].CardNumber)

	counts, total := voters.Expected(ballots)
	require.Equal(t, int64(50), total)
	require.Equal(t, int64(50), counts["Alice"]+counts["Bob Jones"])

	require.Empty(t, voters.GenerateBallots(10, nil, rand.New(rand.NewPCG(1, 2))))
}

func TestExpectedSkipsRepeatedCards(t *testing.T) {
	ballots, err := voters.BallotsFromJSON([]byte(ballotsJSON))
	require.NoError(t, err)

	counts, total := voters.Expected(ballots)
	require.Equal(t, int64(4), total)
	require.Equal(t, map[string]int64{"Alice": 3, "Bob": 1}, counts)
}

type executorSubmitter struct {
	mu   deadlock.Mutex
	exec *executor.Executor
}

func (s *executorSubmitter) Submit(ctx context.Context, transaction *models.Transaction) (*client.SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.exec.Execute(ctx, transaction); err != nil {
		return nil, err
	}
	if _, err := s.exec.Commit(ctx); err != nil {
		return nil, err
	}
	return &client.SubmitResult{Hash: transaction.Id}, nil
}

func newElection(t *testing.T) (*client.Builder, *executorSubmitter, *executor.MemoryStore) {
	programId := address.FromPublicKey([]byte("chain-democracy"))
	store := executor.NewMemoryStore()
	submitter := &executorSubmitter{exec: executor.New(store, programId, program.New())}

	keyPair, err := ppk.GenerateKeyPair()
	require.NoError(t, err)
	builder := client.NewBuilder(programId, keyPair)

	ctx := context.Background()
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	for _, build := range []func() (*models.Transaction, error){
		func() (*models.Transaction, error) { return builder.AddElectionAccount("mayor-2024", start, start.Add(time.Hour)) },
		func() (*models.Transaction, error) { return builder.AddCandidate("mayor-2024", "Alice", "") },
		func() (*models.Transaction, error) { return builder.AddCandidate("mayor-2024", "Bob", "") },
	} {
		transaction, err := build()
		require.NoError(t, err)
		_, err = submitter.Submit(ctx, transaction)
		require.NoError(t, err)
	}

	return builder, submitter, store
}

func TestSimulate(t *testing.T) {
	builder, submitter, store := newElection(t)

	ballots, err := voters.BallotsFromJSON([]byte(ballotsJSON))
	require.NoError(t, err)
	ballots = append(ballots, &voters.Ballot{CardNumber: "CARD-005", FirstName: "Nobody"})

	summary, err := voters.Simulate(context.Background(), builder, submitter, "mayor-2024", ballots, 3, logger.Discard())
	require.NoError(t, err)
	require.Equal(t, 4, summary.Cast)
	require.Equal(t, map[string]int{
		ledger.AccountAlreadyInitialized.String(): 1,
		ledger.CandidateNotFound.String():         1,
	}, summary.Rejected)
	require.Equal(t, 2, summary.RejectedTotal())

	addr, err := program.ElectionAddress(builder.ProgramId(), "mayor-2024")
	require.NoError(t, err)
	record, err := store.GetRecord(context.Background(), addr)
	require.NoError(t, err)
	election, err := models.ElectionRecordFromBytes(record.Data)
	require.NoError(t, err)
	require.Equal(t, int64(4), election.NumberOfVotes)
}

type failingSubmitter struct{}

func (failingSubmitter) Submit(context.Context, *models.Transaction) (*client.SubmitResult, error) {
	return nil, errors.New("connection refused")
}

func TestSimulateStopsOnTransportError(t *testing.T) {
	builder, _, _ := newElection(t)

	ballots, err := voters.BallotsFromJSON([]byte(ballotsJSON))
	require.NoError(t, err)

	summary, err := voters.Simulate(context.Background(), builder, failingSubmitter{}, "mayor-2024", ballots, 2, logger.Discard())
	require.EqualError(t, err, "connection refused")
	require.Zero(t, summary.Cast)
}
