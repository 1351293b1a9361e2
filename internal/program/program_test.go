package program_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nivschuman/ChainDemocracy/internal/address"
	"github.com/nivschuman/ChainDemocracy/internal/executor"
	"github.com/nivschuman/ChainDemocracy/internal/instruction"
	"github.com/nivschuman/ChainDemocracy/internal/models"
	"github.com/nivschuman/ChainDemocracy/internal/program"
)

var (
	electionStart = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	electionEnd   = time.Date(2024, 5, 2, 20, 0, 0, 0, time.UTC)
)

type harness struct {
	t         *testing.T
	store     *executor.MemoryStore
	executor  *executor.Executor
	programId address.Address
	payer     address.Address
}

func newHarness(t *testing.T, options ...program.Option) *harness {
	programId := address.FromPublicKey([]byte("chain-democracy"))
	store := executor.NewMemoryStore()

	return &harness{
		t:         t,
		store:     store,
		executor:  executor.New(store, programId, program.New(options...)),
		programId: programId,
		payer:     address.FromPublicKey([]byte("payer")),
	}
}

func (h *harness) invokeRaw(signer address.Address, payer address.Address, data []byte, accounts ...address.Address) error {
	metas := []models.AccountMeta{{Address: payer, IsWritable: true}}
	for _, account := range accounts {
		metas = append(metas, models.AccountMeta{Address: account, IsWritable: true})
	}

	if err := h.executor.Invoke(context.Background(), signer, metas, data); err != nil {
		return err
	}
	_, err := h.executor.Commit(context.Background())
	require.NoError(h.t, err)
	return nil
}

func (h *harness) invokeAs(payer address.Address, ix instruction.Instruction, accounts ...address.Address) error {
	return h.invokeRaw(payer, payer, instruction.Pack(ix), accounts...)
}

func (h *harness) invoke(ix instruction.Instruction, accounts ...address.Address) error {
	return h.invokeAs(h.payer, ix, accounts...)
}

func (h *harness) electionAddress(name string) address.Address {
	addr, err := program.ElectionAddress(h.programId, name)
	require.NoError(h.t, err)
	return addr
}

func (h *harness) listAddress(name string) address.Address {
	addr, err := program.CandidateListAddress(h.programId, name)
	require.NoError(h.t, err)
	return addr
}

func (h *harness) resultAddress(name string) address.Address {
	addr, err := program.ResultAddress(h.programId, name)
	require.NoError(h.t, err)
	return addr
}

func (h *harness) candidateAddress(creator address.Address, election, firstName, lastName string) address.Address {
	addr, err := program.CandidateAddress(h.programId, creator, election, firstName, lastName)
	require.NoError(h.t, err)
	return addr
}

func (h *harness) voterAddress(election, cardNumber string) address.Address {
	addr, err := program.VoterAddress(h.programId, election, cardNumber)
	require.NoError(h.t, err)
	return addr
}

func (h *harness) createElection(name string) error {
	return h.invoke(
		&instruction.AddElectionAccount{Name: name, StartDate: electionStart, EndDate: electionEnd},
		h.electionAddress(name), h.listAddress(name), h.resultAddress(name),
	)
}

func (h *harness) addCandidate(election, firstName, lastName string) error {
	return h.invoke(
		&instruction.AddCandidate{FirstName: firstName, LastName: lastName, ElectionName: election, Seed: program.CandidateListSeed},
		h.candidateAddress(h.payer, election, firstName, lastName), h.listAddress(election), h.electionAddress(election),
	)
}

func (h *harness) vote(election, cardNumber, firstName, lastName string) error {
	return h.invoke(
		&instruction.AddVote{
			CardNumber:         cardNumber,
			CandidateFirstName: firstName,
			CandidateLastName:  lastName,
			ElectionName:       election,
			Seed:               program.CandidateListSeed,
		},
		h.voterAddress(election, cardNumber), h.listAddress(election), h.electionAddress(election),
	)
}

func (h *harness) count(election string) error {
	return h.invoke(
		&instruction.CountingVotes{ElectionName: election},
		h.electionAddress(election), h.listAddress(election), h.resultAddress(election),
	)
}

func (h *harness) record(addr address.Address) *models.Record {
	record, err := h.store.GetRecord(context.Background(), addr)
	require.NoError(h.t, err)
	return record
}

func (h *harness) election(name string) *models.ElectionRecord {
	record := h.record(h.electionAddress(name))
	require.NotNil(h.t, record)
	election, err := models.ElectionRecordFromBytes(record.Data)
	require.NoError(h.t, err)
	return election
}

func (h *harness) candidateList(name string) *models.CandidateListRecord {
	record := h.record(h.listAddress(name))
	require.NotNil(h.t, record)
	candidateList, err := models.CandidateListRecordFromBytes(record.Data)
	require.NoError(h.t, err)
	return candidateList
}

func (h *harness) result(name string) *models.ResultRecord {
	record := h.record(h.resultAddress(name))
	require.NotNil(h.t, record)
	result, err := models.ResultRecordFromBytes(record.Data)
	require.NoError(h.t, err)
	return result
}
