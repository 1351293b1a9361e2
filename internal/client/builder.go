package client

import (
	"fmt"
	"time"

	"github.com/nivschuman/ChainDemocracy/internal/address"
	"github.com/nivschuman/ChainDemocracy/internal/crypto/ppk"
	"github.com/nivschuman/ChainDemocracy/internal/instruction"
	"github.com/nivschuman/ChainDemocracy/internal/models"
	"github.com/nivschuman/ChainDemocracy/internal/program"
)

// Builder derives every record address locally and signs transactions with
// the payer key.
type Builder struct {
	programId address.Address
	keyPair   *ppk.KeyPair
}

func NewBuilder(programId address.Address, keyPair *ppk.KeyPair) *Builder {
	return &Builder{programId: programId, keyPair: keyPair}
}

func (builder *Builder) ProgramId() address.Address {
	return builder.programId
}

func (builder *Builder) Payer() address.Address {
	return address.FromPublicKey(builder.keyPair.PublicKey.AsBytes())
}

func (builder *Builder) AddElectionAccount(name string, startDate, endDate time.Time) (*models.Transaction, error) {
	election, err := program.ElectionAddress(builder.programId, name)
	if err != nil {
		return nil, err
	}
	candidateList, err := program.CandidateListAddress(builder.programId, name)
	if err != nil {
		return nil, err
	}
	result, err := program.ResultAddress(builder.programId, name)
	if err != nil {
		return nil, err
	}

	return builder.build(
		&instruction.AddElectionAccount{Name: name, StartDate: startDate, EndDate: endDate},
		writable(election), writable(candidateList), writable(result),
	)
}

func (builder *Builder) AddCandidateListAccount(electionName string) (*models.Transaction, error) {
	election, err := program.ElectionAddress(builder.programId, electionName)
	if err != nil {
		return nil, err
	}
	candidateList, err := program.CandidateListAddress(builder.programId, electionName)
	if err != nil {
		return nil, err
	}

	return builder.build(
		&instruction.AddCandidateListAccount{ElectionName: electionName},
		readOnly(election), writable(candidateList),
	)
}

func (builder *Builder) AddCandidate(electionName, firstName, lastName string) (*models.Transaction, error) {
	candidate, err := program.CandidateAddress(builder.programId, builder.Payer(), electionName, firstName, lastName)
	if err != nil {
		return nil, err
	}
	candidateList, err := program.CandidateListAddress(builder.programId, electionName)
	if err != nil {
		return nil, err
	}
	election, err := program.ElectionAddress(builder.programId, electionName)
	if err != nil {
		return nil, err
	}

	return builder.build(
		&instruction.AddCandidate{
			FirstName:    firstName,
			LastName:     lastName,
			ElectionName: electionName,
			Seed:         program.CandidateListSeed,
		},
		writable(candidate), writable(candidateList), writable(election),
	)
}

func (builder *Builder) AddVote(electionName, cardNumber, firstName, lastName string) (*models.Transaction, error) {
	voter, err := program.VoterAddress(builder.programId, electionName, cardNumber)
	if err != nil {
		return nil, err
	}
	candidateList, err := program.CandidateListAddress(builder.programId, electionName)
	if err != nil {
		return nil, err
	}
	election, err := program.ElectionAddress(builder.programId, electionName)
	if err != nil {
		return nil, err
	}

	return builder.build(
		&instruction.AddVote{
			CardNumber:         cardNumber,
			CandidateFirstName: firstName,
			CandidateLastName:  lastName,
			ElectionName:       electionName,
			Seed:               program.CandidateListSeed,
		},
		writable(voter), readOnly(candidateList), writable(election),
	)
}

func (builder *Builder) CountingVotes(electionName string) (*models.Transaction, error) {
	election, err := program.ElectionAddress(builder.programId, electionName)
	if err != nil {
		return nil, err
	}
	candidateList, err := program.CandidateListAddress(builder.programId, electionName)
	if err != nil {
		return nil, err
	}
	result, err := program.ResultAddress(builder.programId, electionName)
	if err != nil {
		return nil, err
	}

	return builder.build(
		&instruction.CountingVotes{ElectionName: electionName},
		readOnly(election), readOnly(candidateList), writable(result),
	)
}

func (builder *Builder) build(ix instruction.Instruction, accounts ...models.AccountMeta) (*models.Transaction, error) {
	metas := make([]models.AccountMeta, 0, len(accounts)+1)
	metas = append(metas, writable(builder.Payer()))
	metas = append(metas, accounts...)

	transaction := models.NewTransaction(builder.keyPair.PublicKey.AsBytes(), builder.programId, metas, instruction.Pack(ix))
	if err := transaction.Sign(builder.keyPair.PrivateKey); err != nil {
		return nil, fmt.Errorf("failed to sign %s: %w", ix.Tag(), err)
	}
	return transaction, nil
}

func writable(addr address.Address) models.AccountMeta {
	return models.AccountMeta{Address: addr, IsWritable: true}
}

func readOnly(addr address.Address) models.AccountMeta {
	return models.AccountMeta{Address: addr}
}
