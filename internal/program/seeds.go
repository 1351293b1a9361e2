package program

import (
	"github.com/nivschuman/ChainDemocracy/internal/address"
)

const (
	CandidateListSeed = "candidate-list"
	ResultSeed        = "result"
)

func ElectionSeeds(electionName string) [][]byte {
	return [][]byte{[]byte(electionName)}
}

func CandidateListSeeds(electionName string) [][]byte {
	return [][]byte{[]byte(electionName), []byte(CandidateListSeed)}
}

func ResultSeeds(electionName string) [][]byte {
	return [][]byte{[]byte(electionName), []byte(ResultSeed)}
}

func CandidateSeeds(creator address.Address, electionName, firstName, lastName string) [][]byte {
	return [][]byte{creator.Bytes(), []byte(electionName), []byte(firstName), []byte(lastName)}
}

func VoterSeeds(electionName, cardNumber string) [][]byte {
	return [][]byte{[]byte(electionName), []byte(cardNumber)}
}

func derive(programId address.Address, seeds [][]byte) (address.Address, error) {
	addr, _, err := address.FindProgramAddress(programId, seeds...)
	return addr, err
}

func ElectionAddress(programId address.Address, electionName string) (address.Address, error) {
	return derive(programId, ElectionSeeds(electionName))
}

func CandidateListAddress(programId address.Address, electionName string) (address.Address, error) {
	return derive(programId, CandidateListSeeds(electionName))
}

func ResultAddress(programId address.Address, electionName string) (address.Address, error) {
	return derive(programId, ResultSeeds(electionName))
}

func CandidateAddress(programId address.Address, creator address.Address, electionName, firstName, lastName string) (address.Address, error) {
	return derive(programId, CandidateSeeds(creator, electionName, firstName, lastName))
}

func VoterAddress(programId address.Address, electionName, cardNumber string) (address.Address, error) {
	return derive(programId, VoterSeeds(electionName, cardNumber))
}
