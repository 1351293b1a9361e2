// Package instruction decodes the one byte tagged command buffers accepted by
// the election program.
package instruction

import (
	"time"

	"github.com/nivschuman/ChainDemocracy/internal/codec"
	"github.com/nivschuman/ChainDemocracy/internal/models"
)

type Tag uint8

const (
	TagAddElectionAccount      Tag = 0
	TagAddCandidate            Tag = 1
	TagAddVote                 Tag = 2
	TagCountingVotes           Tag = 3
	TagAddCandidateListAccount Tag = 4
)

func (tag Tag) String() string {
	switch tag {
	case TagAddElectionAccount:
		return "AddElectionAccount"
	case TagAddCandidate:
		return "AddCandidate"
	case TagAddVote:
		return "AddVote"
	case TagCountingVotes:
		return "CountingVotes"
	case TagAddCandidateListAccount:
		return "AddCandidateListAccount"
	}
	return "Unknown"
}

// Handler has one method per instruction, so adding an instruction breaks
// every handler until it is taught the new variant.
type Handler interface {
	AddElectionAccount(instruction *AddElectionAccount) error
	AddCandidateListAccount(instruction *AddCandidateListAccount) error
	AddCandidate(instruction *AddCandidate) error
	AddVote(instruction *AddVote) error
	CountingVotes(instruction *CountingVotes) error
}

type Instruction interface {
	Tag() Tag
	Accept(handler Handler) error
	writePayload(encoder *codec.Encoder)
}

type AddElectionAccount struct {
	Name      string
	StartDate time.Time
	EndDate   time.Time
}

type AddCandidateListAccount struct {
	ElectionName string
}

type AddCandidate struct {
	FirstName    string
	LastName     string
	ElectionName string
	Seed         string
}

type AddVote struct {
	CardNumber         string
	CandidateFirstName string
	CandidateLastName  string
	ElectionName       string
	Seed               string
}

type CountingVotes struct {
	ElectionName string
}

func (*AddElectionAccount) Tag() Tag      { return TagAddElectionAccount }
func (*AddCandidateListAccount) Tag() Tag { return TagAddCandidateListAccount }
func (*AddCandidate) Tag() Tag            { return TagAddCandidate }
func (*AddVote) Tag() Tag                 { return TagAddVote }
func (*CountingVotes) Tag() Tag           { return TagCountingVotes }

func (instruction *AddElectionAccount) Accept(handler Handler) error {
	return handler.AddElectionAccount(instruction)
}

func (instruction *AddCandidateListAccount) Accept(handler Handler) error {
	return handler.AddCandidateListAccount(instruction)
}

func (instruction *AddCandidate) Accept(handler Handler) error {
	return handler.AddCandidate(instruction)
}

func (instruction *AddVote) Accept(handler Handler) error {
	return handler.AddVote(instruction)
}

func (instruction *CountingVotes) Accept(handler Handler) error {
	return handler.CountingVotes(instruction)
}

func (instruction *AddElectionAccount) writePayload(encoder *codec.Encoder) {
	encoder.WriteString(instruction.Name)
	encoder.WriteString(instruction.StartDate.UTC().Format(models.InputDateLayout))
	encoder.WriteString(instruction.EndDate.UTC().Format(models.InputDateLayout))
}

func (instruction *AddCandidateListAccount) writePayload(encoder *codec.Encoder) {
	encoder.WriteString(instruction.ElectionName)
}

func (instruction *AddCandidate) writePayload(encoder *codec.Encoder) {
	encoder.WriteString(instruction.FirstName)
	encoder.WriteString(instruction.LastName)
	encoder.WriteString(instruction.ElectionName)
	encoder.WriteString(instruction.Seed)
}

func (instruction *AddVote) writePayload(encoder *codec.Encoder) {
	encoder.WriteString(instruction.CardNumber)
	encoder.WriteString(instruction.CandidateFirstName)
	encoder.WriteString(instruction.CandidateLastName)
	encoder.WriteString(instruction.ElectionName)
	encoder.WriteString(instruction.Seed)
}

func (instruction *CountingVotes) writePayload(encoder *codec.Encoder) {
	encoder.WriteString(instruction.ElectionName)
}

// Pack encodes an instruction as its tag followed by its payload.
func Pack(instruction Instruction) []byte {
	encoder := codec.NewEncoder()
	encoder.WriteU8(uint8(instruction.Tag()))
	instruction.writePayload(encoder)
	return encoder.Bytes()
}
