package instruction

import (
	"time"

	"github.com/nivschuman/ChainDemocracy/internal/codec"
	"github.com/nivschuman/ChainDemocracy/internal/ledger"
	"github.com/nivschuman/ChainDemocracy/internal/models"
)

// Unpack decodes data into one of the known instructions. Unknown tags fail
// with UnknownVariant, payload problems with MalformedInstruction.
func Unpack(data []byte) (Instruction, error) {
	if len(data) == 0 {
		return nil, ledger.NewError(ledger.MalformedInstruction, "empty instruction buffer")
	}

	tag := Tag(data[0])
	decoder := codec.NewDecoder(data[1:])

	var (
		instruction Instruction
		err         error
	)

	switch tag {
	case TagAddElectionAccount:
		instruction, err = unpackAddElectionAccount(decoder)
	case TagAddCandidateListAccount:
		instruction, err = unpackAddCandidateListAccount(decoder)
	case TagAddCandidate:
		instruction, err = unpackAddCandidate(decoder)
	case TagAddVote:
		instruction, err = unpackAddVote(decoder)
	case TagCountingVotes:
		instruction, err = unpackCountingVotes(decoder)
	default:
		return nil, ledger.NewError(ledger.UnknownVariant, "instruction tag 0x%02x", data[0])
	}

	if err != nil {
		return nil, ledger.WrapError(ledger.MalformedInstruction, err, "%s payload", tag)
	}
	if decoder.Remaining() != 0 {
		return nil, ledger.NewError(ledger.MalformedInstruction, "%s payload has %d trailing bytes", tag, decoder.Remaining())
	}

	return instruction, nil
}

func readStrings(decoder *codec.Decoder, targets ...*string) error {
	for _, target := range targets {
		value, err := decoder.ReadString()
		if err != nil {
			return err
		}
		*target = value
	}
	return nil
}

func readDate(decoder *codec.Decoder) (time.Time, error) {
	raw, err := decoder.ReadString()
	if err != nil {
		return time.Time{}, err
	}
	return models.ParseInputDate(raw)
}

func unpackAddElectionAccount(decoder *codec.Decoder) (*AddElectionAccount, error) {
	instruction := &AddElectionAccount{}

	var err error
	if instruction.Name, err = decoder.ReadString(); err != nil {
		return nil, err
	}
	if instruction.StartDate, err = readDate(decoder); err != nil {
		return nil, err
	}
	if instruction.EndDate, err = readDate(decoder); err != nil {
		return nil, err
	}

	return instruction, nil
}

func unpackAddCandidateListAccount(decoder *codec.Decoder) (*AddCandidateListAccount, error) {
	instruction := &AddCandidateListAccount{}
	if err := readStrings(decoder, &instruction.ElectionName); err != nil {
		return nil, err
	}
	return instruction, nil
}

func unpackAddCandidate(decoder *codec.Decoder) (*AddCandidate, error) {
	instruction := &AddCandidate{}
	err := readStrings(decoder,
		&instruction.FirstName,
		&instruction.LastName,
		&instruction.ElectionName,
		&instruction.Seed,
	)
	if err != nil {
		return nil, err
	}
	return instruction, nil
}

func unpackAddVote(decoder *codec.Decoder) (*AddVote, error) {
	instruction := &AddVote{}
	err := readStrings(decoder,
		&instruction.CardNumber,
		&instruction.CandidateFirstName,
		&instruction.CandidateLastName,
		&instruction.ElectionName,
		&instruction.Seed,
	)
	if err != nil {
		return nil, err
	}
	return instruction, nil
}

func unpackCountingVotes(decoder *codec.Decoder) (*CountingVotes, error) {
	instruction := &CountingVotes{}
	if err := readStrings(decoder, &instruction.ElectionName); err != nil {
		return nil, err
	}
	return instruction, nil
}
