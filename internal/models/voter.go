package models

import (
	"github.com/nivschuman/ChainDemocracy/internal/address"
	"github.com/nivschuman/ChainDemocracy/internal/codec"
)

// VoterRecord proves that a card number has voted in one election. Its
// existence is the double vote guard, so it carries no initialized flag.
type VoterRecord struct {
	CardNumber string
	VotedFor   address.Address
}

func VoterRecordSize(cardNumber string) int {
	return 4 + len(cardNumber) + address.Size
}

func (voter *VoterRecord) AsBytes() []byte {
	encoder := codec.NewEncoder()

	encoder.WriteString(voter.CardNumber)
	encoder.WriteFixed(voter.VotedFor.Bytes())

	return encoder.Bytes()
}

func VoterRecordFromBytes(b []byte) (*VoterRecord, error) {
	decoder := codec.NewDecoder(b)
	voter := &VoterRecord{}

	var err error
	if voter.CardNumber, err = decoder.ReadString(); err != nil {
		return nil, err
	}

	votedFor, err := decoder.ReadFixed(address.Size)
	if err != nil {
		return nil, err
	}
	voter.VotedFor, _ = address.FromBytes(votedFor)

	return voter, nil
}
