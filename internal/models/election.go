package models

import (
	"fmt"
	"slices"
	"time"

	"github.com/nivschuman/ChainDemocracy/internal/address"
	"github.com/nivschuman/ChainDemocracy/internal/codec"
)

// ElectionVotesHeadroom is reserved in every election allocation for the
// per candidate vote counters.
const ElectionVotesHeadroom = 10000

type ElectionRecord struct {
	IsInitialized bool
	Name          string
	StartDate     string                    //stored as StoredDateLayout
	EndDate       string                    //stored as StoredDateLayout
	Votes         map[address.Address]int64 //candidate record address -> votes
	NumberOfVotes int64
	IsActive      bool
}

func ElectionRecordSize(name, startDate, endDate string) int {
	return 1 + (4 + len(name)) + (4 + len(startDate)) + (4 + len(endDate)) + 4 + ElectionVotesHeadroom + 8 + 1
}

func (election *ElectionRecord) AsBytes() []byte {
	encoder := codec.NewEncoder()

	encoder.WriteBool(election.IsInitialized)
	encoder.WriteString(election.Name)
	encoder.WriteString(election.StartDate)
	encoder.WriteString(election.EndDate)

	candidates := election.SortedCandidates()
	encoder.WriteU32(uint32(len(candidates)))
	for _, candidate := range candidates {
		encoder.WriteFixed(candidate.Bytes())
		encoder.WriteI64(election.Votes[candidate])
	}

	encoder.WriteI64(election.NumberOfVotes)
	encoder.WriteBool(election.IsActive)

	return encoder.Bytes()
}

func ElectionRecordFromBytes(b []byte) (*ElectionRecord, error) {
	decoder := codec.NewDecoder(b)
	election := &ElectionRecord{}

	var err error
	if election.IsInitialized, err = decoder.ReadBool(); err != nil {
		return nil, err
	}
	if election.Name, err = decoder.ReadString(); err != nil {
		return nil, err
	}
	if election.StartDate, err = decoder.ReadString(); err != nil {
		return nil, err
	}
	if election.EndDate, err = decoder.ReadString(); err != nil {
		return nil, err
	}

	count, err := decoder.ReadCount(address.Size + 8)
	if err != nil {
		return nil, err
	}

	election.Votes = make(map[address.Address]int64, count)
	for range count {
		key, err := decoder.ReadFixed(address.Size)
		if err != nil {
			return nil, err
		}
		votes, err := decoder.ReadI64()
		if err != nil {
			return nil, err
		}

		candidate, _ := address.FromBytes(key)
		if _, exists := election.Votes[candidate]; exists {
			return nil, fmt.Errorf("%w: duplicate candidate %s in vote map", codec.ErrDecode, candidate.Short())
		}
		election.Votes[candidate] = votes
	}

	if election.NumberOfVotes, err = decoder.ReadI64(); err != nil {
		return nil, err
	}
	if election.IsActive, err = decoder.ReadBool(); err != nil {
		return nil, err
	}

	return election, nil
}

func (election *ElectionRecord) SortedCandidates() []address.Address {
	candidates := make([]address.Address, 0, len(election.Votes))
	for candidate := range election.Votes {
		candidates = append(candidates, candidate)
	}
	slices.SortFunc(candidates, address.Address.Compare)
	return candidates
}

func (election *ElectionRecord) VotesFor(candidate address.Address) int64 {
	return election.Votes[candidate]
}

func (election *ElectionRecord) StartTime() (time.Time, error) {
	return ParseStoredDate(election.StartDate)
}

func (election *ElectionRecord) EndTime() (time.Time, error) {
	return ParseStoredDate(election.EndDate)
}
