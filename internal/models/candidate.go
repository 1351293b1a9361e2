package models

import (
	"github.com/nivschuman/ChainDemocracy/internal/codec"
)

type CandidateRecord struct {
	IsInitialized bool
	FirstName     string
	LastName      string
}

func CandidateRecordSize(firstName, lastName string) int {
	return 1 + (4 + len(firstName)) + (4 + len(lastName))
}

func (candidate *CandidateRecord) AsBytes() []byte {
	encoder := codec.NewEncoder()

	encoder.WriteBool(candidate.IsInitialized)
	encoder.WriteString(candidate.FirstName)
	encoder.WriteString(candidate.LastName)

	return encoder.Bytes()
}

func CandidateRecordFromBytes(b []byte) (*CandidateRecord, error) {
	decoder := codec.NewDecoder(b)
	candidate := &CandidateRecord{}

	var err error
	if candidate.IsInitialized, err = decoder.ReadBool(); err != nil {
		return nil, err
	}
	if candidate.FirstName, err = decoder.ReadString(); err != nil {
		return nil, err
	}
	if candidate.LastName, err = decoder.ReadString(); err != nil {
		return nil, err
	}

	return candidate, nil
}

func (candidate *CandidateRecord) FullName() string {
	return FullName(candidate.FirstName, candidate.LastName)
}
