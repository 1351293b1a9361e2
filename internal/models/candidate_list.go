package models

import (
	"fmt"
	"slices"
	"strings"

	"github.com/nivschuman/ChainDemocracy/internal/address"
	"github.com/nivschuman/ChainDemocracy/internal/codec"
)

const CandidateListRecordSize = 10000

type CandidateListRecord struct {
	IsInitialized bool
	Candidates    map[string]address.Address //full name -> candidate record address
}

// FullName is the registry key of a candidate: the non empty name parts
// joined by a single space.
func FullName(firstName, lastName string) string {
	parts := make([]string, 0, 2)
	for _, part := range []string{firstName, lastName} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, " ")
}

func (candidateList *CandidateListRecord) AsBytes() []byte {
	encoder := codec.NewEncoder()

	encoder.WriteBool(candidateList.IsInitialized)

	names := candidateList.SortedNames()
	encoder.WriteU32(uint32(len(names)))
	for _, name := range names {
		candidate := candidateList.Candidates[name]
		encoder.WriteString(name)
		encoder.WriteFixed(candidate.Bytes())
	}

	return encoder.Bytes()
}

func CandidateListRecordFromBytes(b []byte) (*CandidateListRecord, error) {
	decoder := codec.NewDecoder(b)
	candidateList := &CandidateListRecord{}

	var err error
	if candidateList.IsInitialized, err = decoder.ReadBool(); err != nil {
		return nil, err
	}

	count, err := decoder.ReadCount(4 + address.Size)
	if err != nil {
		return nil, err
	}

	candidateList.Candidates = make(map[string]address.Address, count)
	for range count {
		name, err := decoder.ReadString()
		if err != nil {
			return nil, err
		}
		key, err := decoder.ReadFixed(address.Size)
		if err != nil {
			return nil, err
		}

		if _, exists := candidateList.Candidates[name]; exists {
			return nil, fmt.Errorf("%w: duplicate candidate name %q", codec.ErrDecode, name)
		}
		candidateList.Candidates[name], _ = address.FromBytes(key)
	}

	return candidateList, nil
}

func (candidateList *CandidateListRecord) SortedNames() []string {
	names := make([]string, 0, len(candidateList.Candidates))
	for name := range candidateList.Candidates {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
