package models

import (
	"github.com/nivschuman/ChainDemocracy/internal/codec"
)

const ResultRecordSize = 10000

type ResultEntry struct {
	Name       string
	Percentage float64
}

// ResultRecord keeps the tally sorted by percentage, highest first.
type ResultRecord struct {
	Results       []ResultEntry
	NumberOfVotes int64
}

func (result *ResultRecord) AsBytes() []byte {
	encoder := codec.NewEncoder()

	encoder.WriteU32(uint32(len(result.Results)))
	for _, entry := range result.Results {
		encoder.WriteString(entry.Name)
		encoder.WriteF64(entry.Percentage)
	}
	encoder.WriteI64(result.NumberOfVotes)

	return encoder.Bytes()
}

func ResultRecordFromBytes(b []byte) (*ResultRecord, error) {
	decoder := codec.NewDecoder(b)
	result := &ResultRecord{}

	count, err := decoder.ReadCount(4 + 8)
	if err != nil {
		return nil, err
	}

	result.Results = make([]ResultEntry, 0, count)
	for range count {
		name, err := decoder.ReadString()
		if err != nil {
			return nil, err
		}
		percentage, err := decoder.ReadF64()
		if err != nil {
			return nil, err
		}
		result.Results = append(result.Results, ResultEntry{Name: name, Percentage: percentage})
	}

	if result.NumberOfVotes, err = decoder.ReadI64(); err != nil {
		return nil, err
	}

	return result, nil
}

func (result *ResultRecord) Percentage(name string) (float64, bool) {
	for _, entry := range result.Results {
		if entry.Name == name {
			return entry.Percentage, true
		}
	}
	return 0, false
}
