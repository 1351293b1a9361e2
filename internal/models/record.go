package models

import (
	"bytes"

	"github.com/nivschuman/ChainDemocracy/internal/address"
	"github.com/nivschuman/ChainDemocracy/internal/crypto/hash"
)

// Record is one persisted chunk of state: raw bytes at an address, owned by
// the program allowed to mutate them.
type Record struct {
	Address address.Address
	Owner   address.Address
	Data    []byte
}

func (record *Record) Clone() *Record {
	return &Record{
		Address: record.Address,
		Owner:   record.Owner,
		Data:    bytes.Clone(record.Data),
	}
}

func (record *Record) Equal(other *Record) bool {
	if record == nil || other == nil {
		return record == other
	}
	return record.Address == other.Address &&
		record.Owner == other.Owner &&
		bytes.Equal(record.Data, other.Data)
}

func (record *Record) GetHash() []byte {
	return hash.HashParts(record.Address.Bytes(), record.Owner.Bytes(), hash.HashBytes(record.Data))
}
