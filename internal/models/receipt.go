package models

import "github.com/nivschuman/ChainDemocracy/internal/address"

// TransactionReceipt is the outcome of one delivered transaction. Code 0 is
// success, any other value is the error kind that rejected it.
type TransactionReceipt struct {
	TransactionId []byte
	Height        int64
	Payer         address.Address
	Instruction   string
	Code          uint32
	Log           string
}
