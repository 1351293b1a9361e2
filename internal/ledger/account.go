// Package ledger holds the contract between the election program and the
// runtime hosting it: record handles, allocation and ownership queries.
package ledger

import (
	"time"

	"github.com/nivschuman/ChainDemocracy/internal/address"
)

// AccountInfo is a handle to one record supplied with an instruction. Data is
// shared with the runtime, programs mutate it in place.
type AccountInfo struct {
	Key        address.Address
	Owner      address.Address
	Data       []byte
	IsSigner   bool
	IsWritable bool
}

func (account *AccountInfo) IsEmpty() bool {
	return len(account.Data) == 0 && account.Owner.IsZero()
}

type Runtime interface {
	// CreateAccount allocates size zeroed bytes at target, owned by owner and
	// paid for by payer. It fails with AccountAlreadyInitialized when target is
	// already in use.
	CreateAccount(payer *AccountInfo, target *AccountInfo, size int, owner address.Address) error
	OwnerOf(addr address.Address) (address.Address, bool)
	Now() time.Time
}

type Program interface {
	Process(runtime Runtime, programId address.Address, accounts []*AccountInfo, data []byte) error
}

type AccountIter struct {
	accounts []*AccountInfo
	next     int
}

func NewAccountIter(accounts []*AccountInfo) *AccountIter {
	return &AccountIter{accounts: accounts}
}

// Next returns the next supplied account; role names it in the error.
func (iter *AccountIter) Next(role string) (*AccountInfo, error) {
	if iter.next >= len(iter.accounts) {
		return nil, NewError(MissingRecordArgument, "expected %s account at position %d", role, iter.next)
	}
	account := iter.accounts[iter.next]
	iter.next++
	return account, nil
}
