package executor

import (
	"bytes"
	"context"
	"time"

	"github.com/nivschuman/ChainDemocracy/internal/address"
	"github.com/nivschuman/ChainDemocracy/internal/ledger"
	"github.com/nivschuman/ChainDemocracy/internal/models"
	"github.com/nivschuman/ChainDemocracy/internal/structures"
)

// call is the runtime handed to the program for one instruction.
type call struct {
	ctx       context.Context
	executor  *Executor
	view      *Overlay
	handles   map[address.Address]*ledger.AccountInfo
	order     []address.Address
	originals map[address.Address]*models.Record
	created   *structures.BytesSet
	err       error
}

var _ ledger.Runtime = (*call)(nil)

func newCall(ctx context.Context, executor *Executor, view *Overlay) *call {
	return &call{
		ctx:       ctx,
		executor:  executor,
		view:      view,
		handles:   make(map[address.Address]*ledger.AccountInfo),
		originals: make(map[address.Address]*models.Record),
		created:   structures.NewBytesSet(),
	}
}

// load builds one handle per distinct address. Repeated addresses share the
// handle and are writable if any occurrence is.
func (c *call) load(payer address.Address, metas []models.AccountMeta) ([]*ledger.AccountInfo, error) {
	accounts := make([]*ledger.AccountInfo, 0, len(metas))

	for _, meta := range metas {
		if handle, exists := c.handles[meta.Address]; exists {
			handle.IsWritable = handle.IsWritable || meta.IsWritable
			accounts = append(accounts, handle)
			continue
		}

		record, err := c.view.lookup(c.ctx, meta.Address)
		if err != nil {
			return nil, err
		}

		handle := &ledger.AccountInfo{
			Key:        meta.Address,
			IsSigner:   meta.Address == payer,
			IsWritable: meta.IsWritable,
		}
		if record != nil {
			handle.Owner = record.Owner
			handle.Data = bytes.Clone(record.Data)
		}

		c.handles[meta.Address] = handle
		c.originals[meta.Address] = record
		c.order = append(c.order, meta.Address)
		accounts = append(accounts, handle)
	}

	return accounts, nil
}

func (c *call) CreateAccount(payer *ledger.AccountInfo, target *ledger.AccountInfo, size int, owner address.Address) error {
	if !payer.IsSigner {
		return ledger.NewError(ledger.MissingSignature, "payer %s did not sign", payer.Key.Short())
	}
	if c.handles[target.Key] != target {
		return ledger.NewError(ledger.MissingRecordArgument, "record %s was not supplied", target.Key.Short())
	}
	if !target.IsWritable {
		return ledger.NewError(ledger.ReadOnlyRecord, "record %s was supplied read only", target.Key.Short())
	}
	if !target.IsEmpty() {
		return ledger.NewError(ledger.AccountAlreadyInitialized, "record %s already exists", target.Key.Short())
	}
	if size <= 0 || size > MaxRecordSize {
		return ledger.NewError(ledger.AllocationFailure, "cannot allocate %d bytes for %s", size, target.Key.Short())
	}
	if owner != c.executor.programId {
		return ledger.NewError(ledger.UnauthorizedOwner, "cannot assign %s to program %s", target.Key.Short(), owner.Short())
	}

	target.Data = make([]byte, size)
	target.Owner = owner
	c.created.Add(target.Key.Bytes())
	return nil
}

func (c *call) OwnerOf(addr address.Address) (address.Address, bool) {
	if handle, exists := c.handles[addr]; exists {
		return handle.Owner, !handle.IsEmpty()
	}

	record, err := c.view.lookup(c.ctx, addr)
	if err != nil {
		if c.err == nil {
			c.err = err
		}
		return address.Zero, false
	}
	if record == nil {
		return address.Zero, false
	}
	return record.Owner, true
}

func (c *call) Now() time.Time {
	return c.executor.blockTime
}

// collect checks every changed handle against the rules of the runtime and
// stages it in the call's view.
func (c *call) collect() error {
	for _, key := range c.order {
		handle := c.handles[key]
		original := c.originals[key]

		if original == nil && handle.IsEmpty() {
			continue
		}
		if original != nil && original.Owner == handle.Owner && bytes.Equal(original.Data, handle.Data) {
			continue
		}

		if !handle.IsWritable {
			return ledger.NewError(ledger.ReadOnlyRecord, "record %s changed but was supplied read only", key.Short())
		}

		if !c.created.Contains(key.Bytes()) {
			if original == nil || original.Owner != c.executor.programId || handle.Owner != original.Owner {
				return ledger.NewError(ledger.UnauthorizedOwner, "record %s is not owned by program %s", key.Short(), c.executor.programId.Short())
			}
			if len(handle.Data) != len(original.Data) {
				return ledger.NewError(ledger.AllocationFailure, "record %s changed size from %d to %d", key.Short(), len(original.Data), len(handle.Data))
			}
		}

		c.view.put(&models.Record{
			Address: key,
			Owner:   handle.Owner,
			Data:    bytes.Clone(handle.Data),
		})
	}
	return nil
}
