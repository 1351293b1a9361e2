package program

import (
	"github.com/nivschuman/ChainDemocracy/internal/address"
	"github.com/nivschuman/ChainDemocracy/internal/codec"
	"github.com/nivschuman/ChainDemocracy/internal/ledger"
	"github.com/nivschuman/ChainDemocracy/internal/models"
)

func (inv *invocation) validateAddress(account *ledger.AccountInfo, kind string, seeds [][]byte) error {
	if err := address.Validate(inv.programId, account.Key, seeds...); err != nil {
		return ledger.WrapError(ledger.AddressMismatch, err, "%s record", kind)
	}
	return nil
}

// requireOwned fails unless the record exists and belongs to this program.
func (inv *invocation) requireOwned(account *ledger.AccountInfo, kind string) error {
	owner, exists := inv.runtime.OwnerOf(account.Key)
	if !exists {
		return ledger.NewError(ledger.AccountNotInitialized, "%s record %s does not exist", kind, account.Key.Short())
	}
	if owner != inv.programId {
		return ledger.NewError(ledger.UnauthorizedOwner, "%s record %s is owned by %s", kind, account.Key.Short(), owner.Short())
	}
	return nil
}

func (inv *invocation) createRecord(payer *ledger.AccountInfo, target *ledger.AccountInfo, size int, kind string) error {
	if err := inv.runtime.CreateAccount(payer, target, size, inv.programId); err != nil {
		return err
	}
	inv.program.log.Printf("PDA created: %s %s (%d bytes)", kind, target.Key.String(), size)
	return nil
}

func storeRecord(account *ledger.AccountInfo, record models.Byteable, kind string) error {
	if !account.IsWritable {
		return ledger.NewError(ledger.ReadOnlyRecord, "%s record %s was supplied read only", kind, account.Key.Short())
	}
	if err := codec.PutInto(account.Data, record.AsBytes()); err != nil {
		return ledger.WrapError(ledger.RecordOverflow, err, "%s record %s", kind, account.Key.Short())
	}
	return nil
}

func invalidData(err error, kind string, account *ledger.AccountInfo) error {
	return ledger.WrapError(ledger.InvalidRecordData, err, "%s record %s", kind, account.Key.Short())
}

// loadElection reads an election record that must be initialized.
func (inv *invocation) loadElection(account *ledger.AccountInfo) (*models.ElectionRecord, error) {
	if err := inv.requireOwned(account, "election"); err != nil {
		return nil, err
	}

	election, err := models.ElectionRecordFromBytes(account.Data)
	if err != nil {
		return nil, invalidData(err, "election", account)
	}
	if !election.IsInitialized {
		return nil, ledger.NewError(ledger.AccountNotInitialized, "election record %s", account.Key.Short())
	}

	return election, nil
}

func (inv *invocation) loadCandidateList(account *ledger.AccountInfo) (*models.CandidateListRecord, error) {
	if err := inv.requireOwned(account, "candidate list"); err != nil {
		return nil, err
	}

	candidateList, err := models.CandidateListRecordFromBytes(account.Data)
	if err != nil {
		return nil, invalidData(err, "candidate list", account)
	}
	if !candidateList.IsInitialized {
		return nil, ledger.NewError(ledger.AccountNotInitialized, "candidate list record %s", account.Key.Short())
	}

	return candidateList, nil
}
