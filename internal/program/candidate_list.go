package program

import (
	"github.com/nivschuman/ChainDemocracy/internal/address"
	"github.com/nivschuman/ChainDemocracy/internal/ledger"
	"github.com/nivschuman/ChainDemocracy/internal/models"
)

// openCandidateList checks that the supplied list is the one derived from
// (electionName, "candidate-list"), owned by this program and initialized.
// The instruction seed must name the candidate list.
func (inv *invocation) openCandidateList(listAccount *ledger.AccountInfo, electionName, seed string) (*models.CandidateListRecord, error) {
	if seed != CandidateListSeed {
		return nil, ledger.NewError(ledger.AddressMismatch, "candidate list seed %q", seed)
	}
	if err := inv.validateAddress(listAccount, "candidate list", CandidateListSeeds(electionName)); err != nil {
		return nil, err
	}
	return inv.loadCandidateList(listAccount)
}

// register inserts the candidate under its full name and persists the list.
// Full names are unique within a list.
func register(listAccount *ledger.AccountInfo, candidateList *models.CandidateListRecord, candidate address.Address, firstName, lastName string) error {
	name := models.FullName(firstName, lastName)
	if existing, exists := candidateList.Candidates[name]; exists {
		return ledger.NewError(ledger.CandidateAlreadyRegistered, "%q is already registered as %s", name, existing.Short())
	}

	candidateList.Candidates[name] = candidate
	return storeRecord(listAccount, candidateList, "candidate list")
}

func lookup(candidateList *models.CandidateListRecord, firstName, lastName string) (address.Address, error) {
	name := models.FullName(firstName, lastName)
	candidate, exists := candidateList.Candidates[name]
	if !exists {
		return address.Zero, ledger.NewError(ledger.CandidateNotFound, "%q", name)
	}
	return candidate, nil
}
