package program

import (
	"github.com/nivschuman/ChainDemocracy/internal/instruction"
	"github.com/nivschuman/ChainDemocracy/internal/ledger"
	"github.com/nivschuman/ChainDemocracy/internal/models"
)

// AddCandidate creates a candidate record, registers it in the candidate
// list and enrolls it in the election tally.
// Accounts: payer, candidate, candidate list, election.
func (inv *invocation) AddCandidate(ix *instruction.AddCandidate) error {
	accounts, err := inv.nextAccounts("payer", "candidate", "candidate list", "election")
	if err != nil {
		return err
	}
	payer, candidateAccount, listAccount, electionAccount := accounts[0], accounts[1], accounts[2], accounts[3]

	if !payer.IsSigner {
		return ledger.NewError(ledger.MissingSignature, "candidate creator %s", payer.Key.Short())
	}

	seeds := CandidateSeeds(payer.Key, ix.ElectionName, ix.FirstName, ix.LastName)
	if err := inv.validateAddress(candidateAccount, "candidate", seeds); err != nil {
		return err
	}
	if err := inv.validateAddress(electionAccount, "election", ElectionSeeds(ix.ElectionName)); err != nil {
		return err
	}

	election, err := inv.loadElection(electionAccount)
	if err != nil {
		return err
	}
	candidateList, err := inv.openCandidateList(listAccount, ix.ElectionName, ix.Seed)
	if err != nil {
		return err
	}

	if inv.program.enforceRegistrationWindow {
		start, _, err := electionWindow(election, electionAccount)
		if err != nil {
			return err
		}
		if err := CheckTimeRegistration(inv.runtime.Now(), start); err != nil {
			return err
		}
	}

	candidate := &models.CandidateRecord{
		IsInitialized: true,
		FirstName:     ix.FirstName,
		LastName:      ix.LastName,
	}

	size := models.CandidateRecordSize(ix.FirstName, ix.LastName)
	if err := inv.createRecord(payer, candidateAccount, size, "candidate"); err != nil {
		return err
	}
	if err := storeRecord(candidateAccount, candidate, "candidate"); err != nil {
		return err
	}

	if err := register(listAccount, candidateList, candidateAccount.Key, ix.FirstName, ix.LastName); err != nil {
		return err
	}

	if _, enrolled := election.Votes[candidateAccount.Key]; !enrolled {
		election.Votes[candidateAccount.Key] = 0
	}
	if err := storeRecord(electionAccount, election, "election"); err != nil {
		return err
	}

	inv.program.log.Printf("Candidate %q registered in %q", candidate.FullName(), ix.ElectionName)
	return nil
}
