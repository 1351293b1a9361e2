package program

import (
	"time"

	"github.com/nivschuman/ChainDemocracy/internal/address"
	"github.com/nivschuman/ChainDemocracy/internal/instruction"
	"github.com/nivschuman/ChainDemocracy/internal/ledger"
	"github.com/nivschuman/ChainDemocracy/internal/models"
)

// AddElectionAccount creates the election record followed by its candidate
// list and result records. Accounts: payer, election, candidate list, result.
func (inv *invocation) AddElectionAccount(ix *instruction.AddElectionAccount) error {
	accounts, err := inv.nextAccounts("payer", "election", "candidate list", "result")
	if err != nil {
		return err
	}
	payer, electionAccount, listAccount, resultAccount := accounts[0], accounts[1], accounts[2], accounts[3]

	if err := inv.validateAddress(electionAccount, "election", ElectionSeeds(ix.Name)); err != nil {
		return err
	}
	if err := CheckDates(ix.StartDate, ix.EndDate); err != nil {
		return err
	}

	election := &models.ElectionRecord{
		IsInitialized: true,
		Name:          ix.Name,
		StartDate:     models.FormatStoredDate(ix.StartDate),
		EndDate:       models.FormatStoredDate(ix.EndDate),
		Votes:         make(map[address.Address]int64),
		NumberOfVotes: 0,
		IsActive:      false,
	}

	size := models.ElectionRecordSize(election.Name, election.StartDate, election.EndDate)
	if err := inv.createRecord(payer, electionAccount, size, "election"); err != nil {
		return err
	}
	if err := storeRecord(electionAccount, election, "election"); err != nil {
		return err
	}

	if err := inv.createCandidateList(payer, ix.Name, listAccount); err != nil {
		return err
	}
	if err := inv.createResult(payer, ix.Name, resultAccount); err != nil {
		return err
	}

	inv.program.log.Printf("Election %q created, runs from %s to %s", election.Name, election.StartDate, election.EndDate)
	return nil
}

// AddCandidateListAccount creates the candidate list of an existing election.
// Accounts: payer, election, candidate list.
func (inv *invocation) AddCandidateListAccount(ix *instruction.AddCandidateListAccount) error {
	accounts, err := inv.nextAccounts("payer", "election", "candidate list")
	if err != nil {
		return err
	}
	payer, electionAccount, listAccount := accounts[0], accounts[1], accounts[2]

	if err := inv.validateAddress(electionAccount, "election", ElectionSeeds(ix.ElectionName)); err != nil {
		return err
	}
	if _, err := inv.loadElection(electionAccount); err != nil {
		return err
	}

	return inv.createCandidateList(payer, ix.ElectionName, listAccount)
}

func (inv *invocation) createCandidateList(payer *ledger.AccountInfo, electionName string, listAccount *ledger.AccountInfo) error {
	if err := inv.validateAddress(listAccount, "candidate list", CandidateListSeeds(electionName)); err != nil {
		return err
	}
	if err := inv.createRecord(payer, listAccount, models.CandidateListRecordSize, "candidate list"); err != nil {
		return err
	}

	candidateList := &models.CandidateListRecord{
		IsInitialized: true,
		Candidates:    make(map[string]address.Address),
	}
	return storeRecord(listAccount, candidateList, "candidate list")
}

func (inv *invocation) createResult(payer *ledger.AccountInfo, electionName string, resultAccount *ledger.AccountInfo) error {
	if err := inv.validateAddress(resultAccount, "result", ResultSeeds(electionName)); err != nil {
		return err
	}
	if err := inv.createRecord(payer, resultAccount, models.ResultRecordSize, "result"); err != nil {
		return err
	}

	return storeRecord(resultAccount, &models.ResultRecord{Results: []models.ResultEntry{}}, "result")
}

// addVote credits one vote to candidate and persists the election record.
func addVote(electionAccount *ledger.AccountInfo, election *models.ElectionRecord, candidate address.Address) error {
	if !election.IsInitialized {
		return ledger.NewError(ledger.AccountNotInitialized, "election record %s", electionAccount.Key.Short())
	}

	election.Votes[candidate]++
	election.NumberOfVotes++

	return storeRecord(electionAccount, election, "election")
}

// CheckDates requires the election to start strictly before it ends.
func CheckDates(start, end time.Time) error {
	if !start.Before(end) {
		return ledger.NewError(ledger.InvalidElectionDates, "start %s is not before end %s",
			models.FormatStoredDate(start), models.FormatStoredDate(end))
	}
	return nil
}

// CheckTimeElection accepts now in [start, end).
func CheckTimeElection(now, start, end time.Time) error {
	if now.Before(start) {
		return ledger.NewError(ledger.ElectionNotOpen, "election opens at %s", models.FormatStoredDate(start))
	}
	if !now.Before(end) {
		return ledger.NewError(ledger.ElectionNotOpen, "election closed at %s", models.FormatStoredDate(end))
	}
	return nil
}

// CheckTimeRegistration accepts now strictly before start.
func CheckTimeRegistration(now, start time.Time) error {
	if !now.Before(start) {
		return ledger.NewError(ledger.ElectionNotOpen, "candidate registration closed at %s", models.FormatStoredDate(start))
	}
	return nil
}

func electionWindow(election *models.ElectionRecord, electionAccount *ledger.AccountInfo) (time.Time, time.Time, error) {
	start, err := election.StartTime()
	if err != nil {
		return time.Time{}, time.Time{}, invalidData(err, "election", electionAccount)
	}
	end, err := election.EndTime()
	if err != nil {
		return time.Time{}, time.Time{}, invalidData(err, "election", electionAccount)
	}
	return start, end, nil
}
