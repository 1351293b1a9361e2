package program

import (
	"slices"

	"github.com/nivschuman/ChainDemocracy/internal/instruction"
	"github.com/nivschuman/ChainDemocracy/internal/ledger"
	"github.com/nivschuman/ChainDemocracy/internal/models"
)

// Tally turns the raw counters of an election into percentages, one per
// registered candidate, highest first. Equal percentages keep name order.
func Tally(election *models.ElectionRecord, candidateList *models.CandidateListRecord) (*models.ResultRecord, error) {
	var counted int64
	for _, votes := range election.Votes {
		if votes < 0 {
			return nil, ledger.NewError(ledger.InvalidRecordData, "negative vote counter in election %q", election.Name)
		}
		counted += votes
	}
	if counted != election.NumberOfVotes {
		return nil, ledger.NewError(ledger.InvalidRecordData, "election %q counts %d votes but records %d",
			election.Name, counted, election.NumberOfVotes)
	}

	names := candidateList.SortedNames()
	results := make([]models.ResultEntry, 0, len(names))
	for _, name := range names {
		percentage := 0.0
		if election.NumberOfVotes != 0 {
			votes := election.VotesFor(candidateList.Candidates[name])
			percentage = 100.0 * float64(votes) / float64(election.NumberOfVotes)
		}
		results = append(results, models.ResultEntry{Name: name, Percentage: percentage})
	}

	slices.SortStableFunc(results, func(a, b models.ResultEntry) int {
		switch {
		case a.Percentage > b.Percentage:
			return -1
		case a.Percentage < b.Percentage:
			return 1
		}
		return 0
	})

	return &models.ResultRecord{
		Results:       results,
		NumberOfVotes: election.NumberOfVotes,
	}, nil
}

// CountingVotes replaces the result record with a fresh tally.
// Accounts: payer, election, candidate list, result.
func (inv *invocation) CountingVotes(ix *instruction.CountingVotes) error {
	accounts, err := inv.nextAccounts("payer", "election", "candidate list", "result")
	if err != nil {
		return err
	}
	electionAccount, listAccount, resultAccount := accounts[1], accounts[2], accounts[3]

	if err := inv.validateAddress(electionAccount, "election", ElectionSeeds(ix.ElectionName)); err != nil {
		return err
	}
	if err := inv.validateAddress(resultAccount, "result", ResultSeeds(ix.ElectionName)); err != nil {
		return err
	}

	election, err := inv.loadElection(electionAccount)
	if err != nil {
		return err
	}
	candidateList, err := inv.openCandidateList(listAccount, ix.ElectionName, CandidateListSeed)
	if err != nil {
		return err
	}
	if err := inv.requireOwned(resultAccount, "result"); err != nil {
		return err
	}

	result, err := Tally(election, candidateList)
	if err != nil {
		return err
	}
	if err := storeRecord(resultAccount, result, "result"); err != nil {
		return err
	}

	for _, entry := range result.Results {
		inv.program.log.Printf("%s: %.2f%%", entry.Name, entry.Percentage)
	}
	inv.program.log.Printf("Election %q counted, %d votes", ix.ElectionName, result.NumberOfVotes)
	return nil
}
