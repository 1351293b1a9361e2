package program

import (
	"github.com/nivschuman/ChainDemocracy/internal/instruction"
	"github.com/nivschuman/ChainDemocracy/internal/models"
)

// AddVote records that a card number voted and credits the chosen candidate.
// The voter record can only be created once per (election, card number),
// which rejects a second vote. Accounts: payer, voter, candidate list, election.
func (inv *invocation) AddVote(ix *instruction.AddVote) error {
	accounts, err := inv.nextAccounts("payer", "voter", "candidate list", "election")
	if err != nil {
		return err
	}
	payer, voterAccount, listAccount, electionAccount := accounts[0], accounts[1], accounts[2], accounts[3]

	if err := inv.validateAddress(voterAccount, "voter", VoterSeeds(ix.ElectionName, ix.CardNumber)); err != nil {
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

	if inv.program.enforceElectionWindow {
		start, end, err := electionWindow(election, electionAccount)
		if err != nil {
			return err
		}
		if err := CheckTimeElection(inv.runtime.Now(), start, end); err != nil {
			return err
		}
	}

	candidate, err := lookup(candidateList, ix.CandidateFirstName, ix.CandidateLastName)
	if err != nil {
		return err
	}

	if err := inv.createRecord(payer, voterAccount, models.VoterRecordSize(ix.CardNumber), "voter"); err != nil {
		return err
	}

	voter := &models.VoterRecord{
		CardNumber: ix.CardNumber,
		VotedFor:   candidate,
	}
	if err := storeRecord(voterAccount, voter, "voter"); err != nil {
		return err
	}

	if err := addVote(electionAccount, election, candidate); err != nil {
		return err
	}

	inv.program.log.Printf("Vote recorded in %q, %d votes so far", ix.ElectionName, election.NumberOfVotes)
	return nil
}
