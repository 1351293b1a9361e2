package voters

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/nivschuman/ChainDemocracy/internal/models"
)

var ErrInvalidBallot = errors.New("invalid ballot")

type Ballot struct {
	CardNumber string
	FirstName  string
	LastName   string
}

type ballotJSON struct {
	CardNumber string `json:"card_number"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
}

func (ballot *Ballot) CandidateName() string {
	return models.FullName(ballot.FirstName, ballot.LastName)
}

func BallotsFromJSON(data []byte) ([]*Ballot, error) {
	var ballotsJsonList []ballotJSON
	if err := json.Unmarshal(data, &ballotsJsonList); err != nil {
		return nil, err
	}

	ballots := make([]*Ballot, 0, len(ballotsJsonList))

	for i, bj := range ballotsJsonList {
		if bj.CardNumber == "" {
			return nil, fmt.Errorf("%w: ballot %d has no card number", ErrInvalidBallot, i)
		}
		if bj.FirstName == "" && bj.LastName == "" {
			return nil, fmt.Errorf("%w: ballot %d has no candidate", ErrInvalidBallot, i)
		}

		ballots = append(ballots, &Ballot{
			CardNumber: bj.CardNumber,
			FirstName:  bj.FirstName,
			LastName:   bj.LastName,
		})
	}

	return ballots, nil
}

func BallotsFromJSONFile(path string) ([]*Ballot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return BallotsFromJSON(data)
}

func BallotsToJSON(ballots []*Ballot) ([]byte, error) {
	ballotsJsonList := make([]ballotJSON, 0, len(ballots))
	for _, ballot := range ballots {
		ballotsJsonList = append(ballotsJsonList, ballotJSON{
			CardNumber: ballot.CardNumber,
			FirstName:  ballot.FirstName,
			LastName:   ballot.LastName,
		})
	}
	return json.MarshalIndent(ballotsJsonList, "", "  ")
}

// GenerateBallots casts count ballots with card numbers CARD-000001 upwards,
// each for a random candidate given as {first name, last name}.
func GenerateBallots(count int, candidates [][2]string, rng *rand.Rand) []*Ballot {
	if len(candidates) == 0 {
		return nil
	}

	ballots := make([]*Ballot, 0, count)
	for i := range count {
		candidate := candidates[rng.IntN(len(candidates))]
		ballots = append(ballots, &Ballot{
			CardNumber: fmt.Sprintf("CARD-%06d", i+1),
			FirstName:  candidate[0],
			LastName:   candidate[1],
		})
	}
	return ballots
}

// Expected counts the votes the ballots should produce: only the first
// ballot of each card number is accepted.
func Expected(ballots []*Ballot) (map[string]int64, int64) {
	seen := make(map[string]struct{}, len(ballots))
	counts := make(map[string]int64)

	var total int64
	for _, ballot := range ballots {
		if _, ok := seen[ballot.CardNumber]; ok {
			continue
		}
		seen[ballot.CardNumber] = struct{}{}
		counts[ballot.CandidateName()]++
		total++
	}
	return counts, total
}
