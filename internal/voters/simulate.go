package voters

import (
	"context"
	"sync"
	"time"

	"github.com/sasha-s/go-deadlock"

	"github.com/nivschuman/ChainDemocracy/internal/client"
	"github.com/nivschuman/ChainDemocracy/internal/ledger"
	"github.com/nivschuman/ChainDemocracy/internal/logger"
	"github.com/nivschuman/ChainDemocracy/internal/models"
)

type Submitter interface {
	Submit(ctx context.Context, transaction *models.Transaction) (*client.SubmitResult, error)
}

type Summary struct {
	Cast     int
	Rejected map[string]int //error kind -> ballots
	Elapsed  time.Duration
}

func (summary *Summary) RejectedTotal() int {
	total := 0
	for _, count := range summary.Rejected {
		total += count
	}
	return total
}

// Simulate submits one vote per ballot using workers concurrent senders.
// Rejected ballots are counted by error kind, the first transport error
// stops the run.
func Simulate(ctx context.Context, builder *client.Builder, submitter Submitter, electionName string, ballots []*Ballot, workers int, log *logger.Logger) (*Summary, error) {
	if workers < 1 {
		workers = 1
	}
	log = log.WithComponent("Simulate")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       deadlock.Mutex
		wg       sync.WaitGroup
		firstErr error
	)
	summary := &Summary{Rejected: map[string]int{}}
	start := time.Now()

	jobs := make(chan *Ballot)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ballot := range jobs {
				err := castBallot(ctx, builder, submitter, electionName, ballot)

				mu.Lock()
				switch kind, ok := ledger.KindOf(err); {
				case err == nil:
					summary.Cast++
				case ok:
					summary.Rejected[kind.String()]++
					log.Printf("Ballot %s rejected: %v", ballot.CardNumber, err)
				case firstErr == nil:
					firstErr = err
					cancel()
				}
				mu.Unlock()
			}
		}()
	}

feed:
	for _, ballot := range ballots {
		select {
		case jobs <- ballot:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	summary.Elapsed = time.Since(start)
	if firstErr != nil {
		return summary, firstErr
	}
	if err := ctx.Err(); err != nil && summary.Cast+summary.RejectedTotal() < len(ballots) {
		return summary, err
	}

	log.Printf("Cast %d of %d ballots in %s", summary.Cast, len(ballots), summary.Elapsed)
	return summary, nil
}

func castBallot(ctx context.Context, builder *client.Builder, submitter Submitter, electionName string, ballot *Ballot) error {
	transaction, err := builder.AddVote(electionName, ballot.CardNumber, ballot.FirstName, ballot.LastName)
	if err != nil {
		return err
	}

	_, err = submitter.Submit(ctx, transaction)
	return err
}
