package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/nivschuman/ChainDemocracy/internal/address"
	"github.com/nivschuman/ChainDemocracy/internal/crypto/ppk"
	"github.com/nivschuman/ChainDemocracy/internal/models"
	"github.com/nivschuman/ChainDemocracy/internal/voters"
)

func runKeygen(_ context.Context, _ *environment, args []string) error {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	out := fs.String("out", "", "write the private key hex to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	keyPair, err := ppk.GenerateKeyPair()
	if err != nil {
		return err
	}
	privateKey, err := keyPair.PrivateKey.AsBytes()
	if err != nil {
		return err
	}
	privateKeyHex := hex.EncodeToString(privateKey)

	if *out != "" {
		if err := os.WriteFile(*out, []byte(privateKeyHex+"\n"), 0o600); err != nil {
			return err
		}
	} else {
		fmt.Printf("private key: %s\n", privateKeyHex)
	}
	fmt.Printf("payer address: %s\n", address.FromPublicKey(keyPair.PublicKey.AsBytes()))
	return nil
}

func submit(ctx context.Context, env *environment, transaction *models.Transaction, err error) error {
	if err != nil {
		return err
	}

	result, err := env.client.Submit(ctx, transaction)
	if err != nil {
		return err
	}

	fmt.Printf("committed at height %d, tx %X\n", result.Height, result.Hash)
	return nil
}

func runCreateElection(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("create-election", flag.ContinueOnError)
	keys := addKeyFlags(fs)
	name := fs.String("name", "", "election name")
	start := fs.String("start", "", "start date, "+models.InputDateLayout+" UTC")
	end := fs.String("end", "", "end date, "+models.InputDateLayout+" UTC")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "name", "start", "end"); err != nil {
		return err
	}

	startDate, err := models.ParseInputDate(*start)
	if err != nil {
		return fmt.Errorf("invalid -start: %w", err)
	}
	endDate, err := models.ParseInputDate(*end)
	if err != nil {
		return fmt.Errorf("invalid -end: %w", err)
	}

	builder, err := env.builder(keys)
	if err != nil {
		return err
	}
	transaction, err := builder.AddElectionAccount(*name, startDate, endDate)
	return submit(ctx, env, transaction, err)
}

func runAddCandidateList(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("add-candidate-list", flag.ContinueOnError)
	keys := addKeyFlags(fs)
	election := fs.String("election", "", "election name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "election"); err != nil {
		return err
	}

	builder, err := env.builder(keys)
	if err != nil {
		return err
	}
	transaction, err := builder.AddCandidateListAccount(*election)
	return submit(ctx, env, transaction, err)
}

func runAddCandidate(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("add-candidate", flag.ContinueOnError)
	keys := addKeyFlags(fs)
	election := fs.String("election", "", "election name")
	firstName := fs.String("first", "", "candidate first name")
	lastName := fs.String("last", "", "candidate last name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "election", "first"); err != nil {
		return err
	}

	builder, err := env.builder(keys)
	if err != nil {
		return err
	}
	transaction, err := builder.AddCandidate(*election, *firstName, *lastName)
	return submit(ctx, env, transaction, err)
}

func runVote(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("vote", flag.ContinueOnError)
	keys := addKeyFlags(fs)
	election := fs.String("election", "", "election name")
	card := fs.String("card", "", "voter card number")
	firstName := fs.String("first", "", "candidate first name")
	lastName := fs.String("last", "", "candidate last name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "election", "card", "first"); err != nil {
		return err
	}

	builder, err := env.builder(keys)
	if err != nil {
		return err
	}
	transaction, err := builder.AddVote(*election, *card, *firstName, *lastName)
	return submit(ctx, env, transaction, err)
}

func runCount(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("count", flag.ContinueOnError)
	keys := addKeyFlags(fs)
	election := fs.String("election", "", "election name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "election"); err != nil {
		return err
	}

	builder, err := env.builder(keys)
	if err != nil {
		return err
	}
	transaction, err := builder.CountingVotes(*election)
	if err := submit(ctx, env, transaction, err); err != nil {
		return err
	}
	return printResult(ctx, env, *election)
}

func runStatus(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	election := fs.String("election", "", "election name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "election"); err != nil {
		return err
	}

	view, err := env.client.Election(ctx, *election)
	if err != nil {
		return err
	}

	status := "closed"
	if view.IsActive {
		status = "active"
	}
	fmt.Printf("election %s (%s)\n", view.Name, view.Address)
	fmt.Printf("  window: %s to %s, %s\n", view.StartDate, view.EndDate, status)
	fmt.Printf("  votes:  %d\n", view.NumberOfVotes)
	for _, candidate := range view.Candidates {
		fmt.Printf("  %-30s %8d  %s\n", candidate.Name, candidate.Votes, candidate.Address.Short())
	}
	return nil
}

func runResult(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("result", flag.ContinueOnError)
	election := fs.String("election", "", "election name")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "election"); err != nil {
		return err
	}
	return printResult(ctx, env, *election)
}

func printResult(ctx context.Context, env *environment, election string) error {
	view, err := env.client.Result(ctx, election)
	if err != nil {
		return err
	}

	fmt.Printf("result of %s, %d votes\n", election, view.NumberOfVotes)
	for i, entry := range view.Results {
		fmt.Printf("  %2d. %-30s %6.2f%%\n", i+1, entry.Name, entry.Percentage)
	}
	return nil
}

func runSimulate(ctx context.Context, env *environment, args []string) error {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	keys := addKeyFlags(fs)
	election := fs.String("election", "", "election name")
	ballotsFile := fs.String("ballots", "", "JSON ballot file")
	generate := fs.Int("generate", 0, "generate this many ballots instead of reading a file")
	candidates := fs.String("candidates", "", "comma separated candidates for -generate, \"First Last\" each")
	writeFile := fs.String("write", "", "save generated ballots to this file")
	workers := fs.Int("workers", 4, "concurrent senders")
	count := fs.Bool("count", true, "tally the votes once every ballot was sent")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := required(fs, "election"); err != nil {
		return err
	}

	ballots, err := loadBallots(*ballotsFile, *generate, *candidates, *writeFile)
	if err != nil {
		return err
	}

	builder, err := env.builder(keys)
	if err != nil {
		return err
	}

	summary, err := voters.Simulate(ctx, builder, env.client, *election, ballots, *workers, env.log)
	if summary != nil {
		rate := float64(summary.Cast) / max(summary.Elapsed.Seconds(), time.Millisecond.Seconds())
		fmt.Printf("cast %d of %d ballots in %s (%.1f votes/s)\n", summary.Cast, len(ballots), summary.Elapsed.Round(time.Millisecond), rate)
		for kind, rejected := range summary.Rejected {
			fmt.Printf("  rejected %d: %s\n", rejected, kind)
		}
	}
	if err != nil {
		return err
	}

	expected, total := voters.Expected(ballots)
	fmt.Printf("expected %d votes:", total)
	for name, votes := range expected {
		fmt.Printf(" %s=%d", name, votes)
	}
	fmt.Println()

	if !*count {
		return nil
	}
	transaction, err := builder.CountingVotes(*election)
	if err := submit(ctx, env, transaction, err); err != nil {
		return err
	}
	return printResult(ctx, env, *election)
}

func loadBallots(ballotsFile string, generate int, candidates string, writeFile string) ([]*voters.Ballot, error) {
	if ballotsFile != "" {
		return voters.BallotsFromJSONFile(ballotsFile)
	}
	if generate <= 0 {
		return nil, fmt.Errorf("pass -ballots or -generate")
	}

	var names [][2]string
	for _, candidate := range strings.Split(candidates, ",") {
		first, last, _ := strings.Cut(strings.TrimSpace(candidate), " ")
		if first != "" {
			names = append(names, [2]string{first, strings.TrimSpace(last)})
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("-generate needs -candidates")
	}

	ballots := voters.GenerateBallots(generate, names, rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)))
	if writeFile != "" {
		data, err := voters.BallotsToJSON(ballots)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(writeFile, data, 0o644); err != nil {
			return nil, err
		}
	}
	return ballots, nil
}

