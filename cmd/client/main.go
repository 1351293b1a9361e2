package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/nivschuman/ChainDemocracy/internal/config"
	"github.com/nivschuman/ChainDemocracy/internal/logger"
)

type command struct {
	name    string
	usage   string
	run     func(ctx context.Context, env *environment, args []string) error
	offline bool
}

var commands = []command{
	{name: "keygen", usage: "create a payer key pair", run: runKeygen, offline: true},
	{name: "create-election", usage: "create an election with its candidate list and result", run: runCreateElection},
	{name: "add-candidate-list", usage: "create the candidate list of an existing election", run: runAddCandidateList},
	{name: "add-candidate", usage: "register a candidate", run: runAddCandidate},
	{name: "vote", usage: "cast a vote with a card number", run: runVote},
	{name: "count", usage: "tally the votes into the result record", run: runCount},
	{name: "status", usage: "show an election and its candidates", run: runStatus},
	{name: "result", usage: "show the last tally of an election", run: runResult},
	{name: "simulate", usage: "cast one vote per ballot from a file or generated ballots", run: runSimulate},
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: client <command> [flags]\n\ncommands:\n")
	for _, cmd := range commands {
		fmt.Fprintf(os.Stderr, "  %-20s %s\n", cmd.name, cmd.usage)
	}
	fmt.Fprintf(os.Stderr, "\nCONFIG_FILE, RPC_URL, PROGRAM_ID and PRIVATE_KEY are read from the environment or .env\n")
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	if err := config.LoadEnvFiles(".env"); err != nil {
		logger.New(false).WithComponent("Client").Fatalf("Failed to load .env: %v", err)
	}

	name := os.Args[1]
	for _, cmd := range commands {
		if cmd.name != name {
			continue
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		err := execute(ctx, cmd, os.Args[2:])
		stop()

		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			os.Exit(1)
		}
		return
	}

	usage()
	os.Exit(2)
}

func execute(ctx context.Context, cmd command, args []string) error {
	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config/config.yml"
	}

	cfg, err := config.LoadOptionalConfigFile(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	env := &environment{
		config: cfg,
		log:    logger.New(cfg.LogConfig.Debug),
	}
	if !cmd.offline {
		if err := env.connect(); err != nil {
			return err
		}
	}

	return cmd.run(ctx, env, args)
}
