package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nivschuman/ChainDemocracy/internal/client"
	"github.com/nivschuman/ChainDemocracy/internal/config"
	"github.com/nivschuman/ChainDemocracy/internal/logger"
	"github.com/nivschuman/ChainDemocracy/internal/tui"
)

const (
	updateBufferSize = 64
	pollInterval     = 5 * time.Second
)

func main() {
	election := flag.String("election", "", "election to watch")
	flag.Parse()
	if *election == "" {
		fmt.Fprintln(os.Stderr, "usage: monitor -election <name>")
		os.Exit(2)
	}

	if err := config.LoadEnvFiles(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load .env: %v\n", err)
		os.Exit(1)
	}

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config/config.yml"
	}
	cfg, err := config.LoadOptionalConfigFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// the alternate screen owns the terminal, debug lines go to monitor.log
	var logWriter io.Writer = io.Discard
	if cfg.LogConfig.Debug {
		logFile, err := os.OpenFile("monitor.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err == nil {
			defer logFile.Close()
			logWriter = logFile
		}
	}
	log := logger.NewWithWriter(cfg.LogConfig.Debug, logWriter).WithComponent("Monitor")

	c, err := client.New(cfg.RpcConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create rpc client: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	updates := make(chan tea.Msg, updateBufferSize)
	go func() {
		defer close(updates)
		watch(ctx, c, *election, updates, log)
	}()

	if err := tui.Run(ctx, *election, updates); err != nil {
		fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		os.Exit(1)
	}
}

// watch refreshes the election on every new block, and on a timer when the
// node does not accept subscriptions.
func watch(ctx context.Context, c *client.Client, election string, updates chan<- tea.Msg, log *logger.Logger) {
	refresh(ctx, c, election, updates)

	blocks, err := c.SubscribeBlocks(ctx)
	if err != nil {
		log.Printf("Subscription failed, polling every %s: %v", pollInterval, err)
		ticker := time.NewTicker(pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				refresh(ctx, c, election, updates)
			}
		}
	}

	for block := range blocks {
		send(ctx, updates, tui.BlockMsg{Height: block.Height, Time: block.Time, Txs: block.Txs})
		refresh(ctx, c, election, updates)
	}
}

func refresh(ctx context.Context, c *client.Client, election string, updates chan<- tea.Msg) {
	view, err := c.Election(ctx, election)
	if err != nil {
		send(ctx, updates, tui.ErrorMsg{Err: err})
		return
	}
	send(ctx, updates, tui.ElectionMsg{Election: view})

	result, err := c.Result(ctx, election)
	if err != nil {
		if !client.IsNotFound(err) {
			send(ctx, updates, tui.ErrorMsg{Err: err})
		}
		return
	}
	send(ctx, updates, tui.ResultMsg{Result: result})
}

func send(ctx context.Context, updates chan<- tea.Msg, msg tea.Msg) {
	select {
	case updates <- msg:
	case <-ctx.Done():
	}
}
