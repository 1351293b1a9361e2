package nodes

import (
	"context"
	"fmt"

	"github.com/nivschuman/ChainDemocracy/internal/abci"
	"github.com/nivschuman/ChainDemocracy/internal/api"
	"github.com/nivschuman/ChainDemocracy/internal/config"
	repos "github.com/nivschuman/ChainDemocracy/internal/database/repositories"
	"github.com/nivschuman/ChainDemocracy/internal/executor"
	"github.com/nivschuman/ChainDemocracy/internal/logger"
	"github.com/nivschuman/ChainDemocracy/internal/metrics"
	"github.com/nivschuman/ChainDemocracy/internal/program"
)

// AbciNode hosts the election program for a CometBFT node and optionally
// serves the HTTP gateway beside it.
type AbciNode struct {
	server     *abci.Server
	api        *api.Server
	apiAddress string
	log        *logger.Logger
}

func NewAbciNode(cfg *config.Config, log *logger.Logger) (*AbciNode, error) {
	if repos.GlobalRecordRepository == nil || repos.GlobalAppStateRepository == nil {
		return nil, fmt.Errorf("repositories are not initialized")
	}

	appState, err := repos.GlobalAppStateRepository.GetAppState(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to load app state: %w", err)
	}

	programId := cfg.ProgramConfig.Id
	electionProgram := program.New(
		program.WithLogger(log),
		program.WithElectionWindow(cfg.ProgramConfig.EnforceElectionWindow),
		program.WithRegistrationWindow(cfg.ProgramConfig.EnforceRegistrationWindow),
	)

	exec := executor.New(repos.GlobalRecordRepository, programId, electionProgram,
		executor.WithLogger(log),
		executor.WithAppHash(appState.AppHash),
	)
	exec.SetHeight(appState.Height)

	nodeMetrics := metrics.New()
	app := abci.NewApplication(exec,
		abci.WithLogger(log),
		abci.WithMetrics(nodeMetrics),
	)

	server, err := abci.NewServer(cfg.AbciConfig, app, cfg.LogConfig.Debug)
	if err != nil {
		return nil, err
	}

	node := &AbciNode{server: server, log: log.WithComponent("Node")}
	if cfg.ApiConfig.Enabled {
		node.api = api.NewServer(repos.GlobalRecordRepository, programId,
			api.WithLogger(log),
			api.WithMetrics(nodeMetrics),
			api.WithReceipts(repos.GlobalReceiptRepository),
		)
		node.apiAddress = cfg.ApiConfig.Address
	}

	node.log.Printf("Restored height %d, app hash %x, program %s", appState.Height, appState.AppHash, programId.Short())
	return node, nil
}

func (node *AbciNode) Run(ctx context.Context) error {
	node.log.Println("Starting abci node")
	return runServices(ctx, node.server.Run, node.apiRunner())
}

func (node *AbciNode) apiRunner() func(context.Context) error {
	if node.api == nil {
		return nil
	}
	return func(ctx context.Context) error {
		return node.api.Run(ctx, node.apiAddress)
	}
}
