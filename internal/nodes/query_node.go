package nodes

import (
	"context"
	"fmt"

	"github.com/nivschuman/ChainDemocracy/internal/api"
	"github.com/nivschuman/ChainDemocracy/internal/config"
	repos "github.com/nivschuman/ChainDemocracy/internal/database/repositories"
	"github.com/nivschuman/ChainDemocracy/internal/logger"
	"github.com/nivschuman/ChainDemocracy/internal/metrics"
)

// QueryNode serves the HTTP gateway over a database written by an AbciNode.
type QueryNode struct {
	api     *api.Server
	address string
	log     *logger.Logger
}

func NewQueryNode(cfg *config.Config, log *logger.Logger) (*QueryNode, error) {
	if repos.GlobalRecordRepository == nil {
		return nil, fmt.Errorf("repositories are not initialized")
	}

	server := api.NewServer(repos.GlobalRecordRepository, cfg.ProgramConfig.Id,
		api.WithLogger(log),
		api.WithMetrics(metrics.New()),
		api.WithReceipts(repos.GlobalReceiptRepository),
	)

	return &QueryNode{api: server, address: cfg.ApiConfig.Address, log: log.WithComponent("Node")}, nil
}

func (node *QueryNode) Run(ctx context.Context) error {
	node.log.Println("Starting query node")
	return runServices(ctx, func(ctx context.Context) error {
		return node.api.Run(ctx, node.address)
	})
}

// runServices runs every non nil service until ctx is cancelled or the first
// one fails, which cancels the rest.
func runServices(ctx context.Context, services ...func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errs := make(chan error, len(services))
	running := 0
	for _, service := range services {
		if service == nil {
			continue
		}
		running++
		go func() {
			errs <- service(ctx)
		}()
	}

	var firstErr error
	for range running {
		if err := <-errs; err != nil && firstErr == nil {
			firstErr = err
			cancel()
		}
	}
	return firstErr
}
