package abci

import (
	"context"
	"fmt"
	"os"

	"github.com/cometbft/cometbft/abci/server"
	cmtlog "github.com/cometbft/cometbft/libs/log"
	"github.com/cometbft/cometbft/libs/service"

	"github.com/nivschuman/ChainDemocracy/internal/config"
)

type Server struct {
	service service.Service
	address string
}

func NewServer(cfg config.AbciConfig, app *Application, debug bool) (*Server, error) {
	srv, err := server.NewServer(cfg.Address, cfg.Transport, app)
	if err != nil {
		return nil, fmt.Errorf("failed to create abci %s server on %s: %w", cfg.Transport, cfg.Address, err)
	}

	level := cmtlog.AllowInfo()
	if debug {
		level = cmtlog.AllowDebug()
	}
	logger := cmtlog.NewTMLogger(cmtlog.NewSyncWriter(os.Stdout))
	srv.SetLogger(cmtlog.NewFilter(logger, level).With("module", "abci-server"))

	return &Server{service: srv, address: cfg.Address}, nil
}

// Run serves consensus connections until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if err := s.service.Start(); err != nil {
		return fmt.Errorf("failed to start abci server on %s: %w", s.address, err)
	}

	<-ctx.Done()

	if err := s.service.Stop(); err != nil {
		return fmt.Errorf("failed to stop abci server: %w", err)
	}
	return nil
}
