// Package api is the read only HTTP gateway over committed election state.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nivschuman/ChainDemocracy/internal/address"
	"github.com/nivschuman/ChainDemocracy/internal/logger"
	"github.com/nivschuman/ChainDemocracy/internal/metrics"
	"github.com/nivschuman/ChainDemocracy/internal/models"
	"github.com/nivschuman/ChainDemocracy/internal/query"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ReceiptReader interface {
	GetReceipt(ctx context.Context, transactionId []byte) (*models.TransactionReceipt, error)
	GetReceiptsByPayerPaged(ctx context.Context, payer address.Address, offset int, pageSize int) ([]*models.TransactionReceipt, int64, error)
}

type recordCounter interface {
	CountRecords(ctx context.Context) (int64, error)
}

type recordLister interface {
	GetRecordsByOwnerPaged(ctx context.Context, owner address.Address, offset int, pageSize int) ([]*models.Record, int64, error)
}

type Option func(*Server)

func WithLogger(log *logger.Logger) Option {
	return func(server *Server) {
		server.log = log.WithComponent("API")
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(server *Server) {
		server.metrics = m
	}
}

func WithReceipts(receipts ReceiptReader) Option {
	return func(server *Server) {
		server.receipts = receipts
	}
}

type Server struct {
	engine   *gin.Engine
	records  query.RecordReader
	queries  *query.Service
	receipts ReceiptReader
	metrics  *metrics.Metrics
	log      *logger.Logger
}

func NewServer(records query.RecordReader, programId address.Address, options ...Option) *Server {
	server := &Server{
		records: records,
		queries: query.NewService(records, programId),
		log:     logger.Discard(),
	}
	for _, option := range options {
		option(server)
	}

	if !server.log.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}
	server.engine = gin.New()
	server.engine.Use(gin.Recovery())
	server.routes()

	return server
}

func (server *Server) routes() {
	server.engine.GET("/healthz", server.health)
	if server.metrics != nil {
		server.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(server.metrics.Registry(), promhttp.HandlerOpts{})))
	}

	elections := server.engine.Group("/elections/:name")
	elections.GET("", server.getElection)
	elections.GET("/candidates", server.getCandidates)
	elections.GET("/results", server.getResults)

	server.engine.GET("/records/:address", server.getRecord)
	if _, ok := server.records.(recordLister); ok {
		server.engine.GET("/records", server.listRecords)
	}

	if server.receipts != nil {
		server.engine.GET("/receipts/:id", server.getReceipt)
		server.engine.GET("/payers/:address/receipts", server.getPayerReceipts)
	}
}

func (server *Server) Handler() http.Handler {
	return server.engine
}

// Run serves on addr until ctx is cancelled.
func (server *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           server.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		server.log.Printf("Listening on %s", addr)
		errs <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api server on %s failed: %w", addr, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func (server *Server) observe(path string) {
	if server.metrics != nil {
		server.metrics.ObserveQuery(path)
	}
}

func (server *Server) fail(c *gin.Context, err error) {
	if errors.Is(err, query.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	server.log.Errorf("Request %s failed: %v", c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
