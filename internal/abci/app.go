// Package abci hosts the election program behind a CometBFT ABCI
// application: consensus orders the transactions, the executor runs them.
package abci

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	"github.com/sasha-s/go-deadlock"

	"github.com/nivschuman/ChainDemocracy/internal/address"
	"github.com/nivschuman/ChainDemocracy/internal/executor"
	"github.com/nivschuman/ChainDemocracy/internal/instruction"
	"github.com/nivschuman/ChainDemocracy/internal/ledger"
	"github.com/nivschuman/ChainDemocracy/internal/logger"
	"github.com/nivschuman/ChainDemocracy/internal/metrics"
	"github.com/nivschuman/ChainDemocracy/internal/models"
	"github.com/nivschuman/ChainDemocracy/internal/query"
)

const (
	AppName    = "ChainDemocracy"
	AppVersion = 1
	Codespace  = "chain-democracy"
	EventType  = "election"
)

type Option func(*Application)

func WithLogger(log *logger.Logger) Option {
	return func(app *Application) {
		app.log = log.WithComponent("ABCI")
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(app *Application) {
		app.metrics = m
	}
}

type Application struct {
	abcitypes.BaseApplication

	mu       deadlock.Mutex
	executor *executor.Executor
	queries  *query.Service
	receipts []*models.TransactionReceipt
	metrics  *metrics.Metrics
	log      *logger.Logger
}

var _ abcitypes.Application = (*Application)(nil)

func NewApplication(exec *executor.Executor, options ...Option) *Application {
	app := &Application{
		executor: exec,
		queries:  query.NewService(exec, exec.ProgramId()),
		log:      logger.Discard(),
	}
	for _, option := range options {
		option(app)
	}
	return app
}

func (app *Application) Info(_ context.Context, _ *abcitypes.RequestInfo) (*abcitypes.ResponseInfo, error) {
	return &abcitypes.ResponseInfo{
		Data:             AppName,
		Version:          fmt.Sprintf("%d", AppVersion),
		AppVersion:       AppVersion,
		LastBlockHeight:  app.executor.Height(),
		LastBlockAppHash: app.executor.AppHash(),
	}, nil
}

// CheckTx admits a transaction to the mempool when it is signed, addressed
// to the hosted program and carries a decodable instruction.
func (app *Application) CheckTx(_ context.Context, req *abcitypes.RequestCheckTx) (*abcitypes.ResponseCheckTx, error) {
	transaction, ix, err := app.decode(req.Tx)
	if err == nil {
		err = app.executor.CheckTransaction(transaction)
	}
	if err != nil {
		code, log := resultOf(err)
		app.log.Printf("Rejected transaction: %s", log)
		return &abcitypes.ResponseCheckTx{Code: code, Codespace: Codespace, Log: log}, nil
	}

	return &abcitypes.ResponseCheckTx{Code: abcitypes.CodeTypeOK, Info: ix.Tag().String()}, nil
}

func (app *Application) FinalizeBlock(ctx context.Context, req *abcitypes.RequestFinalizeBlock) (*abcitypes.ResponseFinalizeBlock, error) {
	app.executor.SetHeight(req.Height)
	app.executor.SetTime(req.Time)

	results := make([]*abcitypes.ExecTxResult, len(req.Txs))
	for i, tx := range req.Txs {
		results[i] = app.deliver(ctx, req.Height, tx)
	}

	return &abcitypes.ResponseFinalizeBlock{
		TxResults: results,
		AppHash:   app.executor.PendingAppHash(),
	}, nil
}

func (app *Application) deliver(ctx context.Context, height int64, tx []byte) *abcitypes.ExecTxResult {
	transaction, ix, err := app.decode(tx)
	if err == nil {
		err = app.executor.Execute(ctx, transaction)
	}

	code, log := resultOf(err)
	name := "Unknown"
	if ix != nil {
		name = ix.Tag().String()
	}

	if app.metrics != nil {
		app.metrics.ObserveInstruction(name, code)
		if err == nil && ix.Tag() == instruction.TagAddVote {
			app.metrics.ObserveVote()
		}
	}

	if transaction == nil {
		app.log.Printf("Undecodable transaction at height %d: %s", height, log)
		return &abcitypes.ExecTxResult{Code: code, Codespace: Codespace, Log: log}
	}

	payer := transaction.PayerAddress()
	app.mu.Lock()
	app.receipts = append(app.receipts, &models.TransactionReceipt{
		TransactionId: transaction.Id,
		Height:        height,
		Payer:         payer,
		Instruction:   name,
		Code:          code,
		Log:           log,
	})
	app.mu.Unlock()

	if err != nil {
		app.log.Printf("%s from %s failed: %s", name, payer.Short(), log)
		return &abcitypes.ExecTxResult{Code: code, Codespace: Codespace, Log: log}
	}

	return &abcitypes.ExecTxResult{
		Code: abcitypes.CodeTypeOK,
		Events: []abcitypes.Event{{
			Type: EventType,
			Attributes: []abcitypes.EventAttribute{
				{Key: "instruction", Value: name, Index: true},
				{Key: "payer", Value: payer.String(), Index: true},
			},
		}},
	}
}

// Commit persists the records and receipts of the finalized block in one
// write. A failed write is returned so the node halts instead of losing them.
func (app *Application) Commit(ctx context.Context, _ *abcitypes.RequestCommit) (*abcitypes.ResponseCommit, error) {
	records := app.executor.PendingRecords()

	app.mu.Lock()
	defer app.mu.Unlock()

	appHash, err := app.executor.Commit(ctx, app.receipts...)
	if err != nil {
		app.log.Errorf("Failed to commit %d records and %d receipts: %v", records, len(app.receipts), err)
		return nil, err
	}
	app.receipts = nil
	height := app.executor.Height()

	if app.metrics != nil {
		app.metrics.ObserveCommit(height, records)
	}
	app.log.Printf("Committed height %d with %d records, app hash %x", height, records, appHash)

	return &abcitypes.ResponseCommit{}, nil
}

func (app *Application) Query(ctx context.Context, req *abcitypes.RequestQuery) (*abcitypes.ResponseQuery, error) {
	if app.metrics != nil {
		app.metrics.ObserveQuery(req.Path)
	}
	height := app.executor.Height()

	switch req.Path {
	case query.PathRecord:
		addr, err := address.FromBytes(req.Data)
		if err != nil {
			return queryError(query.CodeBadRequest, height, err), nil
		}
		view, err := app.queries.Record(ctx, addr)
		if err != nil {
			return queryError(queryCode(err), height, err), nil
		}
		return &abcitypes.ResponseQuery{
			Code:   query.CodeOK,
			Key:    addr.Bytes(),
			Value:  view.Data,
			Info:   view.Owner.String(),
			Height: height,
		}, nil

	case query.PathElection:
		view, err := app.queries.Election(ctx, string(req.Data))
		return jsonResponse(height, view, err), nil
	case query.PathCandidates:
		views, err := app.queries.Candidates(ctx, string(req.Data))
		return jsonResponse(height, views, err), nil
	case query.PathResult:
		view, err := app.queries.Result(ctx, string(req.Data))
		return jsonResponse(height, view, err), nil
	}

	return queryError(query.CodeBadRequest, height, fmt.Errorf("unknown query path %q", req.Path)), nil
}

func jsonResponse(height int64, view any, err error) *abcitypes.ResponseQuery {
	if err != nil {
		return queryError(queryCode(err), height, err)
	}

	value, err := json.Marshal(view)
	if err != nil {
		return queryError(query.CodeInternal, height, err)
	}
	return &abcitypes.ResponseQuery{Code: query.CodeOK, Value: value, Height: height}
}

func (app *Application) decode(tx []byte) (*models.Transaction, instruction.Instruction, error) {
	transaction, err := models.TransactionFromBytes(tx)
	if err != nil {
		return nil, nil, ledger.WrapError(ledger.MalformedInstruction, err, "undecodable transaction")
	}

	ix, err := instruction.Unpack(transaction.Data)
	if err != nil {
		return transaction, nil, err
	}
	return transaction, ix, nil
}

func resultOf(err error) (uint32, string) {
	if err == nil {
		return abcitypes.CodeTypeOK, ""
	}

	var programErr *ledger.ProgramError
	if errors.As(err, &programErr) {
		return programErr.Code(), err.Error()
	}
	return query.CodeInternal, err.Error()
}

func queryCode(err error) uint32 {
	if errors.Is(err, query.ErrNotFound) {
		return query.CodeNotFound
	}
	if _, ok := ledger.KindOf(err); ok {
		return query.CodeBadRequest
	}
	return query.CodeInternal
}

func queryError(code uint32, height int64, err error) *abcitypes.ResponseQuery {
	return &abcitypes.ResponseQuery{Code: code, Codespace: Codespace, Log: err.Error(), Height: height}
}
