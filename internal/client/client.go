// Package client submits election transactions to a node and reads the
// election views back over CometBFT RPC.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	abcitypes "github.com/cometbft/cometbft/abci/types"
	cmtbytes "github.com/cometbft/cometbft/libs/bytes"
	rpchttp "github.com/cometbft/cometbft/rpc/client/http"
	rpccoretypes "github.com/cometbft/cometbft/rpc/core/types"
	cmttypes "github.com/cometbft/cometbft/types"

	"github.com/nivschuman/ChainDemocracy/internal/address"
	"github.com/nivschuman/ChainDemocracy/internal/config"
	"github.com/nivschuman/ChainDemocracy/internal/ledger"
	"github.com/nivschuman/ChainDemocracy/internal/models"
	"github.com/nivschuman/ChainDemocracy/internal/query"
)

const defaultTimeout = 10 * time.Second

type RPC interface {
	BroadcastTxCommit(ctx context.Context, tx cmttypes.Tx) (*rpccoretypes.ResultBroadcastTxCommit, error)
	ABCIQuery(ctx context.Context, path string, data cmtbytes.HexBytes) (*rpccoretypes.ResultABCIQuery, error)
}

// TxError is a transaction rejected by the node, either at admission or
// while executing.
type TxError struct {
	Stage string
	Code  uint32
	Log   string
}

func (e *TxError) Error() string {
	return fmt.Sprintf("transaction rejected in %s with code %d: %s", e.Stage, e.Code, e.Log)
}

// Unwrap exposes the program error behind the code, so callers can match
// with errors.Is(err, ledger.ErrAccountAlreadyInitialized).
func (e *TxError) Unwrap() error {
	if programErr, ok := ledger.FromCode(e.Code, e.Log); ok {
		return programErr
	}
	return nil
}

type SubmitResult struct {
	Hash   []byte
	Height int64
}

type Client struct {
	rpc     RPC
	events  EventSource
	timeout time.Duration
}

func New(cfg config.RpcConfig) (*Client, error) {
	rpc, err := rpchttp.New(cfg.Url, cfg.WsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create rpc client for %s: %w", cfg.Url, err)
	}

	timeout := defaultTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}

	client := NewWithRPC(rpc, timeout)
	client.events = rpc
	return client, nil
}

func NewWithRPC(rpc RPC, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{rpc: rpc, timeout: timeout}
}

// Submit broadcasts the transaction and waits until it is committed.
func (client *Client) Submit(ctx context.Context, transaction *models.Transaction) (*SubmitResult, error) {
	ctx, cancel := context.WithTimeout(ctx, client.timeout)
	defer cancel()

	result, err := client.rpc.BroadcastTxCommit(ctx, cmttypes.Tx(transaction.AsBytes()))
	if err != nil {
		return nil, fmt.Errorf("failed to broadcast transaction %x: %w", transaction.Id, err)
	}
	if result.CheckTx.Code != 0 {
		return nil, &TxError{Stage: "check", Code: result.CheckTx.Code, Log: result.CheckTx.Log}
	}
	if result.TxResult.Code != 0 {
		return nil, &TxError{Stage: "execution", Code: result.TxResult.Code, Log: result.TxResult.Log}
	}

	return &SubmitResult{Hash: result.Hash, Height: result.Height}, nil
}

func (client *Client) rawQuery(ctx context.Context, path string, data []byte) (*abcitypes.ResponseQuery, error) {
	ctx, cancel := context.WithTimeout(ctx, client.timeout)
	defer cancel()

	result, err := client.rpc.ABCIQuery(ctx, path, data)
	if err != nil {
		return nil, fmt.Errorf("query %s failed: %w", path, err)
	}

	response := result.Response
	switch response.Code {
	case query.CodeOK:
		return &response, nil
	case query.CodeNotFound:
		return nil, fmt.Errorf("%w: %s", query.ErrNotFound, response.Log)
	default:
		return nil, fmt.Errorf("query %s failed with code %d: %s", path, response.Code, response.Log)
	}
}

func (client *Client) query(ctx context.Context, path string, data []byte, out any) error {
	response, err := client.rawQuery(ctx, path, data)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(response.Value, out); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// Record reads the raw bytes stored at addr; the owner travels in Info.
func (client *Client) Record(ctx context.Context, addr address.Address) (*query.RecordView, error) {
	response, err := client.rawQuery(ctx, query.PathRecord, addr.Bytes())
	if err != nil {
		return nil, err
	}

	owner, err := address.FromHex(response.Info)
	if err != nil {
		return nil, fmt.Errorf("invalid owner in record response: %w", err)
	}

	return &query.RecordView{
		Address: addr,
		Owner:   owner,
		Size:    len(response.Value),
		Data:    response.Value,
	}, nil
}

func (client *Client) Election(ctx context.Context, name string) (*query.ElectionView, error) {
	var view query.ElectionView
	if err := client.query(ctx, query.PathElection, []byte(name), &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (client *Client) Candidates(ctx context.Context, name string) ([]query.CandidateView, error) {
	var views []query.CandidateView
	if err := client.query(ctx, query.PathCandidates, []byte(name), &views); err != nil {
		return nil, err
	}
	return views, nil
}

func (client *Client) Result(ctx context.Context, name string) (*query.ResultView, error) {
	var view query.ResultView
	if err := client.query(ctx, query.PathResult, []byte(name), &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func IsNotFound(err error) bool {
	return errors.Is(err, query.ErrNotFound)
}
