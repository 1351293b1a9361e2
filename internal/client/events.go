package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	rpccoretypes "github.com/cometbft/cometbft/rpc/core/types"
	cmttypes "github.com/cometbft/cometbft/types"
)

const subscriber = "chain-democracy"

var ErrSubscriptionsUnsupported = errors.New("rpc client does not support subscriptions")

type EventSource interface {
	Start() error
	Stop() error
	Subscribe(ctx context.Context, subscriber, query string, outCapacity ...int) (<-chan rpccoretypes.ResultEvent, error)
	UnsubscribeAll(ctx context.Context, subscriber string) error
}

type BlockEvent struct {
	Height int64
	Time   time.Time
	Txs    int
}

func (client *Client) SetEventSource(events EventSource) {
	client.events = events
}

// SubscribeBlocks streams committed block headers until ctx is cancelled.
func (client *Client) SubscribeBlocks(ctx context.Context) (<-chan BlockEvent, error) {
	if client.events == nil {
		return nil, ErrSubscriptionsUnsupported
	}

	if err := client.events.Start(); err != nil {
		return nil, fmt.Errorf("start rpc client: %w", err)
	}

	events, err := client.events.Subscribe(ctx, subscriber, "tm.event = 'NewBlock'")
	if err != nil {
		_ = client.events.Stop()
		return nil, fmt.Errorf("subscribe to new blocks: %w", err)
	}

	out := make(chan BlockEvent, 16)
	go func() {
		defer close(out)
		defer func() {
			_ = client.events.UnsubscribeAll(context.Background(), subscriber)
			_ = client.events.Stop()
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				block, ok := newBlock(ev)
				if !ok {
					continue
				}
				select {
				case out <- block:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

func newBlock(ev rpccoretypes.ResultEvent) (BlockEvent, bool) {
	var block *cmttypes.Block
	switch data := ev.Data.(type) {
	case cmttypes.EventDataNewBlock:
		block = data.Block
	case *cmttypes.EventDataNewBlock:
		if data != nil {
			block = data.Block
		}
	}
	if block == nil {
		return BlockEvent{}, false
	}

	return BlockEvent{
		Height: block.Height,
		Time:   block.Time,
		Txs:    len(block.Txs),
	}, true
}
