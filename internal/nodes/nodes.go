package nodes

import (
	"context"
	"fmt"

	"github.com/nivschuman/ChainDemocracy/internal/config"
	"github.com/nivschuman/ChainDemocracy/internal/logger"
)

type NodeType int

const (
	ABCI_NODE NodeType = iota + 1
	QUERY_NODE
)

func (nodeType NodeType) String() string {
	switch nodeType {
	case ABCI_NODE:
		return "abci"
	case QUERY_NODE:
		return "query"
	default:
		return fmt.Sprintf("NodeType(%d)", int(nodeType))
	}
}

type Node interface {
	// Run blocks until ctx is cancelled or a service fails.
	Run(ctx context.Context) error
}

type NodeFactory interface {
	CreateNode(NodeType) (Node, error)
}

type nodeFactoryImpl struct {
	log *logger.Logger
}

var GlobalNodeFactory NodeFactory = &nodeFactoryImpl{log: logger.New(false)}

func InitializeGlobalNodeFactory(log *logger.Logger) {
	GlobalNodeFactory = &nodeFactoryImpl{log: log}
}

func (factory *nodeFactoryImpl) CreateNode(nodeType NodeType) (Node, error) {
	if config.GlobalConfig == nil {
		return nil, fmt.Errorf("config is not initialized")
	}

	switch nodeType {
	case ABCI_NODE:
		return NewAbciNode(config.GlobalConfig, factory.log)
	case QUERY_NODE:
		return NewQueryNode(config.GlobalConfig, factory.log)
	default:
		return nil, fmt.Errorf("unsupported node type: %v", nodeType)
	}
}
