package nodes_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nivschuman/ChainDemocracy/internal/config"
	db_connection "github.com/nivschuman/ChainDemocracy/internal/database/connection"
	"github.com/nivschuman/ChainDemocracy/internal/database/repositories"
	"github.com/nivschuman/ChainDemocracy/internal/logger"
	"github.com/nivschuman/ChainDemocracy/internal/models"
	"github.com/nivschuman/ChainDemocracy/internal/nodes"
)

func TestMain(m *testing.M) {
	db, err := db_connection.OpenDatabase(config.DatabaseDialectSqlite, ":memory:", false)
	if err != nil {
		log.Fatalf("Failed to open test database: %v", err)
	}
	if err := repositories.InitializeGlobalRepositories(db); err != nil {
		log.Fatalf("Failed to initialize repositories: %v", err)
	}

	config.GlobalConfig = config.Default()
	config.GlobalConfig.AbciConfig.Address = "tcp://127.0.0.1:0"
	config.GlobalConfig.ApiConfig.Enabled = true
	config.GlobalConfig.ApiConfig.Address = "127.0.0.1:0"
	nodes.InitializeGlobalNodeFactory(logger.Discard())

	code := m.Run()

	if err := db_connection.CloseDatabaseConnection(db); err != nil {
		log.Fatalf("Failed to close test database: %v", err)
	}
	os.Exit(code)
}

func TestNodeTypeString(t *testing.T) {
	require.Equal(t, "abci", nodes.ABCI_NODE.String())
	require.Equal(t, "query", nodes.QUERY_NODE.String())
	require.Equal(t, "NodeType(9)", nodes.NodeType(9).String())
}

func TestCreateUnsupportedNode(t *testing.T) {
	_, err := nodes.GlobalNodeFactory.CreateNode(nodes.NodeType(9))
	require.Error(t, err)
}

func TestCreateAbciNodeRestoresAppState(t *testing.T) {
	ctx := context.Background()
	appHash := []byte{1, 2, 3, 4}
	require.NoError(t, repositories.GlobalAppStateRepository.SaveAppState(ctx, &models.AppState{Height: 7, AppHash: appHash}))

	node, err := nodes.GlobalNodeFactory.CreateNode(nodes.ABCI_NODE)
	require.NoError(t, err)
	require.IsType(t, &nodes.AbciNode{}, node)
}

func TestQueryNodeStopsWithContext(t *testing.T) {
	node, err := nodes.GlobalNodeFactory.CreateNode(nodes.QUERY_NODE)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	require.NoError(t, node.Run(ctx))
}
