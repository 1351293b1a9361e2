package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/nivschuman/ChainDemocracy/internal/config"
	db "github.com/nivschuman/ChainDemocracy/internal/database/connection"
	repositories "github.com/nivschuman/ChainDemocracy/internal/database/repositories"
	"github.com/nivschuman/ChainDemocracy/internal/logger"
	"github.com/nivschuman/ChainDemocracy/internal/nodes"
)

func main() {
	if err := config.LoadEnvFiles(".env"); err != nil {
		logger.New(false).WithComponent("Main").Fatalf("Failed to load .env: %v", err)
	}

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config/config.yml"
	}

	err := config.InitializeGlobalConfig(configFile)
	if err != nil {
		logger.New(false).WithComponent("Main").Fatalf("Failed to load config file: %v", err)
	}

	log := logger.New(config.GlobalConfig.LogConfig.Debug)
	mainLog := log.WithComponent("Main")
	mainLog.Printf("Config loaded: %s", config.GlobalConfig.DebugString())

	err = db.InitializeGlobalDB(config.GlobalConfig.DatabaseConfig, config.GlobalConfig.LogConfig.Debug)
	if err != nil {
		mainLog.Fatalf("Failed to initialize database: %v", err)
	}

	if os.Getenv("ENVIRONMENT") == "test" {
		mainLog.Println("Running in test environment, resetting database")
		if err := db.ResetDatabase(db.GlobalDB); err != nil {
			mainLog.Fatalf("Failed to reset test database: %v", err)
		}
	}

	err = repositories.InitializeGlobalRepositories(db.GlobalDB)
	if err != nil {
		mainLog.Fatalf("Failed to initialize repositories: %v", err)
	}

	nodes.InitializeGlobalNodeFactory(log)
	node, err := nodes.GlobalNodeFactory.CreateNode(nodes.NodeType(config.GlobalConfig.NodeConfig.Type))
	if err != nil {
		mainLog.Fatalf("Failed to create node: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := node.Run(ctx)
	if runErr != nil {
		mainLog.Errorf("Node stopped: %v", runErr)
	}

	mainLog.Println("Shutting down node...")
	err = db.CloseDatabaseConnection(db.GlobalDB)
	if err != nil {
		mainLog.Fatalf("Failed to close database connection: %v", err)
	}
	if runErr != nil {
		os.Exit(1)
	}
}
