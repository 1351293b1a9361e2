package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/nivschuman/ChainDemocracy/internal/address"
)

// LoadEnvFiles loads .env style files into the process environment. Missing
// files are skipped, variables already set are kept.
func LoadEnvFiles(files ...string) error {
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func getenvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "true" || v == "1" || v == "yes" || v == "on"
}

// ApplyEnv overrides file settings with DATABASE_URL, PROGRAM_ID, RPC_URL,
// ABCI_ADDRESS, API_ADDRESS and DEBUG.
func (config *Config) ApplyEnv() error {
	if databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); databaseURL != "" {
		config.DatabaseConfig.Url = databaseURL
		if err := config.DatabaseConfig.parse(); err != nil {
			return err
		}
	}

	if programId := os.Getenv("PROGRAM_ID"); programId != "" {
		id, err := address.FromHex(programId)
		if err != nil {
			return err
		}
		config.ProgramConfig.Id = id
	}

	config.RpcConfig.Url = getenv("RPC_URL", config.RpcConfig.Url)
	config.AbciConfig.Address = getenv("ABCI_ADDRESS", config.AbciConfig.Address)
	config.ApiConfig.Address = getenv("API_ADDRESS", config.ApiConfig.Address)
	config.LogConfig.Debug = getenvBool("DEBUG", config.LogConfig.Debug)

	return nil
}
