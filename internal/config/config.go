package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v2"
)

type Config struct {
	ProgramConfig  ProgramConfig  `yaml:"program"`
	DatabaseConfig DatabaseConfig `yaml:"database"`
	AbciConfig     AbciConfig     `yaml:"abci"`
	ApiConfig      ApiConfig      `yaml:"api"`
	RpcConfig      RpcConfig      `yaml:"rpc"`
	LogConfig      LogConfig      `yaml:"log"`
	NodeConfig     NodeConfig     `yaml:"node"`
}

var GlobalConfig *Config = nil

func InitializeGlobalConfig(path string) error {
	if GlobalConfig != nil {
		return nil
	}

	var err error
	GlobalConfig, err = LoadConfigFile(path)
	if err != nil {
		return err
	}

	return GlobalConfig.ApplyEnv()
}

func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return LoadConfig(data)
}

// LoadOptionalConfigFile loads path when it exists and falls back to Default,
// then applies environment overrides.
func LoadOptionalConfigFile(path string) (*Config, error) {
	config, err := LoadConfigFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		config, err = Default(), nil
	}
	if err != nil {
		return nil, err
	}

	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}

func LoadConfig(data []byte) (*Config, error) {
	config := Default()

	d := yaml.NewDecoder(bytes.NewReader(data))
	if err := d.Decode(config); err != nil {
		return nil, err
	}

	if err := config.DatabaseConfig.parse(); err != nil {
		return nil, err
	}

	return config, nil
}

func Default() *Config {
	return &Config{
		ProgramConfig: ProgramConfig{
			Id: DefaultProgramId,
		},
		DatabaseConfig: DatabaseConfig{
			Url:     "sqlite://databases/chain-democracy.db",
			Dialect: DatabaseDialectSqlite,
			Dsn:     "databases/chain-democracy.db",
		},
		AbciConfig: AbciConfig{
			Address:   "tcp://127.0.0.1:26658",
			Transport: "socket",
		},
		ApiConfig: ApiConfig{
			Address: ":8080",
		},
		RpcConfig: RpcConfig{
			Url:            "http://localhost:26657",
			WsPath:         "/websocket",
			TimeoutSeconds: 10,
		},
		NodeConfig: NodeConfig{
			Type: 1,
		},
	}
}

func (config *Config) String() string {
	return fmt.Sprintf("program=%s db=%s abci=%s api=%s rpc=%s",
		config.ProgramConfig.Id.Short(),
		config.DatabaseConfig.Dialect,
		config.AbciConfig.Address,
		config.ApiConfig.Address,
		config.RpcConfig.Url,
	)
}

// DebugString is String with the database DSN included, secrets masked.
func (config *Config) DebugString() string {
	return fmt.Sprintf("%s dsn=%s debug=%t node=%d",
		config.String(),
		maskDSN(config.DatabaseConfig.Dialect, config.DatabaseConfig.Dsn),
		config.LogConfig.Debug,
		config.NodeConfig.Type,
	)
}
