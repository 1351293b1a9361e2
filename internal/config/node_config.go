package config

type AbciConfig struct {
	Address   string `yaml:"address"`
	Transport string `yaml:"transport"`
}

type ApiConfig struct {
	Enabled bool   `yaml:"enabled"`
	Address string `yaml:"address"`
}

type RpcConfig struct {
	Url            string `yaml:"url"`
	WsPath         string `yaml:"ws-path"`
	TimeoutSeconds int    `yaml:"timeout-seconds"`
}

type LogConfig struct {
	Debug bool `yaml:"debug"`
}

type NodeConfig struct {
	Type int `yaml:"type"`
}
