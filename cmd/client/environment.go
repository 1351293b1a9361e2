package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/nivschuman/ChainDemocracy/internal/client"
	"github.com/nivschuman/ChainDemocracy/internal/config"
	"github.com/nivschuman/ChainDemocracy/internal/crypto/ppk"
	"github.com/nivschuman/ChainDemocracy/internal/logger"
)

type environment struct {
	config *config.Config
	client *client.Client
	log    *logger.Logger
}

func (env *environment) connect() error {
	c, err := client.New(env.config.RpcConfig)
	if err != nil {
		return err
	}
	env.client = c
	return nil
}

// keyFlags registers -key and -key-file on fs; PRIVATE_KEY is the fallback.
type keyFlags struct {
	hex  *string
	file *string
}

func addKeyFlags(fs *flag.FlagSet) keyFlags {
	return keyFlags{
		hex:  fs.String("key", "", "payer private key in hex"),
		file: fs.String("key-file", "", "file holding the payer private key in hex"),
	}
}

func (flags keyFlags) load() (*ppk.KeyPair, error) {
	privateKeyHex := *flags.hex

	if privateKeyHex == "" && *flags.file != "" {
		data, err := os.ReadFile(*flags.file)
		if err != nil {
			return nil, fmt.Errorf("failed to read key file: %w", err)
		}
		privateKeyHex = strings.TrimSpace(string(data))
	}

	if privateKeyHex == "" {
		privateKeyHex = os.Getenv("PRIVATE_KEY")
	}

	if privateKeyHex == "" {
		return nil, errors.New("no payer key: pass -key, -key-file or set PRIVATE_KEY")
	}

	return ppk.KeyPairFromPrivateHex(privateKeyHex)
}

func (env *environment) builder(flags keyFlags) (*client.Builder, error) {
	keyPair, err := flags.load()
	if err != nil {
		return nil, err
	}
	return client.NewBuilder(env.config.ProgramConfig.Id, keyPair), nil
}

func required(fs *flag.FlagSet, names ...string) error {
	for _, name := range names {
		if fs.Lookup(name).Value.String() == "" {
			return fmt.Errorf("-%s is required", name)
		}
	}
	return nil
}
