package config

import (
	"github.com/nivschuman/ChainDemocracy/internal/address"
)

// DefaultProgramId is used when no program id is configured.
var DefaultProgramId = address.FromPublicKey([]byte("ChainDemocracy"))

type ProgramConfig struct {
	Id                        address.Address `yaml:"id"`
	EnforceElectionWindow     bool            `yaml:"enforce-election-window"`
	EnforceRegistrationWindow bool            `yaml:"enforce-registration-window"`
}

func (p *ProgramConfig) UnmarshalYAML(unmarshal func(any) error) error {
	var raw struct {
		Id                        string `yaml:"id"`
		EnforceElectionWindow     bool   `yaml:"enforce-election-window"`
		EnforceRegistrationWindow bool   `yaml:"enforce-registration-window"`
	}

	if err := unmarshal(&raw); err != nil {
		return err
	}

	p.Id = DefaultProgramId
	if raw.Id != "" {
		id, err := address.FromHex(raw.Id)
		if err != nil {
			return err
		}
		p.Id = id
	}

	p.EnforceElectionWindow = raw.EnforceElectionWindow
	p.EnforceRegistrationWindow = raw.EnforceRegistrationWindow
	return nil
}
