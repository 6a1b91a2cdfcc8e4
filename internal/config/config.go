// Package config loads the CLI/config surface of spec §6's FuzzParam from
// YAML via viper, adapted from the teacher's own config.Load/LoadConfig.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Order selects which contract in contract_info the run treats as primary
// when both a main and an attacker contract are present (spec §6).
type Order string

const (
	OrderFirst  Order = "FIRST"
	OrderSecond Order = "SECOND"
)

// ContractEntry is one element of contract_info: either the main contract
// under test or its attacker counterpart.
type ContractEntry struct {
	Name   string `mapstructure:"name"`
	IsMain bool   `mapstructure:"is_main"`
}

// FuzzParam is the set of fields the core consumes from CLI/config (spec
// §6): contract_info, attacker_name, is_prefuzz, mode, order, duration,
// reporter, case_num.
type FuzzParam struct {
	ContractInfo []ContractEntry `mapstructure:"contract_info"`
	AttackerName string          `mapstructure:"attacker_name"`
	IsPreFuzz    bool            `mapstructure:"is_prefuzz"`
	Mode         int             `mapstructure:"mode"`
	Order        Order           `mapstructure:"order"`
	Duration     int             `mapstructure:"duration"` // seconds
	Reporter     string          `mapstructure:"reporter"` // TERMINAL | JSON | BOTH
	CaseNum      int             `mapstructure:"case_num"`

	LogLevel string `mapstructure:"log_level"`
	LogDir   string `mapstructure:"log_dir"`
}

// MainContract returns the contract_info entry marked is_main.
func (p *FuzzParam) MainContract() (ContractEntry, bool) {
	for _, c := range p.ContractInfo {
		if c.IsMain {
			return c, true
		}
	}
	return ContractEntry{}, false
}

// AttackerContract returns the zero-or-one non-main contract_info entry.
func (p *FuzzParam) AttackerContract() (ContractEntry, bool) {
	for _, c := range p.ContractInfo {
		if !c.IsMain {
			return c, true
		}
	}
	return ContractEntry{}, false
}

func applyDefaults(p *FuzzParam) {
	if p.Duration == 0 {
		p.Duration = 3600
	}
	if p.Reporter == "" {
		p.Reporter = "TERMINAL"
	}
	if p.CaseNum == 0 {
		p.CaseNum = 1
	}
	if p.Order == "" {
		p.Order = OrderFirst
	}
	if p.LogLevel == "" {
		p.LogLevel = "info"
	}
}

// Load reads configFileName (without extension) from the usual search
// paths and unmarshals its "fuzz" top-level object into a FuzzParam,
// falling back to unmarshaling the whole file for bare fuzz-param YAML.
// Environment variable placeholders in string values are resolved before
// unmarshaling (spec's ambient config concern, not named by the spec
// itself but carried from the teacher's own config loader).
func Load(configFileName string) (*FuzzParam, error) {
	v := viper.New()
	v.SetConfigName(configFileName)
	v.SetConfigType("yaml")
	v.AddConfigPath("configs")
	v.AddConfigPath("../configs")
	v.AddConfigPath("../../configs")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config: failed to read %s: %w", configFileName, err)
	}

	applyEnvResolution(v)

	param := &FuzzParam{}
	if v.IsSet("fuzz") {
		if err := v.UnmarshalKey("fuzz", param); err != nil {
			return nil, fmt.Errorf("config: failed to unmarshal fuzz params: %w", err)
		}
	} else if err := v.Unmarshal(param); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal fuzz params: %w", err)
	}

	applyDefaults(param)
	return param, nil
}
