package main

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/npillmayer/grift/fuzz"
)

// Fuzzing campaigns may be described in TOML files:
//
//    [campaign]
//    iterations   = 5000
//    workers      = 4
//    seed         = 7
//    fresh-every  = 10
//    max-findings = 20
//
//    [target]
//    cmd     = "./consumer"
//    args    = ["--stdin"]
//    timeout = "2s"
//
//    [corpus]
//    load = "corpus.msgpack"
//    save = "corpus.msgpack"
//
// Omitting [target] runs the differential parser target instead of an
// external program.

type campaignConfig struct {
	Campaign struct {
		Iterations  int   `toml:"iterations"`
		Workers     int   `toml:"workers"`
		Seed        int64 `toml:"seed"`
		FreshEvery  int   `toml:"fresh-every"`
		MaxFindings int   `toml:"max-findings"`
	} `toml:"campaign"`
	Target struct {
		Cmd     string   `toml:"cmd"`
		Args    []string `toml:"args"`
		Timeout string   `toml:"timeout"`
	} `toml:"target"`
	Corpus struct {
		Load string `toml:"load"`
		Save string `toml:"save"`
	} `toml:"corpus"`
}

// loadCampaign reads a campaign description from a TOML file.
func loadCampaign(path string) (*campaignConfig, error) {
	var cfg campaignConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read campaign file: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("cannot decode campaign file: %w", err)
	}
	return &cfg, nil
}

// options translates the [campaign] section into runner options, starting
// from the defaults.
func (cfg *campaignConfig) options() fuzz.Options {
	opts := fuzz.DefaultOptions
	if cfg.Campaign.Iterations > 0 {
		opts.Iterations = cfg.Campaign.Iterations
	}
	opts.Workers = cfg.Campaign.Workers
	opts.Seed = cfg.Campaign.Seed
	if cfg.Campaign.FreshEvery > 0 {
		opts.FreshEvery = cfg.Campaign.FreshEvery
	}
	opts.MaxFindings = cfg.Campaign.MaxFindings
	return opts
}

// execTarget builds the external program target of the [target] section, or
// nil if no program is configured.
func (cfg *campaignConfig) execTarget() (*fuzz.ExecTarget, error) {
	if cfg.Target.Cmd == "" {
		return nil, nil
	}
	target := &fuzz.ExecTarget{
		Cmd:  cfg.Target.Cmd,
		Args: cfg.Target.Args,
	}
	if cfg.Target.Timeout != "" {
		d, err := time.ParseDuration(cfg.Target.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid target timeout: %w", err)
		}
		target.Timeout = d
	}
	return target, nil
}
