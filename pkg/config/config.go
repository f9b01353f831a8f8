// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package config handles intcode.toml configuration shared by the binaries.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lassandro/intcode/pkg/machine"
	"github.com/lassandro/intcode/pkg/network"
)

const FILENAME = "intcode.toml"

type Config struct {
	Machine  Machine  `toml:"machine"`
	Network  Network  `toml:"network"`
	Pipeline Pipeline `toml:"pipeline"`
	Log      Log      `toml:"log"`

	// Path of the file the config was read from, empty for defaults
	Path string `toml:"-"`
}

type Machine struct {
	// "keep" or "clear"
	Reset    string `toml:"reset"`
	Extended bool   `toml:"extended"`
}

type Network struct {
	Nodes int   `toml:"nodes"`
	NAT   int64 `toml:"nat"`
	Idle  int64 `toml:"idle"`
}

type Pipeline struct {
	Phases   []int64 `toml:"phases"`
	Feedback []int64 `toml:"feedback"`
}

type Log struct {
	// debug, info, warn or error
	Level string `toml:"level"`
}

func Default() *Config {
	return &Config{
		Machine: Machine{
			Reset:    "keep",
			Extended: true,
		},
		Network: Network{
			Nodes: network.DEFAULT_NODES,
			NAT:   network.DEFAULT_NAT_ADDRESS,
			Idle:  network.DEFAULT_IDLE_INPUT,
		},
		Pipeline: Pipeline{
			Phases:   []int64{0, 1, 2, 3, 4},
			Feedback: []int64{5, 6, 7, 8, 9},
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Decodes the file at path over the defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	meta, err := toml.DecodeFile(path, cfg)

	if err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown key %q in %s", undecoded[0].String(), path)
	}

	cfg.Path = path

	return cfg, cfg.Validate()
}

// Walks up from dir looking for intcode.toml. Returns the defaults when no
// file is found.
func Find(dir string) (*Config, error) {
	dir, err := filepath.Abs(dir)

	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	for {
		path := filepath.Join(dir, FILENAME)

		if _, err := os.Stat(path); err == nil {
			return Load(path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}

		parent := filepath.Dir(dir)

		if parent == dir {
			return Default(), nil
		}

		dir = parent
	}
}

func (cfg *Config) Validate() error {
	if _, err := cfg.ResetPolicy(); err != nil {
		return err
	}

	if _, err := cfg.Level(); err != nil {
		return err
	}

	if cfg.Network.Nodes <= 0 {
		return fmt.Errorf("network.nodes must be positive, have %d", cfg.Network.Nodes)
	}

	if cfg.Network.NAT >= 0 && cfg.Network.NAT < int64(cfg.Network.Nodes) {
		return fmt.Errorf(
			"network.nat %d collides with a node address", cfg.Network.NAT,
		)
	}

	return nil
}

func (cfg *Config) ResetPolicy() (machine.ResetPolicy, error) {
	switch cfg.Machine.Reset {
	case "", "keep":
		return machine.RESET_KEEP_CHANNELS, nil
	case "clear":
		return machine.RESET_CLEAR_CHANNELS, nil
	default:
		return 0, fmt.Errorf("machine.reset must be keep or clear, have %q", cfg.Machine.Reset)
	}
}

func (cfg *Config) MachineOptions() machine.Options {
	policy, _ := cfg.ResetPolicy()

	return machine.Options{
		Reset:    policy,
		Extended: cfg.Machine.Extended,
	}
}

func (cfg *Config) NetworkConfig() network.Config {
	return network.Config{
		Nodes:     cfg.Network.Nodes,
		NAT:       cfg.Network.NAT,
		IdleInput: cfg.Network.Idle,
		Machine:   cfg.MachineOptions(),
	}
}

func (cfg *Config) Level() (zapcore.Level, error) {
	return zapcore.ParseLevel(cfg.Log.Level)
}

// Console logger on stderr at the configured level
func (cfg *Config) Logger() (*zap.Logger, error) {
	level, err := cfg.Level()

	if err != nil {
		return nil, err
	}

	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.DisableStacktrace = true
	zcfg.OutputPaths = []string{"stderr"}

	return zcfg.Build()
}
