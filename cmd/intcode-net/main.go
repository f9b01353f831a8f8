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

package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/lassandro/intcode/pkg/config"
	"github.com/lassandro/intcode/pkg/encoding"
	"github.com/lassandro/intcode/pkg/machine"
	"github.com/lassandro/intcode/pkg/network"
)

var helpvar bool
var configvar string
var nodesvar int

const usage = "intcode-net [-config file] [-nodes 50] filename"

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.StringVar(&configvar, "config", "", "Path of an intcode.toml file")
	flag.IntVar(&nodesvar, "nodes", 0, "Node count, overriding the config")
}

func net() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	var cfg *config.Config
	var err error

	if configvar != "" {
		cfg, err = config.Load(configvar)
	} else {
		cfg, err = config.Find(".")
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if nodesvar > 0 {
		cfg.Network.Nodes = nodesvar

		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	logger, err := cfg.Logger()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	defer logger.Sync()
	machine.SetLogger(logger)
	network.SetLogger(logger)

	args := flag.Args()

	if len(args) != 1 {
		logger.Error(usage)
		return 1
	}

	file, err := os.Open(args[0])

	if err != nil {
		logger.Error("open program", zap.Error(err))
		return 1
	}

	program, err := encoding.ReadProgram(file)
	file.Close()

	if err != nil {
		logger.Error("read program", zap.String("file", args[0]), zap.Error(err))
		return 1
	}

	nw, err := network.New(program, cfg.NetworkConfig())

	if err != nil {
		logger.Error("boot network", zap.Error(err))
		return 1
	}

	result, err := nw.Run()

	if err != nil {
		logger.Error("run network", zap.Error(err))
		return 1
	}

	fmt.Printf("first %d\nrepeat %d\n", result.FirstY, result.RepeatY)

	return 0
}

func main() {
	flag.Parse()
	os.Exit(net())
}
