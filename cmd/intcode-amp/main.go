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
	"github.com/lassandro/intcode/pkg/pipeline"
)

var helpvar bool
var feedbackvar bool
var phasesvar string
var configvar string
var signalvar int64

const usage = "intcode-amp [-config file] [-feedback] [-phases 0,1,2,3,4] [-signal 0] filename"

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(
		&feedbackvar, "feedback", false,
		"Searches the feedback phase set instead of the single-pass one",
	)
	flag.StringVar(
		&phasesvar, "phases", "",
		"Comma-separated phase settings, overriding the config",
	)
	flag.StringVar(&configvar, "config", "", "Path of an intcode.toml file")
	flag.Int64Var(&signalvar, "signal", 0, "Signal fed to the first amplifier")
}

func amp() int {
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

	logger, err := cfg.Logger()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	defer logger.Sync()
	machine.SetLogger(logger)
	pipeline.SetLogger(logger)

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

	phases := cfg.Pipeline.Phases

	if feedbackvar {
		phases = cfg.Pipeline.Feedback
	}

	if phasesvar != "" {
		if phases, err = encoding.DecodeList(phasesvar); err != nil {
			logger.Error("decode phases", zap.Error(err))
			return 1
		}
	}

	if len(phases) == 0 {
		logger.Error("no phase settings")
		return 1
	}

	best, order, err := pipeline.Search(
		program, phases, signalvar, cfg.MachineOptions(),
	)

	if err != nil {
		logger.Error("search", zap.Error(err))
		return 1
	}

	fmt.Printf("%d %s\n", best, encoding.FormatProgram(order))

	return 0
}

func main() {
	flag.Parse()
	os.Exit(amp())
}
