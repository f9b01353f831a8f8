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
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/lassandro/intcode/pkg/config"
	"github.com/lassandro/intcode/pkg/driver"
	"github.com/lassandro/intcode/pkg/encoding"
	"github.com/lassandro/intcode/pkg/machine"
)

var helpvar bool
var autovar bool
var freevar bool
var configvar string
var speedvar time.Duration

const usage = "intcode-arcade [-config file] [-auto] [-free] [-speed 30ms] filename"

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(&autovar, "auto", false, "Starts with the paddle following the ball")
	flag.BoolVar(&freevar, "free", true, "Writes 2 to address 0 to play for free")
	flag.StringVar(&configvar, "config", "", "Path of an intcode.toml file")
	flag.DurationVar(&speedvar, "speed", 30*time.Millisecond, "Autoplay frame delay")
}

func arcade() int {
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
	driver.SetLogger(logger)

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

	mc := machine.New(program)
	mc.Options = cfg.MachineOptions()

	game, err := driver.NewArcade(mc, freevar)

	if err != nil {
		logger.Error("insert coin", zap.Error(err))
		return 1
	}

	// Without a terminal the game plays itself and only the result is shown
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		score, err := game.Play()

		if err != nil {
			logger.Error("play", zap.Error(err))
			return 1
		}

		fmt.Printf(
			"score %d\nblocks %d\n",
			score, game.Screen.Count(driver.TILE_BLOCK),
		)

		return 0
	}

	if _, err := tea.NewProgram(
		newArcadeModel(game, autovar, speedvar),
	).Run(); err != nil {
		logger.Error("display", zap.Error(err))
		return 1
	}

	return 0
}

func main() {
	flag.Parse()
	os.Exit(arcade())
}
