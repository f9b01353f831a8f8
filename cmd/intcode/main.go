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
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/lassandro/intcode/pkg/config"
	"github.com/lassandro/intcode/pkg/debugger"
	"github.com/lassandro/intcode/pkg/driver"
	"github.com/lassandro/intcode/pkg/encoding"
	"github.com/lassandro/intcode/pkg/machine"
	"github.com/lassandro/intcode/pkg/network"
	"github.com/lassandro/intcode/pkg/pipeline"
)

var helpvar bool
var debugvar bool
var asciivar bool
var rawvar bool
var inputvar string
var configvar string
var shouldexit bool

const usage = "intcode [-config file] [-in 1,2,3] [-ascii [-raw]] [-debug] filename"

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(&debugvar, "debug", false, "Runs the machine in a debug CLI")
	flag.BoolVar(
		&asciivar, "ascii", false,
		"Talks to the program line by line, sending stdin as character codes",
	)
	flag.BoolVar(
		&rawvar, "raw", false,
		"With -ascii, sends every keystroke as soon as it is typed",
	)
	flag.StringVar(
		&inputvar, "in", "",
		"Comma-separated values queued as input before the first run",
	)
	flag.StringVar(
		&configvar, "config", "",
		"Path of an intcode.toml file, found by walking up from the "+
			"working directory when omitted",
	)
}

func loadConfig() (*config.Config, error) {
	if configvar != "" {
		return config.Load(configvar)
	}

	return config.Find(".")
}

func installLogger(logger *zap.Logger) {
	machine.SetLogger(logger)
	driver.SetLogger(logger)
	pipeline.SetLogger(logger)
	network.SetLogger(logger)
}

func intcode() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	cfg, err := loadConfig()

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
	installLogger(logger)

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

	inputs, err := encoding.DecodeList(inputvar)

	if err != nil {
		logger.Error("decode inputs", zap.Error(err))
		return 1
	}

	mc := machine.New(program)
	mc.Options = cfg.MachineOptions()
	mc.AddInput(inputs...)

	logger.Debug(
		"program loaded",
		zap.String("file", args[0]),
		zap.Int("size", len(program)),
		zap.Bool("extended", mc.Options.Extended),
	)

	switch {
	case debugvar:
		return runDebug(mc, logger)
	case asciivar && rawvar:
		return runRaw(mc, logger)
	case asciivar:
		return runASCII(mc, os.Stdin, logger)
	}

	status, err := mc.Run()

	if err != nil {
		logger.Error("run", zap.Error(err))
		return 1
	}

	for _, value := range mc.Output.Drain() {
		fmt.Println(value)
	}

	if status == machine.STATUS_WAITING_FOR_INPUT {
		logger.Warn("program is waiting for more input")
		return 2
	}

	return 0
}

func runDebug(mc *machine.Machine, logger *zap.Logger) int {
	dbg := &debugger.Debugger{
		Break:       true,
		HandleBreak: handleBreak,
		HandleRead:  handleRead,
		HandleWrite: handleWrite,
	}
	mc.Debugger = dbg

	c := make(chan os.Signal, 1)
	defer close(c)

	signal.Notify(c, os.Interrupt)
	defer signal.Stop(c)

	go func() {
		for range c {
			fmt.Println()
			dbg.Break = true
		}
	}()

	debugREPL(dbg, mc)

	for !shouldexit {
		status, err := mc.Step()

		if err != nil {
			logger.Error("run", zap.Error(err))
			dbg.PrintState(mc)
			return 1
		}

		switch status {
		case machine.STATUS_TERMINATED:
			fmt.Println("Program terminated")
			debugREPL(dbg, mc)

			if mc.Terminated() {
				shouldexit = true
			}

		case machine.STATUS_WAITING_FOR_INPUT:
			fmt.Println("Program waiting for input (use 'input')")
			debugREPL(dbg, mc)

			if mc.Input.Empty() {
				shouldexit = true
			}
		}
	}

	for _, value := range mc.Output.Drain() {
		fmt.Println(value)
	}

	return 0
}

func runASCII(mc *machine.Machine, input io.Reader, logger *zap.Logger) int {
	ascii := driver.NewASCII(driver.New(mc))

	if err := ascii.Start(); err != nil {
		logger.Error("run", zap.Error(err))
		return 1
	}

	printASCII(ascii)

	reader := bufio.NewReader(input)

	for !ascii.Terminated() {
		line, err := reader.ReadString('\n')

		if err != nil && !errors.Is(err, io.EOF) {
			logger.Error("read stdin", zap.Error(err))
			return 1
		}

		if len(line) == 0 && err != nil {
			break
		}

		if cmdErr := ascii.Command(strings.TrimRight(line, "\r\n")); cmdErr != nil {
			logger.Error("run", zap.Error(cmdErr))
			return 1
		}

		printASCII(ascii)

		if err != nil {
			break
		}
	}

	return 0
}

func printASCII(ascii *driver.ASCII) {
	text, answer, ok := ascii.Read()
	fmt.Print(text)

	if ok {
		fmt.Println(answer)
	}
}

func runRaw(mc *machine.Machine, logger *zap.Logger) int {
	if !rawTermSupported {
		logger.Error("-raw is not supported on this platform")
		return 1
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		logger.Error("-raw needs an interactive terminal")
		return 1
	}

	d := driver.New(mc)

	enterRawTerm()
	defer exitRawTerm()

	key := make([]byte, 1)
	var values []int64

	for !d.Terminated() {
		output, err := d.Send(values...)

		if err != nil {
			fmt.Print("\r\n")
			logger.Error("run", zap.Error(err))
			return 1
		}

		for _, value := range output {
			switch {
			case value == driver.NEWLINE:
				fmt.Print("\r\n")
			case value >= 0 && value < 128:
				fmt.Printf("%c", value)
			default:
				fmt.Printf("%d\r\n", value)
			}
		}

		if d.Terminated() {
			break
		}

		n, err := os.Stdin.Read(key)

		if err != nil || n == 0 {
			return 0
		}

		values = values[:0]

		switch key[0] {
		case 0x04:
			return 0
		case '\r':
			values = append(values, driver.NEWLINE)
		default:
			values = append(values, int64(key[0]))
		}
	}

	return 0
}

func main() {
	flag.Parse()
	os.Exit(intcode())
}
