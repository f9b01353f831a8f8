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

// Package driver runs a single machine as a request/response actor: the caller
// sends one command, the machine runs to its next suspension point and the
// caller decides on the next command from whatever was produced.
package driver

import (
	"sync"

	"go.uber.org/zap"

	"github.com/lassandro/intcode/pkg/machine"
)

var (
	logger     *zap.Logger
	loggerOnce sync.Once
)

func Logger() *zap.Logger {
	loggerOnce.Do(func() {
		if logger == nil {
			logger = zap.NewNop()
		}
	})
	return logger
}

func SetLogger(l *zap.Logger) {
	logger = l
}

// Conn is the request/response side of a machine
type Conn interface {
	Send(values ...int64) ([]int64, error)
	Terminated() bool
}

type Point struct {
	X int
	Y int
}

func (p Point) Add(other Point) Point {
	return Point{p.X + other.X, p.Y + other.Y}
}

type Driver struct {
	mc *machine.Machine
}

func New(mc *machine.Machine) *Driver {
	return &Driver{mc: mc}
}

// Queues values as input, runs the machine until it suspends and returns
// everything it produced.
func (d *Driver) Send(values ...int64) ([]int64, error) {
	d.mc.AddInput(values...)

	if _, err := d.mc.Run(); err != nil {
		return nil, err
	}

	return d.mc.Output.Drain(), nil
}

func (d *Driver) Terminated() bool {
	return d.mc.Terminated()
}

func (d *Driver) Machine() *machine.Machine {
	return d.mc
}
