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

// Package pipeline wires machines into a feedback ring: the output of machine
// i is the input of machine i+1, and the last machine feeds the first.
package pipeline

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/lassandro/intcode/pkg/machine"
)

var ErrStalled = errors.New("pipeline stalled")

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

type Ring struct {
	Machines []*machine.Machine
	Phases   []int64
}

// Builds one machine per phase, all running the same program
func New(program []int64, phases []int64, opts machine.Options) *Ring {
	ring := &Ring{
		Machines: make([]*machine.Machine, len(phases)),
		Phases:   append([]int64(nil), phases...),
	}

	for i := range phases {
		ring.Machines[i] = machine.New(program)
		ring.Machines[i].Options = opts
	}

	return ring
}

// Resets every machine with empty channels, seeds each with its phase, feeds
// signal to the first machine and runs the ring round-robin until every
// machine has terminated. The result is the last value delivered to the
// first machine.
func (r *Ring) Run(signal int64) (int64, error) {
	count := len(r.Machines)

	if count == 0 {
		return signal, nil
	}

	for i, mc := range r.Machines {
		mc.Reset()
		mc.Input.Clear()
		mc.Output.Clear()
		mc.AddInput(r.Phases[i])
	}

	r.Machines[0].AddInput(signal)
	last := signal

	for round := 0; ; round++ {
		forwarded := 0
		terminated := 0

		for i, mc := range r.Machines {
			status, err := mc.Run()

			if err != nil {
				return last, fmt.Errorf("machine %d: %w", i, err)
			}

			next := (i + 1) % count

			for !mc.Output.Empty() {
				value, _ := mc.Output.Pop()
				r.Machines[next].AddInput(value)
				forwarded++

				if next == 0 {
					last = value
				}
			}

			if status == machine.STATUS_TERMINATED {
				terminated++
			}
		}

		Logger().Debug(
			"pipeline round",
			zap.Int("round", round),
			zap.Int("forwarded", forwarded),
			zap.Int("terminated", terminated),
		)

		if terminated == count {
			return last, nil
		}

		if forwarded == 0 {
			return last, fmt.Errorf("%w after round %d", ErrStalled, round)
		}
	}
}

// Runs a fresh ring for every ordering of phases and returns the largest
// result together with the ordering that produced it.
func Search(
	program []int64,
	phases []int64,
	signal int64,
	opts machine.Options,
) (int64, []int64, error) {
	var best int64
	var bestOrder []int64
	var searchErr error

	permute(append([]int64(nil), phases...), 0, func(order []int64) bool {
		result, err := New(program, order, opts).Run(signal)

		if err != nil {
			searchErr = fmt.Errorf("phases %v: %w", order, err)
			return false
		}

		if bestOrder == nil || result > best {
			best = result
			bestOrder = append([]int64(nil), order...)
		}

		return true
	})

	if searchErr != nil {
		return 0, nil, searchErr
	}

	Logger().Info(
		"pipeline search finished",
		zap.Int64("signal", best),
		zap.Int64s("phases", bestOrder),
	)

	return best, bestOrder, nil
}

// Swap-based recursive permutation; visit returns false to stop
func permute(values []int64, k int, visit func([]int64) bool) bool {
	if k == len(values) {
		return visit(values)
	}

	for i := k; i < len(values); i++ {
		values[k], values[i] = values[i], values[k]

		if !permute(values, k+1, visit) {
			return false
		}

		values[k], values[i] = values[i], values[k]
	}

	return true
}
