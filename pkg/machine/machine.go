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

package machine

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/lassandro/intcode/pkg/encoding"
)

func New(program []int64) *Machine {
	mc := &Machine{
		Input:   &Channel{},
		Output:  &Channel{},
		initial: append([]int64(nil), program...),
	}

	mc.State.Reset(mc.initial)

	return mc
}

// Builds a machine from a comma-separated program literal
func Parse(src string) (*Machine, error) {
	program, err := encoding.ParseProgram(src)

	if err != nil {
		return nil, err
	}

	return New(program), nil
}

func (mc *MachineState) Reset(program []int64) {
	mc.Memory = append(mc.Memory[:0], program...)
	mc.Program = 0
	mc.Base = 0
	mc.Status = STATUS_WAITING_FOR_INPUT
	mc.Fault = nil
}

// Restores the tape and instruction pointer to their initial values. Pending
// input and output survive unless Options.Reset is RESET_CLEAR_CHANNELS.
func (mc *Machine) Reset() {
	mc.State.Reset(mc.initial)

	if mc.Options.Reset == RESET_CLEAR_CHANNELS {
		mc.Input.Clear()
		mc.Output.Clear()
	}
}

// Returns a copy of the program the machine was built from
func (mc *Machine) Initial() []int64 {
	return append([]int64(nil), mc.initial...)
}

func (mc *Machine) Status() Status {
	return mc.State.Status
}

func (mc *Machine) Terminated() bool {
	return mc.State.Status == STATUS_TERMINATED
}

func (mc *Machine) AddInput(values ...int64) {
	mc.Input.Push(values...)
}

func (mc *Machine) GetOutput() (int64, error) {
	return mc.Output.Pop()
}

func (mc *Machine) Peek(addr int) (int64, error) {
	return mc.fetch(addr)
}

func (mc *Machine) Poke(addr int, value int64) error {
	if addr < 0 || addr >= len(mc.State.Memory) {
		if addr < 0 || addr >= MAX_MEMORY || !mc.Options.Extended {
			return mc.outOfBounds("write", addr)
		}

		mc.grow(addr + 1)
	}

	mc.State.Memory[addr] = value

	return nil
}

func (mc *Machine) outOfBounds(access string, addr int) error {
	return fmt.Errorf(
		"%w: %s %d (size %d)", ErrOutOfBounds, access, addr,
		len(mc.State.Memory),
	)
}

func (mc *Machine) grow(size int) {
	memory := mc.State.Memory
	length := len(memory)

	if size <= cap(memory) {
		memory = memory[:size]
		clear(memory[length:])
	} else {
		memory = make([]int64, size, min(size*2, MAX_MEMORY))
		copy(memory, mc.State.Memory)
	}

	mc.State.Memory = memory
}

// Reads a word of the instruction stream without notifying the debugger
func (mc *Machine) fetch(addr int) (int64, error) {
	if addr < 0 {
		return 0, mc.outOfBounds("read", addr)
	}

	if addr >= len(mc.State.Memory) {
		if !mc.Options.Extended {
			return 0, mc.outOfBounds("read", addr)
		}

		return 0, nil
	}

	return mc.State.Memory[addr], nil
}

func (mc *Machine) read(addr int) (int64, error) {
	value, err := mc.fetch(addr)

	if err != nil {
		return 0, err
	}

	if mc.Debugger != nil {
		mc.Debugger.Read(addr, mc)
	}

	return value, nil
}

func (mc *Machine) write(addr int, value int64) error {
	if err := mc.Poke(addr, value); err != nil {
		return err
	}

	if mc.Debugger != nil {
		mc.Debugger.Write(addr, mc)
	}

	return nil
}

// Resolves parameter i of the instruction at the pointer to a value
func (mc *Machine) load(inst Instruction, i int) (int64, error) {
	param, err := mc.fetch(mc.State.Program + 1 + i)

	if err != nil {
		return 0, err
	}

	switch inst.Modes[i] {
	case MODE_IMMEDIATE:
		return param, nil
	case MODE_RELATIVE:
		return mc.read(mc.State.Base + int(param))
	default:
		return mc.read(int(param))
	}
}

func (mc *Machine) load2(inst Instruction) (int64, int64, error) {
	a, err := mc.load(inst, 0)

	if err != nil {
		return 0, 0, err
	}

	b, err := mc.load(inst, 1)

	if err != nil {
		return 0, 0, err
	}

	return a, b, nil
}

// Writes value to the address named by parameter i
func (mc *Machine) store(inst Instruction, i int, value int64) error {
	param, err := mc.fetch(mc.State.Program + 1 + i)

	if err != nil {
		return err
	}

	addr := int(param)

	if inst.Modes[i] == MODE_RELATIVE {
		addr += mc.State.Base
	}

	return mc.write(addr, value)
}

func (mc *Machine) fail(word int64, err error) (Status, error) {
	fault := &Fault{Program: mc.State.Program, Word: word, Err: err}
	mc.State.Fault = fault

	Logger().Debug(
		"machine fault",
		zap.Int("program", fault.Program),
		zap.Int64("word", word),
		zap.Error(err),
	)

	return mc.State.Status, fault
}

// Decodes the instruction at the pointer without executing it
func (mc *Machine) Next() (Instruction, error) {
	word, err := mc.fetch(mc.State.Program)

	if err != nil {
		return Instruction{}, err
	}

	return Decode(word, mc.Options.Extended)
}

// Executes at most one instruction. The status is derived from the next
// instruction before anything runs: an INPUT with no pending input or a
// TERMINATE leaves the machine untouched.
func (mc *Machine) Step() (Status, error) {
	if mc.State.Fault != nil {
		return mc.State.Status, mc.State.Fault
	}

	word, err := mc.fetch(mc.State.Program)

	if err != nil {
		return mc.fail(word, err)
	}

	inst, err := Decode(word, mc.Options.Extended)

	if err != nil {
		return mc.fail(word, err)
	}

	switch {
	case inst.Op == OP_INPUT && mc.Input.Empty():
		mc.State.Status = STATUS_WAITING_FOR_INPUT
		return mc.State.Status, nil

	case inst.Op == OP_TERMINATE:
		mc.State.Status = STATUS_TERMINATED
		return mc.State.Status, nil
	}

	mc.State.Status = STATUS_PROCESSING

	if err := mc.execute(inst); err != nil {
		return mc.fail(word, err)
	}

	if mc.Debugger != nil {
		mc.Debugger.Step(mc)
	}

	return mc.State.Status, nil
}

func (mc *Machine) execute(inst Instruction) error {
	next := mc.State.Program + 1 + len(inst.Modes)

	switch inst.Op {
	// ADD  |a|b|c| mem[c] = a + b
	case OP_ADD:
		a, b, err := mc.load2(inst)

		if err != nil {
			return err
		}

		if err := mc.store(inst, 2, a+b); err != nil {
			return err
		}

	// MUL  |a|b|c| mem[c] = a * b
	case OP_MULTIPLY:
		a, b, err := mc.load2(inst)

		if err != nil {
			return err
		}

		if err := mc.store(inst, 2, a*b); err != nil {
			return err
		}

	// IN   |a|     mem[a] = next input
	case OP_INPUT:
		value, err := mc.Input.Pop()

		if err != nil {
			return err
		}

		if err := mc.store(inst, 0, value); err != nil {
			return err
		}

	// OUT  |a|     emit a
	case OP_OUTPUT:
		a, err := mc.load(inst, 0)

		if err != nil {
			return err
		}

		mc.Output.Push(a)

	// JT   |a|b|   if a != 0 jump to b
	case OP_JUMP_IF_TRUE:
		a, b, err := mc.load2(inst)

		if err != nil {
			return err
		}

		if a != 0 {
			next = int(b)
		}

	// JF   |a|b|   if a == 0 jump to b
	case OP_JUMP_IF_FALSE:
		a, b, err := mc.load2(inst)

		if err != nil {
			return err
		}

		if a == 0 {
			next = int(b)
		}

	// LT   |a|b|c| mem[c] = a < b
	case OP_LESS_THAN:
		a, b, err := mc.load2(inst)

		if err != nil {
			return err
		}

		var result int64
		if a < b {
			result = 1
		}

		if err := mc.store(inst, 2, result); err != nil {
			return err
		}

	// EQ   |a|b|c| mem[c] = a == b
	case OP_EQUALS:
		a, b, err := mc.load2(inst)

		if err != nil {
			return err
		}

		var result int64
		if a == b {
			result = 1
		}

		if err := mc.store(inst, 2, result); err != nil {
			return err
		}

	// ARB  |a|     base += a
	case OP_ADJUST_BASE:
		a, err := mc.load(inst, 0)

		if err != nil {
			return err
		}

		mc.State.Base += int(a)

	default:
		return fmt.Errorf("%w: %d", ErrInvalidOpcode, inst.Op)
	}

	mc.State.Program = next

	return nil
}

// Executes instructions until the machine needs input it does not have or
// reaches TERMINATE. Calling Run on a terminated machine does nothing.
func (mc *Machine) Run() (Status, error) {
	for {
		status, err := mc.Step()

		if err != nil {
			return status, err
		}

		if status != STATUS_PROCESSING {
			Logger().Debug(
				"machine suspended",
				zap.Stringer("status", status),
				zap.Int("program", mc.State.Program),
				zap.Int("pending_outputs", mc.Output.Len()),
			)

			return status, nil
		}
	}
}
