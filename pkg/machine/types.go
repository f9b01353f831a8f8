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

type Options struct {
	Reset ResetPolicy

	// Enables relative addressing, OP_ADJUST_BASE and a tape that grows on
	// writes past its end
	Extended bool
}

type MachineState struct {
	Memory  []int64
	Program int
	Base    int
	Status  Status
	Fault   error
}

type MachineDebugger interface {
	Step(mc *Machine)
	Read(addr int, mc *Machine)
	Write(addr int, mc *Machine)
}

type Instruction struct {
	Op    Opcode
	Modes []Mode
}

type Machine struct {
	State    MachineState
	Options  Options
	Input    *Channel
	Output   *Channel
	Debugger MachineDebugger

	initial []int64
}
