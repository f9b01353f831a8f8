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

type Opcode int64

const (
	OP_ADD           Opcode = 1
	OP_MULTIPLY      Opcode = 2
	OP_INPUT         Opcode = 3
	OP_OUTPUT        Opcode = 4
	OP_JUMP_IF_TRUE  Opcode = 5
	OP_JUMP_IF_FALSE Opcode = 6
	OP_LESS_THAN     Opcode = 7
	OP_EQUALS        Opcode = 8
	OP_TERMINATE     Opcode = 99

	// Extended instruction set only
	OP_ADJUST_BASE Opcode = 9
)

type Mode uint8

const (
	MODE_POSITION  Mode = 0
	MODE_IMMEDIATE Mode = 1

	// Extended instruction set only
	MODE_RELATIVE Mode = 2
)

type Status uint8

const (
	STATUS_WAITING_FOR_INPUT Status = iota
	STATUS_PROCESSING
	STATUS_TERMINATED
)

type ResetPolicy uint8

const (
	// Reset leaves pending input and output in place
	RESET_KEEP_CHANNELS ResetPolicy = iota

	// Reset empties both channels
	RESET_CLEAR_CHANNELS
)

// Maximum number of parameters taken by any instruction
const MAX_PARAMS = 3

// Largest tape, in words, an extended machine may grow to
const MAX_MEMORY = 1 << 24

// The destination of a writing instruction is always its last parameter
type operation struct {
	name   string
	params int
	writes bool
	ext    bool
}

var operations = map[Opcode]operation{
	OP_ADD:           {"ADD", 3, true, false},
	OP_MULTIPLY:      {"MULTIPLY", 3, true, false},
	OP_INPUT:         {"INPUT", 1, true, false},
	OP_OUTPUT:        {"OUTPUT", 1, false, false},
	OP_JUMP_IF_TRUE:  {"JUMP_IF_TRUE", 2, false, false},
	OP_JUMP_IF_FALSE: {"JUMP_IF_FALSE", 2, false, false},
	OP_LESS_THAN:     {"LESS_THAN", 3, true, false},
	OP_EQUALS:        {"EQUALS", 3, true, false},
	OP_ADJUST_BASE:   {"ADJUST_BASE", 1, false, true},
	OP_TERMINATE:     {"TERMINATE", 0, false, false},
}

func (op Opcode) String() string {
	if info, exists := operations[op]; exists {
		return info.name
	}

	return "UNKNOWN"
}

// Number of parameters the operation takes, or -1 for an unknown opcode
func (op Opcode) Params() int {
	if info, exists := operations[op]; exists {
		return info.params
	}

	return -1
}

func (m Mode) String() string {
	switch m {
	case MODE_POSITION:
		return "POSITION"
	case MODE_IMMEDIATE:
		return "IMMEDIATE"
	case MODE_RELATIVE:
		return "RELATIVE"
	default:
		return "UNKNOWN"
	}
}

func (s Status) String() string {
	switch s {
	case STATUS_WAITING_FOR_INPUT:
		return "WAITING_FOR_INPUT"
	case STATUS_PROCESSING:
		return "PROCESSING"
	case STATUS_TERMINATED:
		return "TERMINATED"
	default:
		return "UNKNOWN"
	}
}
