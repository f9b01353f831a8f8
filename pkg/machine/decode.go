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
)

// Resolves the mode digit of the given parameter position
func DecodeMode(digit int64, param int, extended bool) (Mode, error) {
	switch {
	case digit == int64(MODE_POSITION):
		return MODE_POSITION, nil
	case digit == int64(MODE_IMMEDIATE):
		return MODE_IMMEDIATE, nil
	case digit == int64(MODE_RELATIVE) && extended:
		return MODE_RELATIVE, nil
	}

	return 0, fmt.Errorf("%w: digit %d for parameter %d", ErrInvalidMode, digit, param)
}

// Splits an instruction word into its operation and one addressing mode per
// parameter. Digits not present in the word default to MODE_POSITION.
func Decode(word int64, extended bool) (Instruction, error) {
	op := Opcode(word % 100)
	info, exists := operations[op]

	if word < 0 || !exists || (info.ext && !extended) {
		return Instruction{}, fmt.Errorf("%w: %d", ErrInvalidOpcode, word)
	}

	inst := Instruction{Op: op}

	if info.params > 0 {
		inst.Modes = make([]Mode, info.params)
	}

	digits := word / 100

	for i := 0; i < info.params; i++ {
		mode, err := DecodeMode(digits%10, i, extended)

		if err != nil {
			return Instruction{}, err
		}

		// Destinations are addresses; only relative addressing changes them
		if info.writes && i == info.params-1 && mode == MODE_IMMEDIATE {
			mode = MODE_POSITION
		}

		inst.Modes[i] = mode
		digits /= 10
	}

	return inst, nil
}

func (inst Instruction) String() string {
	return fmt.Sprintf("%s %v", inst.Op, inst.Modes)
}
