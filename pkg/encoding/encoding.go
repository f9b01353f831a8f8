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

package encoding

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var ErrEmptyProgram = errors.New("Empty program")

// Decodes a program literal: a single line of comma-separated base-10 integers
func ParseProgram(s string) ([]int64, error) {
	s = strings.TrimSpace(s)

	if len(s) == 0 {
		return nil, ErrEmptyProgram
	}

	fields := strings.Split(s, ",")
	program := make([]int64, len(fields))

	for i, field := range fields {
		value, err := strconv.ParseInt(strings.TrimSpace(field), 10, 64)

		if err != nil {
			return nil, fmt.Errorf("program value %d: %w", i, err)
		}

		program[i] = value
	}

	return program, nil
}

// Reads a program literal from its first line. Trailing lines are ignored.
func ReadProgram(reader io.Reader) ([]int64, error) {
	data, err := io.ReadAll(reader)

	if err != nil {
		return nil, err
	}

	line, _, _ := strings.Cut(string(data), "\n")

	return ParseProgram(line)
}

func FormatProgram(program []int64) string {
	var builder strings.Builder

	for i, value := range program {
		if i > 0 {
			builder.WriteByte(',')
		}

		builder.WriteString(strconv.FormatInt(value, 10))
	}

	return builder.String()
}

// Decodes a base-10 string in the formats: #123, 123, -123
func DecodeInt(s string) (int64, error) {
	if i := strings.Index(s, "#"); i == 0 {
		s = s[1:]
	}

	return strconv.ParseInt(s, 10, 64)
}

// Decodes a tape address in the formats: 0x1F, x1F, #31, 31
func DecodeAddr(s string) (int, error) {
	var result int64
	var err error

	if i := strings.IndexAny(s, "xX"); i == 0 || i == 1 {
		if i == 0 {
			s = "0" + s
		}

		result, err = strconv.ParseInt(s, 0, 64)
	} else {
		result, err = DecodeInt(s)
	}

	if err != nil {
		return 0, err
	}

	if result < 0 {
		return 0, errors.New("Invalid address")
	}

	return int(result), nil
}

// Decodes a comma-separated list of base-10 integers, as used for inputs and
// phase settings on the command line. An empty string decodes to nil.
func DecodeList(s string) ([]int64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	return ParseProgram(s)
}
