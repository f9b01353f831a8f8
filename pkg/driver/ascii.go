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

package driver

import (
	"strings"
)

const NEWLINE = 10

// ASCII speaks the line protocol: commands are sent one character code at a
// time terminated by a newline, and output values below 128 are text.
type ASCII struct {
	conn    Conn
	pending []int64
}

func NewASCII(conn Conn) *ASCII {
	return &ASCII{conn: conn}
}

// Runs the machine without input, collecting its opening prompt
func (a *ASCII) Start() error {
	return a.send()
}

func (a *ASCII) Command(line string) error {
	values := make([]int64, 0, len(line)+1)

	for i := 0; i < len(line); i++ {
		values = append(values, int64(line[i]))
	}

	return a.send(append(values, NEWLINE)...)
}

func (a *ASCII) send(values ...int64) error {
	output, err := a.conn.Send(values...)

	if err != nil {
		return err
	}

	a.pending = append(a.pending, output...)

	return nil
}

// Consumes pending output. Text stops at the first value outside the ASCII
// range, which is returned as the answer.
func (a *ASCII) Read() (text string, answer int64, ok bool) {
	var builder strings.Builder

	for i, value := range a.pending {
		if value < 0 || value > 127 {
			a.pending = a.pending[i+1:]
			return builder.String(), value, true
		}

		builder.WriteByte(byte(value))
	}

	a.pending = nil

	return builder.String(), 0, false
}

func (a *ASCII) Terminated() bool {
	return a.conn.Terminated()
}
