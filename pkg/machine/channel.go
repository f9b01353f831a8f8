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

// Channel is an unbounded first-in-first-out queue of values. It is not safe
// for concurrent use; every channel has one writer and one reader.
type Channel struct {
	values []int64
}

func NewChannel(values ...int64) *Channel {
	ch := &Channel{}
	ch.Push(values...)
	return ch
}

func (ch *Channel) Push(values ...int64) {
	ch.values = append(ch.values, values...)
}

func (ch *Channel) Pop() (int64, error) {
	if len(ch.values) == 0 {
		return 0, ErrChannelEmpty
	}

	value := ch.values[0]
	ch.values = ch.values[1:]

	if len(ch.values) == 0 {
		ch.values = nil
	}

	return value, nil
}

func (ch *Channel) Len() int {
	return len(ch.values)
}

func (ch *Channel) Empty() bool {
	return len(ch.values) == 0
}

// Removes and returns every queued value
func (ch *Channel) Drain() []int64 {
	values := ch.values
	ch.values = nil
	return values
}

func (ch *Channel) Clear() {
	ch.values = nil
}

// Returns a copy of the queued values without consuming them
func (ch *Channel) Values() []int64 {
	values := make([]int64, len(ch.values))
	copy(values, ch.values)
	return values
}
