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
	"fmt"
)

// Painter drives the hull-painting robot: it reports the color of the panel
// under the robot and receives a color to paint followed by a turn.
type Painter struct {
	Panels map[Point]int64
	Pos    Point
	Facing Point

	conn Conn
}

func NewPainter(conn Conn) *Painter {
	return &Painter{conn: conn}
}

// Paints starting on a panel of the given color. Returns the number of
// panels painted at least once.
func (p *Painter) Paint(start int64) (int, error) {
	p.Panels = make(map[Point]int64)
	p.Pos = Point{}
	p.Facing = Point{0, -1}

	input := start

	for {
		output, err := p.conn.Send(input)

		if err != nil {
			return len(p.Panels), err
		}

		if len(output)%2 != 0 {
			return len(p.Panels), fmt.Errorf("unpaired robot output %v", output)
		}

		for i := 0; i < len(output); i += 2 {
			if err := p.apply(output[i], output[i+1]); err != nil {
				return len(p.Panels), err
			}
		}

		if p.conn.Terminated() {
			return len(p.Panels), nil
		}

		input = p.Panels[p.Pos]
	}
}

func (p *Painter) apply(color, turn int64) error {
	p.Panels[p.Pos] = color

	switch turn {
	case 0:
		p.Facing = Point{p.Facing.Y, -p.Facing.X}
	case 1:
		p.Facing = Point{-p.Facing.Y, p.Facing.X}
	default:
		return fmt.Errorf("unknown turn %d", turn)
	}

	p.Pos = p.Pos.Add(p.Facing)

	return nil
}
