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
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	ErrUnknownStatus = errors.New("unknown status code")
	ErrBacktrack     = errors.New("unable to back up")
)

// Movement commands understood by the droid
type Direction int64

const (
	NORTH Direction = 1
	SOUTH Direction = 2
	WEST  Direction = 3
	EAST  Direction = 4
)

// Status codes returned by the droid after each move
type Status int64

const (
	STATUS_WALL   Status = 0
	STATUS_SPACE  Status = 1
	STATUS_TARGET Status = 2
)

func Directions() [4]Direction {
	return [4]Direction{NORTH, SOUTH, WEST, EAST}
}

func (d Direction) Delta() Point {
	switch d {
	case NORTH:
		return Point{0, -1}
	case SOUTH:
		return Point{0, 1}
	case WEST:
		return Point{-1, 0}
	default:
		return Point{1, 0}
	}
}

func (d Direction) Opposite() Direction {
	switch d {
	case NORTH:
		return SOUTH
	case SOUTH:
		return NORTH
	case WEST:
		return EAST
	default:
		return WEST
	}
}

// Explorer maps an unknown area by moving a droid one step at a time and
// backing up once every neighbour of a cell has been tried.
type Explorer struct {
	Map    map[Point]Status
	Target *Point

	// Fewest moves from the starting cell to the target
	Depth int

	conn Conn
}

func NewExplorer(conn Conn) *Explorer {
	return &Explorer{conn: conn}
}

func (e *Explorer) Explore() error {
	e.Map = map[Point]Status{{}: STATUS_SPACE}
	e.Target = nil
	e.Depth = 0

	if err := e.explore(Point{}); err != nil {
		return err
	}

	if e.Target != nil {
		e.Depth = e.Distances(Point{})[*e.Target]
	}

	Logger().Debug(
		"exploration finished",
		zap.Int("cells", len(e.Map)),
		zap.Bool("target_found", e.Target != nil),
		zap.Int("target_depth", e.Depth),
	)

	return nil
}

func (e *Explorer) explore(pos Point) error {
	for _, dir := range Directions() {
		next := pos.Add(dir.Delta())

		if _, seen := e.Map[next]; seen {
			continue
		}

		status, err := e.move(dir)

		if err != nil {
			return err
		}

		e.Map[next] = status

		switch status {
		case STATUS_WALL:
			continue

		case STATUS_TARGET:
			target := next
			e.Target = &target
		}

		if err := e.explore(next); err != nil {
			return err
		}

		back, err := e.move(dir.Opposite())

		if err != nil {
			return err
		}

		if back == STATUS_WALL {
			return fmt.Errorf("%w from %v", ErrBacktrack, next)
		}
	}

	return nil
}

func (e *Explorer) move(dir Direction) (Status, error) {
	output, err := e.conn.Send(int64(dir))

	if err != nil {
		return 0, err
	}

	if len(output) != 1 {
		return 0, fmt.Errorf("%w: %v", ErrUnknownStatus, output)
	}

	status := Status(output[0])

	if status < STATUS_WALL || status > STATUS_TARGET {
		return 0, fmt.Errorf("%w: %d", ErrUnknownStatus, output[0])
	}

	return status, nil
}

// Breadth-first step counts from the given cell to every reachable open cell
// of the explored map
func (e *Explorer) Distances(from Point) map[Point]int {
	distances := map[Point]int{from: 0}
	queue := []Point{from}

	for len(queue) > 0 {
		pos := queue[0]
		queue = queue[1:]

		for _, dir := range Directions() {
			next := pos.Add(dir.Delta())

			if status, known := e.Map[next]; !known || status == STATUS_WALL {
				continue
			}

			if _, seen := distances[next]; seen {
				continue
			}

			distances[next] = distances[pos] + 1
			queue = append(queue, next)
		}
	}

	return distances
}
