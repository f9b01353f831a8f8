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

	"github.com/lassandro/intcode/pkg/machine"
)

var ErrPartialTile = errors.New("incomplete tile triple")

type Tile int64

const (
	TILE_EMPTY  Tile = 0
	TILE_WALL   Tile = 1
	TILE_BLOCK  Tile = 2
	TILE_PADDLE Tile = 3
	TILE_BALL   Tile = 4
)

// Position that carries the score instead of a tile
var scorePoint = Point{-1, 0}

type Screen struct {
	Tiles  map[Point]Tile
	Score  int64
	Ball   Point
	Paddle Point
}

// Applies x, y, tile triples to the screen
func (s *Screen) Apply(values []int64) error {
	if len(values)%3 != 0 {
		return fmt.Errorf("%w: %d values", ErrPartialTile, len(values))
	}

	if s.Tiles == nil {
		s.Tiles = make(map[Point]Tile)
	}

	for i := 0; i < len(values); i += 3 {
		pos := Point{int(values[i]), int(values[i+1])}

		if pos == scorePoint {
			s.Score = values[i+2]
			continue
		}

		tile := Tile(values[i+2])

		if tile < TILE_EMPTY || tile > TILE_BALL {
			return fmt.Errorf("unknown tile %d at %v", values[i+2], pos)
		}

		s.Tiles[pos] = tile

		switch tile {
		case TILE_BALL:
			s.Ball = pos
		case TILE_PADDLE:
			s.Paddle = pos
		}
	}

	return nil
}

func (s *Screen) Count(tile Tile) int {
	count := 0

	for _, t := range s.Tiles {
		if t == tile {
			count++
		}
	}

	return count
}

// Extent of the drawn area, inclusive
func (s *Screen) Bounds() (lo, hi Point) {
	first := true

	for pos := range s.Tiles {
		if first {
			lo, hi = pos, pos
			first = false
			continue
		}

		lo = Point{min(lo.X, pos.X), min(lo.Y, pos.Y)}
		hi = Point{max(hi.X, pos.X), max(hi.Y, pos.Y)}
	}

	return lo, hi
}

type Arcade struct {
	Screen Screen

	conn Conn
}

// Free play writes 2 to address 0 before the game starts
func NewArcade(mc *machine.Machine, free bool) (*Arcade, error) {
	if free {
		if err := mc.Poke(0, 2); err != nil {
			return nil, err
		}
	}

	return &Arcade{conn: New(mc)}, nil
}

// Runs the game to its first joystick read, drawing the initial screen
func (a *Arcade) Start() error {
	return a.update()
}

// Sends one joystick position: -1 left, 0 neutral, 1 right
func (a *Arcade) Move(joystick int64) error {
	return a.update(joystick)
}

func (a *Arcade) update(values ...int64) error {
	output, err := a.conn.Send(values...)

	if err != nil {
		return err
	}

	return a.Screen.Apply(output)
}

// Joystick position that moves the paddle under the ball
func (a *Arcade) Joystick() int64 {
	switch {
	case a.Screen.Ball.X < a.Screen.Paddle.X:
		return -1
	case a.Screen.Ball.X > a.Screen.Paddle.X:
		return 1
	default:
		return 0
	}
}

func (a *Arcade) Terminated() bool {
	return a.conn.Terminated()
}

// Plays until the game ends and returns the final score
func (a *Arcade) Play() (int64, error) {
	if err := a.Start(); err != nil {
		return 0, err
	}

	for !a.Terminated() {
		if err := a.Move(a.Joystick()); err != nil {
			return a.Screen.Score, err
		}
	}

	return a.Screen.Score, nil
}
