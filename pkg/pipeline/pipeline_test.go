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

package pipeline_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/lassandro/intcode/pkg/machine"
	"github.com/lassandro/intcode/pkg/pipeline"
)

var (
	linear = []int64{
		3, 15, 3, 16, 1002, 16, 10, 16, 1, 16, 15, 15, 4, 15, 99, 0, 0,
	}
	linearNegate = []int64{
		3, 23, 3, 24, 1002, 24, 10, 24, 1002, 23, -1, 23, 101, 5, 23, 23, 1,
		24, 23, 23, 4, 23, 99, 0, 0,
	}
	feedback = []int64{
		3, 26, 1001, 26, -4, 26, 3, 27, 1002, 27, 2, 27, 1, 27, 26, 27, 4, 27,
		1001, 28, -1, 28, 1005, 28, 6, 99, 0, 0, 5,
	}
)

func TestRingWiring(t *testing.T) {
	ring := pipeline.New(
		[]int64{3, 0, 4, 0, 99}, []int64{1, 2}, machine.Options{},
	)

	result, err := ring.Run(0)

	if err != nil {
		t.Fatal(err)
	}

	if result != 2 {
		t.Fatalf("Result mismatch\nwant:2\nhave:%d", result)
	}

	// Machine 0 echoed its phase into machine 1, machine 1 echoed its phase
	// back around the ring
	if have := ring.Machines[1].Input.Values(); !reflect.DeepEqual(have, []int64{1}) {
		t.Errorf("Machine 1 input mismatch\nwant:[1]\nhave:%v", have)
	}

	if have := ring.Machines[0].Input.Values(); !reflect.DeepEqual(have, []int64{0, 2}) {
		t.Errorf("Machine 0 input mismatch\nwant:[0 2]\nhave:%v", have)
	}
}

func TestRing(t *testing.T) {
	tests := []struct {
		Name    string
		Program []int64
		Phases  []int64
		Result  int64
	}{
		{"Linear", linear, []int64{4, 3, 2, 1, 0}, 43210},
		{"Linear Negate", linearNegate, []int64{0, 1, 2, 3, 4}, 54321},
		{"Feedback", feedback, []int64{9, 8, 7, 6, 5}, 139629729},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			result, err := pipeline.New(
				test.Program, test.Phases, machine.Options{},
			).Run(0)

			if err != nil {
				t.Fatal(err)
			}

			if result != test.Result {
				t.Fatalf("Result mismatch\nwant:%d\nhave:%d", test.Result, result)
			}
		})
	}
}

func TestRingRerun(t *testing.T) {
	ring := pipeline.New(feedback, []int64{9, 8, 7, 6, 5}, machine.Options{})

	for i, signal := range []int64{0, 0} {
		result, err := ring.Run(signal)

		if err != nil {
			t.Fatal(err)
		}

		if result != 139629729 {
			t.Fatalf("Result mismatch (run %d)\nwant:139629729\nhave:%d", i, result)
		}
	}

	ring = pipeline.New([]int64{3, 0, 4, 0, 99}, []int64{1, 2}, machine.Options{})

	if _, err := ring.Run(0); err != nil {
		t.Fatal(err)
	}

	if _, err := ring.Run(0); err != nil {
		t.Fatal(err)
	}

	if have := ring.Machines[0].Input.Values(); !reflect.DeepEqual(have, []int64{0, 2}) {
		t.Errorf("Stale input after rerun\nwant:[0 2]\nhave:%v", have)
	}
}

func TestSearch(t *testing.T) {
	tests := []struct {
		Name    string
		Program []int64
		Phases  []int64
		Result  int64
		Order   []int64
	}{
		{"Linear", linear, []int64{0, 1, 2, 3, 4}, 43210, []int64{4, 3, 2, 1, 0}},
		{"Feedback", feedback, []int64{5, 6, 7, 8, 9}, 139629729, []int64{9, 8, 7, 6, 5}},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			result, order, err := pipeline.Search(
				test.Program, test.Phases, 0, machine.Options{},
			)

			if err != nil {
				t.Fatal(err)
			}

			if result != test.Result {
				t.Errorf("Result mismatch\nwant:%d\nhave:%d", test.Result, result)
			}

			if !reflect.DeepEqual(order, test.Order) {
				t.Errorf("Order mismatch\nwant:%v\nhave:%v", test.Order, order)
			}
		})
	}
}

func TestRingStalled(t *testing.T) {
	ring := pipeline.New(
		[]int64{3, 0, 3, 0, 99}, []int64{1, 2}, machine.Options{},
	)

	if _, err := ring.Run(0); !errors.Is(err, pipeline.ErrStalled) {
		t.Fatalf("Error mismatch\nwant:%v\nhave:%v", pipeline.ErrStalled, err)
	}
}

func TestRingFault(t *testing.T) {
	ring := pipeline.New([]int64{3, 0, 98}, []int64{1, 2}, machine.Options{})

	if _, err := ring.Run(0); !errors.Is(err, machine.ErrInvalidOpcode) {
		t.Fatalf("Error mismatch\nwant:%v\nhave:%v", machine.ErrInvalidOpcode, err)
	}
}
