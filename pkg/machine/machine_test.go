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

package machine_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/lassandro/intcode/pkg/machine"
)

type testCase struct {
	Name     string
	Program  []int64
	Extended bool
	Input    []int64
	Output   []int64
	Status   machine.Status
	Memory   map[int]int64
}

func testMachineSuccess(t *testing.T, test *testCase) {
	mc := machine.New(test.Program)
	mc.Options.Extended = test.Extended
	mc.AddInput(test.Input...)

	status, err := mc.Run()

	if err != nil {
		t.Fatalf("Unexpected error\nhave:%v", err)
	}

	if status != test.Status {
		t.Errorf(
			"Status mismatch\nwant:%s (test.Status)\nhave:%s",
			test.Status,
			status,
		)
	}

	if have := mc.Output.Values(); !reflect.DeepEqual(have, test.Output) &&
		(len(have) != 0 || len(test.Output) != 0) {
		t.Errorf(
			"Output mismatch\nwant:%v (test.Output)\nhave:%v",
			test.Output,
			have,
		)
	}

	for addr, want := range test.Memory {
		have, err := mc.Peek(addr)

		if err != nil {
			t.Fatalf("Unexpected error\nhave:%v", err)
		}

		if have != want {
			t.Errorf(
				"Memory value mismatch"+
					"\nwant:%d (test.Memory[%d])\nhave:%d",
				want,
				addr,
				have,
			)
		}
	}
}

func testSuccess(t *testing.T, tests []testCase) {
	t.Run("Success", func(t *testing.T) {
		for _, test := range tests {
			t.Run(test.Name, func(t *testing.T) {
				testMachineSuccess(t, &test)
			})
		}
	})
}

func TestArithmetic(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:    "ADD Position",
			Program: []int64{1, 0, 0, 0, 99},
			Status:  machine.STATUS_TERMINATED,
			Memory:  map[int]int64{0: 2},
		},
		{
			Name:    "MULTIPLY Position",
			Program: []int64{2, 3, 0, 3, 99},
			Status:  machine.STATUS_TERMINATED,
			Memory:  map[int]int64{3: 6},
		},
		{
			Name:    "MULTIPLY Past Terminate",
			Program: []int64{2, 4, 4, 5, 99, 0},
			Status:  machine.STATUS_TERMINATED,
			Memory:  map[int]int64{5: 9801},
		},
		{
			Name:    "Self Modifying",
			Program: []int64{1, 1, 1, 4, 99, 5, 6, 0, 99},
			Status:  machine.STATUS_TERMINATED,
			Memory:  map[int]int64{0: 30, 4: 2},
		},
		{
			Name:    "Chained",
			Program: []int64{1, 9, 10, 3, 2, 3, 11, 0, 99, 30, 40, 50},
			Status:  machine.STATUS_TERMINATED,
			Memory:  map[int]int64{0: 3500, 3: 70},
		},
		{
			Name:    "MULTIPLY Immediate",
			Program: []int64{1002, 4, 3, 4, 33},
			Status:  machine.STATUS_TERMINATED,
			Memory:  map[int]int64{4: 99},
		},
		{
			Name:    "ADD Negative Immediate",
			Program: []int64{1101, 100, -1, 4, 0},
			Status:  machine.STATUS_TERMINATED,
			Memory:  map[int]int64{4: 99},
		},
		{
			Name:    "ADD Immediate Destination",
			Program: []int64{11101, 2, 3, 5, 99, 0},
			Status:  machine.STATUS_TERMINATED,
			Memory:  map[int]int64{3: 5, 5: 5},
		},
	})
}

func TestInputOutput(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:    "Echo",
			Program: []int64{3, 0, 4, 0, 99},
			Input:   []int64{7},
			Output:  []int64{7},
			Status:  machine.STATUS_TERMINATED,
			Memory:  map[int]int64{0: 7},
		},
		{
			Name:    "Terminate Only",
			Program: []int64{99},
			Status:  machine.STATUS_TERMINATED,
			Memory:  map[int]int64{0: 99},
		},
		{
			Name:    "OUTPUT Immediate",
			Program: []int64{104, -5, 99},
			Output:  []int64{-5},
			Status:  machine.STATUS_TERMINATED,
		},
		{
			Name:    "Waiting",
			Program: []int64{3, 0, 99},
			Status:  machine.STATUS_WAITING_FOR_INPUT,
			Memory:  map[int]int64{0: 3},
		},
	})
}

func TestCompare(t *testing.T) {
	equal8 := []int64{3, 9, 8, 9, 10, 9, 4, 9, 99, -1, 8}
	less8 := []int64{3, 9, 7, 9, 10, 9, 4, 9, 99, -1, 8}
	equal8Imm := []int64{3, 3, 1108, -1, 8, 3, 4, 3, 99}
	less8Imm := []int64{3, 3, 1107, -1, 8, 3, 4, 3, 99}

	testSuccess(t, []testCase{
		{
			Name:    "EQUALS Position True",
			Program: equal8,
			Input:   []int64{8},
			Output:  []int64{1},
			Status:  machine.STATUS_TERMINATED,
		},
		{
			Name:    "EQUALS Position False",
			Program: equal8,
			Input:   []int64{5},
			Output:  []int64{0},
			Status:  machine.STATUS_TERMINATED,
		},
		{
			Name:    "LESS_THAN Position True",
			Program: less8,
			Input:   []int64{5},
			Output:  []int64{1},
			Status:  machine.STATUS_TERMINATED,
		},
		{
			Name:    "LESS_THAN Position False",
			Program: less8,
			Input:   []int64{8},
			Output:  []int64{0},
			Status:  machine.STATUS_TERMINATED,
		},
		{
			Name:    "EQUALS Immediate True",
			Program: equal8Imm,
			Input:   []int64{8},
			Output:  []int64{1},
			Status:  machine.STATUS_TERMINATED,
		},
		{
			Name:    "LESS_THAN Immediate False",
			Program: less8Imm,
			Input:   []int64{9},
			Output:  []int64{0},
			Status:  machine.STATUS_TERMINATED,
		},
	})
}

func TestJump(t *testing.T) {
	jumpPos := []int64{3, 12, 6, 12, 15, 1, 13, 14, 13, 4, 13, 99, -1, 0, 1, 9}
	jumpImm := []int64{3, 3, 1105, -1, 9, 1101, 0, 0, 12, 4, 12, 99, 1}
	around8 := []int64{
		3, 21, 1008, 21, 8, 20, 1005, 20, 22, 107, 8, 21, 20, 1006, 20, 31,
		1106, 0, 36, 98, 0, 0, 1002, 21, 125, 20, 4, 20, 1105, 1, 46, 104,
		999, 1105, 1, 46, 1101, 1000, 1, 20, 4, 20, 1105, 1, 46, 98, 99,
	}

	testSuccess(t, []testCase{
		{
			Name:    "JUMP_IF_FALSE Position Zero",
			Program: jumpPos,
			Input:   []int64{0},
			Output:  []int64{0},
			Status:  machine.STATUS_TERMINATED,
		},
		{
			Name:    "JUMP_IF_FALSE Position Nonzero",
			Program: jumpPos,
			Input:   []int64{5},
			Output:  []int64{1},
			Status:  machine.STATUS_TERMINATED,
		},
		{
			Name:    "JUMP_IF_TRUE Immediate Zero",
			Program: jumpImm,
			Input:   []int64{0},
			Output:  []int64{0},
			Status:  machine.STATUS_TERMINATED,
		},
		{
			Name:    "JUMP_IF_TRUE Immediate Nonzero",
			Program: jumpImm,
			Input:   []int64{3},
			Output:  []int64{1},
			Status:  machine.STATUS_TERMINATED,
		},
		{
			Name:    "Below Eight",
			Program: around8,
			Input:   []int64{7},
			Output:  []int64{999},
			Status:  machine.STATUS_TERMINATED,
		},
		{
			Name:    "Equal Eight",
			Program: around8,
			Input:   []int64{8},
			Output:  []int64{1000},
			Status:  machine.STATUS_TERMINATED,
		},
		{
			Name:    "Above Eight",
			Program: around8,
			Input:   []int64{9},
			Output:  []int64{1001},
			Status:  machine.STATUS_TERMINATED,
		},
	})
}

func TestExtended(t *testing.T) {
	quine := []int64{
		109, 1, 204, -1, 1001, 100, 1, 100, 1008, 100, 16, 101, 1006, 101, 0, 99,
	}

	testSuccess(t, []testCase{
		{
			Name:     "Quine",
			Program:  quine,
			Extended: true,
			Output:   quine,
			Status:   machine.STATUS_TERMINATED,
			Memory:   map[int]int64{100: 16, 101: 1},
		},
		{
			Name:     "Large Product",
			Program:  []int64{1102, 34915192, 34915192, 7, 4, 7, 99, 0},
			Extended: true,
			Output:   []int64{1219070632396864},
			Status:   machine.STATUS_TERMINATED,
		},
		{
			Name:     "Large Immediate",
			Program:  []int64{104, 1125899906842624, 99},
			Extended: true,
			Output:   []int64{1125899906842624},
			Status:   machine.STATUS_TERMINATED,
		},
		{
			Name:     "INPUT Relative",
			Program:  []int64{109, 10, 203, -3, 204, -3, 99},
			Extended: true,
			Input:    []int64{42},
			Output:   []int64{42},
			Status:   machine.STATUS_TERMINATED,
			Memory:   map[int]int64{7: 42},
		},
		{
			Name:     "Write Past End",
			Program:  []int64{1101, 1, 1, 50, 99},
			Extended: true,
			Status:   machine.STATUS_TERMINATED,
			Memory:   map[int]int64{49: 0, 50: 2},
		},
	})
}

func TestSuspendResume(t *testing.T) {
	program := []int64{3, 0, 4, 0, 3, 0, 4, 0, 99}
	mc := machine.New(program)

	status, err := mc.Run()

	if err != nil {
		t.Fatal(err)
	}

	if status != machine.STATUS_WAITING_FOR_INPUT {
		t.Fatalf("Status mismatch\nwant:WAITING_FOR_INPUT\nhave:%s", status)
	}

	if mc.State.Program != 0 {
		t.Fatalf("Program mismatch\nwant:0\nhave:%d", mc.State.Program)
	}

	if !reflect.DeepEqual(mc.State.Memory, program) {
		t.Fatalf("Memory changed\nwant:%v\nhave:%v", program, mc.State.Memory)
	}

	mc.AddInput(5)
	status, err = mc.Run()

	if err != nil {
		t.Fatal(err)
	}

	if status != machine.STATUS_WAITING_FOR_INPUT {
		t.Fatalf("Status mismatch\nwant:WAITING_FOR_INPUT\nhave:%s", status)
	}

	if mc.State.Program != 4 {
		t.Fatalf("Program mismatch\nwant:4\nhave:%d", mc.State.Program)
	}

	if have := mc.Output.Drain(); !reflect.DeepEqual(have, []int64{5}) {
		t.Fatalf("Output mismatch\nwant:[5]\nhave:%v", have)
	}

	mc.AddInput(6)
	status, err = mc.Run()

	if err != nil {
		t.Fatal(err)
	}

	if status != machine.STATUS_TERMINATED {
		t.Fatalf("Status mismatch\nwant:TERMINATED\nhave:%s", status)
	}

	if have := mc.Output.Drain(); !reflect.DeepEqual(have, []int64{6}) {
		t.Fatalf("Output mismatch\nwant:[6]\nhave:%v", have)
	}
}

func TestStep(t *testing.T) {
	mc := machine.New([]int64{1101, 1, 2, 0, 3, 0, 99})

	if status, err := mc.Step(); err != nil || status != machine.STATUS_PROCESSING {
		t.Fatalf("Step mismatch\nwant:PROCESSING\nhave:%s %v", status, err)
	}

	if mc.State.Program != 4 {
		t.Fatalf("Program mismatch\nwant:4\nhave:%d", mc.State.Program)
	}

	if status, err := mc.Step(); err != nil || status != machine.STATUS_WAITING_FOR_INPUT {
		t.Fatalf("Step mismatch\nwant:WAITING_FOR_INPUT\nhave:%s %v", status, err)
	}

	if mc.State.Program != 4 {
		t.Fatalf("Program moved while waiting\nwant:4\nhave:%d", mc.State.Program)
	}
}

func TestRunTerminated(t *testing.T) {
	mc := machine.New([]int64{1, 0, 0, 0, 99})

	if _, err := mc.Run(); err != nil {
		t.Fatal(err)
	}

	memory := append([]int64(nil), mc.State.Memory...)

	for i := 0; i < 3; i++ {
		status, err := mc.Run()

		if err != nil {
			t.Fatalf("Unexpected error\nhave:%v", err)
		}

		if status != machine.STATUS_TERMINATED {
			t.Fatalf("Status mismatch\nwant:TERMINATED\nhave:%s", status)
		}
	}

	if !reflect.DeepEqual(mc.State.Memory, memory) {
		t.Fatalf("Memory changed\nwant:%v\nhave:%v", memory, mc.State.Memory)
	}
}

func TestReset(t *testing.T) {
	program := []int64{3, 9, 8, 9, 10, 9, 4, 9, 99, -1, 8}

	t.Run("Deterministic", func(t *testing.T) {
		mc := machine.New(program)
		var runs [][]int64

		for i := 0; i < 3; i++ {
			mc.Reset()
			mc.AddInput(8)

			if _, err := mc.Run(); err != nil {
				t.Fatal(err)
			}

			runs = append(runs, mc.Output.Drain())
		}

		for i := 1; i < len(runs); i++ {
			if !reflect.DeepEqual(runs[0], runs[i]) {
				t.Fatalf("Output mismatch\nwant:%v\nhave:%v", runs[0], runs[i])
			}
		}

		if !reflect.DeepEqual(mc.Initial(), program) {
			t.Fatalf("Initial program changed\nhave:%v", mc.Initial())
		}
	})

	t.Run("Keep Channels", func(t *testing.T) {
		mc := machine.New(program)
		mc.AddInput(8, 1)

		if _, err := mc.Run(); err != nil {
			t.Fatal(err)
		}

		mc.Reset()

		if mc.Status() != machine.STATUS_WAITING_FOR_INPUT {
			t.Fatalf("Status mismatch\nwant:WAITING_FOR_INPUT\nhave:%s", mc.Status())
		}

		if have := mc.Input.Values(); !reflect.DeepEqual(have, []int64{1}) {
			t.Fatalf("Input mismatch\nwant:[1]\nhave:%v", have)
		}

		if have := mc.Output.Values(); !reflect.DeepEqual(have, []int64{1}) {
			t.Fatalf("Output mismatch\nwant:[1]\nhave:%v", have)
		}

		if !reflect.DeepEqual(mc.State.Memory, program) {
			t.Fatalf("Memory mismatch\nwant:%v\nhave:%v", program, mc.State.Memory)
		}
	})

	t.Run("Clear Channels", func(t *testing.T) {
		mc := machine.New(program)
		mc.Options.Reset = machine.RESET_CLEAR_CHANNELS
		mc.AddInput(8, 1)

		if _, err := mc.Run(); err != nil {
			t.Fatal(err)
		}

		mc.Reset()

		if !mc.Input.Empty() || !mc.Output.Empty() {
			t.Fatalf(
				"Channels not cleared\nhave:%v %v",
				mc.Input.Values(),
				mc.Output.Values(),
			)
		}
	})
}

func TestFault(t *testing.T) {
	tests := []struct {
		Name     string
		Program  []int64
		Extended bool
		Err      error
		At       int
	}{
		{"Unknown Opcode", []int64{98}, false, machine.ErrInvalidOpcode, 0},
		{"Negative Word", []int64{-1}, false, machine.ErrInvalidOpcode, 0},
		{"ADJUST_BASE Without Extended", []int64{109, 1, 99}, false, machine.ErrInvalidOpcode, 0},
		{"Invalid Mode", []int64{301, 0, 0, 0, 99}, false, machine.ErrInvalidMode, 0},
		{"Relative Without Extended", []int64{204, 0, 99}, false, machine.ErrInvalidMode, 0},
		{"Read Out Of Bounds", []int64{1, 100, 0, 0, 99}, false, machine.ErrOutOfBounds, 0},
		{"Write Out Of Bounds", []int64{1101, 1, 1, 50, 99}, false, machine.ErrOutOfBounds, 0},
		{"Negative Address", []int64{1, -1, 0, 0, 99}, true, machine.ErrOutOfBounds, 0},
		{"Write Past Tape Limit", []int64{1101, 1, 1, machine.MAX_MEMORY, 99}, true, machine.ErrOutOfBounds, 0},
		{"Write Huge Address", []int64{1101, 1, 1, 1<<62 + 5, 99}, true, machine.ErrOutOfBounds, 0},
		{"Run Off End", []int64{1101, 1, 1, 0}, false, machine.ErrOutOfBounds, 4},
		{"Second Instruction", []int64{1101, 1, 1, 0, 55}, false, machine.ErrInvalidOpcode, 4},
	}

	for _, test := range tests {
		t.Run(test.Name, func(t *testing.T) {
			mc := machine.New(test.Program)
			mc.Options.Extended = test.Extended

			_, err := mc.Run()

			if !errors.Is(err, test.Err) {
				t.Fatalf("Error mismatch\nwant:%v\nhave:%v", test.Err, err)
			}

			var fault *machine.Fault

			if !errors.As(err, &fault) {
				t.Fatalf("Error is not a fault\nhave:%T", err)
			}

			if fault.Program != test.At {
				t.Fatalf(
					"Fault location mismatch\nwant:%d\nhave:%d",
					test.At,
					fault.Program,
				)
			}

			if _, again := mc.Run(); again != err {
				t.Fatalf("Fault not sticky\nwant:%v\nhave:%v", err, again)
			}
		})
	}
}

func TestResetClearsFault(t *testing.T) {
	mc := machine.New([]int64{1, 100, 0, 0, 99})

	if _, err := mc.Run(); !errors.Is(err, machine.ErrOutOfBounds) {
		t.Fatalf("Error mismatch\nwant:%v\nhave:%v", machine.ErrOutOfBounds, err)
	}

	mc.Reset()

	if err := mc.Poke(1, 0); err != nil {
		t.Fatal(err)
	}

	status, err := mc.Run()

	if err != nil {
		t.Fatalf("Unexpected error\nhave:%v", err)
	}

	if status != machine.STATUS_TERMINATED {
		t.Fatalf("Status mismatch\nwant:TERMINATED\nhave:%s", status)
	}
}

func TestGetOutputEmpty(t *testing.T) {
	mc := machine.New([]int64{99})

	if _, err := mc.GetOutput(); !errors.Is(err, machine.ErrChannelEmpty) {
		t.Fatalf("Error mismatch\nwant:%v\nhave:%v", machine.ErrChannelEmpty, err)
	}
}

func TestParse(t *testing.T) {
	mc, err := machine.Parse("3,0,4,0,99\n")

	if err != nil {
		t.Fatal(err)
	}

	mc.AddInput(-12)

	if _, err := mc.Run(); err != nil {
		t.Fatal(err)
	}

	if have, err := mc.GetOutput(); err != nil || have != -12 {
		t.Fatalf("Output mismatch\nwant:-12\nhave:%d %v", have, err)
	}

	if _, err := machine.Parse("1,2,x"); err == nil {
		t.Fatal("Expected parse error")
	}
}
