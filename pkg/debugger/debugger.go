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

package debugger

import (
	"fmt"
	"io"
	"os"

	"github.com/lassandro/intcode/pkg/machine"
)

func (dbg *Debugger) Step(mc *machine.Machine) {
	if dbg.Break {
		if dbg.HandleBreak != nil {
			dbg.HandleBreak(dbg, mc)
		}
		return
	}

	for _, breakpoint := range dbg.Breakpoints {
		if mc.State.Program == breakpoint.Addr {
			if dbg.HandleBreak != nil {
				dbg.HandleBreak(dbg, mc)
			}
			break
		}
	}
}

func (dbg *Debugger) Read(addr int, mc *machine.Machine) {
	dbg.watch(addr, ReadWatch, dbg.HandleRead, mc)
}

func (dbg *Debugger) Write(addr int, mc *machine.Machine) {
	dbg.watch(addr, WriteWatch, dbg.HandleWrite, mc)
}

func (dbg *Debugger) watch(
	addr int,
	access WatchpointType,
	handler func(int, *Debugger, *machine.Machine),
	mc *machine.Machine,
) {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Type&access == 0 {
			continue
		}

		if addr == watchpoint.Addr {
			if handler != nil {
				handler(addr, dbg, mc)
			}
			break
		}
	}
}

// Adds a breakpoint unless one already exists at addr
func (dbg *Debugger) AddBreakpoint(addr int) bool {
	for _, breakpoint := range dbg.Breakpoints {
		if breakpoint.Addr == addr {
			return false
		}
	}

	dbg.Breakpoints = append(dbg.Breakpoints, Breakpoint{addr})

	return true
}

// Adds a watchpoint unless an identical one already exists
func (dbg *Debugger) AddWatchpoint(addr int, wtype WatchpointType) bool {
	for _, watchpoint := range dbg.Watchpoints {
		if watchpoint.Addr == addr && watchpoint.Type == wtype {
			return false
		}
	}

	dbg.Watchpoints = append(dbg.Watchpoints, Watchpoint{addr, wtype})

	return true
}

func (dbg *Debugger) out() io.Writer {
	if dbg.Out == nil {
		return os.Stdout
	}

	return dbg.Out
}

// Prints count decoded instructions starting at addr. Words that do not decode
// are printed as data and the listing continues at the next word.
func (dbg *Debugger) PrintInstructions(mc *machine.Machine, addr, count int) {
	out := dbg.out()

	for i := 0; i < count && addr < len(mc.State.Memory); i++ {
		word := mc.State.Memory[addr]
		inst, err := machine.Decode(word, mc.Options.Extended)

		if addr == mc.State.Program {
			fmt.Fprintf(out, "\033[1m[%04d]\033[0m> ", addr)
		} else {
			fmt.Fprintf(out, "\033[1m[%04d]\033[0m  ", addr)
		}

		if err != nil {
			fmt.Fprintf(out, "\033[1;30m.data %d\033[0m\n", word)
			addr++
			continue
		}

		fmt.Fprintf(out, "%-13s", inst.Op)

		for p, mode := range inst.Modes {
			if addr+1+p >= len(mc.State.Memory) {
				break
			}

			param := mc.State.Memory[addr+1+p]

			switch mode {
			case machine.MODE_IMMEDIATE:
				fmt.Fprintf(out, " #%d", param)
			case machine.MODE_RELATIVE:
				fmt.Fprintf(out, " [b%+d]", param)
			default:
				fmt.Fprintf(out, " [%d]", param)
			}
		}

		fmt.Fprintln(out)

		addr += 1 + len(inst.Modes)
	}
}

func (dbg *Debugger) PrintMem(mc *machine.MachineState, addr, count int) {
	out := dbg.out()

	for i := addr; i < addr+count && i < len(mc.Memory); i++ {
		if i == addr {
			fmt.Fprintf(out, "\033[1m[%04d]\033[0m ", i)
		} else if (i-addr)%8 == 0 {
			fmt.Fprintln(out)
			fmt.Fprintf(out, "\033[1m[%04d]\033[0m ", i)
		}

		result := mc.Memory[i]

		if result == 0 {
			fmt.Fprintf(out, "\033[1;30m%d\033[0m ", result)
		} else {
			fmt.Fprintf(out, "%d ", result)
		}
	}

	fmt.Fprintln(out)
}

func (dbg *Debugger) PrintState(mc *machine.Machine) {
	fmt.Fprintf(
		dbg.out(),
		"\033[1mIP:\033[0m %d\t\033[1mBASE:\033[0m %d\t\033[1mSTATUS:\033[0m %s\n"+
			"\033[1mIN:\033[0m %v\n\033[1mOUT:\033[0m %v\n",
		mc.State.Program,
		mc.State.Base,
		mc.State.Status,
		mc.Input.Values(),
		mc.Output.Values(),
	)
}
