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

package main

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/lassandro/intcode/pkg/debugger"
	"github.com/lassandro/intcode/pkg/encoding"
	"github.com/lassandro/intcode/pkg/machine"
)

var lastcmd []string
var stdin = bufio.NewScanner(os.Stdin)

func indexFormat(count int, suffix string) string {
	digits := math.Floor(math.Log10(float64(count + 1)))
	return fmt.Sprintf("#%%0%dd: %s\n", int64(digits)+1, suffix)
}

func removeIndex(args []string, count int) (int, bool) {
	i, err := strconv.ParseInt(args[0], 10, 64)

	if err != nil {
		fmt.Println(err)
		return 0, false
	}

	if i < 0 || i >= int64(count) {
		fmt.Println("Invalid index")
		return 0, false
	}

	return int(i), true
}

func debugBreak(dbg *debugger.Debugger, args []string) {
	const usage = "break [add|list|remove|clear]"

	if len(args) == 0 {
		args = append(args, "l")
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "break add [addr]"

		if len(args) != 1 {
			fmt.Println(usage)
			return
		}

		addr, err := encoding.DecodeAddr(args[0])

		if err != nil {
			fmt.Println(err)
			return
		}

		if dbg.AddBreakpoint(addr) {
			fmt.Printf("Breakpoint added [%04d]\n", addr)
		}

	case "l", "ls", "list":
		fmtstring := indexFormat(len(dbg.Breakpoints), "%04d")

		for i, breakpoint := range dbg.Breakpoints {
			fmt.Printf(fmtstring, i, breakpoint.Addr)
		}

	case "r", "rm", "remove":
		const usage = "break remove [#]"

		if len(args) != 1 {
			fmt.Println(usage)
			return
		}

		i, ok := removeIndex(args, len(dbg.Breakpoints))

		if !ok {
			return
		}

		dbg.Breakpoints[i] = dbg.Breakpoints[len(dbg.Breakpoints)-1]
		dbg.Breakpoints = dbg.Breakpoints[:len(dbg.Breakpoints)-1]
		fmt.Printf("Breakpoint removed [%d]\n", i)

	case "clear":
		dbg.Breakpoints = nil
		fmt.Println("Breakpoints reset")

	default:
		fmt.Printf("break: '%s' is not a valid command\n", cmd)
		fmt.Println(usage)
	}
}

func watchName(wtype debugger.WatchpointType) string {
	switch wtype {
	case debugger.ReadWatch:
		return "read"
	case debugger.WriteWatch:
		return "write"
	default:
		return "rwrite"
	}
}

func debugWatch(dbg *debugger.Debugger, args []string) {
	const usage = "watch [add|list|rm|clear]"

	if len(args) == 0 {
		fmt.Println(usage)
		return
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "watch add [addr] [read|write|readwrite]"

		if len(args) != 2 {
			fmt.Println(usage)
			return
		}

		addr, err := encoding.DecodeAddr(args[0])

		if err != nil {
			fmt.Println(err)
			return
		}

		var wtype debugger.WatchpointType

		switch args[1] {
		case "r", "read":
			wtype = debugger.ReadWatch
		case "w", "write":
			wtype = debugger.WriteWatch
		case "rw", "rwrite", "readwrite":
			wtype = debugger.ReadWriteWatch
		default:
			fmt.Println(usage)
			return
		}

		if dbg.AddWatchpoint(addr, wtype) {
			fmt.Printf("Watchpoint added [%04d] (%s)\n", addr, watchName(wtype))
		}

	case "l", "ls", "list":
		fmtstring := indexFormat(len(dbg.Watchpoints), "%04d %s")

		for i, watchpoint := range dbg.Watchpoints {
			fmt.Printf(fmtstring, i, watchpoint.Addr, watchName(watchpoint.Type))
		}

	case "r", "rm", "remove":
		const usage = "watch rm [#]"

		if len(args) != 1 {
			fmt.Println(usage)
			return
		}

		i, ok := removeIndex(args, len(dbg.Watchpoints))

		if !ok {
			return
		}

		dbg.Watchpoints[i] = dbg.Watchpoints[len(dbg.Watchpoints)-1]
		dbg.Watchpoints = dbg.Watchpoints[:len(dbg.Watchpoints)-1]
		fmt.Printf("Watchpoint removed [%d]\n", i)

	case "clear":
		dbg.Watchpoints = nil
		fmt.Println("Watchpoints reset")

	default:
		fmt.Printf("watch: '%s' is not a valid command\n", cmd)
	}
}

// Parses the optional [addr] [#] pair shared by the listing commands. A lone
// argument that is not an address is taken as a count from the IP.
func addrCount(mc *machine.Machine, args []string, count int) (int, int, bool) {
	addr := mc.State.Program

	if len(args) > 0 {
		value, err := encoding.DecodeAddr(args[0])

		if err != nil {
			fmt.Println(err)
			return 0, 0, false
		}

		if len(args) == 1 && !strings.ContainsAny(args[0], "xX#") {
			count = value
		} else {
			addr = value
		}
	}

	if len(args) > 1 {
		value, err := strconv.ParseInt(args[1], 10, 32)

		if err != nil {
			fmt.Println(err)
			return 0, 0, false
		}

		count = int(value)
	}

	return addr, count, true
}

func debugList(dbg *debugger.Debugger, mc *machine.Machine, args []string) {
	const usage = "list [addr] [#]"

	if len(args) > 2 {
		fmt.Println(usage)
		return
	}

	if addr, count, ok := addrCount(mc, args, 8); ok {
		dbg.PrintInstructions(mc, addr, count)
	}
}

func debugMemory(dbg *debugger.Debugger, mc *machine.Machine, args []string) {
	const usage = "memory [addr] [#]"

	if len(args) > 2 {
		fmt.Println(usage)
		return
	}

	if addr, count, ok := addrCount(mc, args, 1); ok {
		dbg.PrintMem(&mc.State, addr, count)
	}
}

func debugSet(dbg *debugger.Debugger, mc *machine.Machine, args []string) {
	const usage = "set [addr] [value]"

	if len(args) != 2 {
		fmt.Println(usage)
		return
	}

	addr, err := encoding.DecodeAddr(args[0])

	if err != nil {
		fmt.Println(err)
		return
	}

	value, err := encoding.DecodeInt(args[1])

	if err != nil {
		fmt.Println(err)
		return
	}

	if err := mc.Poke(addr, value); err != nil {
		fmt.Println(err)
		return
	}

	dbg.PrintMem(&mc.State, addr, 1)
}

func debugJump(mc *machine.Machine, args []string) {
	const usage = "jump [addr]"

	if len(args) != 1 {
		fmt.Println(usage)
		return
	}

	addr, err := encoding.DecodeAddr(args[0])

	if err != nil {
		fmt.Println(err)
		return
	}

	mc.State.Program = addr
	fmt.Printf("\033[1mIP:\033[0m %d\n", addr)
}

func debugBase(mc *machine.Machine, args []string) {
	const usage = "base [value]"

	switch len(args) {
	case 0:
	case 1:
		value, err := encoding.DecodeInt(args[0])

		if err != nil {
			fmt.Println(err)
			return
		}

		mc.State.Base = int(value)
	default:
		fmt.Println(usage)
		return
	}

	fmt.Printf("\033[1mBASE:\033[0m %d\n", mc.State.Base)
}

func debugInput(mc *machine.Machine, args []string) {
	const usage = "input [value,...]"

	if len(args) > 1 {
		fmt.Println(usage)
		return
	}

	if len(args) == 1 {
		values, err := encoding.DecodeList(args[0])

		if err != nil {
			fmt.Println(err)
			return
		}

		mc.AddInput(values...)
	}

	fmt.Printf("\033[1mIN:\033[0m %v\n", mc.Input.Values())
}

func debugREPL(dbg *debugger.Debugger, mc *machine.Machine) {
	for {
		fmt.Print("\033[1;30m(dbg)\033[0m ")

		if !stdin.Scan() {
			fmt.Println()
			shouldexit = true
			return
		}

		args := strings.Fields(stdin.Text())

		if len(args) == 0 {
			if len(lastcmd) == 0 {
				continue
			}
			args = lastcmd
		} else {
			lastcmd = make([]string, len(args))
			copy(lastcmd, args)
		}

		cmd := args[0]
		args = args[1:]

		switch cmd {
		case "b", "bp", "break", "breakpoint":
			debugBreak(dbg, args)

		case "w", "wp", "watch", "watchpoint":
			debugWatch(dbg, args)

		case "s", "st", "state":
			dbg.PrintState(mc)

		case "l", "ls", "list":
			debugList(dbg, mc, args)

		case "m", "mem", "memory":
			debugMemory(dbg, mc, args)

		case "set":
			debugSet(dbg, mc, args)

		case "j", "jmp", "jump":
			debugJump(mc, args)

		case "base":
			debugBase(mc, args)

		case "i", "in", "input":
			debugInput(mc, args)

		case "o", "out", "output":
			fmt.Printf("\033[1mOUT:\033[0m %v\n", mc.Output.Values())

		case "c", "continue":
			dbg.Break = false
			return

		case "n", "next":
			dbg.Break = true
			return

		case "q", "quit", "exit":
			shouldexit = true
			return

		case "clear":
			fmt.Print("\033[H\033[2J")

		case "reset":
			mc.Reset()
			dbg.PrintState(mc)

		default:
			fmt.Printf("error: '%s' is not a valid command\n", cmd)
		}
	}
}

func handleBreak(dbg *debugger.Debugger, mc *machine.Machine) {
	if shouldexit {
		return
	}

	if !dbg.Break {
		fmt.Println()
		fmt.Println("Program stopped")
		dbg.PrintInstructions(mc, mc.State.Program, 4)
	}
	debugREPL(dbg, mc)
}

func handleRead(addr int, dbg *debugger.Debugger, mc *machine.Machine) {
	if shouldexit {
		return
	}

	fmt.Println()
	fmt.Println("Program stopped (read)")
	dbg.PrintMem(&mc.State, addr, 1)
	debugREPL(dbg, mc)
}

func handleWrite(addr int, dbg *debugger.Debugger, mc *machine.Machine) {
	if shouldexit {
		return
	}

	fmt.Println()
	fmt.Println("Program stopped (write)")
	dbg.PrintMem(&mc.State, addr, 1)
	debugREPL(dbg, mc)
}
