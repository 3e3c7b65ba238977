// Package repl implements the interactive command surface: a small
// prefix-matched command table, modeled on rcornwell/S370's
// command/parser package, sitting on top of the cpu.Processor
// operations.
package repl

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/archsim/rv64sim/cpu"
	"github.com/archsim/rv64sim/decode"
	"github.com/archsim/rv64sim/disasm"
	"github.com/archsim/rv64sim/loader"
	"github.com/archsim/rv64sim/memory"
)

// Env bundles the state one REPL session drives.
type Env struct {
	Proc            *cpu.Processor
	Mem             *memory.Memory
	Out             io.Writer
	CheckBreakpoint bool
}

type cmd struct {
	name    string
	min     int
	process func(env *Env, args []string) (quit bool, err error)
}

var cmdTable = []cmd{
	{name: "reg", min: 1, process: cmdReg},
	{name: "pc", min: 2, process: cmdPC},
	{name: "csr", min: 1, process: cmdCSR},
	{name: "prv", min: 1, process: cmdPrv},
	{name: "break", min: 2, process: cmdBreak},
	{name: "nobreak", min: 3, process: cmdNoBreak},
	{name: "step", min: 2, process: cmdStep},
	{name: "run", min: 1, process: cmdRun},
	{name: "disasm", min: 2, process: cmdDisasm},
	{name: "mem", min: 1, process: cmdMem},
	{name: "load", min: 1, process: cmdLoad},
	{name: "count", min: 1, process: cmdCount},
	{name: "interrupt", min: 1, process: cmdInterrupt},
	{name: "quit", min: 1, process: cmdQuit},
}

// matchList returns every command whose name has name as a prefix of at
// least that command's minimum match length.
func matchList(name string) []cmd {
	if name == "" {
		return nil
	}
	var matches []cmd
	for _, c := range cmdTable {
		if len(name) < c.min || len(name) > len(c.name) {
			continue
		}
		if c.name[:len(name)] == name {
			matches = append(matches, c)
		}
	}
	return matches
}

// Dispatch parses one command line and runs it against env. It returns
// quit == true when the session should end.
func Dispatch(line string, env *Env) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	name := strings.ToLower(fields[0])
	args := fields[1:]

	matches := matchList(name)
	switch len(matches) {
	case 0:
		return false, errors.New("command not found: " + name)
	case 1:
		return matches[0].process(env, args)
	default:
		return false, errors.New("ambiguous command: " + name)
	}
}

func parseHex64(s string) (uint64, error) {
	return strconv.ParseUint(s, 16, 64)
}

func parseInt(s string) (int, error) {
	v, err := strconv.ParseInt(s, 10, 32)
	return int(v), err
}

func cmdReg(env *Env, args []string) (bool, error) {
	if len(args) == 0 {
		for i := 0; i < 32; i++ {
			fmt.Fprintf(env.Out, "x%-2d %016x\n", i, env.Proc.ShowReg(i))
		}
		return false, nil
	}
	idx, err := parseInt(args[0])
	if err != nil {
		return false, fmt.Errorf("invalid register index %q: %w", args[0], err)
	}
	if len(args) == 1 {
		fmt.Fprintf(env.Out, "%016x\n", env.Proc.ShowReg(idx))
		return false, nil
	}
	val, err := parseHex64(args[1])
	if err != nil {
		return false, fmt.Errorf("invalid value %q: %w", args[1], err)
	}
	env.Proc.SetReg(idx, val)
	return false, nil
}

func cmdPC(env *Env, args []string) (bool, error) {
	if len(args) == 0 {
		fmt.Fprintf(env.Out, "%016x\n", env.Proc.ShowPC())
		return false, nil
	}
	val, err := parseHex64(args[0])
	if err != nil {
		return false, fmt.Errorf("invalid value %q: %w", args[0], err)
	}
	env.Proc.SetPC(val)
	return false, nil
}

func cmdCSR(env *Env, args []string) (bool, error) {
	if len(args) == 0 {
		return false, errors.New("csr requires a CSR number")
	}
	num, err := parseHex64(args[0])
	if err != nil {
		return false, fmt.Errorf("invalid CSR number %q: %w", args[0], err)
	}
	if len(args) == 1 {
		fmt.Fprintf(env.Out, "%016x\n", env.Proc.ShowCSR(num))
		return false, nil
	}
	val, err := parseHex64(args[1])
	if err != nil {
		return false, fmt.Errorf("invalid value %q: %w", args[1], err)
	}
	env.Proc.SetCSR(num, val)
	return false, nil
}

func cmdPrv(env *Env, args []string) (bool, error) {
	if len(args) == 0 {
		n := env.Proc.ShowPrv()
		if n == 0 {
			fmt.Fprintln(env.Out, "0 (user)")
		} else {
			fmt.Fprintln(env.Out, "3 (machine)")
		}
		return false, nil
	}
	n, err := parseInt(args[0])
	if err != nil {
		return false, fmt.Errorf("invalid privilege %q: %w", args[0], err)
	}
	env.Proc.SetPrv(n)
	return false, nil
}

func cmdBreak(env *Env, args []string) (bool, error) {
	if len(args) != 1 {
		return false, errors.New("break requires an address")
	}
	addr, err := parseHex64(args[0])
	if err != nil {
		return false, fmt.Errorf("invalid address %q: %w", args[0], err)
	}
	env.Proc.SetBreakpoint(addr)
	return false, nil
}

func cmdNoBreak(env *Env, _ []string) (bool, error) {
	env.Proc.ClearBreakpoint()
	return false, nil
}

func cmdStep(env *Env, args []string) (bool, error) {
	n := 1
	if len(args) > 0 {
		var err error
		n, err = parseInt(args[0])
		if err != nil {
			return false, fmt.Errorf("invalid step count %q: %w", args[0], err)
		}
	}
	env.Proc.Execute(n, env.CheckBreakpoint)
	return false, nil
}

func cmdRun(env *Env, _ []string) (bool, error) {
	env.Proc.Execute(int(^uint(0)>>1), true)
	return false, nil
}

func cmdDisasm(env *Env, args []string) (bool, error) {
	if len(args) == 0 {
		return false, errors.New("disasm requires an address")
	}
	addr, err := parseHex64(args[0])
	if err != nil {
		return false, fmt.Errorf("invalid address %q: %w", args[0], err)
	}
	count := 1
	if len(args) > 1 {
		count, err = parseInt(args[1])
		if err != nil {
			return false, fmt.Errorf("invalid count %q: %w", args[1], err)
		}
	}
	for i := 0; i < count; i++ {
		a := addr + uint64(4*i)
		word := env.Mem.Read32(a)
		inst := decode.Decode(word)
		fmt.Fprintln(env.Out, disasm.Format(a, inst))
	}
	return false, nil
}

func cmdMem(env *Env, args []string) (bool, error) {
	if len(args) == 0 {
		return false, errors.New("mem requires an address")
	}
	addr, err := parseHex64(args[0])
	if err != nil {
		return false, fmt.Errorf("invalid address %q: %w", args[0], err)
	}
	count := 1
	if len(args) > 1 {
		count, err = parseInt(args[1])
		if err != nil {
			return false, fmt.Errorf("invalid count %q: %w", args[1], err)
		}
	}
	for i := 0; i < count; i++ {
		a := addr + uint64(8*i)
		fmt.Fprintf(env.Out, "%016x: %016x\n", a, env.Mem.ReadDoubleword(a))
	}
	return false, nil
}

func cmdLoad(env *Env, args []string) (bool, error) {
	if len(args) != 1 {
		return false, errors.New("load requires a path")
	}
	img, err := loader.Load(args[0], env.Mem)
	if err != nil {
		return false, err
	}
	fmt.Fprintf(env.Out, "loaded %d doublewords, start address %016x\n", img.Doublewords, img.StartAddress)
	return false, nil
}

func cmdCount(env *Env, _ []string) (bool, error) {
	fmt.Fprintf(env.Out, "instructions: %d cycles: %d\n",
		env.Proc.GetInstructionCount(), env.Proc.GetCycleCount())
	return false, nil
}

func cmdInterrupt(env *Env, args []string) (bool, error) {
	if len(args) != 1 {
		return false, errors.New("interrupt requires a bit number")
	}
	bit, err := parseInt(args[0])
	if err != nil {
		return false, fmt.Errorf("invalid bit %q: %w", args[0], err)
	}
	env.Proc.RaiseInterrupt(uint(bit))
	return false, nil
}

func cmdQuit(_ *Env, _ []string) (bool, error) {
	return true, nil
}
