// Package runner drives a cpu.Chip instruction by instruction, keeping a
// bounded trace history and a table of PC addresses that pause continuous
// execution.
package runner

import (
	"fmt"
	"os"

	"sixtwo/cpu"
)

// historySize is the number of trace entries retained; older entries wrap
// around and are overwritten.
const historySize = 1000

// Command is what a Driver tells the Runner to do after it has printed the
// current state and the next instruction.
type Command int

const (
	// CmdStep executes exactly one more instruction, then asks again.
	CmdStep Command = iota
	// CmdContinue runs without stopping until a trap or loop is hit.
	CmdContinue
	// CmdQuit ends the run.
	CmdQuit
)

// Driver is the run loop's source of commands: once per paused instruction
// it decides what happens next. Run itself only prints trap and loop
// messages to stdout.
type Driver interface {
	Next(r *Runner) Command
}

// TrapHit reports that execution reached an address registered with
// AddTrap. It is not a fatal error; Run reports it and pauses continuous
// mode rather than returning it as an error.
type TrapHit struct {
	PC  uint16
	Msg string
}

func (e TrapHit) Error() string {
	return fmt.Sprintf("trap hit at 0x%04X: %s", e.PC, e.Msg)
}

// LoopDetected reports that the CPU's PC did not change between two
// consecutive instructions, almost always because it jumped to itself.
type LoopDetected struct {
	PC uint16
}

func (e LoopDetected) Error() string {
	return fmt.Sprintf("infinite self-loop detected at 0x%04X", e.PC)
}

// Runner owns a Chip, its trace history and its trap table. Nothing holds a
// reference back into the Runner except through the Driver interface.
type Runner struct {
	CPU *cpu.Chip

	opCount      uint64
	instrHistory [historySize]cpu.Instruction
	stateHistory [historySize]cpu.State
	traps        map[uint16]string
	continuous   bool
}

// New returns a Runner wrapping chip, with an empty trap table.
func New(chip *cpu.Chip) *Runner {
	return &Runner{
		CPU:   chip,
		traps: make(map[uint16]string),
	}
}

// AddTrap registers (or overwrites) a message to print when execution
// reaches addr.
func (r *Runner) AddTrap(addr uint16, message string) {
	r.traps[addr] = message
}

// Run repeatedly decodes the next instruction, records it, checks for a
// self-loop or a trap, asks driver what to do when not in continuous mode,
// then executes the instruction. It returns when driver returns CmdQuit, or
// when Step reports an error.
func (r *Runner) Run(driver Driver) error {
	for {
		next := r.CPU.PeekInstructionAt(r.CPU.PC)
		slot := r.opCount % historySize
		r.instrHistory[slot] = next
		r.stateHistory[slot] = r.CPU.Snapshot()

		if r.opCount > 0 {
			prevSlot := (r.opCount - 1) % historySize
			if r.CPU.PC == r.stateHistory[prevSlot].PC {
				fmt.Println(LoopDetected{PC: r.CPU.PC}.Error())
				r.continuous = false
			} else if msg, ok := r.traps[r.CPU.PC]; ok {
				fmt.Println(TrapHit{PC: r.CPU.PC, Msg: msg}.Error())
				r.continuous = false
			}
		} else if msg, ok := r.traps[r.CPU.PC]; ok {
			fmt.Println(TrapHit{PC: r.CPU.PC, Msg: msg}.Error())
			r.continuous = false
		}

		if !r.continuous {
			if driver.Next(r) == CmdQuit {
				return nil
			}
		}

		r.opCount++
		if _, err := r.CPU.Step(); err != nil {
			return err
		}
	}
}

// SetContinuous puts the runner into (or out of) continuous mode. A Driver
// calls this from Next in response to a "cont"/"c" command.
func (r *Runner) SetContinuous(on bool) {
	r.continuous = on
}

// Continuous reports whether the runner is currently running without
// stopping between instructions.
func (r *Runner) Continuous() bool {
	return r.continuous
}

// PrintHistory prints the trace entries from n steps back up to the current
// one (offsets -n through 0, so n+1 lines once that many exist), oldest
// first, as "Step ±k: <instr> || Regs: <state>".
func (r *Runner) PrintHistory(n int) {
	if n <= 0 {
		n = 10
	}
	start := uint64(0)
	if r.opCount > uint64(n) {
		start = r.opCount - uint64(n)
	}
	for counter := start; counter <= r.opCount; counter++ {
		slot := counter % historySize
		offset := int64(counter) - int64(r.opCount)
		fmt.Printf("Step %d: %s || Regs: %s\n", offset, FormatInstruction(r.instrHistory[slot]), FormatState(r.stateHistory[slot]))
	}
}

// DumpMemory writes the raw 65536-byte memory image to path.
func (r *Runner) DumpMemory(path string) error {
	data := r.CPU.Dump()
	return os.WriteFile(path, data, 0o644)
}

// FormatInstruction renders a decoded instruction the way PrintHistory and a
// Driver's prompt both display it.
func FormatInstruction(i cpu.Instruction) string {
	return fmt.Sprintf("%s %s %04X #%d", i.Operation, i.Mode, i.Operand, i.Cycles)
}

// FormatState renders a register snapshot the way PrintHistory and a
// Driver's prompt both display it.
func FormatState(s cpu.State) string {
	return fmt.Sprintf("PC: %04X, A: %02X, X: %02X, Y: %02X, SP: %02X, SR: %02X, cycles: %d",
		s.PC, s.A, s.X, s.Y, s.SP, s.SR, s.Cycles)
}
