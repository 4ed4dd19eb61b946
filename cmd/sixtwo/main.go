// Command sixtwo loads a raw binary image into a 6502 core and drives it
// through a line-oriented REPL, mirroring the debug loop a bare-metal
// emulator needs during bring-up: step one instruction at a time, inspect
// registers and memory, set a breakpoint-like trap, then let it run.
package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"gopkg.in/urfave/cli.v2"

	"sixtwo/cpu"
	"sixtwo/runner"
)

func main() {
	app := &cli.App{
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "rom",
				Aliases: []string{"r"},
				Usage:   "path to a raw binary image to load into memory",
			},
			&cli.StringFlag{
				Name:  "load",
				Usage: "hex address to load the rom at",
				Value: "0x0000",
			},
			&cli.StringFlag{
				Name:  "pc",
				Usage: "hex start address for the program counter",
			},
			&cli.StringSliceFlag{
				Name:  "trap",
				Usage: "ADDR=MSG pair; pauses continuous mode when PC reaches ADDR",
			},
			&cli.StringFlag{
				Name:  "dump",
				Usage: "path to write the 65536-byte memory image to when the REPL exits",
			},
			&cli.BoolFlag{
				Name:  "tui",
				Usage: "launch the interactive page/register viewer instead of the REPL",
			},
		},
		Name:    "sixtwo",
		Usage:   "run a 6502 binary image under a trace/trap REPL",
		Version: "v0.1.0",
		Action:  run,
	}

	sort.Sort(cli.FlagsByName(app.Flags))
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		cli.ShowAppHelp(c)
		return cli.Exit("", 86)
	}

	loadAddr, err := parseHexU16(c.String("load"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("invalid --load value: %v", err), 1)
	}

	rom, err := os.ReadFile(romPath)
	if err != nil {
		return cli.Exit(fmt.Sprintf("could not read rom: %v", err), 1)
	}

	chip := cpu.NewChip()
	chip.LoadBytes(loadAddr, rom)

	if pcFlag := c.String("pc"); pcFlag != "" {
		pc, err := parseHexU16(pcFlag)
		if err != nil {
			return cli.Exit(fmt.Sprintf("invalid --pc value: %v", err), 1)
		}
		chip.PC = pc
	} else {
		chip.PC = loadAddr
	}

	if c.Bool("tui") {
		return runTUI(chip, loadAddr)
	}

	r := runner.New(chip)
	for _, t := range c.StringSlice("trap") {
		addr, msg, err := parseTrap(t)
		if err != nil {
			return cli.Exit(fmt.Sprintf("invalid --trap value %q: %v", t, err), 1)
		}
		r.AddTrap(addr, msg)
	}

	d := &replDriver{in: bufio.NewScanner(os.Stdin)}
	if err := r.Run(d); err != nil {
		fmt.Println(err)
	}

	if dumpPath := c.String("dump"); dumpPath != "" {
		if err := r.DumpMemory(dumpPath); err != nil {
			return cli.Exit(fmt.Sprintf("could not dump memory: %v", err), 1)
		}
	}

	return nil
}

func parseHexU16(s string) (uint16, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	n, err := strconv.ParseUint(s, 16, 16)
	if err != nil {
		return 0, err
	}
	return uint16(n), nil
}

func parseTrap(s string) (uint16, string, error) {
	parts := strings.SplitN(s, "=", 2)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("expected ADDR=MSG")
	}
	addr, err := parseHexU16(parts[0])
	if err != nil {
		return 0, "", err
	}
	return addr, parts[1], nil
}

// replDriver implements runner.Driver by prompting stdin for a command,
// printing the current state and next instruction first, same as the
// command set a 6502 bring-up REPL would expose: mem, mem_dec, reg, op,
// hist, dump, cont/c, next/s, exit/q.
type replDriver struct {
	in *bufio.Scanner
}

func (d *replDriver) Next(r *runner.Runner) runner.Command {
	fmt.Printf("State: %s\n", runner.FormatState(r.CPU.Snapshot()))
	fmt.Printf("Next instruction: %s\n", runner.FormatInstruction(r.CPU.PeekInstructionAt(r.CPU.PC)))

	for {
		if !d.in.Scan() {
			return runner.CmdQuit
		}
		fields := strings.Fields(d.in.Text())
		if len(fields) == 0 {
			fmt.Println("No valid command was entered!")
			continue
		}

		switch fields[0] {
		case "mem_dec":
			d.printMemDec(r, fields)
		case "mem":
			d.printMemHex(r, fields)
		case "reg":
			fmt.Println(spew.Sdump(r.CPU.Snapshot()))
		case "op":
			d.printInstruction(r, fields)
		case "hist":
			d.printHistory(r, fields)
		case "dump":
			if len(fields) < 2 {
				fmt.Println("Invalid arguments")
				continue
			}
			if err := r.DumpMemory(fields[1]); err != nil {
				fmt.Println(err)
			}
		case "cont", "c":
			r.SetContinuous(true)
			return runner.CmdContinue
		case "next", "s":
			return runner.CmdStep
		case "exit", "q":
			return runner.CmdQuit
		default:
			fmt.Println("No valid command was entered!")
		}
	}
}

func (d *replDriver) printInstruction(r *runner.Runner, fields []string) {
	pos := r.CPU.PC
	if len(fields) >= 2 && fields[1] != "*" {
		addr, err := parseHexU16(fields[1])
		if err != nil {
			fmt.Printf("Invalid start value %s\n", fields[1])
			return
		}
		pos = addr
	}
	fmt.Println(spew.Sdump(r.CPU.PeekInstructionAt(pos)))
}

func (d *replDriver) printMemDec(r *runner.Runner, fields []string) {
	if len(fields) < 3 {
		fmt.Println("Invalid arguments")
		return
	}
	start, err := strconv.ParseUint(fields[1], 10, 16)
	if err != nil {
		fmt.Printf("Invalid start value %s\n", fields[1])
		return
	}
	size, err := strconv.ParseUint(fields[2], 10, 16)
	if err != nil {
		fmt.Printf("Invalid range value %s\n", fields[2])
		return
	}
	printHexTable(r, int(size), int(start))
}

func (d *replDriver) printMemHex(r *runner.Runner, fields []string) {
	start := r.CPU.PC
	sizeStr := ""
	switch {
	case len(fields) < 2:
		fmt.Println("Invalid arguments")
		return
	case len(fields) < 3 || fields[1] == "*":
		sizeStr = fields[1]
	default:
		addr, err := parseHexU16(fields[1])
		if err != nil {
			fmt.Printf("Invalid start value %s\n", fields[1])
			return
		}
		start = addr
		sizeStr = fields[2]
	}
	size, err := strconv.ParseUint(sizeStr, 16, 16)
	if err != nil {
		fmt.Printf("Invalid range value %s\n", sizeStr)
		return
	}
	printHexTable(r, int(size), int(start))
}

func (d *replDriver) printHistory(r *runner.Runner, fields []string) {
	n := 10
	if len(fields) >= 2 && fields[1] != "*" {
		v, err := strconv.Atoi(fields[1])
		if err != nil {
			fmt.Printf("Invalid size value %s\n", fields[1])
			return
		}
		n = v
	}
	r.PrintHistory(n)
}

// printHexTable renders size bytes starting at start as a 16-column hex
// dump, left-padded to align start to a 16-byte row boundary.
func printHexTable(r *runner.Runner, size, start int) {
	fmt.Println("      00 01 02 03 04 05 06 07 08 09 0A 0B 0C 0D 0E 0F")
	fmt.Println("      -----------------------------------------------")

	index := start
	count := 0
	padding := start % 16

	if padding != 0 {
		fmt.Printf("%04x: ", index-padding)
		fmt.Print(strings.Repeat("   ", padding))
		for i := padding; i < 16; i++ {
			if count < size {
				fmt.Printf("%02x ", r.CPU.ReadU8(uint16(index)))
			} else {
				fmt.Print("   ")
			}
			count++
			index++
		}
		fmt.Println()
	}

	for count < size {
		fmt.Printf("%04x: ", index)
		for i := 0; i < 16; i++ {
			if count < size {
				fmt.Printf("%02X ", r.CPU.ReadU8(uint16(index)))
			} else {
				fmt.Print("   ")
			}
			count++
			index++
		}
		fmt.Println()
	}
}
