package main

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"sixtwo/cpu"
)

// tuiModel is a bubbletea view onto a running Chip: a handful of memory
// pages around the load address plus the register file, stepped one
// instruction at a time by pressing space or j.
type tuiModel struct {
	chip   *cpu.Chip
	offset uint16

	prevPC uint16
	err    error
}

func (m tuiModel) Init() tea.Cmd {
	return nil
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case " ", "j":
			m.prevPC = m.chip.PC
			if _, err := m.chip.Step(); err != nil {
				m.err = err
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// renderPage renders the 16 bytes starting at start as one line, bracketing
// the byte the program counter currently points at.
func (m tuiModel) renderPage(start uint16) string {
	s := fmt.Sprintf("%04x | ", start)
	for i := uint16(0); i < 16; i++ {
		addr := start + i
		b := m.chip.ReadU8(addr)
		if addr == m.chip.PC {
			s += fmt.Sprintf("[%02x] ", b)
		} else {
			s += fmt.Sprintf(" %02x  ", b)
		}
	}
	return s
}

func (m tuiModel) status() string {
	flagBits := []struct {
		name string
		set  bool
	}{
		{"N", m.chip.Flag(cpu.FlagNegative)},
		{"V", m.chip.Flag(cpu.FlagOverflow)},
		{"_", m.chip.Flag(cpu.FlagUnused)},
		{"B", m.chip.Flag(cpu.FlagBreak)},
		{"D", m.chip.Flag(cpu.FlagDecimal)},
		{"I", m.chip.Flag(cpu.FlagInterrupt)},
		{"Z", m.chip.Flag(cpu.FlagZero)},
		{"C", m.chip.Flag(cpu.FlagCarry)},
	}
	var header, flags strings.Builder
	for _, f := range flagBits {
		header.WriteString(f.name + " ")
		if f.set {
			flags.WriteString("/ ")
		} else {
			flags.WriteString("  ")
		}
	}
	return fmt.Sprintf("\nPC: %04x (%04x)\nA: %02x\nX: %02x\nY: %02x\n%s\n%s",
		m.chip.PC, m.prevPC, m.chip.A, m.chip.X, m.chip.Y, header.String(), flags.String())
}

func (m tuiModel) pageTable() string {
	header := "page | "
	for b := 0; b < 16; b++ {
		header += fmt.Sprintf("  %01x  ", b)
	}
	rows := []string{header}
	page := m.offset &^ 0x0F
	for i := uint16(0); i < 5; i++ {
		rows = append(rows, m.renderPage(page+i*16))
	}
	return strings.Join(rows, "\n")
}

func (m tuiModel) View() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.pageTable(),
			m.status(),
		),
		"",
		spew.Sdump(m.chip.PeekInstructionAt(m.chip.PC)),
	)
}

// runTUI starts the interactive page viewer over chip, starting the camera
// at offset. It blocks until the user quits.
func runTUI(chip *cpu.Chip, offset uint16) error {
	final, err := tea.NewProgram(tuiModel{chip: chip, offset: offset}).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(tuiModel); ok && m.err != nil {
		fmt.Println("Error:", m.err)
	}
	return nil
}
