// Package ui provides optional terminal interfaces.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"github.com/nibzard/plant-paladin/internal/garden"
)

// ErrNotTTY is returned when the TUI is started without a terminal.
var ErrNotTTY = errors.New("tui requires a TTY")

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

// tuiConfig holds TUI configuration.
type tuiConfig struct {
	now          func() time.Time
	tickInterval time.Duration
}

// WithClock sets the clock used to compute overdue plants.
func WithClock(now func() time.Time) TUIOption {
	return func(c *tuiConfig) {
		c.now = now
	}
}

// WithTickInterval sets how often the view recomputes due dates.
func WithTickInterval(d time.Duration) TUIOption {
	return func(c *tuiConfig) {
		c.tickInterval = d
	}
}

// RunTUI starts the interactive plant view for g.
func RunTUI(ctx context.Context, g *garden.Garden, opts ...TUIOption) error {
	if !IsTTY(os.Stdout) {
		return ErrNotTTY
	}
	model := newTUIModel(g, opts...)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type tuiModel struct {
	garden       *garden.Garden
	now          func() time.Time
	tickInterval time.Duration

	plants   []garden.PlantInfo
	cursor   int
	selected map[string]bool
	message  string
	lastErr  error
	showHelp bool
}

type tickMsg time.Time

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	cursorStyle   = lipgloss.NewStyle().Bold(true)
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	okStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	messageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	footerStyle   = lipgloss.NewStyle().Faint(true)
	sectionHeader = lipgloss.NewStyle().Underline(true)
)

func newTUIModel(g *garden.Garden, opts ...TUIOption) *tuiModel {
	c := &tuiConfig{
		now:          time.Now,
		tickInterval: time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	m := &tuiModel{
		garden:       g,
		now:          c.now,
		tickInterval: c.tickInterval,
		selected:     make(map[string]bool),
	}
	m.refresh()
	return m
}

func (m *tuiModel) Init() tea.Cmd {
	return tickCmd(m.tickInterval)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.plants)-1 {
				m.cursor++
			}
		case " ", "x":
			m.toggle()
		case "w", "enter":
			m.waterSelected()
		case "a":
			m.water(garden.AllOverdue{})
		case "r", "f5":
			m.reload()
		case "h", "?":
			m.showHelp = !m.showHelp
		}
	case tickMsg:
		m.refresh()
		return m, tickCmd(m.tickInterval)
	}
	return m, nil
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)

	if m.showHelp {
		writeHelp(&b)
		writeFooter(&b)
		return b.String()
	}

	writePlants(&b, m.plants, m.cursor, m.selected)
	writeStatus(&b, m.message, m.lastErr)
	writeFooter(&b)
	return b.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *tuiModel) refresh() {
	m.plants = m.garden.Plants(m.now())
	if m.cursor >= len(m.plants) {
		m.cursor = max(len(m.plants)-1, 0)
	}
	for name := range m.selected {
		if !m.garden.Config.Has(name) {
			delete(m.selected, name)
		}
	}
}

func (m *tuiModel) toggle() {
	if len(m.plants) == 0 {
		return
	}
	name := m.plants[m.cursor].Name
	if m.selected[name] {
		delete(m.selected, name)
	} else {
		m.selected[name] = true
	}
}

func (m *tuiModel) waterSelected() {
	var names []string
	for _, p := range m.plants {
		if m.selected[p.Name] {
			names = append(names, p.Name)
		}
	}
	if len(names) == 0 && len(m.plants) > 0 {
		names = []string{m.plants[m.cursor].Name}
	}
	if len(names) == 0 {
		return
	}
	m.water(garden.Targeted{Names: names})
}

func (m *tuiModel) water(req garden.WaterRequest) {
	watered, err := m.garden.Water(req, m.now())
	if err != nil {
		m.lastErr = err
		m.message = ""
		return
	}
	m.lastErr = nil
	m.selected = make(map[string]bool)
	if len(watered) == 0 {
		m.message = "No plants needed watering."
	} else {
		m.message = "Watered: " + strings.Join(watered, ", ")
	}
	m.refresh()
}

func (m *tuiModel) reload() {
	if err := m.garden.Reload(); err != nil {
		m.lastErr = err
		return
	}
	m.lastErr = nil
	m.message = "Reloaded config and state."
	m.refresh()
}

func writeTitle(b *strings.Builder) {
	title := "Plant Paladin"
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writePlants(b *strings.Builder, plants []garden.PlantInfo, cursor int, selected map[string]bool) {
	b.WriteString(sectionHeader.Render("Plants") + "\n\n")
	if len(plants) == 0 {
		b.WriteString("  No plants configured.\n\n")
		return
	}
	due := 0
	for i, p := range plants {
		pointer := " "
		if i == cursor {
			pointer = cursorStyle.Render(">")
		}
		check := "[ ]"
		if selected[p.Name] {
			check = "[x]"
		}
		if p.Overdue {
			due++
		}
		b.WriteString(fmt.Sprintf("%s %s %-20s %s\n", pointer, check, p.Name, formatPlant(p)))
	}
	b.WriteString(fmt.Sprintf("\n  %d of %d plants need water\n\n", due, len(plants)))
}

func formatPlant(p garden.PlantInfo) string {
	last := "never watered"
	if !p.Never() {
		last = "watered " + humanize.Time(p.LastWatered.Time)
	}
	if p.Overdue {
		return overdueStyle.Render("needs water") + "  " + last
	}
	return okStyle.Render(fmt.Sprintf("due in %d days", p.DueIn())) + "  " + last
}

func writeStatus(b *strings.Builder, message string, err error) {
	if err != nil {
		b.WriteString(errorStyle.Render("Error: "+err.Error()) + "\n\n")
		return
	}
	if message != "" {
		b.WriteString(messageStyle.Render(message) + "\n\n")
	}
}

func writeHelp(b *strings.Builder) {
	b.WriteString("Keyboard Shortcuts\n\n")
	b.WriteString("  q, ctrl+c    Quit\n")
	b.WriteString("  up/k down/j  Move cursor\n")
	b.WriteString("  space, x     Toggle selection\n")
	b.WriteString("  w, enter     Water selected plants (or the one under the cursor)\n")
	b.WriteString("  a            Water every plant that needs it\n")
	b.WriteString("  r, F5        Reload config and state\n")
	b.WriteString("  h, ?         Toggle this help screen\n\n")
}

func writeFooter(b *strings.Builder) {
	b.WriteString(footerStyle.Render("Press h for help | q to quit") + "\n")
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
