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
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lassandro/intcode/pkg/driver"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	scoreStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	tileStyles = map[driver.Tile]lipgloss.Style{
		driver.TILE_WALL:   lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		driver.TILE_BLOCK:  lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		driver.TILE_PADDLE: lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA")),
		driver.TILE_BALL:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700")),
	}

	tileGlyphs = map[driver.Tile]string{
		driver.TILE_EMPTY:  " ",
		driver.TILE_WALL:   "█",
		driver.TILE_BLOCK:  "▒",
		driver.TILE_PADDLE: "▔",
		driver.TILE_BALL:   "●",
	}
)

type keyMap struct {
	Left  key.Binding
	Right key.Binding
	Wait  key.Binding
	Auto  key.Binding
	Quit  key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Wait, k.Auto, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var keys = keyMap{
	Left: key.NewBinding(
		key.WithKeys("left", "h"),
		key.WithHelp("←/h", "left"),
	),
	Right: key.NewBinding(
		key.WithKeys("right", "l"),
		key.WithHelp("→/l", "right"),
	),
	Wait: key.NewBinding(
		key.WithKeys(" ", "j"),
		key.WithHelp("space", "wait"),
	),
	Auto: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "autoplay"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

type tickMsg time.Time

type arcadeModel struct {
	arcade *driver.Arcade
	help   help.Model
	auto   bool
	speed  time.Duration
	err    error
}

func newArcadeModel(arcade *driver.Arcade, auto bool, speed time.Duration) *arcadeModel {
	return &arcadeModel{
		arcade: arcade,
		help:   help.New(),
		auto:   auto,
		speed:  speed,
	}
}

func (m *arcadeModel) tick() tea.Cmd {
	return tea.Tick(m.speed, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m *arcadeModel) Init() tea.Cmd {
	if err := m.arcade.Start(); err != nil {
		m.err = err
		return nil
	}

	if m.auto {
		return m.tick()
	}

	return nil
}

func (m *arcadeModel) move(joystick int64) {
	if m.err != nil || m.arcade.Terminated() {
		return
	}

	m.err = m.arcade.Move(joystick)
}

func (m *arcadeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, keys.Auto):
			m.auto = !m.auto

			if m.auto {
				return m, m.tick()
			}

		case m.auto:
			// manual moves are ignored while autoplay drives the paddle

		case key.Matches(msg, keys.Left):
			m.move(-1)

		case key.Matches(msg, keys.Right):
			m.move(1)

		case key.Matches(msg, keys.Wait):
			m.move(0)
		}

	case tickMsg:
		if !m.auto || m.err != nil || m.arcade.Terminated() {
			return m, nil
		}

		m.move(m.arcade.Joystick())

		return m, m.tick()
	}

	return m, nil
}

func (m *arcadeModel) View() string {
	var b strings.Builder

	screen := &m.arcade.Screen

	b.WriteString(titleStyle.Render("Intcode Arcade"))
	b.WriteString(" ")
	b.WriteString(scoreStyle.Render(fmt.Sprintf("score %d", screen.Score)))
	b.WriteString(fmt.Sprintf("  blocks %d", screen.Count(driver.TILE_BLOCK)))

	if m.auto {
		b.WriteString("  [auto]")
	}

	b.WriteString("\n\n")
	b.WriteString(renderScreen(screen))
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	case m.arcade.Terminated():
		b.WriteString(scoreStyle.Render("Game over"))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(keys))

	return b.String()
}

func renderScreen(screen *driver.Screen) string {
	if len(screen.Tiles) == 0 {
		return ""
	}

	var b strings.Builder

	lo, hi := screen.Bounds()

	for y := lo.Y; y <= hi.Y; y++ {
		for x := lo.X; x <= hi.X; x++ {
			tile := screen.Tiles[driver.Point{X: x, Y: y}]
			glyph := tileGlyphs[tile]

			if style, ok := tileStyles[tile]; ok {
				glyph = style.Render(glyph)
			}

			b.WriteString(glyph)
		}

		b.WriteString("\n")
	}

	return b.String()
}
