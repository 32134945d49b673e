package tui

import (
	"context"
	"fmt"
	"strings"

	"portfolio-gallery/internal/gallery"
	"portfolio-gallery/internal/logging"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultWidth = 80
	minTileWidth = 12
)

// Invalidator drops a cached catalog so the next render rescans.
// *media.Scanner implements it.
type Invalidator interface {
	Invalidate()
}

// viewMsg carries the result of a controller call back into Update.
type viewMsg struct {
	state gallery.State
	view  gallery.View
	err   error
}

// Model is the bubbletea model for the terminal gallery browser. It keeps
// one viewer's State and Settings and asks the controller for every page.
type Model struct {
	ctx        context.Context
	controller *gallery.Controller
	catalog    Invalidator

	state    gallery.State
	settings gallery.Settings
	view     gallery.View
	loaded   bool
	err      error

	keys   KeyMap
	help   help.Model
	width  int
	height int
	title  string
}

// New creates a browser starting on the first page with settings.
func New(ctx context.Context, controller *gallery.Controller, catalog Invalidator, settings gallery.Settings, title string) *Model {
	return &Model{
		ctx:        ctx,
		controller: controller,
		catalog:    catalog,
		settings:   settings,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		width:      defaultWidth,
		title:      title,
	}
}

// Init renders the first page.
func (m *Model) Init() tea.Cmd {
	return m.render()
}

// Update handles key presses, resizes and rendered pages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case viewMsg:
		if msg.err != nil {
			logging.Warn("Gallery render failed: %v", msg.err)
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.state = msg.state
		m.view = msg.view
		m.settings = msg.view.Settings
		m.loaded = true
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Previous):
		if !m.view.HasPrevious {
			return m, nil
		}
		return m, m.navigate(gallery.ActionPrevious)

	case key.Matches(msg, m.keys.Next):
		if !m.view.HasNext {
			return m, nil
		}
		return m, m.navigate(gallery.ActionNext)

	case key.Matches(msg, m.keys.MorePerPage):
		return m, m.changeSettings(m.settings.StepPageSize(1))

	case key.Matches(msg, m.keys.FewerPerPage):
		return m, m.changeSettings(m.settings.StepPageSize(-1))

	case key.Matches(msg, m.keys.MoreColumns):
		return m, m.changeSettings(m.settings.StepColumns(1))

	case key.Matches(msg, m.keys.FewerColumns):
		return m, m.changeSettings(m.settings.StepColumns(-1))

	case key.Matches(msg, m.keys.Rescan):
		if m.catalog != nil {
			m.catalog.Invalidate()
		}
		return m, m.refresh()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	return m, nil
}

func (m *Model) render() tea.Cmd {
	state, settings := m.state, m.settings
	return func() tea.Msg {
		next, view, err := m.controller.Render(m.ctx, state, settings)
		return viewMsg{state: next, view: view, err: err}
	}
}

func (m *Model) refresh() tea.Cmd {
	state, settings := m.state, m.settings
	return func() tea.Msg {
		next, view, err := m.controller.Refresh(m.ctx, state, settings)
		return viewMsg{state: next, view: view, err: err}
	}
}

func (m *Model) navigate(action gallery.Action) tea.Cmd {
	state, settings := m.state, m.settings
	return func() tea.Msg {
		next, view, err := m.controller.Navigate(m.ctx, action, state, settings)
		return viewMsg{state: next, view: view, err: err}
	}
}

func (m *Model) changeSettings(updated gallery.Settings) tea.Cmd {
	if updated == m.settings {
		return nil
	}
	state := m.state
	return func() tea.Msg {
		next, view, err := m.controller.ChangeSettings(m.ctx, state, updated)
		return viewMsg{state: next, view: view, err: err}
	}
}

// State returns the current position.
func (m *Model) State() gallery.State {
	return m.state
}

// Settings returns the current layout.
func (m *Model) Settings() gallery.Settings {
	return m.settings
}

// View draws the header, the page navigation above and below the grid, and help.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(m.title))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("Total works: %d · %d columns · %d per page",
		m.view.Total, m.settings.Columns, m.settings.PageSize)))
	b.WriteString("\n\n")

	switch {
	case m.err != nil && !m.loaded:
		b.WriteString(errorStyle.Render("Could not load gallery: " + m.err.Error()))
		b.WriteString("\n")
	case !m.loaded:
		b.WriteString(statusStyle.Render("Loading…"))
		b.WriteString("\n")
	case m.view.Empty:
		b.WriteString(statusStyle.Render("The gallery is empty. Add .webp, .png or .jpg files to the image directory."))
		b.WriteString("\n")
	default:
		nav := m.navigation()
		b.WriteString(nav)
		b.WriteString("\n")
		b.WriteString(m.grid())
		b.WriteString("\n")
		b.WriteString(nav)
		b.WriteString("\n")
	}

	if m.err != nil && m.loaded {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) navigation() string {
	prev := disabledStyle.Render("◀ Previous")
	if m.view.HasPrevious {
		prev = labelStyle.Render("◀ Previous")
	}
	next := disabledStyle.Render("Next ▶")
	if m.view.HasNext {
		next = labelStyle.Render("Next ▶")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, prev, "   ", labelStyle.Render(m.view.Label), "   ", next)
}

// grid lays tiles out in rows of Columns cells, in catalog order.
func (m *Model) grid() string {
	cols := max(m.settings.Columns, 1)
	// Borders add two cells outside the styled width.
	inner := max(m.width/cols-2, minTileWidth)

	rows := make([]string, 0, len(m.view.Tiles)/cols+1)
	for _, row := range m.view.Rows() {
		cells := make([]string, 0, len(row))
		for _, t := range row {
			cells = append(cells, renderTile(t, inner))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderTile(t gallery.Tile, width int) string {
	if t.Failed() {
		return failedTileStyle.Width(width).Render(truncate("Could not load "+t.Name, width-2))
	}
	return tileStyle.Width(width).Render(truncate(t.Name, width-2))
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
