package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/clubdeck/internal/cli/formatter"
	"github.com/alexanderramin/clubdeck/internal/domain"
	"github.com/alexanderramin/clubdeck/internal/service"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type boardKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Back    key.Binding
	Forward key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

func newBoardKeyMap() boardKeyMap {
	return boardKeyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "column")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "column")),
		Back:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "move back")),
		Forward: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "move on")),
		Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k boardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Up, k.Down, k.Back, k.Forward, k.Refresh, k.Quit}
}

func (k boardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// boardModel is the interactive kanban view. Every status change goes
// through the task service so authorization and persistence match the
// one-shot commands.
type boardModel struct {
	ctx  context.Context
	app  *App
	team string

	view   *service.BoardView
	col    int
	row    int
	status string

	keys boardKeyMap
	help help.Model
}

func newBoardModel(ctx context.Context, app *App, view *service.BoardView) boardModel {
	return boardModel{
		ctx:  ctx,
		app:  app,
		team: view.Team,
		view: view,
		keys: newBoardKeyMap(),
		help: help.New(),
	}
}

func (m boardModel) Init() tea.Cmd { return nil }

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.row > 0 {
				m.row--
			}
		case key.Matches(msg, m.keys.Down):
			if m.row < len(m.columnTasks())-1 {
				m.row++
			}
		case key.Matches(msg, m.keys.Left):
			if m.col > 0 {
				m.col--
				m.clampRow()
			}
		case key.Matches(msg, m.keys.Right):
			if m.col < len(m.view.Columns)-1 {
				m.col++
				m.clampRow()
			}
		case key.Matches(msg, m.keys.Back):
			m.shift(domain.TaskStatus.Prev)
		case key.Matches(msg, m.keys.Forward):
			m.shift(domain.TaskStatus.Next)
		case key.Matches(msg, m.keys.Refresh):
			if m.reload(0) {
				m.status = "refreshed"
			}
		}
	}
	return m, nil
}

func (m boardModel) View() string {
	var b strings.Builder
	b.WriteString(formatter.FormatBoardSelection(m.view, m.col, m.row))
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m *boardModel) columnTasks() []domain.Task {
	if m.col < 0 || m.col >= len(m.view.Columns) {
		return nil
	}
	return m.view.Columns[m.col].Tasks
}

func (m *boardModel) selected() (domain.Task, bool) {
	tasks := m.columnTasks()
	if m.row < 0 || m.row >= len(tasks) {
		return domain.Task{}, false
	}
	return tasks[m.row], true
}

func (m *boardModel) clampRow() {
	if n := len(m.columnTasks()); m.row >= n {
		m.row = max(n-1, 0)
	}
}

func (m *boardModel) shift(step func(domain.TaskStatus) domain.TaskStatus) {
	t, ok := m.selected()
	if !ok {
		return
	}
	target := step(t.Status)
	if target == t.Status {
		return
	}
	if err := m.app.Tasks.SetStatus(m.ctx, m.app.Session, t.ID, target); err != nil {
		m.status = formatter.FormatShellError(errors.New(ErrorMessage(err)))
		return
	}
	if m.reload(t.ID) {
		m.status = fmt.Sprintf("#%d → %s", t.ID, formatter.StatusPill(target))
	}
}

// reload refetches the board. A non-zero follow keeps that task selected.
func (m *boardModel) reload(follow int64) bool {
	view, err := m.app.Tasks.Board(m.ctx, m.app.Session, m.team)
	if err != nil {
		m.status = formatter.FormatShellError(errors.New(ErrorMessage(err)))
		return false
	}
	m.view = view
	if follow != 0 {
		for ci, c := range view.Columns {
			for ri, t := range c.Tasks {
				if t.ID == follow {
					m.col, m.row = ci, ri
					return true
				}
			}
		}
	}
	m.clampRow()
	return true
}
