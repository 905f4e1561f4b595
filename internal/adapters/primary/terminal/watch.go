package terminal

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/fgz-roster/dutyroster/internal/application/services"
	"github.com/fgz-roster/dutyroster/internal/domain"
)

// Roster is what the watch view needs from the roster service.
type Roster interface {
	Refresh(ctx context.Context) error
	Board(now time.Time) domain.Board
	Snapshot() services.Snapshot
	Location() *time.Location
}

var _ Roster = (*services.RosterService)(nil)

type clockTickMsg time.Time

type refreshTickMsg time.Time

type refreshDoneMsg struct {
	err error
}

// WatchModel is a live board: the clock redraws every ClockInterval and the
// roster refreshes every RefreshInterval.
type WatchModel struct {
	ctx    context.Context
	roster Roster
	title  string
	now    func() time.Time

	keys   KeyMap
	help   help.Model
	dark   bool
	styles Styles

	clock      time.Time
	board      domain.Board
	snap       services.Snapshot
	refreshing bool
	width      int
}

// NewWatchModel creates a watch view over roster. Refreshes run under ctx.
func NewWatchModel(ctx context.Context, roster Roster, title string) WatchModel {
	m := WatchModel{
		ctx:    ctx,
		roster: roster,
		title:  title,
		now:    time.Now,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		styles: DefaultStyles(),
	}
	m.clock = m.now().In(roster.Location())
	m.snap = roster.Snapshot()
	m.board = roster.Board(m.clock)
	return m
}

// WithDarkTheme starts the view in dark styles.
func (m WatchModel) WithDarkTheme(dark bool) WatchModel {
	m.dark = dark
	m.styles = m.currentStyles()
	return m
}

func (m WatchModel) currentStyles() Styles {
	if m.dark {
		return NewStyles(DarkPalette)
	}
	return NewStyles(LightPalette)
}

func clockTickCmd() tea.Cmd {
	return tea.Tick(services.ClockInterval, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

func refreshTickCmd() tea.Cmd {
	return tea.Tick(services.RefreshInterval, func(t time.Time) tea.Msg {
		return refreshTickMsg(t)
	})
}

func (m WatchModel) refreshCmd() tea.Cmd {
	ctx, roster := m.ctx, m.roster
	return func() tea.Msg {
		return refreshDoneMsg{err: roster.Refresh(ctx)}
	}
}

// Init starts the first refresh and both tickers.
func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), clockTickCmd(), refreshTickCmd())
}

// Update handles ticks, refresh results and keys.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case clockTickMsg:
		m.clock = time.Time(msg).In(m.roster.Location())
		m.board = m.roster.Board(m.clock)
		return m, clockTickCmd()

	case refreshTickMsg:
		cmds := []tea.Cmd{refreshTickCmd()}
		if !m.refreshing {
			m.refreshing = true
			cmds = append(cmds, m.refreshCmd())
		}
		return m, tea.Batch(cmds...)

	case refreshDoneMsg:
		m.refreshing = false
		m.snap = m.roster.Snapshot()
		m.board = m.roster.Board(m.clock)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			if m.refreshing {
				return m, nil
			}
			m.refreshing = true
			return m, m.refreshCmd()
		case key.Matches(msg, m.keys.Theme):
			m.dark = !m.dark
			m.styles = m.currentStyles()
			return m, nil
		}
	}

	return m, nil
}

// View renders the header, board, status line and key help.
func (m WatchModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Header.Render(m.title))
	b.WriteString(m.styles.Clock.Render(m.clock.Format("15:04:05")))
	b.WriteString("\n")

	if m.snap.LastError != nil {
		b.WriteString(m.styles.Error.Render("Could not refresh the roster: " + m.snap.LastError.Error()))
		b.WriteString("\n")
	}

	b.WriteString(renderBoard(m.styles, m.board, m.clock))
	b.WriteString("\n")
	b.WriteString(m.styles.Status.Render(m.status()))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}

func (m WatchModel) status() string {
	switch {
	case m.refreshing:
		return "Refreshing…"
	case !m.snap.Loaded():
		return "Loading roster…"
	default:
		s := "Updated " + m.snap.FetchedAt.In(m.roster.Location()).Format("15:04:05")
		if m.snap.Skipped > 0 {
			s += " · malformed rows skipped: " + strconv.Itoa(m.snap.Skipped)
		}
		return s
	}
}
