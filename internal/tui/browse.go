package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"

	"github.com/logandonley/fontenum/pkg/fe"
)

const help = "F1 legacy  F2 modern  F3 fontset  ↑/↓ move  enter preview  ctrl+u reset  esc quit"

// keys choosing an enumeration source
var sourceKeys = map[string]fe.Kind{
	"f1":     fe.KindLegacy,
	"ctrl+g": fe.KindLegacy,
	"f2":     fe.KindModern,
	"ctrl+d": fe.KindModern,
	"f3":     fe.KindFontSet,
	"ctrl+f": fe.KindFontSet,
}

type startMsg struct {
	kind fe.Kind
}

type enumeratedMsg struct {
	ticket fe.Ticket
	fonts  []fe.Font
	err    error
}

// Model is the interactive font browser
type Model struct {
	ctx     context.Context
	session *fe.Session
	output  *termenv.Output
	initial fe.Kind

	cursor  int
	offset  int
	height  int
	loading fe.Kind
	preview string
	err     error
}

// New creates a browser over session. If initial is not KindNone, that
// source is enumerated on start.
func New(ctx context.Context, session *fe.Session, initial fe.Kind, output *termenv.Output) Model {
	return Model{
		ctx:     ctx,
		session: session,
		output:  output,
		initial: initial,
		height:  20,
	}
}

func (m Model) Init() tea.Cmd {
	if m.initial == fe.KindNone {
		return nil
	}
	kind := m.initial
	return func() tea.Msg { return startMsg{kind: kind} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// status, filter, header, preview, help and the error line
		m.height = max(1, msg.Height-6)
		m.scroll()
		return m, nil

	case startMsg:
		return m.start(msg.kind)

	case enumeratedMsg:
		err := m.session.Complete(msg.ticket, msg.fonts, msg.err)
		if errors.Is(err, fe.ErrSuperseded) {
			return m, nil
		}
		m.loading = fe.KindNone
		m.err = err
		m.cursor, m.offset = 0, 0
		return m, nil

	case tea.KeyMsg:
		return m.key(msg)
	}
	return m, nil
}

// start begins an enumeration. The catalog is cleared at once and the
// result arrives as an enumeratedMsg.
func (m Model) start(kind fe.Kind) (tea.Model, tea.Cmd) {
	ticket := m.session.Begin(kind)
	m.loading = kind
	m.err = nil
	m.preview = ""
	m.cursor, m.offset = 0, 0

	ctx, session := m.ctx, m.session
	return m, func() tea.Msg {
		fonts, err := session.Fetch(ctx, kind)
		return enumeratedMsg{ticket: ticket, fonts: fonts, err: err}
	}
}

func (m Model) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if kind, ok := sourceKeys[key]; ok {
		return m.start(kind)
	}

	switch key {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "up":
		m.move(-1)
	case "down":
		m.move(1)
	case "pgup":
		m.move(-m.height)
	case "pgdown":
		m.move(m.height)
	case "enter":
		if font, ok := m.session.Select(m.cursor); ok {
			m.preview = PreviewLine(font)
		}
	case "backspace":
		query := []rune(m.session.Query())
		if len(query) > 0 {
			m.setQuery(string(query[:len(query)-1]))
		}
	case "ctrl+u":
		m.setQuery("")
		m.session.ClearSelection()
		m.preview = ""
	default:
		if msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace {
			m.setQuery(m.session.Query() + string(msg.Runes))
		}
	}
	return m, nil
}

func (m *Model) setQuery(query string) {
	m.session.SetQuery(query)
	m.cursor, m.offset = 0, 0
}

func (m *Model) move(delta int) {
	n := len(m.session.View())
	if n == 0 {
		return
	}
	m.cursor = min(max(m.cursor+delta, 0), n-1)
	m.scroll()
}

// scroll keeps the cursor inside the visible window
func (m *Model) scroll() {
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
}

func (m Model) View() string {
	var b strings.Builder

	if m.loading != fe.KindNone {
		fmt.Fprintf(&b, "Enumerating %s fonts...\n", m.loading)
	} else {
		b.WriteString(m.session.Status() + "\n")
	}
	fmt.Fprintf(&b, "Filter: %s\n", m.session.Query())

	fonts := m.session.Catalog()
	view := m.session.View()
	end := min(m.offset+m.height, len(view))
	opts := fe.TableOptions{
		Highlight: m.session.Query(),
		Output:    m.output,
		Widths:    fe.ColumnWidths(fonts, view),
	}
	var window []int
	if m.offset < end {
		window = view[m.offset:end]
	}
	var table strings.Builder
	_ = fe.RenderTable(&table, fonts, window, opts)
	for i, line := range strings.Split(strings.TrimRight(table.String(), "\n"), "\n") {
		marker := "  "
		if i > 0 && m.offset+i-1 == m.cursor {
			marker = "> "
		}
		b.WriteString(marker + line + "\n")
	}

	if m.preview != "" {
		b.WriteString(m.preview + "\n")
	} else {
		b.WriteString(fe.NoSelectionText + "\n")
	}
	if m.err != nil {
		fmt.Fprintf(&b, "Error: %v\n", m.err)
	}
	b.WriteString(help + "\n")
	return b.String()
}

// PreviewLine describes the attributes a preview of font is drawn with
func PreviewLine(font fe.Font) string {
	slant := "upright"
	if font.Italic {
		slant = "italic"
	}
	return fmt.Sprintf("Preview: %s (weight %d, %s)", strings.TrimSpace(font.Family+" "+font.Style), font.Weight, slant)
}

// Run starts the browser and blocks until the user quits
func Run(ctx context.Context, session *fe.Session, initial fe.Kind, output *termenv.Output) error {
	program := tea.NewProgram(New(ctx, session, initial, output), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	return nil
}
