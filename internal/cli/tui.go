package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/ptplot/pkg/animation"
	"github.com/matzehuels/ptplot/pkg/draw"
	"github.com/matzehuels/ptplot/pkg/plot"
)

// Player styles
var (
	playerKeyStyle  = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	playerHelpStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// tickMsg advances playback by one frame. Ticks from an earlier play
// session carry a stale generation and are dropped.
type tickMsg struct{ gen int }

// PlayerModel is the bubbletea model of the terminal player. It shows one
// figure of the grid at a time; tab cycles through facets.
type PlayerModel struct {
	res    *plot.Result
	ctl    *animation.Control
	title  string
	figure int
	gen    int
	width  int
	height int
}

// NewPlayerModel creates a player over a drawn plot.
func NewPlayerModel(res *plot.Result, title string) PlayerModel {
	return PlayerModel{res: res, ctl: res.Control, title: title, width: 100, height: 30}
}

func (m PlayerModel) Init() tea.Cmd {
	return nil
}

func (m PlayerModel) tick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.ctl.Period(), func(time.Time) tea.Msg { return tickMsg{gen: gen} })
}

func (m PlayerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.figure = (m.figure + 1) % len(m.res.Grid.Figures)
		case "shift+tab":
			m.figure = (m.figure + len(m.res.Grid.Figures) - 1) % len(m.res.Grid.Figures)
		}
		if m.ctl == nil {
			return m, nil
		}
		switch msg.String() {
		case " ", "p":
			if m.ctl.Toggle() {
				m.gen++
				return m, m.tick()
			}
		case "right", "l":
			m.ctl.Pause()
			m.ctl.Step(1)
		case "left", "h":
			m.ctl.Pause()
			m.ctl.Step(-1)
		case "home", "g":
			m.ctl.Pause()
			_ = m.ctl.SetIndex(0)
		case "end", "G":
			m.ctl.Pause()
			_ = m.ctl.SetIndex(len(m.ctl.Frames()) - 1)
		}
	case tickMsg:
		if m.ctl == nil || msg.gen != m.gen || !m.ctl.State().Playing {
			return m, nil
		}
		m.ctl.Tick()
		if m.ctl.State().Playing {
			return m, m.tick()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m PlayerModel) View() string {
	var b strings.Builder
	if m.title != "" {
		b.WriteString(StyleTitle.Render(m.title))
		b.WriteString("\n")
	}

	fig := m.res.Grid.Figures[m.figure]
	w, h := canvasSize(fig, m.width-2, m.height-8)
	b.WriteString(renderFigure(fig, w, h))
	b.WriteString("\n")
	b.WriteString(m.status(fig))
	b.WriteString("\n")
	b.WriteString(m.help())
	return b.String()
}

// status is a one-row table of the facet, frame and playback state.
func (m PlayerModel) status(fig *draw.Figure) string {
	facet := fig.Title
	if facet == "" {
		facet = "-"
	}
	row := []string{fmt.Sprintf("%s (%d/%d)", facet, m.figure+1, len(m.res.Grid.Figures)), "static", ""}
	if m.ctl != nil {
		st := m.ctl.State()
		state := "paused"
		if st.Playing {
			state = "playing"
		}
		row = []string{row[0], fmt.Sprintf("%s (%d/%d)", st.Label, st.Index+1, len(m.ctl.Frames())), state}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("FACET", "FRAME", "STATE").
		Row(row...).
		StyleFunc(func(r, col int) lipgloss.Style {
			if r == table.HeaderRow {
				return lipgloss.NewStyle().Foreground(colorGray).Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Foreground(colorWhite).Padding(0, 1)
		}).
		Render()
}

func (m PlayerModel) help() string {
	keys := [][2]string{{"q", "quit"}}
	if len(m.res.Grid.Figures) > 1 {
		keys = append(keys, [2]string{"tab", "next facet"})
	}
	if m.ctl != nil {
		keys = append(keys, [2]string{"space", "play/pause"}, [2]string{"←/→", "step"}, [2]string{"g/G", "first/last"})
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = playerKeyStyle.Render(k[0]) + " " + playerHelpStyle.Render(k[1])
	}
	return strings.Join(parts, playerHelpStyle.Render(" • "))
}

// canvasSize fits the figure's aspect into w×h terminal cells. A cell is
// roughly twice as tall as it is wide.
func canvasSize(fig *draw.Figure, w, h int) (int, int) {
	w, h = max(w, 20), max(h, 8)
	if fig.Width <= 0 || fig.Height <= 0 {
		return w, h
	}
	aspect := float64(fig.Width) / float64(fig.Height)
	if cw := int(float64(h) * 2 * aspect); cw <= w {
		return cw, h
	}
	return w, max(int(float64(w)/aspect/2), 2)
}
