package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/nivschuman/ChainDemocracy/internal/query"
)

const barWidth = 30

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	leaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

func padToWidth(s string, width int) string {
	current := runewidth.StringWidth(s)
	if current >= width {
		return runewidth.Truncate(s, width, "...")
	}
	return s + strings.Repeat(" ", width-current)
}

// BlockMsg is sent for every committed block.
type BlockMsg struct {
	Height int64
	Time   time.Time
	Txs    int
}

// ElectionMsg carries a fresh election view.
type ElectionMsg struct {
	Election *query.ElectionView
}

// ResultMsg carries the last stored tally.
type ResultMsg struct {
	Result *query.ResultView
}

type ErrorMsg struct {
	Err error
}

type Model struct {
	electionName string
	election     *query.ElectionView
	result       *query.ResultView
	height       int64
	blockTime    time.Time
	err          error
	width        int
}

func NewModel(electionName string) Model {
	return Model{electionName: electionName}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case BlockMsg:
		m.height = msg.Height
		m.blockTime = msg.Time
		return m, nil

	case ElectionMsg:
		m.election = msg.Election
		m.err = nil
		return m, nil

	case ResultMsg:
		m.result = msg.Result
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m Model) View() string {
	sections := []string{m.renderHeader()}

	if m.err != nil {
		sections = append(sections, errorStyle.Render("error: "+m.err.Error()))
	}

	if m.election == nil {
		sections = append(sections, mutedStyle.Render("waiting for election "+m.electionName+"..."))
	} else {
		sections = append(sections, m.renderCandidates(), m.renderResult())
	}

	sections = append(sections, mutedStyle.Render("q to quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := titleStyle.Render("Election " + m.electionName)

	block := "height: N/A"
	if m.height > 0 {
		block = fmt.Sprintf("height: %d  time: %s", m.height, m.blockTime.UTC().Format(time.DateTime))
	}

	if m.election == nil {
		return lipgloss.JoinVertical(lipgloss.Left, title, block)
	}

	status := "closed"
	if m.election.IsActive {
		status = "active"
	}
	window := fmt.Sprintf("%s to %s (%s)", m.election.StartDate, m.election.EndDate, status)
	votes := fmt.Sprintf("votes cast: %d", m.election.NumberOfVotes)

	return lipgloss.JoinVertical(lipgloss.Left, title, block, window, votes)
}

func (m Model) nameWidth() int {
	width := len("Candidate")
	for _, candidate := range m.election.Candidates {
		width = max(width, runewidth.StringWidth(candidate.Name))
	}
	if m.width > 0 {
		width = min(width, max(m.width-barWidth-20, 8))
	}
	return width
}

func (m Model) renderCandidates() string {
	if len(m.election.Candidates) == 0 {
		return mutedStyle.Render("no candidates registered")
	}

	nameWidth := m.nameWidth()
	lines := []string{titleStyle.Render(padToWidth("Candidate", nameWidth) + "   Votes  Share")}

	var leader int64
	for _, candidate := range m.election.Candidates {
		leader = max(leader, candidate.Votes)
	}

	for _, candidate := range m.election.Candidates {
		share := Share(candidate.Votes, m.election.NumberOfVotes)
		line := fmt.Sprintf("%s %7d  %6.2f%% %s",
			padToWidth(candidate.Name, nameWidth),
			candidate.Votes,
			share,
			Bar(share, barWidth),
		)
		if leader > 0 && candidate.Votes == leader {
			line = leaderStyle.Render(line)
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderResult() string {
	if m.result == nil || len(m.result.Results) == 0 {
		return mutedStyle.Render("not counted yet")
	}

	lines := []string{titleStyle.Render(fmt.Sprintf("Counted result (%d votes)", m.result.NumberOfVotes))}
	for i, entry := range m.result.Results {
		lines = append(lines, fmt.Sprintf("%2d. %s %6.2f%%", i+1, padToWidth(entry.Name, m.nameWidth()), entry.Percentage))
	}
	return strings.Join(lines, "\n")
}

// Share is the percentage of total held by votes, 0 when nothing was cast.
func Share(votes, total int64) float64 {
	if total <= 0 {
		return 0
	}
	return float64(votes) / float64(total) * 100
}

// Bar renders percentage as a fixed width bar.
func Bar(percentage float64, width int) string {
	filled := int(percentage / 100 * float64(width))
	filled = min(max(filled, 0), width)
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Run starts the monitor and forwards updates until the channel closes or
// ctx is cancelled.
func Run(ctx context.Context, electionName string, updates <-chan tea.Msg) error {
	p := tea.NewProgram(NewModel(electionName), tea.WithAltScreen(), tea.WithContext(ctx))

	go func() {
		for msg := range updates {
			p.Send(msg)
		}
		p.Quit()
	}()

	_, err := p.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}
