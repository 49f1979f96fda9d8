package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ideascope/internal/category"
	"ideascope/internal/domain"
	"ideascope/internal/scoring"
)

// AnalyzerPort is the TUI-facing subset of the analysis service.
type AnalyzerPort interface {
	Analyze(ctx context.Context, idea string) (*domain.Analysis, error)
}

// Model is the Bubble Tea model for the interactive analyzer.
type Model struct {
	service  AnalyzerPort
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	status   string
	busy     bool
	ready    bool
}

type analysisMsg struct {
	analysis *domain.Analysis
	err      error
}

// New creates a new TUI model instance.
func New(service AnalyzerPort) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Describe your startup idea and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	vp := viewport.New(0, 0)
	return Model{service: service, input: ti, viewport: vp, spinner: sp, status: "Ready."}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header + status + input box + spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		return m, nil

	case analysisMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			m.viewport.SetContent("")
			return m, nil
		}
		m.status = fmt.Sprintf("Category %q, score %d/100. Scroll with up/down.",
			msg.analysis.Category, msg.analysis.Score.Value)
		m.viewport.SetContent(renderAnalysis(msg.analysis))
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			idea := strings.TrimSpace(m.input.Value())
			if idea != "" && !m.busy {
				m.busy = true
				m.status = "Analyzing..."
				return m, tea.Batch(m.spinner.Tick, analyzeCmd(m.service, idea))
			}
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func analyzeCmd(service AnalyzerPort, idea string) tea.Cmd {
	return func() tea.Msg {
		analysis, err := service.Analyze(context.Background(), idea)
		return analysisMsg{analysis: analysis, err: err}
	}
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Ideascope")
	input := queryBoxStyle.Render(m.input.View())
	status := m.status
	if m.busy {
		status = m.spinner.View() + " " + status
	}
	statusLine := statusStyle.Render(status)
	results := resultBoxStyle.Render(m.viewport.View())
	return header + "\n" + results + "\n" + input + "\n" + statusLine
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	sectionStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func renderAnalysis(a *domain.Analysis) string {
	var b strings.Builder

	section := func(title string) {
		b.WriteString(sectionStyle.Render(title))
		b.WriteString("\n")
	}

	section("Summary")
	b.WriteString(a.Summary + "\n\n")

	section(fmt.Sprintf("Score: %d/100", a.Score.Value))
	if a.Score.Reason != "" {
		b.WriteString(a.Score.Reason + "\n")
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("Category %s — %s",
		a.Category, scoring.Explain(category.WeightsFor(a.Category)))) + "\n\n")

	section("Profitability")
	b.WriteString(fmt.Sprintf("ROI %d%% over %d months. %s\n\n",
		a.Profitability.ROIPercentage, a.Profitability.TimeframeMonths, a.Profitability.Reason))

	section("Target audience")
	b.WriteString(fmt.Sprintf("%s (purchasing power: %s)\n%s\n\n",
		a.Target.Segment, a.Target.PurchasingPower, a.Target.Justification))

	section("Positioning")
	b.WriteString(a.Positioning + "\n\n")

	if len(a.Competitors) > 0 {
		section("Competitors")
		for _, c := range a.Competitors {
			line := "• " + c.Name
			if c.LandingPage != "" {
				line += " — " + c.LandingPage
			}
			b.WriteString(line + "\n")
			if c.Strength != "" || c.Weakness != "" {
				b.WriteString(dimStyle.Render(fmt.Sprintf("  + %s  − %s", c.Strength, c.Weakness)) + "\n")
			}
		}
		b.WriteString("\n")
	}

	if len(a.Similar) > 0 {
		section("Similar startups")
		for _, s := range a.Similar {
			b.WriteString(fmt.Sprintf("• %s  %.0f%%\n", s.Idea, s.Similarity*100))
		}
	}

	return b.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
