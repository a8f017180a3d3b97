package viz

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/san-kum/kinsim/internal/config"
	"github.com/san-kum/kinsim/internal/experiment"
	"github.com/san-kum/kinsim/internal/network"
	"github.com/san-kum/kinsim/internal/plot"
)

const (
	frameRate     = 30
	stepsPerFrame = 5
	windowRows    = 600
	sparkWidth    = 24
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/frameRate, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model advances one experiment while the program runs. Once the configured
// duration is reached it pauses; resuming runs for another duration.
type Model struct {
	cfg       *config.Config
	registry  *experiment.Registry
	exp       *experiment.Experiment
	species   []int
	target    float64
	running   bool
	selected  int
	err       error
	chartOpts plot.Options
	help      help.Model
	watcher   *fsnotify.Watcher
}

// NewModel builds the experiment described by cfg. The chart follows
// cfg.PlotSpecies, or every species when none are listed.
func NewModel(cfg *config.Config, reg *experiment.Registry) (Model, error) {
	exp, err := experiment.New(cfg, reg)
	if err != nil {
		return Model{}, err
	}

	species := append([]int(nil), cfg.PlotSpecies...)
	if len(species) == 0 {
		for i := 1; i <= exp.Network().NumSpecies(); i++ {
			species = append(species, i)
		}
	}

	opts := plot.DefaultOptions()
	opts.Height = 10
	opts.Width = 60
	opts.MaxPoints = 120

	return Model{
		cfg:       cfg,
		registry:  reg,
		exp:       exp,
		species:   species,
		target:    exp.Network().History().LatestTime() + cfg.Duration,
		running:   true,
		selected:  1,
		chartOpts: opts,
		help:      help.New(),
	}, nil
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return tea.Batch(tick(), waitForChange(m.watcher, m.cfg.ModelFile))
	}
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, keys.Pause):
			if m.err == nil {
				m.togglePause()
			}
		case key.Matches(msg, keys.Reset):
			m.reset()
		case key.Matches(msg, keys.Next):
			m.cycleReaction()
		case key.Matches(msg, keys.Raise):
			m.scaleRate(1.05)
		case key.Matches(msg, keys.Lower):
			m.scaleRate(0.95)
		case key.Matches(msg, keys.Theme):
			NextTheme()
		case key.Matches(msg, keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick()
	case ReloadMsg:
		if msg.Err != nil {
			m.err = msg.Err
			m.running = false
		} else {
			m.reset()
		}
		if m.watcher != nil {
			return m, waitForChange(m.watcher, m.cfg.ModelFile)
		}
	}
	return m, nil
}

func (m *Model) togglePause() {
	if !m.running && m.reachedTarget() {
		m.target += m.cfg.Duration
	}
	m.running = !m.running
}

// reachedTarget allows half a step of slack for time points that land a
// rounding error short of the target.
func (m *Model) reachedTarget() bool {
	return m.exp.Network().History().LatestTime() >= m.target-m.cfg.Dt/2
}

// step advances the experiment by a few recording intervals, stopping on
// the target time.
func (m *Model) step() {
	if m.reachedTarget() {
		m.running = false
		return
	}
	frame := min(stepsPerFrame*m.cfg.Dt, m.target-m.exp.Network().History().LatestTime())
	if err := m.exp.Advance(context.Background(), frame); err != nil {
		m.err = err
		m.running = false
		return
	}
	if m.reachedTarget() {
		m.running = false
	}
}

func (m *Model) reset() {
	exp, err := experiment.New(m.cfg, m.registry)
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.exp = exp
	m.target = exp.Network().History().LatestTime() + m.cfg.Duration
	m.err = nil
	m.running = true
}

func (m *Model) cycleReaction() {
	n := m.exp.Network().NumReactions()
	if n == 0 {
		return
	}
	m.selected = m.selected%n + 1
}

func (m *Model) scaleRate(factor float64) {
	net := m.exp.Network()
	if net.NumReactions() == 0 {
		return
	}
	k := net.RateConstant(m.selected) * factor
	if err := net.SetRateConstants([]int{m.selected}, []float64{k}); err != nil {
		m.err = err
	}
}

func (m Model) View() string {
	st := currentStyles()
	net := m.exp.Network()
	h := net.History()

	var s strings.Builder
	s.WriteString(st.Header.Render(strings.ToUpper(m.exp.Metadata(nil).Model)) + "\n")

	switch {
	case m.err != nil:
		s.WriteString(st.Failed.Render("FAILED: "+m.err.Error()) + "\n")
	case m.running:
		s.WriteString(st.Running.Render("RUNNING") + "\n")
	default:
		s.WriteString(st.Paused.Render("PAUSED") + "\n")
	}

	t := h.LatestTime()
	s.WriteString(ProgressBar(t/m.target, 30) + fmt.Sprintf(" t=%.3f / %.3f\n", t, m.target))

	times, rows := window(h, windowRows)
	if chart, err := plot.Render(times, rows, m.species, m.chartOpts); err == nil {
		s.WriteString(st.Graph.Render(chart) + "\n")
	}

	left := m.speciesView(st, rows)
	right := m.reactionView(st)
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, st.Panel.Render(left), st.Panel.Render(right)) + "\n")

	s.WriteString(st.KeyHint.Render(m.help.View(keys)))
	return s.String()
}

func (m Model) speciesView(st styles, rows [][]float64) string {
	net := m.exp.Network()
	x := net.History().Latest()

	var s strings.Builder
	s.WriteString("SPECIES\n")
	for i := 1; i <= net.NumSpecies(); i++ {
		series := make([]float64, len(rows))
		for j, row := range rows {
			series[j] = row[i]
		}
		name := net.SpeciesName(i)
		if net.IsConstant(i) {
			name += "*"
		}
		spark := colorSpark(st, Sparkline(series, sparkWidth), series[0], series[len(series)-1])
		s.WriteString(st.Label.Render(name) + st.Value.Render(fmt.Sprintf("%10.4g ", x[i])) + spark + "\n")
	}
	return s.String()
}

func (m Model) reactionView(st styles) string {
	net := m.exp.Network()

	var s strings.Builder
	s.WriteString("RATE CONSTANTS\n")
	if net.NumReactions() == 0 {
		s.WriteString(st.Label.Render("  (none)") + "\n")
	}
	for r := 1; r <= net.NumReactions(); r++ {
		line := fmt.Sprintf("%-12s %10.4g", net.ReactionName(r), net.RateConstant(r))
		if r == m.selected {
			s.WriteString(st.Selected.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + st.Label.Render(line) + "\n")
		}
	}
	return s.String()
}

// window returns the last n rows of a history without copying them.
func window(h *network.History, n int) ([]float64, [][]float64) {
	start := max(h.Len()-n, 0)
	times := make([]float64, 0, h.Len()-start)
	rows := make([][]float64, 0, h.Len()-start)
	for i := start; i < h.Len(); i++ {
		times = append(times, h.Time(i))
		rows = append(rows, h.Row(i))
	}
	return times, rows
}

// Run starts the viewer on the alternate screen. With watch set and a
// model file configured, saving the file rebuilds the network.
func Run(cfg *config.Config, reg *experiment.Registry, watch bool) error {
	m, err := NewModel(cfg, reg)
	if err != nil {
		return err
	}

	if watch && cfg.ModelFile != "" {
		w, err := newWatcher(cfg.ModelFile)
		if err != nil {
			return fmt.Errorf("watch %s: %w", cfg.ModelFile, err)
		}
		defer w.Close()
		m.watcher = w
	}

	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
