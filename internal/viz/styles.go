package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	Header    lipgloss.Style
	Panel     lipgloss.Style
	Label     lipgloss.Style
	Value     lipgloss.Style
	Selected  lipgloss.Style
	Running   lipgloss.Style
	Paused    lipgloss.Style
	Failed    lipgloss.Style
	Graph     lipgloss.Style
	KeyHint   lipgloss.Style
	SparkHigh lipgloss.Style
	SparkMid  lipgloss.Style
	SparkLow  lipgloss.Style
}

// currentStyles derives every style from CurrentTheme.
func currentStyles() styles {
	th := CurrentTheme
	return styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(th.Primary).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(th.Muted),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(th.Muted).
			Padding(0, 2),
		Label:     lipgloss.NewStyle().Foreground(th.Muted).Width(14),
		Value:     lipgloss.NewStyle().Foreground(th.Secondary).Bold(true),
		Selected:  lipgloss.NewStyle().Foreground(th.Accent).Bold(true),
		Running:   lipgloss.NewStyle().Foreground(th.Success).Bold(true),
		Paused:    lipgloss.NewStyle().Foreground(th.Warning).Bold(true),
		Failed:    lipgloss.NewStyle().Foreground(th.Error).Bold(true),
		Graph:     lipgloss.NewStyle().Foreground(th.Primary).Padding(1, 0),
		KeyHint:   lipgloss.NewStyle().Foreground(th.Muted).Italic(true),
		SparkHigh: lipgloss.NewStyle().Foreground(th.Success),
		SparkMid:  lipgloss.NewStyle().Foreground(th.Warning),
		SparkLow:  lipgloss.NewStyle().Foreground(th.Error),
	}
}

// ProgressBar renders percent (0..1) of width cells.
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

// Sparkline maps values onto block characters, sampled to at most width
// cells.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := int(norm * float64(len(chars)-1))
		idx = min(max(idx, 0), len(chars)-1)
		b.WriteRune(chars[idx])
	}
	return b.String()
}

// colorSpark colours a sparkline by the trend between its first and last
// sample.
func colorSpark(st styles, spark string, first, last float64) string {
	switch {
	case last > first:
		return st.SparkHigh.Render(spark)
	case last < first:
		return st.SparkLow.Render(spark)
	default:
		return st.SparkMid.Render(spark)
	}
}
