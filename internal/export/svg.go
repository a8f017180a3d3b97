// Package export renders concentration histories as standalone SVG
// documents.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/kinsim/internal/analysis"
)

// Palette colours successive series.
var Palette = []string{"#00ff88", "#00ccff", "#ff00ff", "#ffaa00", "#ff4444", "#ffffff"}

type Series struct {
	Name   string
	Points []analysis.Point
}

// TimeSeries pairs times with one column per species.
func TimeSeries(times []float64, rows [][]float64, species []int, names []string) ([]Series, error) {
	out := make([]Series, 0, len(species))
	for si, s := range species {
		pts := make([]analysis.Point, len(times))
		for i := range times {
			if s < 0 || s >= len(rows[i]) {
				return nil, fmt.Errorf("species %d out of range", s)
			}
			pts[i] = analysis.Point{X: times[i], Y: rows[i][s]}
		}
		name := fmt.Sprintf("%d", s)
		if si < len(names) {
			name = names[si]
		}
		out = append(out, Series{Name: name, Points: pts})
	}
	return out, nil
}

// WriteSVG draws every series as a polyline on a shared, padded scale with
// a legend in the top-left corner.
func WriteSVG(w io.Writer, series []Series, width, height int) error {
	var all []analysis.Point
	for _, s := range series {
		all = append(all, s.Points...)
	}
	if len(all) < 2 {
		return fmt.Errorf("export: need at least two points, got %d", len(all))
	}

	minX, maxX, minY, maxY := analysis.Bounds(all)
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	for si, s := range series {
		color := Palette[si%len(Palette)]
		fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="`, color)
		for i, p := range s.Points {
			x := (p.X - minX) / rangeX * float64(width)
			y := float64(height) - (p.Y-minY)/rangeY*float64(height)
			if i == 0 {
				fmt.Fprintf(&sb, "M%.1f,%.1f", x, y)
			} else {
				fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
			}
		}
		sb.WriteString("\"/>\n")
		fmt.Fprintf(&sb, `<text x="10" y="%d" fill="%s" font-family="monospace" font-size="12">%s</text>
`, 20+16*si, color, escape(s.Name))
	}

	sb.WriteString("</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}

func escape(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")
	return r.Replace(s)
}
