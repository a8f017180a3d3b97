package analysis

import (
	"fmt"
	"strings"
)

type Point struct {
	X, Y float64
}

// Phase pairs the concentrations of species x and y at every recorded time.
func Phase(rows [][]float64, x, y int) ([]Point, error) {
	points := make([]Point, 0, len(rows))
	for i, row := range rows {
		if x < 0 || y < 0 || x >= len(row) || y >= len(row) {
			return nil, fmt.Errorf("row %d has %d columns, species %d/%d out of range", i, len(row), x, y)
		}
		points = append(points, Point{X: row[x], Y: row[y]})
	}
	return points, nil
}

// Bounds returns the smallest box holding every point.
func Bounds(points []Point) (minX, maxX, minY, maxY float64) {
	if len(points) == 0 {
		return 0, 0, 0, 0
	}
	minX, maxX = points[0].X, points[0].X
	minY, maxY = points[0].Y, points[0].Y
	for _, p := range points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}
	return minX, maxX, minY, maxY
}

// PhaseToASCII draws the trajectory on a width x height grid. Early points
// are '.', the middle third 'o' and the last third '●'.
func PhaseToASCII(points []Point, width, height int) string {
	if len(points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	minX, maxX, minY, maxY := Bounds(points)
	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for i, p := range points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := height - 1 - int((p.Y-minY)/rangeY*float64(height-1))
		if row < 0 || row >= height || col < 0 || col >= width {
			continue
		}
		switch {
		case i < len(points)/3:
			canvas[row][col] = '.'
		case i < 2*len(points)/3:
			canvas[row][col] = 'o'
		default:
			canvas[row][col] = '●'
		}
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%10.4g ┌%s┐\n", maxY, strings.Repeat("─", width))
	for i, row := range canvas {
		if i == height/2 {
			fmt.Fprintf(&sb, "%10.4g │", (maxY+minY)/2)
		} else {
			sb.WriteString(strings.Repeat(" ", 11) + "│")
		}
		sb.WriteString(string(row))
		sb.WriteString("│\n")
	}
	fmt.Fprintf(&sb, "%10.4g └%s┘\n", minY, strings.Repeat("─", width))
	left := fmt.Sprintf("%.4g", minX)
	right := fmt.Sprintf("%.4g", maxX)
	pad := max(width-len(left)-len(right), 1)
	sb.WriteString(strings.Repeat(" ", 12) + left + strings.Repeat(" ", pad) + right + "\n")
	return sb.String()
}
