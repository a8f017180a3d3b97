package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/kinsim/internal/network"
)

var ErrMalformedCSV = errors.New("storage: malformed concentration table")

// WriteCSV writes the history as a table: a header row "time,0,1,...,N"
// followed by one row per recorded time point. Column 0 is the sentinel
// species. Values use the shortest representation that parses back to the
// same float64.
func WriteCSV(w io.Writer, h *network.History) error {
	return writeTable(w, h.Width(), h.Len(), h.Time, func(i int) []float64 { return h.Row(i) })
}

// WriteTable writes times and rows in the WriteCSV layout.
func WriteTable(w io.Writer, times []float64, rows [][]float64) error {
	if len(times) != len(rows) {
		return fmt.Errorf("%w: %d times for %d rows", ErrMalformedCSV, len(times), len(rows))
	}
	width := 0
	if len(rows) > 0 {
		width = len(rows[0])
	}
	for i, r := range rows {
		if len(r) != width {
			return fmt.Errorf("%w: row %d has %d columns, want %d", ErrMalformedCSV, i, len(r), width)
		}
	}
	return writeTable(w, width, len(times), func(i int) float64 { return times[i] }, func(i int) []float64 { return rows[i] })
}

func writeTable(w io.Writer, width, n int, timeAt func(int) float64, rowAt func(int) []float64) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, width+1)
	header = append(header, "time")
	for i := 0; i < width; i++ {
		header = append(header, strconv.Itoa(i))
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	row := make([]string, width+1)
	for i := 0; i < n; i++ {
		row[0] = formatFloat(timeAt(i))
		for j, v := range rowAt(i) {
			row[j+1] = formatFloat(v)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a table written by WriteCSV.
func ReadCSV(r io.Reader) ([]float64, [][]float64, error) {
	cr := csv.NewReader(r)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: missing header", ErrMalformedCSV)
	}

	width := len(records[0]) - 1
	times := make([]float64, 0, len(records)-1)
	rows := make([][]float64, 0, len(records)-1)

	for i, record := range records[1:] {
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: row %d: time %q", ErrMalformedCSV, i+1, record[0])
		}

		row := make([]float64, width)
		for j := 0; j < width; j++ {
			v, err := strconv.ParseFloat(record[j+1], 64)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: row %d column %d: %q", ErrMalformedCSV, i+1, j, record[j+1])
			}
			row[j] = v
		}

		times = append(times, t)
		rows = append(rows, row)
	}

	return times, rows, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
