package network

// Sentinel is the reserved padding index for both species and reactions.
const Sentinel = 0

// IndexMatrix is a rectangular, row-major matrix of indices. Rows shorter
// than the widest one are right-padded with Sentinel.
type IndexMatrix struct {
	rows  int
	width int
	data  []int
}

// NewIndexMatrix pads the ragged rows to a common width.
func NewIndexMatrix(rows [][]int) IndexMatrix {
	width := 0
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}

	m := IndexMatrix{
		rows:  len(rows),
		width: width,
		data:  make([]int, len(rows)*width),
	}
	for i, r := range rows {
		copy(m.data[i*width:], r)
	}
	return m
}

func (m IndexMatrix) Rows() int  { return m.rows }
func (m IndexMatrix) Width() int { return m.width }

// Row returns the padded row i. The slice aliases the matrix and must not be modified.
func (m IndexMatrix) Row(i int) []int {
	return m.data[i*m.width : (i+1)*m.width : (i+1)*m.width]
}

func (m IndexMatrix) At(i, j int) int {
	return m.data[i*m.width+j]
}

// Entries returns row i without its padding.
func (m IndexMatrix) Entries(i int) []int {
	row := m.Row(i)
	out := make([]int, 0, len(row))
	for _, v := range row {
		if v != Sentinel {
			out = append(out, v)
		}
	}
	return out
}
