package modelfile

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/san-kum/kinsim/internal/network"
)

// Format writes net in the model description format, using the current
// concentrations as initial values. Parsing the output yields an equivalent
// network.
func Format(w io.Writer, net *network.Network) error {
	bw := bufio.NewWriter(w)
	x := net.Concentrations()

	fmt.Fprintln(bw, markerMolecules)
	for i := 1; i <= net.NumSpecies(); i++ {
		flag := 0
		if net.IsConstant(i) {
			flag = 1
		}
		fmt.Fprintf(bw, "%s,%d,%s\n", net.SpeciesName(i), flag, formatFloat(x[i]))
	}

	fmt.Fprintln(bw, markerReactions)
	for r := 1; r <= net.NumReactions(); r++ {
		fmt.Fprintf(bw, "%s,%s,%s,%s\n",
			net.ReactionName(r),
			joinInts(net.Reactants().Entries(r)),
			joinInts(net.Products(r)),
			formatFloat(net.RateConstant(r)),
		)
	}
	fmt.Fprintln(bw, markerEnd)

	return bw.Flush()
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, " ")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
