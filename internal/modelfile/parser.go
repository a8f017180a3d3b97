// Package modelfile reads and writes the line-oriented reaction network
// description format.
//
//	#molecules
//	A,0,1.0
//	B,0,0.0
//	#reactions
//	decay,1,2,1.0
//	#end
//
// A molecule line is name,constant(0|1),initial concentration. A reaction
// line is name,reactant species,product species,rate constant, where the
// species lists are space-separated indices numbered from 1 in file order.
// Other lines starting with '#' are comments, blank lines are skipped and
// #end stops reading. Any malformed line fails the whole parse, and so does
// a data line before the first section marker. Concentrations and rate
// constants must be finite.
package modelfile

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/kinsim/internal/network"
)

const (
	markerMolecules = "#molecules"
	markerReactions = "#reactions"
	markerEnd       = "#end"
)

type section int

const (
	sectionNone section = iota
	sectionMolecules
	sectionReactions
)

// ParseFile parses the model description at path.
func ParseFile(path string) (*network.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a model description and builds the network it describes.
// On error no network is returned.
func Parse(r io.Reader) (*network.Network, error) {
	b := network.NewBuilder()
	sec := sectionNone

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0

scan:
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimRight(scanner.Text(), "\r")
		line := strings.TrimSpace(raw)

		switch {
		case line == "":
			continue
		case line == markerMolecules:
			if sec == sectionReactions {
				return nil, &ParseError{Line: lineNo, Text: raw, Err: ErrSection}
			}
			sec = sectionMolecules
			continue
		case line == markerReactions:
			sec = sectionReactions
			continue
		case line == markerEnd:
			break scan
		case strings.HasPrefix(line, "#"):
			continue
		}

		var err error
		switch sec {
		case sectionMolecules:
			err = parseMolecule(b, line)
		case sectionReactions:
			err = parseReaction(b, line)
		default:
			err = ErrSection
		}
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: raw, Err: err}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("modelfile: read: %w", err)
	}

	net, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("modelfile: %w", err)
	}
	return net, nil
}

func parseMolecule(b *network.Builder, line string) error {
	fields := splitFields(line)
	if len(fields) != 3 {
		return fmt.Errorf("%w: molecule needs 3, got %d", ErrFieldCount, len(fields))
	}

	flag, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("%w: constant flag %q", ErrNumber, fields[1])
	}
	if flag != 0 && flag != 1 {
		return ErrFlag
	}

	conc, err := parseFinite(fields[2])
	if err != nil {
		return fmt.Errorf("%w: concentration %q", ErrNumber, fields[2])
	}

	b.AddSpecies(network.Species{Name: fields[0], Constant: flag == 1, Concentration: conc})
	return nil
}

func parseReaction(b *network.Builder, line string) error {
	fields := splitFields(line)
	if len(fields) != 4 {
		return fmt.Errorf("%w: reaction needs 4, got %d", ErrFieldCount, len(fields))
	}

	reactants, err := parseSpeciesList(fields[1], b.NumSpecies())
	if err != nil {
		return err
	}
	products, err := parseSpeciesList(fields[2], b.NumSpecies())
	if err != nil {
		return err
	}

	rate, err := parseFinite(fields[3])
	if err != nil {
		return fmt.Errorf("%w: rate constant %q", ErrNumber, fields[3])
	}

	b.AddReaction(network.Reaction{Name: fields[0], Reactants: reactants, Products: products, Rate: rate})
	return nil
}

// parseFinite rejects NaN and infinities along with malformed numbers.
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not finite: %v", v)
	}
	return v, nil
}

func parseSpeciesList(field string, numSpecies int) ([]int, error) {
	parts := strings.Fields(field)
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		idx, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("%w: species index %q", ErrNumber, p)
		}
		if idx < 1 || idx > numSpecies {
			return nil, fmt.Errorf("%w: %d", ErrSpeciesRef, idx)
		}
		out = append(out, idx)
	}
	return out, nil
}

func splitFields(line string) []string {
	fields := strings.Split(line, ",")
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}
	return fields
}
