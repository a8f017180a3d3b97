package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/kinsim/internal/network"
)

type ExportData struct {
	RunMetadata
	Times          []float64   `json:"times"`
	Concentrations [][]float64 `json:"concentrations"`
}

// ExportJSON writes the run metadata together with the full history.
func ExportJSON(w io.Writer, meta RunMetadata, times []float64, rows [][]float64) error {
	data := ExportData{
		RunMetadata:    meta,
		Times:          times,
		Concentrations: rows,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// ExportHistoryJSON is ExportJSON for an in-memory history.
func ExportHistoryJSON(w io.Writer, meta RunMetadata, h *network.History) error {
	return ExportJSON(w, meta, h.Times(), h.Matrix())
}
