package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/kinsim/internal/export"
	"github.com/san-kum/kinsim/internal/plot"
	"github.com/san-kum/kinsim/internal/storage"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			runs, err := st.List()
			if err != nil {
				return err
			}

			if len(runs) == 0 {
				fmt.Println("no runs found")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tMODEL\tTIME\tDURATION\tDT\tINTEG\tSTEPS")
			for _, run := range runs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%g\t%g\t%s\t%d\n",
					run.ID,
					run.Model,
					run.Timestamp.Format("2006-01-02 15:04:05"),
					run.Duration,
					run.Dt,
					run.Integrator,
					run.Steps,
				)
			}
			return w.Flush()
		},
	}
}

func newPlotCmd() *cobra.Command {
	var (
		species []int
		height  int
		width   int
		svgPath string
	)

	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot summed species of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			times, rows, err := st.LoadHistory(args[0])
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return fmt.Errorf("no data to plot")
			}

			if len(species) == 0 {
				for i := 1; i <= len(meta.Species); i++ {
					species = append(species, i)
				}
			}

			if svgPath != "" {
				return writePlotSVG(svgPath, meta, times, rows, species)
			}

			opts := plot.DefaultOptions()
			opts.Height, opts.Width = height, width
			chart, err := plot.Render(times, rows, species, opts)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(species))
			for _, s := range species {
				if s >= 1 && s <= len(meta.Species) {
					names = append(names, meta.Species[s-1])
				}
			}

			fmt.Printf("run: %s\n", meta.ID)
			fmt.Printf("model: %s\n", meta.Model)
			fmt.Printf("species: %s\n", strings.Join(names, " + "))
			fmt.Printf("samples: %d\n\n", len(rows))
			fmt.Println(chart)
			return nil
		},
	}

	cmd.Flags().IntSliceVar(&species, "species", nil, "species to sum (default all)")
	cmd.Flags().IntVar(&height, "height", 12, "chart height")
	cmd.Flags().IntVar(&width, "width", 80, "chart width")
	cmd.Flags().StringVar(&svgPath, "svg", "", "write each species to an SVG file instead")
	return cmd
}

func writePlotSVG(path string, meta *storage.RunMetadata, times []float64, rows [][]float64, species []int) error {
	names := make([]string, len(species))
	for i, s := range species {
		names[i] = speciesLabel(meta, s)
	}
	series, err := export.TimeSeries(times, rows, species, names)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := export.WriteSVG(f, series, 800, 600); err != nil {
		f.Close()
		return err
	}
	logger.Info("wrote plot", "file", path, "series", len(series))
	return f.Close()
}

func newExportCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			times, rows, err := st.LoadHistory(args[0])
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return fmt.Errorf("no data to export")
			}
			return storage.WriteTable(os.Stdout, times, rows)
		},
	}
}

func newExportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			times, rows, err := st.LoadHistory(args[0])
			if err != nil {
				return err
			}
			return storage.ExportJSON(os.Stdout, *meta, times, rows)
		},
	}
}
