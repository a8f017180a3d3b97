package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"

	"github.com/san-kum/kinsim/internal/analysis"
	"github.com/san-kum/kinsim/internal/config"
	"github.com/san-kum/kinsim/internal/experiment"
	"github.com/san-kum/kinsim/internal/export"
	"github.com/san-kum/kinsim/internal/optim"
	"github.com/san-kum/kinsim/internal/storage"
	"github.com/spf13/cobra"
)

func newPhaseCmd() *cobra.Command {
	var (
		x, y    int
		width   int
		height  int
		svgPath string
	)

	cmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "draw one species against another",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := storage.New(dataDir)
			meta, err := st.Load(args[0])
			if err != nil {
				return err
			}
			_, rows, err := st.LoadHistory(args[0])
			if err != nil {
				return err
			}

			points, err := analysis.Phase(rows, x, y)
			if err != nil {
				return err
			}

			if svgPath != "" {
				f, err := os.Create(svgPath)
				if err != nil {
					return err
				}
				defer f.Close()
				name := fmt.Sprintf("%s vs %s", speciesLabel(meta, y), speciesLabel(meta, x))
				if err := export.WriteSVG(f, []export.Series{{Name: name, Points: points}}, 800, 600); err != nil {
					return err
				}
				logger.Info("wrote phase portrait", "file", svgPath)
				return nil
			}

			fmt.Printf("x: %s  y: %s\n", speciesLabel(meta, x), speciesLabel(meta, y))
			fmt.Print(analysis.PhaseToASCII(points, width, height))
			return nil
		},
	}

	cmd.Flags().IntVar(&x, "x", 1, "species on the horizontal axis")
	cmd.Flags().IntVar(&y, "y", 2, "species on the vertical axis")
	cmd.Flags().IntVar(&width, "width", 60, "portrait width")
	cmd.Flags().IntVar(&height, "height", 20, "portrait height")
	cmd.Flags().StringVar(&svgPath, "svg", "", "write an SVG file instead of printing")
	return cmd
}

func newAnalyzeCmd() *cobra.Command {
	var tol float64

	cmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "report period and settling time of every species",
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

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SPECIES\tFINAL\tSETTLED_AT\tPERIOD")
			for s := 1; s <= len(meta.Species); s++ {
				series := make([]float64, len(rows))
				for i, row := range rows {
					if s >= len(row) {
						return fmt.Errorf("row %d has no species %d", i, s)
					}
					series[i] = row[s]
				}

				period := "-"
				if p, ok := analysis.DominantPeriod(times, series); ok {
					period = fmt.Sprintf("%.4g", p)
				}
				fmt.Fprintf(w, "%s\t%.6g\t%.4g\t%s\n",
					meta.Species[s-1], series[len(series)-1], analysis.SettlingTime(times, series, tol), period)
			}
			return w.Flush()
		},
	}

	cmd.Flags().Float64Var(&tol, "tol", 0.01, "relative band for settling time")
	return cmd
}

func newFitCmd() *cobra.Command {
	var (
		f         simFlags
		observed  string
		reactions []int
		kMin      float64
		kMax      float64
		points    int
	)

	cmd := &cobra.Command{
		Use:   "fit [model|file]",
		Short: "grid search rate constants against observed concentrations",
		Long:  "Grid search rate constants against observed concentrations.\n\n" + modelArgHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if observed == "" {
				return fmt.Errorf("--observed is required")
			}
			if len(reactions) == 0 {
				return fmt.Errorf("--reaction is required")
			}

			cfg, err := resolveConfig(cmd, args, &f)
			if err != nil {
				return err
			}

			file, err := os.Open(observed)
			if err != nil {
				return err
			}
			times, rows, err := storage.ReadCSV(file)
			file.Close()
			if err != nil {
				return fmt.Errorf("read %s: %w", observed, err)
			}
			if len(times) == 0 {
				return fmt.Errorf("%s holds no observations", observed)
			}

			species := f.plotSpecies
			if len(species) == 0 {
				for s := 1; s < len(rows[0]); s++ {
					species = append(species, s)
				}
			}

			ranges := make([][]float64, len(reactions))
			for i := range reactions {
				ranges[i] = optim.Linspace(kMin, kMax, points)
			}
			gs, err := optim.NewGridSearch(reactions, ranges)
			if err != nil {
				return err
			}

			reg := experiment.NewRegistry()
			build := func(rates map[int]float64) (*experiment.Experiment, error) {
				c := *cfg
				c.RateConstants = make(map[int]float64, len(cfg.RateConstants)+len(rates))
				for k, v := range cfg.RateConstants {
					c.RateConstants[k] = v
				}
				for k, v := range rates {
					c.RateConstants[k] = v
				}
				if last := times[len(times)-1]; c.Duration < last {
					c.Duration = last
				}
				return experiment.New(&c, reg)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			best, score, err := gs.Search(ctx, build, optim.SquaredError(times, rows, species))
			if err != nil {
				return err
			}

			printFit(cfg, best, score)
			return nil
		},
	}

	addSimFlags(cmd, &f)
	cmd.Flags().StringVar(&observed, "observed", "", "CSV of observed concentrations (time,species...)")
	cmd.Flags().IntSliceVar(&reactions, "reaction", nil, "reactions whose rate constants are fitted")
	cmd.Flags().Float64Var(&kMin, "min", 0.1, "smallest candidate rate constant")
	cmd.Flags().Float64Var(&kMax, "max", 10, "largest candidate rate constant")
	cmd.Flags().IntVar(&points, "points", 20, "candidates per reaction")
	return cmd
}

func printFit(cfg *config.Config, best map[int]float64, score float64) {
	keys := make([]int, 0, len(best))
	for k := range best {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	fmt.Printf("model: %s\n", cfg.ModelSource())
	for _, k := range keys {
		fmt.Printf("k%d = %.6g\n", k, best[k])
	}
	fmt.Printf("squared error: %.4e\n", score)
}

func speciesLabel(meta *storage.RunMetadata, s int) string {
	if s >= 1 && s <= len(meta.Species) {
		return meta.Species[s-1]
	}
	return fmt.Sprintf("#%d", s)
}
