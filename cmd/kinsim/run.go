package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/kinsim/internal/automation"
	"github.com/san-kum/kinsim/internal/config"
	"github.com/san-kum/kinsim/internal/dynamo"
	"github.com/san-kum/kinsim/internal/experiment"
	"github.com/san-kum/kinsim/internal/metrics"
	"github.com/san-kum/kinsim/internal/plot"
	"github.com/san-kum/kinsim/internal/storage"
	"github.com/spf13/cobra"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

func newRunCmd() *cobra.Command {
	var (
		f        simFlags
		noSave   bool
		csvPath  string
		promPath string
		showPlot bool
	)

	cmd := &cobra.Command{
		Use:   "run [model|file]",
		Short: "run simulation",
		Long:  "Run simulation.\n\n" + modelArgHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args, &f)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			exp, err := experiment.New(cfg, experiment.NewRegistry())
			if err != nil {
				return err
			}
			logger.Debug("network ready",
				"model", cfg.ModelSource(),
				"species", exp.Network().NumSpecies(),
				"reactions", exp.Network().NumReactions())

			res, err := exp.Run(ctx)
			if err != nil {
				logFailure(err, exp)
				return err
			}
			meta := exp.Metadata(res)

			if !noSave {
				st := storage.New(dataDir)
				if err := st.Init(); err != nil {
					return err
				}
				meta.ID, err = st.Save(meta, exp.Network().History())
				if err != nil {
					return err
				}
				logger.Info("run saved", "run_id", meta.ID, "dir", dataDir)
			}

			if csvPath != "" {
				if err := writeHistoryCSV(csvPath, exp); err != nil {
					return err
				}
				logger.Info("history written", "path", csvPath)
			}

			if promPath != "" {
				g := metrics.NewGatherer()
				g.Record(meta.ID, meta.Model, meta.Steps, res.Metrics)
				if err := g.WriteTextfile(promPath); err != nil {
					return err
				}
			}

			printSummary(meta, res)

			if showPlot {
				h := exp.Network().History()
				chart, err := plot.Render(h.Times(), h.Matrix(), plotSpecies(cfg, exp), plot.DefaultOptions())
				if err != nil {
					return err
				}
				fmt.Println()
				fmt.Println(chart)
			}
			return nil
		},
	}

	addSimFlags(cmd, &f)
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	cmd.Flags().StringVar(&csvPath, "csv", "", "write the concentration table to this file")
	cmd.Flags().StringVar(&promPath, "prom", "", "write run metrics in Prometheus textfile format")
	cmd.Flags().BoolVar(&showPlot, "plot", false, "plot the summed species after the run")
	return cmd
}

// logFailure reports where an integration stopped. The rows recorded up to
// that point stay in the history.
func logFailure(err error, exp *experiment.Experiment) {
	var simErr *dynamo.SimulationError
	if errors.As(err, &simErr) {
		logger.Warn("integration stopped",
			"step", simErr.Step,
			"time", simErr.Time,
			"recorded", exp.Network().History().Len(),
			"error", simErr.Wrapped)
	}
}

func writeHistoryCSV(path string, exp *experiment.Experiment) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := storage.WriteCSV(f, exp.Network().History()); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func plotSpecies(cfg *config.Config, exp *experiment.Experiment) []int {
	if len(cfg.PlotSpecies) > 0 {
		return cfg.PlotSpecies
	}
	species := make([]int, exp.Network().NumSpecies())
	for i := range species {
		species[i] = i + 1
	}
	return species
}

func printSummary(meta storage.RunMetadata, res *experiment.Result) {
	fmt.Println(titleStyle.Render(strings.ToUpper(meta.Model)))
	if meta.ID != "" {
		fmt.Println(labelStyle.Render("run id") + valueStyle.Render(meta.ID))
	}
	fmt.Println(labelStyle.Render("integrator") + valueStyle.Render(meta.Integrator))
	fmt.Println(labelStyle.Render("steps") + valueStyle.Render(fmt.Sprintf("%d", res.Steps)))
	fmt.Println(labelStyle.Render("end time") + valueStyle.Render(fmt.Sprintf("%g", res.EndTime)))
	fmt.Println(labelStyle.Render("elapsed") + valueStyle.Render(res.Elapsed.String()))

	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(res.Metrics))
	for name := range res.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-18s %.6g\n", name, res.Metrics[name])
	}
}

func newScenarioCmd() *cobra.Command {
	var noSave bool

	cmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted sequence of perturbations on one network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			logger.Info("running scenario", "name", sc.Name, "steps", len(sc.Steps))
			exp, results, err := automation.RunScenario(ctx, sc, experiment.NewRegistry())
			if err != nil {
				return err
			}

			net := exp.Network()
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			header := []string{"STEP", "END"}
			for i := 1; i <= net.NumSpecies(); i++ {
				header = append(header, strings.ToUpper(net.SpeciesName(i)))
			}
			fmt.Fprintln(w, strings.Join(header, "\t"))
			for _, r := range results {
				cells := []string{fmt.Sprintf("%d", r.Step), fmt.Sprintf("%g", r.EndTime)}
				for _, v := range r.Final[1:] {
					cells = append(cells, fmt.Sprintf("%.6g", v))
				}
				fmt.Fprintln(w, strings.Join(cells, "\t"))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if noSave {
				return nil
			}
			st := storage.New(dataDir)
			if err := st.Init(); err != nil {
				return err
			}
			meta := exp.Metadata(nil)
			meta.Duration = net.History().LatestTime() - net.History().Time(0)
			meta.Metrics = metrics.Evaluate(net.History(), metrics.Default(net.NumSpecies())...)
			id, err := st.Save(meta, net.History())
			if err != nil {
				return err
			}
			logger.Info("run saved", "run_id", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	return cmd
}

func newSweepCmd() *cobra.Command {
	var (
		f        simFlags
		reaction int
		kMin     float64
		kMax     float64
		points   int
		workers  int
	)

	cmd := &cobra.Command{
		Use:   "sweep [model|file]",
		Short: "run one simulation per value of a rate constant",
		Long:  "Run one simulation per value of a rate constant.\n\n" + modelArgHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, args, &f)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			sweep := &automation.ParameterSweep{
				Config:   cfg,
				Reaction: reaction,
				Min:      kMin,
				Max:      kMax,
				NumSteps: points,
				Workers:  workers,
			}
			start := time.Now()
			results, err := automation.RunSweep(ctx, sweep, experiment.NewRegistry())
			if err != nil {
				return err
			}
			logger.Debug("sweep finished", "points", len(results), "elapsed", time.Since(start))

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "K%d\tFINAL\tMASS_DRIFT\tMIN\n", reaction)
			for _, r := range results {
				fmt.Fprintf(w, "%.6g\t%s\t%.2e\t%.6g\n",
					r.RateConstant, formatState(r.Final), r.Metrics["mass_drift"], r.Metrics["min_concentration"])
			}
			return w.Flush()
		},
	}

	addSimFlags(cmd, &f)
	cmd.Flags().IntVar(&reaction, "reaction", 1, "reaction whose rate constant is swept")
	cmd.Flags().Float64Var(&kMin, "min", 0.1, "smallest rate constant")
	cmd.Flags().Float64Var(&kMax, "max", 10, "largest rate constant")
	cmd.Flags().IntVar(&points, "points", 10, "number of values")
	cmd.Flags().IntVar(&workers, "workers", 4, "simulations run concurrently")
	return cmd
}

func formatState(x dynamo.State) string {
	parts := make([]string, 0, len(x))
	for _, v := range x[1:] {
		parts = append(parts, fmt.Sprintf("%.4g", v))
	}
	return strings.Join(parts, " ")
}

func newCompareCmd() *cobra.Command {
	var f simFlags

	cmd := &cobra.Command{
		Use:   "compare [model|file] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same network",
		Long:  "Compare integrators on the same network.\n\n" + modelArgHelp,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			registry := experiment.NewRegistry()

			fmt.Printf("%-10s  %-28s  %-12s  %-12s  %-10s\n", "integrator", "final", "mass_drift", "min", "time_ms")
			fmt.Println(strings.Repeat("-", 80))

			for _, name := range args[1:] {
				cfg, err := resolveConfig(cmd, args[:1], &f)
				if err != nil {
					return err
				}
				cfg.Integrator = name

				exp, err := experiment.New(cfg, registry)
				if err != nil {
					fmt.Printf("%-10s  error: %v\n", name, err)
					continue
				}

				start := time.Now()
				res, err := exp.Run(ctx)
				elapsed := time.Since(start)
				if err != nil {
					fmt.Printf("%-10s  error: %v\n", name, err)
					continue
				}

				fmt.Printf("%-10s  %-28s  %12.2e  %12.4g  %10.2f\n",
					name,
					formatState(exp.Network().History().Latest()),
					res.Metrics["mass_drift"],
					res.Metrics["min_concentration"],
					float64(elapsed.Microseconds())/1000)
			}
			return nil
		},
	}

	addSimFlags(cmd, &f)
	return cmd
}

func newBenchCmd() *cobra.Command {
	var f simFlags

	cmd := &cobra.Command{
		Use:   "bench [model|file]",
		Short: "benchmark a network across durations and recording intervals",
		Long:  "Benchmark a network across durations and recording intervals.\n\n" + modelArgHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := experiment.NewRegistry()
			durations := []float64{1.0, 5.0, 10.0}
			dts := []float64{0.001, 0.01, 0.1}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

			for _, dur := range durations {
				for _, dt := range dts {
					cfg, err := resolveConfig(cmd, args, &f)
					if err != nil {
						return err
					}
					cfg.Duration, cfg.Dt = dur, dt

					exp, err := experiment.New(cfg, registry)
					if err != nil {
						return err
					}
					res, err := exp.Run(context.Background())
					if err != nil {
						return err
					}

					fmt.Fprintf(w, "%.1f\t%.4f\t%d\t%v\t%.0f\n",
						dur, dt, res.Steps, res.Elapsed, float64(res.Steps)/res.Elapsed.Seconds())
				}
			}
			return w.Flush()
		},
	}

	addSimFlags(cmd, &f)
	return cmd
}
