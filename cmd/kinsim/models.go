package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/kinsim/internal/config"
	"github.com/san-kum/kinsim/internal/experiment"
	"github.com/san-kum/kinsim/internal/logging"
	"github.com/san-kum/kinsim/internal/modelfile"
	"github.com/san-kum/kinsim/internal/models"
	"github.com/san-kum/kinsim/internal/network"
	"github.com/san-kum/kinsim/internal/viz"
	"github.com/spf13/cobra"
)

func newModelsCmd() *cobra.Command {
	var show string

	cmd := &cobra.Command{
		Use:   "models",
		Short: "list built-in models",
		RunE: func(cmd *cobra.Command, args []string) error {
			if show != "" {
				src, err := models.Get(show)
				if err != nil {
					return err
				}
				fmt.Print(src)
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "MODEL\tSPECIES\tREACTIONS\tPRESETS")
			registry := experiment.NewRegistry()
			for _, name := range registry.ListModels() {
				net, err := registry.GetModel(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", name, net.NumSpecies(), net.NumReactions(),
					strings.Join(config.ListPresets(name), ","))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&show, "show", "", "print the model description of a built-in model")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				cfg := config.GetPreset(args[0], p)
				fmt.Printf("  %-18s %s dt=%g time=%g\n", p, cfg.Integrator, cfg.Dt, cfg.Duration)
			}
			return nil
		},
	}
}

func newValidateCmd() *cobra.Command {
	var format bool

	cmd := &cobra.Command{
		Use:   "validate [file]",
		Short: "check a model file and describe the network",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			net, err := modelfile.ParseFile(args[0])
			if err != nil {
				return err
			}

			if format {
				return modelfile.Format(os.Stdout, net)
			}

			describe(net)
			return nil
		},
	}

	cmd.Flags().BoolVar(&format, "format", false, "print the network in canonical form instead")
	return cmd
}

func describe(net *network.Network) {
	x := net.Concentrations()

	fmt.Printf("%d species, %d reactions\n\n", net.NumSpecies(), net.NumReactions())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tSPECIES\tCONSTANT\tCONC")
	for i := 1; i <= net.NumSpecies(); i++ {
		fmt.Fprintf(w, "%d\t%s\t%v\t%g\n", i, net.SpeciesName(i), net.IsConstant(i), x[i])
	}
	w.Flush()

	fmt.Println()
	w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tREACTION\tEQUATION\tK")
	for r := 1; r <= net.NumReactions(); r++ {
		eq := speciesSum(net, net.Reactants().Entries(r)) + " -> " + speciesSum(net, net.Products(r))
		fmt.Fprintf(w, "%d\t%s\t%s\t%g\n", r, net.ReactionName(r), eq, net.RateConstant(r))
	}
	w.Flush()
}

func speciesSum(net *network.Network, species []int) string {
	if len(species) == 0 {
		return "0"
	}
	names := make([]string, len(species))
	for i, s := range species {
		names[i] = net.SpeciesName(s)
	}
	return strings.Join(names, " + ")
}

func newLiveCmd() *cobra.Command {
	var (
		f     simFlags
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "live [model|file]",
		Short: "run simulation with live visualization",
		Long:  "Run simulation with live visualization.\n\n" + modelArgHelp,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !logging.IsTerminal() {
				return fmt.Errorf("live needs an interactive terminal")
			}
			cfg, err := resolveConfig(cmd, args, &f)
			if err != nil {
				return err
			}
			return viz.Run(cfg, experiment.NewRegistry(), watch)
		},
	}

	addSimFlags(cmd, &f)
	cmd.Flags().BoolVar(&watch, "watch", false, "rebuild the network when the model file changes")
	return cmd
}
