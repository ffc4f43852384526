// Command shiporskip validates a product idea against the competition.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/roshanshetty271/ShipOrSkip/config"
	"github.com/roshanshetty271/ShipOrSkip/graph"
	"github.com/roshanshetty271/ShipOrSkip/log"
	"github.com/roshanshetty271/ShipOrSkip/research"
	"github.com/spf13/cobra"
)

var (
	idea     string
	category string
	asJSON   bool
	asASCII  bool
)

func main() {
	// A missing .env is fine as long as the variables are set.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := log.NewCustomLogger(os.Stderr, log.ParseLevel(cfg.LogLevel))
	log.SetDefaultLogger(logger)

	rootCmd := &cobra.Command{
		Use:           "shiporskip",
		Short:         "Validate a product idea before you build it",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	researchCmd := &cobra.Command{
		Use:   "research",
		Short: "Research competitors and print a ship-or-skip analysis",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runResearch(ctx, cfg, logger)
		},
	}
	researchCmd.Flags().StringVarP(&idea, "idea", "i", "", "the product idea (up to 500 characters)")
	researchCmd.Flags().StringVarP(&category, "category", "c", "", "optional category, e.g. Productivity")
	researchCmd.Flags().BoolVar(&asJSON, "json", false, "print events as JSON lines")
	_ = researchCmd.MarkFlagRequired("idea")

	graphCmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the research pipeline graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			p := research.NewPipeline(research.Dependencies{}, research.Options{EnableExtractor: cfg.EnableExtractor})
			exporter := graph.NewExporter(p.Graph())
			if asASCII {
				fmt.Print(exporter.DrawASCII())
				return nil
			}
			fmt.Print(exporter.DrawMermaidWithOptions(graph.MermaidOptions{Direction: "TD", WithDescriptions: true}))
			return nil
		},
	}
	graphCmd.Flags().BoolVar(&asASCII, "ascii", false, "print an ASCII tree instead of Mermaid")

	checkpointsCmd := &cobra.Command{
		Use:   "checkpoints <run-id>",
		Short: "List the stored checkpoints of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return listCheckpoints(cmd.Context(), cfg, args[0])
		},
	}
	checkpointsCmd.Flags().BoolVar(&asJSON, "json", false, "print checkpoints as JSON")

	rootCmd.AddCommand(researchCmd, graphCmd, checkpointsCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func runResearch(ctx context.Context, cfg *config.Config, logger log.Logger) error {
	checkpoints, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	deps, err := buildDependencies(cfg, logger)
	if err != nil {
		return err
	}
	deps.Checkpoints = checkpoints

	p := research.NewPipeline(deps, pipelineOptions(cfg))

	enc := json.NewEncoder(os.Stdout)
	var failed *research.ProgressEvent
	for e := range p.Run(ctx, idea, category) {
		if asJSON {
			if err := enc.Encode(e); err != nil {
				return err
			}
		} else {
			fmt.Println(renderEvent(e))
		}
		if e.Kind == research.EventError {
			failed = &e
		}
	}

	if failed != nil {
		return fmt.Errorf("research failed: %s", failed.Message)
	}
	return ctx.Err()
}

func listCheckpoints(ctx context.Context, cfg *config.Config, runID string) error {
	checkpoints, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()
	if checkpoints == nil {
		return fmt.Errorf("no checkpoint store configured, set CHECKPOINT_STORE")
	}

	cps, err := checkpoints.List(ctx, runID)
	if err != nil {
		return err
	}
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cps)
	}
	fmt.Print(renderCheckpoints(runID, cps))
	return nil
}
