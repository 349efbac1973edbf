package cmd

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evrange/core/advisor"
	"github.com/kilianp07/evrange/simulator"
)

type simulateOptions struct {
	runs   int
	seed   int64
	asJSON bool
}

type simulateOutput struct {
	Summary    simulator.Summary `json:"summary"`
	Rejections map[string]int    `json:"rejections,omitempty"`
}

func newSimulateCmd(root *rootOptions) *cobra.Command {
	o := &simulateOptions{}
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Evaluate randomly generated trips",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, root)
		},
	}
	cmd.Flags().IntVar(&o.runs, "runs", 0, "number of trips (defaults to simulator.runs)")
	cmd.Flags().Int64Var(&o.seed, "seed", 0, "random seed (defaults to simulator.seed, 0 is time based)")
	cmd.Flags().BoolVar(&o.asJSON, "json", false, "print the summary as JSON")
	return cmd
}

func (o *simulateOptions) run(cmd *cobra.Command, root *rootOptions) error {
	cfg, err := root.load(cmd)
	if err != nil {
		return err
	}
	adv, err := advisor.New(cfg.Advisor)
	if err != nil {
		return err
	}
	runs, seed := cfg.Simulator.Runs, cfg.Simulator.Seed
	if o.runs > 0 {
		runs = o.runs
	}
	if cmd.Flags().Changed("seed") {
		seed = o.seed
	}
	gen := simulator.NewGenerator(seed, cfg.Simulator.Params())
	batch := simulator.Batch(gen, adv, runs)
	out := cmd.OutOrStdout()

	if o.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(simulateOutput{Summary: simulator.Summarize(batch), Rejections: simulator.RejectionCounts(batch)})
	}
	if len(batch) == 1 {
		r := batch[0]
		if r.Err != nil {
			return r.Err
		}
		fmt.Fprintln(out, simulator.FormatReport(r.Snapshot, r.Decision))
		return nil
	}
	fmt.Fprintln(out, simulator.Summarize(batch))
	rejections := simulator.RejectionCounts(batch)
	for _, reason := range slices.Sorted(maps.Keys(rejections)) {
		fmt.Fprintf(out, "rejected %s: %d\n", reason, rejections[reason])
	}
	return nil
}
