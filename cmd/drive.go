package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evrange/app"
	"github.com/kilianp07/evrange/core/advisor"
	"github.com/kilianp07/evrange/infra/logger"
	"github.com/kilianp07/evrange/simulator"
)

const driveSource = "drive"

type driveOptions struct {
	ticks    int
	interval time.Duration
	seed     int64
}

func newDriveCmd(root *rootOptions) *cobra.Command {
	o := &driveOptions{}
	cmd := &cobra.Command{
		Use:   "drive",
		Short: "Simulate a ride and evaluate it on every tick",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return o.run(ctx, cmd, root)
		},
	}
	cmd.Flags().IntVar(&o.ticks, "ticks", 0, "number of ticks (defaults to simulator.ticks)")
	cmd.Flags().DurationVar(&o.interval, "interval", 0, "delay between ticks (defaults to simulator.tick_interval_seconds)")
	cmd.Flags().Int64Var(&o.seed, "seed", 0, "random seed (defaults to simulator.seed)")
	return cmd
}

func (o *driveOptions) run(ctx context.Context, cmd *cobra.Command, root *rootOptions) error {
	cfg, err := root.load(cmd)
	if err != nil {
		return err
	}
	if err := initMonitoring(cfg); err != nil {
		return err
	}
	ticks, interval, seed := cfg.Simulator.Ticks, cfg.Simulator.TickInterval(), cfg.Simulator.Seed
	if o.ticks > 0 {
		ticks = o.ticks
	}
	if cmd.Flags().Changed("interval") {
		interval = o.interval
	}
	if cmd.Flags().Changed("seed") {
		seed = o.seed
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("drive").Errorf("service close: %v", err)
		}
	}()

	gen := simulator.NewGenerator(seed, cfg.Simulator.Params())
	ride := simulator.NewRide(gen, gen.Snapshot(), cfg.Simulator.RideParams())
	out := cmd.OutOrStdout()

	var tick <-chan time.Time
	if interval > 0 {
		t := time.NewTicker(interval)
		defer t.Stop()
		tick = t.C
	}
	snap := ride.Snapshot()
	for i := 1; i <= ticks; i++ {
		rec, err := svc.Evaluate(ctx, driveSource, snap)
		if err != nil {
			fmt.Fprintf(out, "tick %d: rejected (%s): %v\n", i, app.RejectionReason(err), err)
		} else {
			d := rec.Decision
			fmt.Fprintf(out, "tick %d: %s battery=%.0f%% speed=%.0fkm/h range=%.2fkm distance=%.2fkm\n",
				i, d.State, snap.BatteryPercent, snap.CurrentSpeedKmh, d.EstimatedRangeKm, d.DirectDistanceKm)
			if d.HasRecommendation() {
				fmt.Fprintf(out, "  %s\n", d.Message)
			}
		}
		if i == ticks {
			break
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return nil
			case <-tick:
			}
		} else if ctx.Err() != nil {
			return nil
		}
		snap = ride.Step()
	}
	if eta, err := svc.ETA(snap.Origin, snap.Destination); err == nil {
		fmt.Fprintf(out, "remaining: %s\n", advisor.FormatETA(eta))
	}
	return nil
}
