package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evrange/app"
	"github.com/kilianp07/evrange/core/advisor"
	"github.com/kilianp07/evrange/core/geo"
	"github.com/kilianp07/evrange/core/model"
	"github.com/kilianp07/evrange/infra/logger"
	"github.com/kilianp07/evrange/simulator"
)

// adviseSource tags decisions recorded by the advise command.
const adviseSource = "cli"

type adviseOptions struct {
	origin, dest   string
	stations       []string
	battery        float64
	speed          float64
	referenceSpeed float64
	strategy       string
	asJSON         bool
}

type adviseOutput struct {
	ID       string              `json:"id"`
	Snapshot model.TripSnapshot  `json:"snapshot"`
	Decision model.RouteDecision `json:"decision"`
	ETA      string              `json:"eta"`
}

func newAdviseCmd(root *rootOptions) *cobra.Command {
	o := &adviseOptions{}
	cmd := &cobra.Command{
		Use:   "advise",
		Short: "Evaluate a single trip and record it in the decision log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, root)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.origin, "origin", "", "current position as lat,lon")
	f.StringVar(&o.dest, "dest", "", "destination as lat,lon")
	f.StringArrayVar(&o.stations, "station", nil, "charging station as lat,lon (repeatable)")
	f.Float64Var(&o.battery, "battery", 100, "battery level in percent")
	f.Float64Var(&o.speed, "speed", 0, "current speed in km/h")
	f.Float64Var(&o.referenceSpeed, "reference-speed", 0, "average cruising speed in km/h")
	f.StringVar(&o.strategy, "strategy", "", "distance strategy: haversine or planar")
	f.BoolVar(&o.asJSON, "json", false, "print the decision as JSON")
	_ = cmd.MarkFlagRequired("origin")
	_ = cmd.MarkFlagRequired("dest")
	return cmd
}

func (o *adviseOptions) snapshot() (model.TripSnapshot, error) {
	s := model.TripSnapshot{
		BatteryPercent:    o.battery,
		CurrentSpeedKmh:   o.speed,
		ReferenceSpeedKmh: o.referenceSpeed,
	}
	var err error
	if s.Origin, err = parsePoint(o.origin); err != nil {
		return s, fmt.Errorf("origin: %w", err)
	}
	if s.Destination, err = parsePoint(o.dest); err != nil {
		return s, fmt.Errorf("dest: %w", err)
	}
	for _, raw := range o.stations {
		p, err := parsePoint(raw)
		if err != nil {
			return s, fmt.Errorf("station: %w", err)
		}
		s.Stations = append(s.Stations, p)
	}
	return s, nil
}

func (o *adviseOptions) run(cmd *cobra.Command, root *rootOptions) error {
	cfg, err := root.load(cmd)
	if err != nil {
		return err
	}
	if o.strategy != "" {
		if cfg.Advisor.DistanceStrategy, err = geo.ParseStrategy(o.strategy); err != nil {
			return err
		}
	}
	snap, err := o.snapshot()
	if err != nil {
		return err
	}
	if err := initMonitoring(cfg); err != nil {
		return err
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("advise").Errorf("service close: %v", err)
		}
	}()

	rec, err := svc.Evaluate(cmd.Context(), adviseSource, snap)
	if err != nil {
		return err
	}
	eta, err := svc.ETA(snap.Origin, snap.Destination)
	if err != nil {
		return err
	}
	return printDecision(cmd, o.asJSON, rec.ID, snap, rec.Decision, eta)
}

func printDecision(cmd *cobra.Command, asJSON bool, id string, s model.TripSnapshot, d model.RouteDecision, eta time.Duration) error {
	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(adviseOutput{ID: id, Snapshot: s, Decision: d, ETA: advisor.FormatETA(eta)})
	}
	fmt.Fprintln(out, simulator.FormatReport(s, d))
	fmt.Fprintf(out, "Estimated time to destination: %s\n", advisor.FormatETA(eta))
	fmt.Fprintf(out, "Decision id: %s\n", id)
	return nil
}
