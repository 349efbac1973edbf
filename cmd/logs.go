package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evrange/core/decisionlog"
	"github.com/kilianp07/evrange/core/model"
	"github.com/kilianp07/evrange/pkg/export"
)

type logsOptions struct {
	state  string
	since  time.Duration
	limit  int
	format string
}

func newLogsCmd(root *rootOptions) *cobra.Command {
	o := &logsOptions{}
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Query the decision log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, root)
		},
	}
	cmd.Flags().StringVar(&o.state, "state", "", "only show decisions in this state")
	cmd.Flags().DurationVar(&o.since, "since", 0, "only show decisions younger than this")
	cmd.Flags().IntVar(&o.limit, "limit", 0, "show at most the N most recent decisions")
	cmd.Flags().StringVar(&o.format, "format", "text", "output format: text, json or csv")
	return cmd
}

func (o *logsOptions) query() (decisionlog.LogQuery, error) {
	state, err := model.ParseDecisionState(o.state)
	if err != nil {
		return decisionlog.LogQuery{}, err
	}
	q := decisionlog.LogQuery{State: state, Limit: o.limit}
	if o.since > 0 {
		q.Start = time.Now().Add(-o.since)
	}
	return q, nil
}

func (o *logsOptions) run(cmd *cobra.Command, root *rootOptions) error {
	cfg, err := root.load(cmd)
	if err != nil {
		return err
	}
	q, err := o.query()
	if err != nil {
		return err
	}
	store, err := decisionlog.NewStore(cfg.Logging)
	if err != nil {
		return err
	}
	defer store.Close()

	recs, err := store.Query(cmd.Context(), q)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if o.format != "text" {
		return export.Write(out, o.format, recs)
	}
	for _, r := range recs {
		fmt.Fprintf(out, "%s %s %-26s %-6s %s\n",
			r.Timestamp.Format(time.RFC3339), r.ID, r.Decision.State, r.Source, r.Decision.Message)
	}
	return nil
}
