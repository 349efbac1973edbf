package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kilianp07/evrange/config"
	coremon "github.com/kilianp07/evrange/core/monitoring"
	"github.com/kilianp07/evrange/infra/monitoring"
)

const defaultConfigPath = "config.yaml"

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	cfgPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "evrange",
		Short:         "Range and charging advisor for electric two-wheelers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env is optional
			_ = godotenv.Load()
		},
	}
	root.PersistentFlags().StringVarP(&opts.cfgPath, "config", "c", defaultConfigPath, "configuration file (yaml or json)")

	root.AddCommand(
		newServeCmd(opts),
		newAdviseCmd(opts),
		newSimulateCmd(opts),
		newDriveCmd(opts),
		newLogsCmd(opts),
	)
	return root
}

// Execute runs the CLI.
func Execute() error { return newRootCmd().Execute() }

// load reads the configuration. The default path is optional: when it does
// not exist only the environment is used.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, error) {
	path := o.cfgPath
	if !cmd.Flags().Changed("config") && path == defaultConfigPath {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			path = ""
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// initMonitoring installs the Sentry monitor when a DSN is configured.
func initMonitoring(cfg *config.Config) error {
	m, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(m)
	return nil
}
