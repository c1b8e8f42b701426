package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"ghotracker/internal/config"
	"ghotracker/internal/dataprocessing"
	apperrors "ghotracker/internal/errors"
	"ghotracker/internal/infrastructure"
	"ghotracker/internal/services"
	"ghotracker/internal/trends"
	"ghotracker/pkg/contracts"
)

// rootOptions are the persistent flags shared by every command
type rootOptions struct {
	configFile string
	dataPath   string
	country    string
	logLevel   string
	offline    bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "ghoreport",
		Short:         "Report on WHO GHO health indicators for one country",
		Long:          `Reads the configured GHO extract and prints, exports or charts indicator trends.`,
		Version:       contracts.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(infrastructure.EnsureTraceID(cmd.Context()))
		},
	}
	root.SetVersionTemplate(contracts.GetFullVersionString() + "\n")
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "config file (defaults to config.yaml lookup)")
	flags.StringVar(&opts.dataPath, "data", "", "dataset path, overrides the configuration")
	flags.StringVar(&opts.country, "country", "", "country name, overrides the configuration")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")
	flags.BoolVar(&opts.offline, "offline", false, "disable the Google Trends lookup")

	root.AddCommand(
		newIndicatorsCmd(opts),
		newTrendCmd(opts),
		newExportCmd(opts),
		newChartCmd(opts),
		newInterestCmd(opts),
	)
	return root
}

// reportRuntime is what a command needs to answer from the dataset
type reportRuntime struct {
	cfg       *config.Config
	logger    *slog.Logger
	dashboard *services.DashboardService
}

// newRuntime loads the configuration, applies flag overrides and wires the dashboard service
func newRuntime(cmd *cobra.Command, opts *rootOptions) (*reportRuntime, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configFile != "" {
		cfg, err = config.LoadFrom(opts.configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, apperrors.NewConfigError("failed to load configuration", err)
	}

	if opts.dataPath != "" {
		cfg.Data.Path = opts.dataPath
	}
	if opts.country != "" {
		cfg.Data.Country = opts.country
	}
	if opts.offline {
		cfg.Trends.Enabled = false
	}
	cfg.Logging.Level = opts.logLevel

	logger := infrastructure.NewLogger(cfg.Logging, cmd.ErrOrStderr())

	var interest services.InterestLookup
	if cfg.Trends.Enabled {
		client, err := trends.NewClient(trends.ConfigFrom(cfg), logger)
		if err != nil {
			return nil, err
		}
		lookup, err := trends.NewLookup(client, trends.LookupConfig{
			Country:   cfg.Data.Country,
			Geo:       cfg.Data.Geo,
			Timeframe: cfg.Trends.Timeframe,
			CacheSize: cfg.Trends.CacheSize,
		}, logger, nil)
		if err != nil {
			return nil, err
		}
		interest = lookup
	}

	dashboard := services.NewDashboardService(dataprocessing.NewLoader(logger), interest, services.DashboardConfig{
		DataPath: cfg.DataPath(),
		Country:  cfg.Data.Country,
	}, nil, logger)

	return &reportRuntime{cfg: cfg, logger: logger, dashboard: dashboard}, nil
}

// datasetFailure turns a dataset error into the message the dashboard would show
func datasetFailure(err error) error {
	var dsErr *services.DatasetError
	if errors.As(err, &dsErr) {
		return fmt.Errorf("%s", dsErr.Message())
	}
	return err
}
