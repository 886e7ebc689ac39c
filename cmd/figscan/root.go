package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gnana997/figscan/pkg/figma"
	"github.com/gnana997/figscan/pkg/scan"
	"github.com/gnana997/figscan/pkg/store"
	"github.com/gnana997/figscan/pkg/util"
)

const version = "0.1.0-dev"

var (
	flagToken     string
	flagStorePath string
	flagLogLevel  string
	flagLogFormat string

	projectCfg *ProjectConfig
	logger     *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "figscan",
	Short: "Track usages of a Figma component across files and projects",
	Long: `figscan walks Figma document trees to enumerate every occurrence of a
component, classifies each occurrence (direct, nested, or remote), and
produces exportable reports.

A personal access token is read from --token, the FIGMA_TOKEN environment
variable, or a .env file in the working directory.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}

		// A missing .env is fine; environment wins over nothing.
		_ = godotenv.Load()

		var err error
		projectCfg, err = loadProjectConfig()
		if err != nil {
			return fmt.Errorf("reading .figscan/config.yaml: %w", err)
		}

		logCfg := util.DefaultLoggerConfig()
		if flagLogLevel != "" {
			logCfg.Level = util.LogLevel(flagLogLevel)
		} else if projectCfg != nil && projectCfg.LogLevel != "" {
			logCfg.Level = util.LogLevel(projectCfg.LogLevel)
		}
		if flagLogFormat != "" {
			logCfg.Format = util.LogFormat(flagLogFormat)
		} else if projectCfg != nil && projectCfg.LogFormat != "" {
			logCfg.Format = util.LogFormat(projectCfg.LogFormat)
		}
		logger = util.NewLogger(logCfg)
		util.SetDefault(logger)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("figscan %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "Figma personal access token (default: FIGMA_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&flagStorePath, "store", "", "session store path (default: ~/.figscan/sessions.db)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "log format: text, json")

	rootCmd.AddCommand(versionCmd)
}

// newClient builds the Figma API client from the resolved token.
func newClient() *figma.Client {
	return figma.NewClient(figma.ClientConfig{
		Token:  resolveToken(flagToken),
		Logger: logger,
	})
}

// newOrchestrator builds a scan orchestrator from flags and config.
func newOrchestrator(client *figma.Client, include, exclude []string) *scan.Orchestrator {
	cfg := scan.Config{
		Include: include,
		Exclude: exclude,
		Logger:  logger,
	}
	if projectCfg != nil {
		cfg.BatchSize = projectCfg.BatchSize
		cfg.FileTimeout = projectCfg.fileTimeout()
		cfg.Resolver.AllowNameFallback = !projectCfg.NoNameFallback
		if len(include) == 0 {
			cfg.Include = projectCfg.Include
		}
		if len(exclude) == 0 {
			cfg.Exclude = projectCfg.Exclude
		}
	} else {
		cfg.Resolver.AllowNameFallback = true
	}
	return scan.New(client, cfg)
}

// openStore opens the durable session store.
func openStore() (*store.Store, func(), error) {
	path := resolveStorePath(flagStorePath, projectCfg)
	kv, err := store.OpenSQLiteKV(path)
	if err != nil {
		return nil, nil, err
	}
	capacity := 0
	if projectCfg != nil {
		capacity = projectCfg.Capacity
	}
	closeFn := func() {
		if err := kv.Close(); err != nil {
			logger.Warn("closing session store", "error", err)
		}
	}
	return store.New(kv, capacity, logger), closeFn, nil
}

// exitErr prints a terminal failure and exits nonzero.
func exitErr(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
