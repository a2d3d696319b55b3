package cmd

import (
	"fmt"

	"batchman/config"
	"batchman/internal/api"
	"batchman/internal/logging"
	"batchman/internal/tui"

	"github.com/spf13/cobra"
)

// Version information
var (
	version string
	commit  string
	date    string
)

var debugFlag bool

// SetVersionInfo sets the version information
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

var rootCmd = &cobra.Command{
	Use:   "batchman",
	Short: "Batch job and file management tool",
	Long:  "A terminal tool for monitoring batch jobs and managing uploaded files across API key profiles",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Init(debugFlag)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// No subcommand: start the interactive interface.
		return tui.Run()
	},
}

// Execute executes the root command
func Execute() error {
	rootCmd.Version = version

	rootCmd.SetVersionTemplate(`batchman {{.Version}}
Commit: ` + commit + `
Date: ` + date + `
`)

	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "write a debug log to the config directory")
}

// clientForProfile loads the config and builds an API client for the
// named profile, or the first profile when name is empty.
func clientForProfile(name string) (*api.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if len(cfg.Profiles) == 0 {
		return nil, fmt.Errorf("no profiles in %s", cfg.Path)
	}

	p := cfg.Profiles[0]
	if name != "" {
		if p, err = cfg.Find(name); err != nil {
			return nil, err
		}
	}

	if p.APIKey == "" {
		return nil, fmt.Errorf("profile '%s' has no api_key set, edit %s", p.Name, cfg.Path)
	}

	return api.NewClient(p.APIKey), nil
}
