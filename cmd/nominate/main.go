package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aussiebroadwan/nominate/internal/nominate/app"
)

const programName = "nominate"

var configFile string

// loadConfig applies the --config flag before the usual env/file layering.
func loadConfig() (app.Config, error) {
	if configFile != "" {
		if err := os.Setenv("CONFIG_FILE", configFile); err != nil {
			return app.Config{}, err
		}
	}
	cfg, err := app.LoadConfig()
	if err != nil {
		return app.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func serveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the nomination HTTP service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serveRun()
		},
	}
}

func serveRun() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return application.Run()
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the build version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), programName, app.BuildVersion)
		},
	}
}

func main() {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Award nomination intake and review service",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serveRun()
		},
	}

	rootCmd.PersistentFlags().
		StringVar(&configFile, "config", "", "path to a YAML config file (overrides CONFIG_FILE)")

	rootCmd.AddCommand(serveCommand())
	rootCmd.AddCommand(adminCommand())
	rootCmd.AddCommand(sweepCommand())
	rootCmd.AddCommand(versionCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", programName, err)
		os.Exit(1)
	}
}
