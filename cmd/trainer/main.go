package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qgxf-trainer/internal/api"
	"qgxf-trainer/internal/client"
	"qgxf-trainer/internal/config"
	"qgxf-trainer/internal/display"
	"qgxf-trainer/internal/logger"
	"qgxf-trainer/internal/prompt"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	var cfgPath string

	root := &cobra.Command{
		Use:          "trainer",
		Short:        "Automates video playback and lesson exams on the QGXF training platform",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, cfgPath)
		},
	}
	root.Flags().StringVar(&cfgPath, "config", config.DefaultFileName, "path of the config file")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, cfgPath string) error {
	log := logger.NewFileLogger("qgxf-trainer")

	cfg, err := config.Load(cfgPath, log)
	if err != nil {
		log.Error().Err(err).Msg("error loading config")
		return fmt.Errorf("load config: %w", err)
	}

	apiClient, err := api.New(api.Options{RetryDelay: api.DefaultRetryDelay}, log)
	if err != nil {
		log.Error().Err(err).Msg("create api client")
		return fmt.Errorf("create api client: %w", err)
	}

	eng := display.New(os.Stdout, log)
	defer eng.Close()

	app := client.New(apiClient, cfg, eng, prompt.New(os.Stdin, eng), log)
	if err := app.Run(cmd.Context()); err != nil {
		// Already rendered on screen and acknowledged by the user.
		log.Error().Err(err).Msg("run failed")
		return err
	}
	return nil
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
