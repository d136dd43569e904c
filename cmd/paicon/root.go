package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/MitxelSantos/pai-consolidator/internal/config"
	"github.com/MitxelSantos/pai-consolidator/internal/logging"
)

var (
	cfg        config.Config
	configFile string
)

var rootCmd = &cobra.Command{
	Use:   "paicon",
	Short: "PAI immunization registry consolidator",
	Long:  "Consolidates heterogeneous PAI vaccination registry workbooks from a municipality/year folder tree into a single canonical dataset.",
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfg.LogFormat, "log-format", "text", "Log format: text or json")
	pf.BoolVar(&cfg.Verbose, "verbose", false, "Log per-file processing detail")
	pf.StringVar(&configFile, "config", "", "Optional YAML file overriding the matching vocabulary")
}

// setup initializes logging and the matching vocabulary, applying the
// optional config-file overrides on top of the defaults.
func setup() (zerolog.Logger, error) {
	log := logging.Setup(cfg.LogFormat, cfg.Verbose)
	cfg.Matching = config.DefaultMatching()
	if configFile != "" {
		if err := cfg.LoadFromFile(configFile); err != nil {
			return log, err
		}
	}
	return log, nil
}
