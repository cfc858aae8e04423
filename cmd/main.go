package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"document-relay/internal/config"
)

const configFilePath = "./configs/config.yaml"

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "document-relay",
	Short: "Upload office and text files and edit them with an LLM",
	Long: `document-relay stores uploaded Word, Excel, PowerPoint and text files,
extracts their text, asks a language model to apply editing instructions and
writes the result back into a file of the same kind.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", configFilePath, "config file (optional)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(serveCmd, extractCmd, editCmd, configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Caller().Logger()
	return nil
}

// loadConfig reads the config file when it exists and applies environment
// overrides.
func loadConfig() (*config.Config, error) {
	path := cfgFile
	if _, err := os.Stat(path); err != nil {
		if path != configFilePath {
			return nil, err
		}
		log.Debug().Str("path", path).Msg("No config file, using defaults")
		path = ""
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	log.Debug().Interface("config", cfg.Redacted()).Msg("Loaded config")
	return cfg, nil
}
