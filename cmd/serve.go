package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"document-relay/internal/codec"
	"document-relay/internal/db"
	"document-relay/internal/llmservice"
	"document-relay/internal/relay"
	"document-relay/internal/server"
	"document-relay/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.ValidateLLM(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		dbInstance, err := db.Open(ctx, &cfg.Database)
		if err != nil {
			return err
		}
		defer dbInstance.Close()

		blobs, err := storage.New(&cfg.Storage, dbInstance)
		if err != nil {
			return err
		}

		editor, err := llmservice.New(&cfg.LLM)
		if err != nil {
			return err
		}

		r := relay.New(codec.New(cfg.Codec), db.NewStore(dbInstance), blobs, editor)
		log.Info().
			Str("storage", cfg.Storage.Backend).
			Str("database", cfg.Database.Driver).
			Str("provider", cfg.LLM.Provider).
			Str("model", cfg.LLM.Model).
			Msg("Starting relay")
		return server.New(r, cfg.Server).Start(ctx)
	},
}
