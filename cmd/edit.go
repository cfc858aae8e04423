package main

import (
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"document-relay/internal/codec"
	"document-relay/internal/llmservice"
	"document-relay/internal/models"
	"document-relay/internal/relay"
)

var (
	editFile         string
	editInstructions string
	editOut          string
)

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit a local file with the configured model",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.ValidateLLM(); err != nil {
			return err
		}
		artifact, family, err := readArtifact(editFile)
		if err != nil {
			return err
		}

		editor, err := llmservice.New(&cfg.LLM)
		if err != nil {
			return err
		}
		out, err := relay.EditArtifact(cmd.Context(), codec.New(cfg.Codec), editor, artifact, family, editInstructions)
		if err != nil {
			return err
		}

		dest := editOut
		if dest == "" {
			dest = filepath.Join(filepath.Dir(editFile), models.EditedPrefix+filepath.Base(editFile))
		}
		if err := os.WriteFile(dest, out.Data, 0o644); err != nil {
			return err
		}
		log.Info().Str("file", dest).Str("type", family.String()).Int("size", len(out.Data)).Msg("Edited file written")
		return nil
	},
}

func init() {
	editCmd.Flags().StringVar(&editFile, "file", "", "path to the file")
	editCmd.Flags().StringVar(&editInstructions, "instructions", "", "editing instructions")
	editCmd.Flags().StringVar(&editOut, "out", "", "output path (default edited_<name> next to the input)")
	_ = editCmd.MarkFlagRequired("file")
	_ = editCmd.MarkFlagRequired("instructions")
}
