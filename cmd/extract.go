package main

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"document-relay/internal/codec"
	"document-relay/internal/helper"
	"document-relay/internal/inspect"
)

var (
	extractFile string
	extractJSON bool
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Print the editable text of a local file",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		artifact, family, err := readArtifact(extractFile)
		if err != nil {
			return err
		}

		c := codec.New(cfg.Codec)
		text, err := c.Extract(artifact, family)
		if err != nil {
			return err
		}

		if extractJSON {
			summary, _ := inspect.Summarize(c, artifact, family)
			helper.PrettyPrint(map[string]string{
				"filename": filepath.Base(extractFile),
				"fileType": family.String(),
				"summary":  summary,
				"content":  text,
			})
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractFile, "file", "", "path to the file")
	extractCmd.Flags().BoolVar(&extractJSON, "json", false, "print a JSON object with the summary")
	_ = extractCmd.MarkFlagRequired("file")
}

// readArtifact loads a local file and classifies it by extension.
func readArtifact(path string) (codec.Artifact, codec.Family, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return codec.Artifact{}, codec.Unsupported, err
	}
	artifact := codec.Artifact{
		Data:      data,
		MediaType: mime.TypeByExtension(filepath.Ext(path)),
		Filename:  filepath.Base(path),
	}
	family := artifact.Family()
	if family == codec.Unsupported {
		return codec.Artifact{}, family, errors.Join(codec.ErrUnsupportedFileType, fmt.Errorf("cannot handle %s", path))
	}
	return artifact, family, nil
}
