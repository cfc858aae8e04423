// Package relay ties the codec, the edit step and the stores together into
// the operations exposed over HTTP and the command line.
package relay

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"document-relay/internal/codec"
	"document-relay/internal/db"
	"document-relay/internal/helper"
	"document-relay/internal/inspect"
	"document-relay/internal/llmservice"
	"document-relay/internal/models"
	"document-relay/internal/storage"
)

var (
	ErrNotFound          = errors.New("file not found")
	ErrEmptyInstructions = errors.New("instructions must not be empty")
	ErrChecksumMismatch  = errors.New("stored file failed checksum verification")
)

// MetadataStore persists file records. *db.Store implements it.
type MetadataStore interface {
	SaveFile(ctx context.Context, f *db.File) error
	FindFile(ctx context.Context, filename string) (*db.File, error)
	ListFiles(ctx context.Context) ([]db.File, error)
	DeleteFile(ctx context.Context, filename string) error
}

type Relay struct {
	codec  *codec.Codec
	meta   MetadataStore
	blobs  storage.BlobStore
	editor llmservice.Editor
	now    func() time.Time
}

func New(c *codec.Codec, meta MetadataStore, blobs storage.BlobStore, editor llmservice.Editor) *Relay {
	return &Relay{
		codec:  c,
		meta:   meta,
		blobs:  blobs,
		editor: editor,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Upload stores a new artifact under a generated name and returns its
// record. Unsupported files are rejected before anything is written.
func (r *Relay) Upload(ctx context.Context, data []byte, mediaType, originalName string) (*models.FileInfo, error) {
	family := codec.Classify(mediaType, originalName)
	if family == codec.Unsupported {
		return nil, fmt.Errorf("%w: %s (%s)", codec.ErrUnsupportedFileType, originalName, mediaType)
	}

	id, err := helper.GenerateUUID()
	if err != nil {
		return nil, err
	}
	base := helper.SafeBaseName(originalName)

	record := &db.File{
		Filename:     id + "-" + base,
		OriginalName: base,
		MediaType:    mediaType,
		Size:         int64(len(data)),
		Checksum:     helper.Checksum(data),
		UploadDate:   r.now(),
	}
	record.Summary, err = inspect.Summarize(r.codec, codec.Artifact{Data: data, MediaType: mediaType, Filename: base}, family)
	if err != nil {
		// A file the codec cannot read is still stored; Content and Edit
		// report the extraction error later.
		log.Warn().Err(err).Str("filename", record.Filename).Msg("Could not summarize upload")
		record.Summary = ""
	}

	if err := r.store(ctx, record, data); err != nil {
		return nil, err
	}
	log.Info().Str("filename", record.Filename).Str("family", family.String()).Int64("size", record.Size).Msg("File uploaded")
	return toInfo(record), nil
}

// store writes the blob first and the record second, removing the blob if
// the record cannot be saved.
func (r *Relay) store(ctx context.Context, record *db.File, data []byte) error {
	previous, err := r.blobs.Get(ctx, record.Filename)
	existed := err == nil
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to read %s: %w", record.Filename, err)
	}
	if err := r.blobs.Put(ctx, record.Filename, data); err != nil {
		return fmt.Errorf("failed to store %s: %w", record.Filename, err)
	}
	if err := r.meta.SaveFile(ctx, record); err != nil {
		// An overwritten blob still belongs to the earlier metadata row.
		var rerr error
		if existed {
			rerr = r.blobs.Put(ctx, record.Filename, previous)
		} else if derr := r.blobs.Delete(ctx, record.Filename); derr != nil && !errors.Is(derr, storage.ErrNotFound) {
			rerr = derr
		}
		if rerr != nil {
			log.Error().Err(rerr).Str("filename", record.Filename).Msg("Failed to roll back blob")
		}
		return err
	}
	return nil
}

func (r *Relay) List(ctx context.Context) ([]models.FileInfo, error) {
	files, err := r.meta.ListFiles(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]models.FileInfo, 0, len(files))
	for i := range files {
		infos = append(infos, *toInfo(&files[i]))
	}
	return infos, nil
}

// Content returns the extracted text of a stored file.
func (r *Relay) Content(ctx context.Context, filename string) (string, error) {
	record, data, err := r.load(ctx, filename)
	if err != nil {
		return "", err
	}
	return r.codec.Extract(artifactOf(record, data), familyOf(record))
}

// Download returns the stored bytes and their record.
func (r *Relay) Download(ctx context.Context, filename string) (*db.File, []byte, error) {
	return r.load(ctx, filename)
}

// Delete removes the record and then the blob.
func (r *Relay) Delete(ctx context.Context, filename string) error {
	if err := r.meta.DeleteFile(ctx, filename); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := r.blobs.Delete(ctx, filename); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("failed to delete blob %s: %w", filename, err)
	}
	log.Info().Str("filename", filename).Msg("File deleted")
	return nil
}

// Edit extracts the stored file, asks the editor to apply instructions and
// stores the reconstructed result as edited_<filename>.
func (r *Relay) Edit(ctx context.Context, filename, instructions string) (*models.EditResponse, error) {
	if strings.TrimSpace(instructions) == "" {
		return nil, ErrEmptyInstructions
	}
	record, data, err := r.load(ctx, filename)
	if err != nil {
		return nil, err
	}
	family := familyOf(record)

	edited, err := EditArtifact(ctx, r.codec, r.editor, artifactOf(record, data), family, instructions)
	if err != nil {
		return nil, err
	}

	editedRecord := &db.File{
		Filename:     models.EditedPrefix + record.Filename,
		OriginalName: models.EditedPrefix + record.OriginalName,
		MediaType:    edited.MediaType,
		Size:         int64(len(edited.Data)),
		Checksum:     helper.Checksum(edited.Data),
		EditedFrom:   record.Filename,
		UploadDate:   r.now(),
	}
	editedRecord.Summary, err = inspect.Summarize(r.codec, codec.Artifact{Data: edited.Data, MediaType: edited.MediaType, Filename: editedRecord.OriginalName}, family)
	if err != nil {
		log.Warn().Err(err).Str("filename", editedRecord.Filename).Msg("Could not summarize edited file")
		editedRecord.Summary = ""
	}
	if err := r.store(ctx, editedRecord, edited.Data); err != nil {
		return nil, err
	}

	log.Info().Str("filename", filename).Str("edited", editedRecord.Filename).Msg("File edited")
	return &models.EditResponse{
		Message:        "File edited successfully",
		EditedFilename: editedRecord.Filename,
		Type:           family.String(),
	}, nil
}

// EditArtifact runs extract, edit and reconstruct for a single artifact.
func EditArtifact(ctx context.Context, c *codec.Codec, editor llmservice.Editor, a codec.Artifact, family codec.Family, instructions string) (*codec.Output, error) {
	content, err := c.Extract(a, family)
	if err != nil {
		return nil, err
	}
	editedText, err := editor.Edit(ctx, family, content, instructions)
	if err != nil {
		return nil, fmt.Errorf("edit failed: %w", err)
	}
	return c.Reconstruct(editedText, family, a.MediaType)
}

func (r *Relay) load(ctx context.Context, filename string) (*db.File, []byte, error) {
	record, err := r.meta.FindFile(ctx, filename)
	if errors.Is(err, db.ErrNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	data, err := r.blobs.Get(ctx, filename)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, ErrNotFound
	}
	if err != nil {
		return nil, nil, err
	}
	if record.Checksum != "" && helper.Checksum(data) != record.Checksum {
		return nil, nil, fmt.Errorf("%w: %s", ErrChecksumMismatch, filename)
	}
	return record, data, nil
}

func artifactOf(record *db.File, data []byte) codec.Artifact {
	return codec.Artifact{Data: data, MediaType: record.MediaType, Filename: record.OriginalName}
}

func familyOf(record *db.File) codec.Family {
	return codec.Classify(record.MediaType, record.OriginalName)
}

func toInfo(f *db.File) *models.FileInfo {
	return &models.FileInfo{
		Filename:     f.Filename,
		OriginalName: f.OriginalName,
		MediaType:    f.MediaType,
		Size:         f.Size,
		FileType:     familyOf(f).String(),
		Summary:      f.Summary,
		EditedFrom:   f.EditedFrom,
		UploadDate:   f.UploadDate,
	}
}
