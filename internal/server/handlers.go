package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"document-relay/internal/codec"
	"document-relay/internal/models"
	"document-relay/internal/relay"
)

const defaultMaxUploadBytes = 50 << 20

func (s *Server) maxUpload() int64 {
	if s.cfg.MaxUploadBytes > 0 {
		return s.cfg.MaxUploadBytes
	}
	return defaultMaxUploadBytes
}

// handleUpload stores the multipart field "file".
// POST /upload
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload())
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read uploaded file")
		return
	}

	info, err := s.relay.Upload(r.Context(), data, header.Header.Get("Content-Type"), header.Filename)
	if err != nil {
		s.fail(w, r, err, "Upload failed")
		return
	}
	writeJSON(w, http.StatusOK, models.UploadResponse{
		Message:  "File uploaded successfully",
		Filename: info.Filename,
		FileType: info.FileType,
		Summary:  info.Summary,
	})
}

// POST /edit-file
func (s *Server) handleEdit(w http.ResponseWriter, r *http.Request) {
	var req models.EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Filename == "" {
		writeError(w, http.StatusBadRequest, "filename is required")
		return
	}

	resp, err := s.relay.Edit(r.Context(), req.Filename, req.Instructions)
	if err != nil {
		s.fail(w, r, err, "Failed to edit file")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /files
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	files, err := s.relay.List(r.Context())
	if err != nil {
		s.fail(w, r, err, "Failed to list files")
		return
	}
	writeJSON(w, http.StatusOK, files)
}

// GET /file-content/{filename}
func (s *Server) handleContent(w http.ResponseWriter, r *http.Request) {
	filename, ok := filenameParam(w, r)
	if !ok {
		return
	}
	content, err := s.relay.Content(r.Context(), filename)
	if err != nil {
		s.fail(w, r, err, "Failed to extract content")
		return
	}
	writeJSON(w, http.StatusOK, models.ContentResponse{Content: content})
}

// GET /download/{filename}
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	filename, ok := filenameParam(w, r)
	if !ok {
		return
	}
	record, data, err := s.relay.Download(r.Context(), filename)
	if err != nil {
		s.fail(w, r, err, "Failed to download file")
		return
	}

	mediaType := record.MediaType
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", mediaType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": record.OriginalName}))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		log.Warn().Err(err).Str("filename", filename).Msg("Download interrupted")
	}
}

// DELETE /delete/{filename}
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	filename, ok := filenameParam(w, r)
	if !ok {
		return
	}
	if err := s.relay.Delete(r.Context(), filename); err != nil {
		s.fail(w, r, err, "Failed to delete file")
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "File deleted successfully"})
}

func filenameParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	filename, err := url.PathUnescape(chi.URLParam(r, "filename"))
	if err != nil || filename == "" {
		writeError(w, http.StatusBadRequest, "Invalid filename")
		return "", false
	}
	return filename, true
}

// fail maps relay and codec errors onto status codes.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	status := statusFor(err)
	event := log.Error()
	if status < http.StatusInternalServerError {
		event = log.Warn()
	}
	event.Err(err).Str("path", r.URL.Path).Int("status", status).Msg(msg)

	switch status {
	case http.StatusNotFound:
		writeError(w, status, "File not found")
	case http.StatusInternalServerError:
		writeError(w, status, msg)
	default:
		writeError(w, status, err.Error())
	}
}

func statusFor(err error) int {
	var (
		extractErr     *codec.ExtractionError
		reconstructErr *codec.ReconstructionError
	)
	switch {
	case errors.Is(err, relay.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, codec.ErrUnsupportedFileType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, relay.ErrEmptyInstructions):
		return http.StatusBadRequest
	case errors.As(err, &extractErr), errors.As(err, &reconstructErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}
