package models

import "time"

// FileInfo is the listing entry returned for a stored file.
type FileInfo struct {
	Filename     string    `json:"filename"`
	OriginalName string    `json:"originalname"`
	MediaType    string    `json:"mimetype"`
	Size         int64     `json:"size"`
	FileType     string    `json:"fileType"`
	Summary      string    `json:"summary,omitempty"`
	EditedFrom   string    `json:"editedFrom,omitempty"`
	UploadDate   time.Time `json:"uploadDate"`
}

type UploadResponse struct {
	Message  string `json:"message"`
	Filename string `json:"filename"`
	FileType string `json:"fileType"`
	Summary  string `json:"summary,omitempty"`
}

type EditRequest struct {
	Filename     string `json:"filename"`
	Instructions string `json:"instructions"`
}

type EditResponse struct {
	Message        string `json:"message"`
	EditedFilename string `json:"editedFilename"`
	Type           string `json:"type"`
}

type ContentResponse struct {
	Content string `json:"content"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
