package document

import "io"

type CreateDocumentRequest struct {
	Title      string `json:"title" binding:"required"`
	URL        string `json:"url"`
	Filename   string `json:"filename"`
	Summary    string `json:"summary"`
	UploadedBy string `json:"uploadedBy" binding:"required"`
}

// UploadRequest carries a raw file through the server-side orchestration:
// archive, summarize, register. File must be seekable because it is read once
// for archival and once for the summarizer.
type UploadRequest struct {
	Title       string
	Filename    string
	UploadedBy  string
	File        io.ReadSeeker
	Size        int64
	ContentType string
}

// IngestURLRequest registers a document fetched from a remote URL. The
// uploader comes from the caller's token, never the body.
type IngestURLRequest struct {
	Title      string `json:"title"`
	URL        string `json:"url" binding:"required,url"`
	Filename   string `json:"filename" binding:"required"`
	UploadedBy string `json:"-"`
}

type DocumentResponse struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Filename   string `json:"filename"`
	Summary    string `json:"summary"`
	UploadedBy string `json:"uploadedBy"`
	UploadedAt string `json:"uploadedAt"`
}
