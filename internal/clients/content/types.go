package content

import "encoding/json"

// DirectoryEntry is one item of a directory listing
type DirectoryEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	// URL locates the file content endpoint for this entry
	URL         string `json:"url"`
	DownloadURL string `json:"download_url,omitempty"`
	Type        string `json:"type,omitempty"`
	SHA         string `json:"sha,omitempty"`
	Size        int64  `json:"size,omitempty"`
}

// IsDir reports whether the entry is a sub directory rather than a file
func (e DirectoryEntry) IsDir() bool {
	return e.Type == "dir"
}

// FileEnvelope is the JSON wrapper returned by the file content endpoint.
// Content is kept as the raw JSON text of the field so the decoder can clean
// it exactly as it arrived.
type FileEnvelope struct {
	Name     string          `json:"name"`
	Path     string          `json:"path"`
	SHA      string          `json:"sha,omitempty"`
	Size     int64           `json:"size,omitempty"`
	Encoding string          `json:"encoding,omitempty"`
	Content  json.RawMessage `json:"content"`
}
