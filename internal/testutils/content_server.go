package testutils

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path"
	"strings"
	"sync"
	"testing"
)

const contentsPrefix = "/contents/"

type response struct {
	status int
	body   []byte
}

// ContentServer fakes the content endpoint: directory listings are JSON
// arrays of entries and files are JSON envelopes carrying base64 content
// broken into lines.
type ContentServer struct {
	server *httptest.Server

	mu         sync.Mutex
	responses  map[string]response
	listings   map[string][]listingEntry
	hits       map[string]int
	userAgents []string
}

type listingEntry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

// NewContentServer starts a fake content endpoint closed at test cleanup
func NewContentServer(t *testing.T) *ContentServer {
	t.Helper()

	cs := &ContentServer{
		responses: make(map[string]response),
		listings:  make(map[string][]listingEntry),
		hits:      make(map[string]int),
	}
	cs.server = httptest.NewServer(http.HandlerFunc(cs.serve))
	t.Cleanup(cs.server.Close)

	return cs
}

// BaseURL is the root that asset and tier paths resolve under
func (cs *ContentServer) BaseURL() string {
	return cs.server.URL + contentsPrefix
}

// URL returns the locator of a path below BaseURL
func (cs *ContentServer) URL(p string) string {
	return cs.BaseURL() + strings.TrimPrefix(p, "/")
}

// AddFile serves text as a file envelope at p and lists it in its directory
func (cs *ContentServer) AddFile(p, text string) {
	p = strings.TrimPrefix(p, "/")
	body, _ := json.Marshal(map[string]any{
		"name":     path.Base(p),
		"path":     p,
		"encoding": "base64",
		"content":  wrapBase64(text),
	})

	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.responses[p] = response{status: http.StatusOK, body: body}
	cs.list(path.Dir(p), listingEntry{Name: path.Base(p), Path: p, URL: cs.URL(p), Type: "file"})
}

// AddDir lists a sub directory entry in the directory containing p
func (cs *ContentServer) AddDir(p string) {
	p = strings.TrimPrefix(p, "/")

	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.list(path.Dir(p), listingEntry{Name: path.Base(p), Path: p, URL: cs.URL(p), Type: "dir"})
}

// AddRaw serves body with status at p, bypassing the envelope format
func (cs *ContentServer) AddRaw(p string, status int, body string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.responses[strings.TrimPrefix(p, "/")] = response{status: status, body: []byte(body)}
}

// Hits returns how many requests reached p
func (cs *ContentServer) Hits(p string) int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return cs.hits[strings.TrimPrefix(p, "/")]
}

// UserAgents returns the User-Agent header of every request so far
func (cs *ContentServer) UserAgents() []string {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]string(nil), cs.userAgents...)
}

func (cs *ContentServer) list(dir string, e listingEntry) {
	cs.listings[dir] = append(cs.listings[dir], e)
}

func (cs *ContentServer) serve(w http.ResponseWriter, r *http.Request) {
	p := strings.TrimPrefix(r.URL.Path, contentsPrefix)

	cs.mu.Lock()
	cs.hits[p]++
	cs.userAgents = append(cs.userAgents, r.Header.Get("User-Agent"))
	resp, ok := cs.responses[p]
	entries, isDir := cs.listings[p]
	cs.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case ok:
		w.WriteHeader(resp.status)
		_, _ = w.Write(resp.body)
	case isDir:
		_ = json.NewEncoder(w).Encode(entries)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Not Found"}`))
	}
}

// wrapBase64 encodes text and breaks it into 60 character lines, each ending
// in a newline, as the real endpoint does
func wrapBase64(text string) string {
	enc := base64.StdEncoding.EncodeToString([]byte(text))
	var b strings.Builder
	for len(enc) > 60 {
		b.WriteString(enc[:60])
		b.WriteByte('\n')
		enc = enc[60:]
	}
	b.WriteString(enc)
	b.WriteByte('\n')
	return b.String()
}
