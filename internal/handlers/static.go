package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
)

// StaticHandler serves files from a directory for any GET path not claimed
// by an API route. Directories resolve to their index.html.
type StaticHandler struct {
	dir string
}

// NewStaticHandler creates a StaticHandler rooted at dir.
func NewStaticHandler(dir string) *StaticHandler {
	return &StaticHandler{dir: dir}
}

// Routes registers the catch-all route.
func (h *StaticHandler) Routes(r chi.Router) {
	r.Get("/*", h.Serve)
}

// Serve resolves the request path under the static directory. The path is
// cleaned and checked so it cannot escape the directory.
func (h *StaticHandler) Serve(w http.ResponseWriter, r *http.Request) {
	cleaned := path.Clean("/" + r.URL.Path)
	fullPath := filepath.Join(h.dir, filepath.FromSlash(cleaned))

	absDir, _ := filepath.Abs(h.dir)
	absFile, _ := filepath.Abs(fullPath)
	if absFile != absDir && !strings.HasPrefix(absFile, absDir+string(filepath.Separator)) {
		writeError(w, http.StatusForbidden, "access denied")
		return
	}

	info, err := os.Stat(fullPath)
	if err == nil && info.IsDir() {
		fullPath = filepath.Join(fullPath, "index.html")
		info, err = os.Stat(fullPath)
	}
	if err != nil || info.IsDir() {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

	http.ServeFile(w, r, fullPath)
}
