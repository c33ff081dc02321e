package handlers

import (
	"net/http"
)

// StaticHandler serves files from a document root. Content types, directory
// indexes, range requests, 404s and path cleaning come from net/http's
// file server.
type StaticHandler struct {
	root  string
	files http.Handler
}

func NewStaticHandler(root string) *StaticHandler {
	return &StaticHandler{root: root, files: http.FileServer(http.Dir(root))}
}

// Root returns the directory being served.
func (h *StaticHandler) Root() string { return h.root }

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.files.ServeHTTP(w, r)
}
