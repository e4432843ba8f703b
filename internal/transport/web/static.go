package web

import (
	"net/http"
	"path/filepath"
)

// Home serves index.html from the static directory.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(h.container.Config.Server.StaticDir, "index.html"))
}

// Static serves the front-end bundle mounted under /static/.
func (h *Handler) Static() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.Dir(h.container.Config.Server.StaticDir)))
}
