package server

import (
	"io/fs"
	"net/http"
	"strings"
)

const assetPrefix = "/assets/"

// assetServer serves the embedded browser assets. Unknown paths are 404s.
type assetServer struct {
	fileServer http.Handler
	fileSystem fs.FS
}

func newAssetServer(fsys fs.FS) *assetServer {
	return &assetServer{
		fileServer: http.StripPrefix(strings.TrimSuffix(assetPrefix, "/"), http.FileServer(http.FS(fsys))),
		fileSystem: fsys,
	}
}

func (s *assetServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, assetPrefix)
	if path == "" || strings.HasSuffix(path, "/") {
		http.NotFound(w, r)
		return
	}
	if _, err := fs.Stat(s.fileSystem, path); err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	s.fileServer.ServeHTTP(w, r)
}
