package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"go.uber.org/zap"

	"opusconsulting.gr/opus-web/internal/fault"
	"opusconsulting.gr/opus-web/internal/observability"
)

// AssetsWithCache serves files from fsys with Cache-Control, Vary, and ETag
// handling. prefix is stripped from the URL before lookup. Missing files and
// directories are media faults and answer with a plain 404; pages referencing
// them keep rendering.
func AssetsWithCache(fsys fs.FS, prefix string) http.Handler {
	// precompute ETags for every file
	etags := map[string]string{}
	_ = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if et, err := fileETag(fsys, p); err == nil {
			etags["/"+p] = et
		}
		return nil
	})
	files := http.FileServer(http.FS(fsys))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := "/" + strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, prefix), "/")
		et, ok := etags[path.Clean(name)]
		if !ok {
			err := fault.New(fault.KindMedia, "serve asset", fs.ErrNotExist)
			observability.FromContext(r.Context()).Debug("missing asset", zap.Error(err), zap.String("path", name))
			http.Error(w, "404 page not found", fault.KindOf(err).Status())
			return
		}
		w.Header().Add("Vary", "Accept-Encoding")
		w.Header().Set("Cache-Control", "public, max-age=604800, stale-while-revalidate=86400")
		w.Header().Set("ETag", et)
		if inm := r.Header.Get("If-None-Match"); inm != "" && inm == et {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		r2 := r.Clone(r.Context())
		r2.URL.Path = path.Clean(name)
		files.ServeHTTP(w, r2)
	})
}

func fileETag(fsys fs.FS, name string) (string, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return `W/"` + hex.EncodeToString(sum[:16]) + `"`, nil
}
