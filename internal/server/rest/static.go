package rest

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

const indexFile = "index.html"

// spa serves files from the frontend build directory. Paths that do not name
// a regular file inside it get index.html so client-side routing works; /api
// misses are reported as JSON 404s instead.
func (s *HTTPServer) spa(c *gin.Context) {
	if isAPIPath(c.Request.URL.Path) {
		c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	if s.opts.StaticDir == "" {
		c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}

	if file, ok := resolveStatic(s.opts.StaticDir, c.Request.URL.Path); ok {
		s.serveFile(c, file)
		return
	}

	index := filepath.Join(s.opts.StaticDir, indexFile)
	if !isRegularFile(index) {
		c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Error: "not found"})
		return
	}
	s.serveFile(c, index)
}

// serveFile writes the named file with ServeContent; http.ServeFile would
// redirect "/index.html" requests and reject raw "..".
func (s *HTTPServer) serveFile(c *gin.Context, name string) {
	f, err := os.Open(name)
	if err != nil {
		s.abortWithError(c, err)
		return
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		s.abortWithError(c, err)
		return
	}

	http.ServeContent(c.Writer, c.Request, fi.Name(), fi.ModTime(), f)
}

// resolveStatic maps a URL path onto root. Paths escaping root or naming
// anything other than a regular file are rejected.
func resolveStatic(root, urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	if clean == "/" {
		return "", false
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	full := filepath.Join(absRoot, filepath.FromSlash(strings.TrimPrefix(clean, "/")))

	rel, err := filepath.Rel(absRoot, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}

	if !isRegularFile(full) {
		return "", false
	}
	return full, true
}

func isRegularFile(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.Mode().IsRegular()
}
