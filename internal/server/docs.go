package server

import (
	"bytes"
	_ "embed"
	"net/http"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed usage.md
var usageMarkdown []byte

var (
	usageOnce sync.Once
	usageHTML []byte
	usageErr  error
)

// renderUsage converts the embedded usage document to HTML exactly once.
// The source is a compile-time embed, so a conversion failure is a bug and
// is surfaced as a 500 to every request rather than a panic at startup.
func renderUsage() ([]byte, error) {
	usageOnce.Do(func() {
		md := goldmark.New(goldmark.WithExtensions(extension.Table))
		var buf bytes.Buffer
		buf.WriteString(pageHeader)
		if err := md.Convert(usageMarkdown, &buf); err != nil {
			usageErr = err
			return
		}
		buf.WriteString(pageFooter)
		usageHTML = buf.Bytes()
	})
	return usageHTML, usageErr
}

// handleDocs serves the rendered usage page at the root path. The mux routes
// every unregistered path here, so anything other than "/" is a 404.
func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	page, err := renderUsage()
	if err != nil {
		s.logger.Error("usage page render failed", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(page); err != nil {
		s.logger.Debug("usage page write failed", "err", err)
	}
}

const pageHeader = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>cmdsense daemon</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 44rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
code, pre { font-family: ui-monospace, monospace; background: #f4f4f4; border-radius: 3px; }
code { padding: 0.1rem 0.3rem; }
pre { padding: 0.6rem; overflow-x: auto; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 0.3rem 0.6rem; text-align: left; }
</style>
</head>
<body>
`

const pageFooter = `</body>
</html>
`
