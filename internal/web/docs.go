package web

import (
	"bytes"
	_ "embed"
	"html/template"
	"log/slog"
	"net/http"
	"sync"

	"github.com/yuin/goldmark"
)

//go:embed apidocs.md
var apiDocsMarkdown []byte

var docsPage = template.Must(template.New("docs").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>notehub API</title>
<style>
body { font-family: sans-serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; }
code, pre { background: #f4f4f4; }
pre { padding: 0.75rem; overflow-x: auto; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: 0.3rem 0.6rem; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>`))

var renderDocs = sync.OnceValues(func() ([]byte, error) {
	var body bytes.Buffer
	if err := goldmark.New().Convert(apiDocsMarkdown, &body); err != nil {
		return nil, err
	}
	var page bytes.Buffer
	err := docsPage.Execute(&page, struct{ Body template.HTML }{Body: template.HTML(body.String())})
	return page.Bytes(), err
})

func (s *Server) handleDocs(w http.ResponseWriter, r *http.Request) {
	page, err := renderDocs()
	if err != nil {
		slog.Error("render api docs", "err", err)
		http.Error(w, "documentation unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}
