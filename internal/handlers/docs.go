package handlers

import (
	"embed"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/russross/blackfriday/v2"
)

//go:embed docs/*.md
var docFiles embed.FS

var docTitles = map[string]string{
	"api":     "API Reference",
	"scoring": "Scoring and Ranking",
}

// DocsHandler renders the bundled Markdown docs as HTML
type DocsHandler struct{}

// NewDocsHandler creates a docs handler
func NewDocsHandler() *DocsHandler {
	return &DocsHandler{}
}

// ServeDoc handles GET /docs/:doc
func (h *DocsHandler) ServeDoc(c *gin.Context) {
	name := strings.ToLower(c.Param("doc"))
	title, ok := docTitles[name]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	content, err := docFiles.ReadFile("docs/" + name + ".md")
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Document not found"})
		return
	}

	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(renderDoc(title, content)))
}

// ServeIndex handles GET /docs
func (h *DocsHandler) ServeIndex(c *gin.Context) {
	c.Redirect(http.StatusFound, "/docs/api")
}

func renderDoc(title string, markdown []byte) string {
	extensions := blackfriday.CommonExtensions | blackfriday.AutoHeadingIDs
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags,
	})
	body := blackfriday.Run(markdown, blackfriday.WithRenderer(renderer), blackfriday.WithExtensions(extensions))

	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s - AI Pulse</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; max-width: 860px; margin: 0 auto; padding: 2rem; line-height: 1.6; color: #1f2937; }
        nav a { margin-right: 1rem; color: #4f46e5; text-decoration: none; }
        pre { background: #f3f4f6; padding: 1rem; border-radius: 6px; overflow-x: auto; }
        code { font-family: 'SF Mono', Consolas, monospace; font-size: 0.9em; }
        table { border-collapse: collapse; width: 100%%; }
        th, td { border: 1px solid #e5e7eb; padding: 0.5rem; text-align: left; }
    </style>
</head>
<body>
    <nav><a href="/docs/api">API</a><a href="/docs/scoring">Scoring</a></nav>
    %s
</body>
</html>`, html.EscapeString(title), body)
}
