// ABOUTME: Markdown plugin: renders markdown snippets to HTML with goldmark
// ABOUTME: Stateless; owns no tables

package builtins

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/2389/benotes/internal/plugins"
)

const (
	MarkdownPluginID = "markdown"
	MarkdownCardType = "markdown:snippet"
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// MarkdownPlugin returns the markdown plugin descriptor.
func MarkdownPlugin() plugins.Plugin {
	return plugins.Plugin{
		ID:          MarkdownPluginID,
		Name:        "Markdown",
		Description: "Render markdown snippets as HTML",
		CardTypes:   []string{MarkdownCardType},
		Routes: func(r chi.Router, _ plugins.StoreResolver) {
			r.Post("/render", handleRender)
		},
	}
}

// RenderMarkdown converts source to HTML. Raw HTML in source is omitted.
func RenderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return buf.String(), nil
}

type renderRequest struct {
	Markdown string `json:"markdown"`
}

func handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := plugins.DecodeJSON(w, r, &req); err != nil {
		plugins.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	html, err := RenderMarkdown(req.Markdown)
	if err != nil {
		plugins.WriteError(w, http.StatusInternalServerError, "render failed")
		return
	}
	plugins.WriteJSON(w, http.StatusOK, map[string]string{"html": html})
}
