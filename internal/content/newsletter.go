package content

import (
	"bytes"
	"fmt"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/unityguilds/hub/internal/models"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// RenderMarkdown converts a newsletter body to HTML. Raw HTML in the source is omitted.
func RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}

// RenderedNewsletter is a newsletter with its body rendered to HTML
type RenderedNewsletter struct {
	*models.Newsletter
	ContentHTML string `json:"content_html"`
}

// Render returns n with its content rendered
func Render(n *models.Newsletter) (*RenderedNewsletter, error) {
	out, err := RenderMarkdown(n.Content)
	if err != nil {
		return nil, err
	}
	return &RenderedNewsletter{Newsletter: n, ContentHTML: out}, nil
}

// NewsletterHooks stamps issue numbers and publication times
func NewsletterHooks() Hooks[*models.Newsletter] {
	return Hooks[*models.Newsletter]{
		BeforeCreate: func(n *models.Newsletter) {
			if n.IssueNumber == 0 {
				n.IssueNumber = 1
			}
			n.PublishedAt = nil
			if n.Published {
				now := time.Now().UTC()
				n.PublishedAt = &now
			}
		},
		BeforeUpdate: func(n *models.Newsletter, columns []string) []string {
			for _, col := range columns {
				if col != "published" {
					continue
				}
				if n.Published {
					now := time.Now().UTC()
					n.PublishedAt = &now
				} else {
					n.PublishedAt = nil
				}
				return append(columns, "published_at")
			}
			return columns
		},
	}
}
