package application

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

const snippetMaxLength = 200

// BodyRenderer converts a post body to HTML for the web front end.
type BodyRenderer interface {
	Render(body string) (string, error)
}

type bodyRenderer struct {
	md goldmark.Markdown
}

// NewBodyRenderer builds the markdown renderer used for post bodies.
// Post bodies are mostly plain paragraphs; GFM covers the occasional
// emphasis or link an admin edit introduces.
func NewBodyRenderer() BodyRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Strikethrough,
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithXHTML(),
		),
	)
	return &bodyRenderer{md: md}
}

func (r *bodyRenderer) Render(body string) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("failed to convert body to HTML: %w", err)
	}
	return buf.String(), nil
}

// Snippet returns the first paragraph of a body, truncated at a word
// boundary for listing pages.
func Snippet(body string) string {
	var paragraphLines []string
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if len(paragraphLines) > 0 {
				break
			}
			continue
		}
		paragraphLines = append(paragraphLines, trimmed)
	}
	if len(paragraphLines) == 0 {
		return ""
	}

	snippet := strings.Join(paragraphLines, " ")
	if utf8.RuneCountInString(snippet) > snippetMaxLength {
		runes := []rune(snippet)
		snippet = string(runes[:snippetMaxLength])
		if lastSpace := strings.LastIndexAny(snippet, " \t"); lastSpace > 0 {
			snippet = snippet[:lastSpace]
		}
		snippet += "..."
	}
	return snippet
}
