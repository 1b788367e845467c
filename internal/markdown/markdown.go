// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown converts forum post bodies from Markdown to HTML using
// goldmark. Raw HTML in the source is dropped: posts are written by any
// registered user and rendered for everyone else.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// MaxSourceLen is the largest post body accepted by ToHTML, in bytes.
const MaxSourceLen = 10000

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,         // tables, strikethrough, autolinks, task lists
		extension.Typographer, // smart quotes and dashes
		highlighting.NewHighlighting(
			highlighting.WithStyle("monokai"),
		),
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(), // chat-style posts: a newline is a line break
	),
)

// ToHTML converts Markdown source into HTML. Raw HTML blocks and inline
// tags are replaced by an "omitted" comment, and javascript: links are
// not rendered as links.
func ToHTML(source string) (string, error) {
	if len(source) > MaxSourceLen {
		return "", fmt.Errorf("markdown: source exceeds %d bytes", MaxSourceLen)
	}
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Excerpt returns the first n runes of the source with Markdown markers
// removed, for link previews and log lines.
func Excerpt(source string, n int) string {
	s := strings.Join(strings.Fields(source), " ")
	s = strings.NewReplacer("**", "", "__", "", "`", "", "#", "", "~~", "").Replace(s)
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}
