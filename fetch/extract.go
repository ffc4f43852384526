package fetch

import (
	"bytes"
	stdhtml "html"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gomarkdown/markdown"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

const boilerplate = "script, style, noscript, template, nav, footer, header, aside, form, table, iframe, svg, button"

const blocks = "h1, h2, h3, h4, h5, h6, p, li, pre, blockquote, dd, dt, figcaption"

var (
	spaces     = regexp.MustCompile(`[ \t\f\v\x{00a0}]+`)
	blankLines = regexp.MustCompile(`\n{3,}`)
)

// ExtractText returns the main readable text of an HTML page. Boilerplate
// elements, tables and comments are dropped; <article> or <main> is
// preferred over the whole body when present.
func ExtractText(r io.Reader) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", err
	}

	doc.Find(boilerplate).Remove()
	doc.Find("*").Contents().FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Nodes[0].Type == html.CommentNode
	}).Remove()

	root := doc.Find("article").First()
	if root.Length() == 0 {
		root = doc.Find("main").First()
	}
	if root.Length() == 0 {
		root = doc.Find("body").First()
	}
	if root.Length() == 0 {
		root = doc.Selection
	}

	var lines []string
	root.Find(blocks).Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered(blocks).Length() > 0 {
			return
		}
		if line := normalizeLine(s.Text()); line != "" {
			lines = append(lines, line)
		}
	})
	if len(lines) == 0 {
		return normalizeText(root.Text()), nil
	}
	return strings.Join(lines, "\n"), nil
}

// MarkdownToText renders markdown and strips every tag, leaving plain text.
func MarkdownToText(md string) string {
	rendered := markdown.ToHTML([]byte(md), nil, nil)
	stripped := bluemonday.StrictPolicy().SanitizeBytes(rendered)
	return normalizeText(stdhtml.UnescapeString(string(bytes.TrimSpace(stripped))))
}

func normalizeLine(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(strings.ReplaceAll(s, "\n", " "), " "))
}

func normalizeText(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		out = append(out, strings.TrimSpace(spaces.ReplaceAllString(l, " ")))
	}
	return strings.TrimSpace(blankLines.ReplaceAllString(strings.Join(out, "\n"), "\n\n"))
}
