package catalog

import (
	"strings"

	"golang.org/x/net/html"
)

const bulletGlyph = "• "

var lineBreakTags = map[string]bool{
	"br": true, "p": true, "div": true, "ul": true, "ol": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"tr": true, "table": true, "section": true, "article": true, "blockquote": true,
}

// DecodeEntities decodes HTML entities and collapses whitespace.
func DecodeEntities(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}

// SanitizeDescription turns an HTML (or entity-encoded HTML) description into
// plain text: block and line-break markup become newlines, list items get a
// bullet, remaining tags are stripped, whitespace is collapsed per line and
// empty lines are dropped.
func SanitizeDescription(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	// Feeds frequently ship the markup itself entity-encoded ("&lt;p&gt;").
	// Text tokens are unescaped by the tokenizer, so plain text is decoded
	// only once.
	decoded := raw
	if strings.Contains(strings.ToLower(raw), "&lt;") {
		decoded = html.UnescapeString(raw)
	}

	z := html.NewTokenizer(strings.NewReader(decoded))
	var b strings.Builder
	skipDepth := 0

	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return joinCleanLines(b.String())

		case html.TextToken:
			if skipDepth == 0 {
				b.Write(z.Text())
			}

		case html.StartTagToken, html.SelfClosingTagToken, html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)

			if tag == "script" || tag == "style" {
				switch tt {
				case html.StartTagToken:
					skipDepth++
				case html.EndTagToken:
					if skipDepth > 0 {
						skipDepth--
					}
				}
				continue
			}

			if tag == "li" && tt != html.EndTagToken {
				b.WriteString("\n" + bulletGlyph)
				continue
			}
			if lineBreakTags[tag] || tag == "li" {
				b.WriteByte('\n')
			}
		}
	}
}

func joinCleanLines(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		clean := strings.Join(strings.Fields(line), " ")
		if clean == "" || clean == strings.TrimSpace(bulletGlyph) {
			continue
		}
		out = append(out, clean)
	}

	return strings.Join(out, "\n")
}
