package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/mithrel/marketeer/pkg/api"
	"github.com/mithrel/marketeer/pkg/markup"
)

// ToMarkdown serializes blocks as CommonMark. Headings and paragraphs are
// separated by a blank line; consecutive bullets form one list. Span text is
// escaped so every block renders as the kind it already is.
func ToMarkdown(blocks []markup.Block) string {
	var b strings.Builder
	for i, blk := range blocks {
		if i > 0 {
			if blk.Kind == markup.KindBullet && blocks[i-1].Kind == markup.KindBullet {
				b.WriteByte('\n')
			} else {
				b.WriteString("\n\n")
			}
		}
		switch blk.Kind {
		case markup.KindHeading:
			b.WriteString(strings.Repeat("#", blk.Level) + " ")
		case markup.KindBullet:
			b.WriteString("- ")
		}
		b.WriteString(inlineMarkdown(blk.Spans))
	}
	if b.Len() > 0 {
		b.WriteByte('\n')
	}
	return b.String()
}

// inlineMarkdown writes spans with bold runs as **...**. Whitespace at the
// edges of a bold run goes outside the delimiters, or CommonMark would not
// close it; empty bold runs are skipped.
func inlineMarkdown(spans []markup.Span) string {
	var b strings.Builder
	for _, sp := range spans {
		if sp.Kind != markup.SpanBold {
			b.WriteString(escapeMarkdown(sp.Text, b.Len() == 0))
			continue
		}
		inner := strings.TrimSpace(sp.Text)
		if inner == "" {
			b.WriteString(sp.Text)
			continue
		}
		start := strings.Index(sp.Text, inner)
		b.WriteString(sp.Text[:start])
		b.WriteString("**" + escapeMarkdown(inner, false) + "**")
		b.WriteString(sp.Text[start+len(inner):])
	}
	return b.String()
}

// markdownPunct are the characters that start inline markup anywhere in a
// line. '#' is included for heading closing sequences.
const markdownPunct = "\\`*_[]<>&~|#"

// escapeMarkdown backslash-escapes inline markup. At the start of a block it
// also escapes what would open a new block: +, -, = and "1." / "1)".
func escapeMarkdown(s string, atStart bool) string {
	var b strings.Builder
	if atStart {
		digits := 0
		for digits < len(s) && digits < 9 && s[digits] >= '0' && s[digits] <= '9' {
			digits++
		}
		switch {
		case digits > 0 && digits < len(s) && (s[digits] == '.' || s[digits] == ')'):
			b.WriteString(s[:digits] + "\\" + s[digits:digits+1])
			s = s[digits+1:]
		case s != "" && strings.ContainsRune("+-=", rune(s[0])):
			b.WriteString("\\" + s[:1])
			s = s[1:]
		}
	}
	for _, r := range s {
		if strings.ContainsRune(markdownPunct, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func newGlamour(style string, width int) (*glamour.TermRenderer, error) {
	if style == "" {
		style = "dracula"
	}
	if width <= 0 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	return r, nil
}

// WriteMarkdownBlocks renders blocks through glamour.
func WriteMarkdownBlocks(w io.Writer, blocks []markup.Block, style string, width int) error {
	md := ToMarkdown(blocks)
	if md == "" {
		md = "_" + NoOutput + "_\n"
	}
	return writeGlamour(w, md, style, width)
}

// WriteMarkdownResult renders a full result, meta included, through glamour.
func WriteMarkdownResult(w io.Writer, r api.AnalysisResult, style string, width int) error {
	agents, timing := resultMeta(r)
	body := ToMarkdown(r.Blocks())
	if body == "" {
		body = "_" + NoOutput + "_\n"
	}
	md := fmt.Sprintf(`> **Agents:** %s | **Time:** %s

---

%s
---

Request ID: %s
`, agents, timing, body, r.RequestID)
	return writeGlamour(w, md, style, width)
}

func writeGlamour(w io.Writer, md, style string, width int) error {
	r, err := newGlamour(style, width)
	if err != nil {
		return err
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render markdown: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
