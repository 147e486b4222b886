// Package markup turns the line-oriented result text returned by the
// analysis service into typed blocks and inline spans.
//
// The dialect is deliberately narrow: one block per non-blank line
// (headings #..####, "- " bullets, paragraphs) and **bold** runs inside a
// line. Anything else is plain text.
package markup

import (
	"strings"
	"unicode"
)

type BlockKind string

const (
	KindHeading   BlockKind = "heading"
	KindBullet    BlockKind = "bullet"
	KindParagraph BlockKind = "paragraph"
)

type SpanKind string

const (
	SpanPlain SpanKind = "plain"
	SpanBold  SpanKind = "bold"
)

// Span is one contiguous run of text inside a block.
type Span struct {
	Kind SpanKind `json:"kind"`
	Text string   `json:"text"`
}

// Block is one rendered line. Level is 1..4 for headings and 0 otherwise.
type Block struct {
	Kind  BlockKind `json:"kind"`
	Level int       `json:"level,omitempty"`
	Spans []Span    `json:"spans"`
}

// Text returns the block content with bold delimiters removed.
func (b Block) Text() string {
	var sb strings.Builder
	for _, s := range b.Spans {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// Render splits text into lines and classifies every non-blank line.
// Blank lines are separators and produce no block.
func Render(text string) []Block {
	if text == "" {
		return nil
	}
	var out []Block
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimFunc(line, isTrimSpace)
		if line == "" {
			continue
		}
		kind, level, rest := Classify(line)
		out = append(out, Block{Kind: kind, Level: level, Spans: Spans(rest)})
	}
	return out
}

// isTrimSpace is the whitespace set of ECMAScript trim: Unicode spaces and
// line terminators plus the BOM, but not NEL (U+0085).
func isTrimSpace(r rune) bool {
	if r == '\uFEFF' {
		return true
	}
	return r != '\u0085' && unicode.IsSpace(r)
}

// RenderOutput renders a nullable formatted_output field; nil means the
// service returned no output.
func RenderOutput(out *string) []Block {
	if out == nil {
		return nil
	}
	return Render(*out)
}
