package markup

import "strings"

const boldDelim = "**"

type scanState int

const (
	outside scanState = iota
	inside
)

// Spans splits text into plain and bold runs. A "**" pair encloses a bold
// run, matched left to right with the shortest inner text. An opening
// "**" with no closing partner stays literal and, together with whatever
// follows it, ends up in the trailing plain span.
//
// Empty plain segments (e.g. before a bold run at the start of the text)
// are dropped; an empty bold run ("****") is kept.
func Spans(text string) []Span {
	var out []Span
	state := outside
	seg := 0  // start of the pending plain segment
	open := 0 // index of the opening delimiter while inside
	i := 0
	for {
		j := strings.Index(text[i:], boldDelim)
		if j < 0 {
			break
		}
		j += i
		switch state {
		case outside:
			open = j
			state = inside
		case inside:
			if open > seg {
				out = append(out, Span{Kind: SpanPlain, Text: text[seg:open]})
			}
			out = append(out, Span{Kind: SpanBold, Text: text[open+len(boldDelim) : j]})
			seg = j + len(boldDelim)
			state = outside
		}
		i = j + len(boldDelim)
	}
	if seg < len(text) {
		out = append(out, Span{Kind: SpanPlain, Text: text[seg:]})
	}
	return out
}
