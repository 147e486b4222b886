package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mithrel/marketeer/pkg/api"
	"github.com/mithrel/marketeer/pkg/markup"
)

// Styles maps block and span kinds to lipgloss styles.
type Styles struct {
	Headings [5]lipgloss.Style // indexed by level; 0 unused
	Bullet   lipgloss.Style
	Bold     lipgloss.Style
	Plain    lipgloss.Style
	Badge    lipgloss.Style
	Meta     lipgloss.Style
	Faint    lipgloss.Style
}

// NewStyles builds styles bound to w, so color output is only produced when
// w is a color-capable terminal.
func NewStyles(w io.Writer) Styles {
	return newStyles(lipgloss.NewRenderer(w))
}

func newStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Headings: [5]lipgloss.Style{
			r.NewStyle(),
			r.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("212")),
			r.NewStyle().Bold(true).Foreground(lipgloss.Color("63")),
			r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
			r.NewStyle().Bold(true).Italic(true).Foreground(lipgloss.Color("245")),
		},
		Bullet: r.NewStyle().Foreground(lipgloss.Color("212")),
		Bold:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("229")),
		Plain:  r.NewStyle(),
		Badge:  r.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")).Padding(0, 1),
		Meta:   r.NewStyle().Foreground(lipgloss.Color("245")),
		Faint:  r.NewStyle().Faint(true),
	}
}

func (s Styles) spans(spans []markup.Span) string {
	var b strings.Builder
	for _, sp := range spans {
		switch sp.Kind {
		case markup.SpanBold:
			b.WriteString(s.Bold.Render(sp.Text))
		default:
			b.WriteString(s.Plain.Render(sp.Text))
		}
	}
	return b.String()
}

// headingSpans renders spans in the heading style of level. Bold runs keep
// the heading's decoration and take the bold color on top.
func (s Styles) headingSpans(level int, spans []markup.Span) string {
	h := s.heading(level)
	bold := s.Bold.Inherit(h)
	var b strings.Builder
	for _, sp := range spans {
		switch sp.Kind {
		case markup.SpanBold:
			b.WriteString(bold.Render(sp.Text))
		default:
			b.WriteString(h.Render(sp.Text))
		}
	}
	return b.String()
}

func (s Styles) heading(level int) lipgloss.Style {
	if level < 1 || level >= len(s.Headings) {
		return s.Headings[len(s.Headings)-1]
	}
	return s.Headings[level]
}

// WritePrettyBlocks writes blocks with heading ranks, bullet glyphs and
// emphasized bold runs.
func WritePrettyBlocks(w io.Writer, blocks []markup.Block) error {
	st := NewStyles(w)
	if len(blocks) == 0 {
		_, err := io.WriteString(w, st.Faint.Render(NoOutput)+"\n")
		return err
	}
	var b strings.Builder
	for i, blk := range blocks {
		switch blk.Kind {
		case markup.KindHeading:
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(st.headingSpans(blk.Level, blk.Spans))
		case markup.KindBullet:
			b.WriteString("  " + st.Bullet.Render(bulletGlyph) + " " + st.spans(blk.Spans))
		default:
			b.WriteString(st.spans(blk.Spans))
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// WritePrettyResult is WritePlainResult with badges and styling.
func WritePrettyResult(w io.Writer, r api.AnalysisResult) error {
	st := NewStyles(w)
	badges := make([]string, 0, len(r.SelectedAgents))
	for _, l := range r.AgentLabels() {
		badges = append(badges, st.Badge.Render(l))
	}
	_, timing := resultMeta(r)
	if _, err := fmt.Fprintf(w, "%s\n%s\n\n", strings.Join(badges, " "), st.Meta.Render(timing)); err != nil {
		return err
	}
	if err := WritePrettyBlocks(w, r.Blocks()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\n%s\n", st.Faint.Render("Request ID: "+r.RequestID))
	return err
}
