package markup

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plain(s string) Span { return Span{Kind: SpanPlain, Text: s} }
func bold(s string) Span  { return Span{Kind: SpanBold, Text: s} }

func TestRenderHeadings(t *testing.T) {
	cases := []struct {
		in    string
		level int
		text  string
	}{
		{"# Title", 1, "Title"},
		{"## Section", 2, "Section"},
		{"### Sub", 3, "Sub"},
		{"#### Deep", 4, "Deep"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got := Render(tc.in)
			require.Len(t, got, 1)
			assert.Equal(t, KindHeading, got[0].Kind)
			assert.Equal(t, tc.level, got[0].Level)
			assert.Equal(t, []Span{plain(tc.text)}, got[0].Spans)
		})
	}
}

func TestRenderDeepHeadingIsNotLevelOne(t *testing.T) {
	got := Render("#### Deep")
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].Level)
	assert.Equal(t, "Deep", got[0].Text())
}

func TestRulesOrderLongestHeadingFirst(t *testing.T) {
	rs := Rules()
	require.Len(t, rs, 5)
	for i := 0; i < len(rs); i++ {
		for j := i + 1; j < len(rs); j++ {
			assert.False(t, strings.HasPrefix(rs[j].Marker, rs[i].Marker),
				"marker %q shadows later marker %q", rs[i].Marker, rs[j].Marker)
		}
	}
	rs[0].Marker = "changed"
	assert.Equal(t, "#### ", Rules()[0].Marker, "Rules must return a copy")
}

func TestRenderBulletWithBold(t *testing.T) {
	got := Render("- **bold** and plain")
	require.Len(t, got, 1)
	assert.Equal(t, KindBullet, got[0].Kind)
	assert.Equal(t, 0, got[0].Level)
	assert.Equal(t, []Span{bold("bold"), plain(" and plain")}, got[0].Spans)
}

func TestRenderBlankLinesSeparate(t *testing.T) {
	got := Render("A\n\nB")
	require.Len(t, got, 2)
	assert.Equal(t, Block{Kind: KindParagraph, Spans: []Span{plain("A")}}, got[0])
	assert.Equal(t, Block{Kind: KindParagraph, Spans: []Span{plain("B")}}, got[1])
}

func TestRenderEmpty(t *testing.T) {
	assert.Empty(t, Render(""))
	assert.Empty(t, Render("\n  \n\t\n"))
	assert.Empty(t, RenderOutput(nil))
	empty := ""
	assert.Empty(t, RenderOutput(&empty))
}

func TestRenderOutputDelegates(t *testing.T) {
	s := "# Report\n- one"
	assert.Equal(t, Render(s), RenderOutput(&s))
}

func TestRenderParagraphFallback(t *testing.T) {
	lines := []string{
		"plain words",
		"#no space after hash",
		"-no space after dash",
		"##### five hashes",
		"* star bullet",
		"1. numbered",
		"#",
	}
	for _, l := range lines {
		t.Run(l, func(t *testing.T) {
			got := Render("   " + l + "  ")
			require.Len(t, got, 1)
			assert.Equal(t, KindParagraph, got[0].Kind)
			assert.Equal(t, l, got[0].Text())
		})
	}
}

func TestRenderTrimsAndHandlesCRLF(t *testing.T) {
	got := Render("  # Title  \r\n\r\n\t- item\r\n")
	require.Len(t, got, 2)
	assert.Equal(t, KindHeading, got[0].Kind)
	assert.Equal(t, "Title", got[0].Text())
	assert.Equal(t, KindBullet, got[1].Kind)
	assert.Equal(t, "item", got[1].Text())
}

func TestRenderTrimsLikeECMAScript(t *testing.T) {
	got := Render("\uFEFF# Title\u00a0\n\u2028- item\u3000")
	require.Len(t, got, 2)
	assert.Equal(t, KindHeading, got[0].Kind)
	assert.Equal(t, "Title", got[0].Text())
	assert.Equal(t, KindBullet, got[1].Kind)
	assert.Equal(t, "item", got[1].Text())

	// NEL is content, so the line is a paragraph and not a bullet.
	got = Render("\u0085- x")
	require.Len(t, got, 1)
	assert.Equal(t, KindParagraph, got[0].Kind)
	assert.Equal(t, "\u0085- x", got[0].Text())
}

func TestRenderRemainderNotRetrimmed(t *testing.T) {
	got := Render("#    spaced")
	require.Len(t, got, 1)
	assert.Equal(t, "   spaced", got[0].Text())
}

func TestRenderPreservesLineOrder(t *testing.T) {
	in := "# H\npara\n- b1\n\n## H2\n- b2"
	got := Render(in)
	kinds := make([]BlockKind, 0, len(got))
	for _, b := range got {
		kinds = append(kinds, b.Kind)
	}
	assert.Equal(t, []BlockKind{KindHeading, KindParagraph, KindBullet, KindHeading, KindBullet}, kinds)
}

func TestRenderBoldInHeading(t *testing.T) {
	got := Render("## The **key** point")
	require.Len(t, got, 1)
	assert.Equal(t, []Span{plain("The "), bold("key"), plain(" point")}, got[0].Spans)
}

func TestSpans(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []Span
	}{
		{"no delimiters", "just text", []Span{plain("just text")}},
		{"unmatched", "x ** y", []Span{plain("x ** y")}},
		{"unmatched at end", "trailing **", []Span{plain("trailing **")}},
		{"whole bold", "**all**", []Span{bold("all")}},
		{"two runs", "**a** and **b**", []Span{bold("a"), plain(" and "), bold("b")}},
		{"back to back", "**a****b**", []Span{bold("a"), bold("b")}},
		{"odd count", "**a** then ** lone", []Span{bold("a"), plain(" then ** lone")}},
		{"empty bold", "****", []Span{bold("")}},
		{"shortest match", "***a***", []Span{bold("*a"), plain("*")}},
		{"single stars", "*a* b", []Span{plain("*a* b")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Spans(tc.in))
		})
	}
	assert.Empty(t, Spans(""))
}

func TestSpansReconstructText(t *testing.T) {
	in := "Grow **revenue** by **20%** with ** care"
	var sb strings.Builder
	for _, s := range Spans(in) {
		sb.WriteString(s.Text)
	}
	assert.Equal(t, "Grow revenue by 20% with ** care", sb.String())
}

func TestRenderIsDeterministic(t *testing.T) {
	in := "# Plan\n- **Step** one\n\nSome **bold** text\n#### Notes"
	first := Render(in)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, first, Render(in))
		}()
	}
	wg.Wait()
}
