package format

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/marketeer/internal/history"
	"github.com/mithrel/marketeer/pkg/api"
	"github.com/mithrel/marketeer/pkg/markup"
)

const sample = "# Market Overview\n\nThe **fitness** market is growing.\n- **Gen Z** buyers\n- Gyms\n#### Notes"

func sampleResult() api.AnalysisResult {
	out := sample
	return api.AnalysisResult{
		Success:               true,
		RequestID:             "a1b2c3d4",
		Query:                 "launching a fitness app",
		SelectedAgents:        []string{"market_research", "content_delivery"},
		FormattedOutput:       &out,
		ProcessingTimeSeconds: 12.34,
		Timestamp:             time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestWritePlainBlocks(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlainBlocks(&buf, markup.Render(sample)))
	want := "Market Overview\n" +
		"The fitness market is growing.\n" +
		"  • Gen Z buyers\n" +
		"  • Gyms\n" +
		"\nNotes\n"
	assert.Equal(t, want, buf.String())
}

func TestWritePlainBlocksEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlainBlocks(&buf, nil))
	assert.Equal(t, NoOutput+"\n", buf.String())
}

func TestWritePlainResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlainResult(&buf, sampleResult()))
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "Agents: market research, content delivery\nTime: 12.3s · "))
	assert.Contains(t, out, "  • Gen Z buyers\n")
	assert.True(t, strings.HasSuffix(out, "\nRequest ID: a1b2c3d4\n"))
}

func TestWritePlainResultNullOutput(t *testing.T) {
	r := sampleResult()
	r.FormattedOutput = nil
	var buf bytes.Buffer
	require.NoError(t, WritePlainResult(&buf, r))
	assert.Contains(t, buf.String(), NoOutput)
}

func TestWritePrettyBlocksContainsText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePrettyBlocks(&buf, markup.Render(sample)))
	out := buf.String()
	for _, want := range []string{"Market Overview", "fitness", "•", "Gen Z", "Gyms", "Notes"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "**")
}

func TestWritePrettyResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePrettyResult(&buf, sampleResult()))
	out := buf.String()
	assert.Contains(t, out, "market research")
	assert.Contains(t, out, "12.3s")
	assert.Contains(t, out, "Request ID: a1b2c3d4")
}

func TestToMarkdownRoundTrips(t *testing.T) {
	blocks := markup.Render(sample)
	md := ToMarkdown(blocks)
	assert.Equal(t, "# Market Overview\n\nThe **fitness** market is growing.\n\n- **Gen Z** buyers\n- Gyms\n\n#### Notes\n", md)
	assert.Equal(t, blocks, markup.Render(md))
	assert.Equal(t, "", ToMarkdown(nil))
}

func TestWriteMarkdownBlocks(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdownBlocks(&buf, markup.Render(sample), "notty", 80))
	out := buf.String()
	assert.Contains(t, out, "Market Overview")
	assert.Contains(t, out, "Gen Z")
}

func TestWriteMarkdownResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdownResult(&buf, sampleResult(), "notty", 80))
	assert.Contains(t, buf.String(), "a1b2c3d4")
}

func TestWriteJSONResult(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONResult(&buf, sampleResult(), false))
	var got struct {
		RequestID string         `json:"request_id"`
		Blocks    []markup.Block `json:"blocks"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "a1b2c3d4", got.RequestID)
	require.Len(t, got.Blocks, 5)
	assert.Equal(t, markup.KindHeading, got.Blocks[0].Kind)
	assert.Equal(t, 4, got.Blocks[4].Level)
}

func TestWriteJSONBlocksEmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONBlocks(&buf, nil, false))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWritePlainHistory(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := sampleResult()
	r.Timestamp = now.Add(-90 * time.Minute)
	r.SelectedAgents = []string{"market_research", "marketing_strategy", "content_delivery"}
	items := []history.Item{{ID: r.RequestID, Result: r}}

	var buf bytes.Buffer
	require.NoError(t, WritePlainHistory(&buf, items, true, now))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, lines[1], "a1b2c3d4")
	assert.Contains(t, lines[1], "launching a fitness app")
	assert.Contains(t, lines[1], "market research, marketing strategy, +1")
	assert.Contains(t, lines[1], "1h ago")
}

func TestWritePlainRemoteHistory(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	page := api.HistoryPage{
		TotalRequests: 1234,
		RecentRequests: []api.AnalysisResult{
			{RequestID: "old", Query: "older query", Timestamp: now.Add(-48 * time.Hour)},
			{RequestID: "new", Query: "newer query", Timestamp: now},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WritePlainRemoteHistory(&buf, page, true, now))
	out := buf.String()
	assert.Contains(t, out, "Showing 2 of 1,234 requests")
	assert.Less(t, strings.Index(out, "new "), strings.Index(out, "old "))
}

func TestWritePlainAgents(t *testing.T) {
	agents := []api.AgentInfo{
		{Name: "market_research", Description: "Market research", Capabilities: []string{"trends", "competitors"}},
	}
	var buf bytes.Buffer
	require.NoError(t, WritePlainAgents(&buf, agents, true))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.Contains(t, lines[1], "trends, competitors")
}

func TestWriteJSONAgentsEmptyIsArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONAgents(&buf, nil, false))
	assert.Equal(t, "[]\n", buf.String())
}

func TestWritePlainHealth(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	require.NoError(t, WritePlainHealth(&buf, api.Health{Status: "healthy", Version: "1.0.0", Timestamp: now.Add(-3 * time.Minute)}, now))
	assert.Equal(t, "healthy v1.0.0 (checked 3 minutes ago)\n", buf.String())

	buf.Reset()
	require.NoError(t, WritePlainHealth(&buf, api.Health{Status: "healthy"}, now))
	assert.Equal(t, "healthy\n", buf.String())
}

func TestToMarkdownEscapesParagraphs(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"* star bullet", "\\* star bullet\n"},
		{"1. numbered", "1\\. numbered\n"},
		{"12) numbered", "12\\) numbered\n"},
		{"+ plus", "\\+ plus\n"},
		{"> quote", "\\> quote\n"},
		{"see [docs](http://x)", "see \\[docs\\](http://x)\n"},
		{"snake_case `code` <b> & co", "snake\\_case \\`code\\` \\<b\\> \\& co\n"},
		{"## Title #", "## Title \\#\n"},
		{"- - nested", "- \\- nested\n"},
		{"a **b ** c**", "a **b**  c\\*\\*\n"},
		{"x **** y", "x  y\n"},
		{"**1. first** item", "**1. first** item\n"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ToMarkdown(markup.Render(tc.in)), tc.in)
	}
}

func TestWriteMarkdownKeepsParagraphs(t *testing.T) {
	render := func(in string) string {
		var buf bytes.Buffer
		require.NoError(t, WriteMarkdownBlocks(&buf, markup.Render(in), "notty", 80))
		return buf.String()
	}

	out := render("* star bullet")
	assert.Contains(t, out, "* star bullet")
	assert.NotContains(t, out, "•")

	assert.Contains(t, render("1. numbered"), "1. numbered")
	assert.Contains(t, render("see [docs](http://x)"), "[docs]")
	assert.NotContains(t, render("a **b ** c**"), "****")
}

func TestPrettyHeadingStylesBoldRuns(t *testing.T) {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.ANSI256)
	st := newStyles(r)

	spans := markup.Render("## Plan **now** please")[0].Spans
	out := st.headingSpans(2, spans)
	assert.Contains(t, out, "38;5;229")
	assert.Contains(t, out, "38;5;63")
	assert.Contains(t, out, "now")
	assert.NotEqual(t, st.heading(2).Render("Plan now please"), out)

	plainOnly := st.headingSpans(2, []markup.Span{{Kind: markup.SpanPlain, Text: "Plan"}})
	assert.NotContains(t, plainOnly, "38;5;229")
}
