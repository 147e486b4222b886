package format

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mithrel/marketeer/internal/history"
	"github.com/mithrel/marketeer/pkg/api"
	"github.com/mithrel/marketeer/pkg/markup"
)

// NoOutput is shown in place of an empty result body.
const NoOutput = "No formatted output available"

const bulletGlyph = "•"

// TSV-ish columns for the history list.
var historyHeader = "ID\tQUERY\tAGENTS\tWHEN\n"

func esc(field string) string {
	field = strings.ReplaceAll(field, "\t", " ")
	field = strings.ReplaceAll(field, "\n", " ")
	return field
}

// WritePlainBlocks writes blocks as unstyled text: headings and paragraphs
// on their own line, bullets prefixed with a glyph.
func WritePlainBlocks(w io.Writer, blocks []markup.Block) error {
	if len(blocks) == 0 {
		_, err := io.WriteString(w, NoOutput+"\n")
		return err
	}
	var b strings.Builder
	for i, blk := range blocks {
		if i > 0 && blk.Kind == markup.KindHeading {
			b.WriteByte('\n')
		}
		switch blk.Kind {
		case markup.KindBullet:
			b.WriteString("  " + bulletGlyph + " " + blk.Text())
		default:
			b.WriteString(blk.Text())
		}
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func resultMeta(r api.AnalysisResult) (agents, timing string) {
	agents = strings.Join(r.AgentLabels(), ", ")
	timing = fmt.Sprintf("%.1fs", r.ProcessingTimeSeconds)
	if !r.Timestamp.IsZero() {
		timing += " · " + r.Timestamp.Local().Format("2006-01-02 15:04:05")
	}
	return agents, timing
}

// WritePlainResult writes the meta header, body and request id footer.
func WritePlainResult(w io.Writer, r api.AnalysisResult) error {
	agents, timing := resultMeta(r)
	if _, err := fmt.Fprintf(w, "Agents: %s\nTime: %s\n\n", agents, timing); err != nil {
		return err
	}
	if err := WritePlainBlocks(w, r.Blocks()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nRequest ID: %s\n", r.RequestID)
	return err
}

// WritePlainHistory writes one line per item: id, truncated query, agent
// badges and age.
func WritePlainHistory(w io.Writer, items []history.Item, headers bool, now time.Time) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if headers {
		_, _ = io.WriteString(tw, historyHeader)
	}
	for _, it := range items {
		line := fmt.Sprintf("%s\t%s\t%s\t%s\n",
			esc(it.ID),
			esc(history.Truncate(it.Result.Query, history.DefaultQueryWidth)),
			esc(strings.Join(history.AgentBadges(it.Result.SelectedAgents), ", ")),
			history.TimeAgo(now, itemTime(it)))
		_, _ = io.WriteString(tw, line)
	}
	return tw.Flush()
}

// itemTime prefers the service timestamp and falls back to when the item
// was stored.
func itemTime(it history.Item) time.Time {
	if !it.Result.Timestamp.IsZero() {
		return it.Result.Timestamp
	}
	return it.AddedAt
}
