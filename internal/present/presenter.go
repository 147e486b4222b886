package present

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/mithrel/marketeer/internal/history"
	"github.com/mithrel/marketeer/internal/present/format"
	"github.com/mithrel/marketeer/internal/present/tui"
	"github.com/mithrel/marketeer/pkg/api"
	"github.com/mithrel/marketeer/pkg/markup"
)

type Mode int

const (
	ModePlain Mode = iota
	ModePretty
	ModeMarkdown
	ModeJSON
	ModeTUI
)

type Options struct {
	Mode       Mode
	JSONIndent bool
	Headers    bool
	Style      string
	Width      int
	Now        func() time.Time
	// Store backs deletes from the TUI browser; may be nil.
	Store history.Store
}

func (o Options) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// ParseMode parses a string like "plain", "pretty", "markdown", "json", "tui".
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "plain":
		return ModePlain, true
	case "pretty":
		return ModePretty, true
	case "markdown", "md":
		return ModeMarkdown, true
	case "json":
		return ModeJSON, true
	case "tui":
		return ModeTUI, true
	default:
		return ModePretty, false
	}
}

var errNoTUI = errors.New("tui output is only available for history")

// RenderResult renders a single analysis result according to options.
func RenderResult(ctx context.Context, w io.Writer, r api.AnalysisResult, opts Options) error {
	switch opts.Mode {
	case ModePlain:
		return format.WritePlainResult(w, r)
	case ModeMarkdown:
		return format.WriteMarkdownResult(w, r, opts.Style, opts.Width)
	case ModeJSON:
		return format.WriteJSONResult(w, r, opts.JSONIndent)
	case ModeTUI:
		return errNoTUI
	default:
		return format.WritePrettyResult(w, r)
	}
}

// RenderBlocks renders blocks without any result metadata.
func RenderBlocks(w io.Writer, blocks []markup.Block, opts Options) error {
	switch opts.Mode {
	case ModePlain:
		return format.WritePlainBlocks(w, blocks)
	case ModeMarkdown:
		return format.WriteMarkdownBlocks(w, blocks, opts.Style, opts.Width)
	case ModeJSON:
		return format.WriteJSONBlocks(w, blocks, opts.JSONIndent)
	case ModeTUI:
		return errNoTUI
	default:
		return format.WritePrettyBlocks(w, blocks)
	}
}

// RenderHistory renders history items. In TUI mode the selected item, if
// any, is rendered in full to w after the browser exits.
func RenderHistory(ctx context.Context, w io.Writer, items []history.Item, opts Options) error {
	switch opts.Mode {
	case ModeJSON:
		return format.WriteJSONHistory(w, items, opts.JSONIndent)
	case ModeTUI:
		sel, err := tui.BrowseHistory(ctx, items, opts.Store, opts.now())
		if err != nil || sel == nil {
			return err
		}
		return format.WritePrettyResult(w, sel.Result)
	default:
		return format.WritePlainHistory(w, items, opts.Headers, opts.now())
	}
}

// RenderRemoteHistory renders the service's request log.
func RenderRemoteHistory(w io.Writer, page api.HistoryPage, opts Options) error {
	if opts.Mode == ModeJSON {
		return format.WriteJSONRemoteHistory(w, page, opts.JSONIndent)
	}
	return format.WritePlainRemoteHistory(w, page, opts.Headers, opts.now())
}

func RenderAgents(w io.Writer, agents []api.AgentInfo, opts Options) error {
	if opts.Mode == ModeJSON {
		return format.WriteJSONAgents(w, agents, opts.JSONIndent)
	}
	return format.WritePlainAgents(w, agents, opts.Headers)
}

func RenderHealth(w io.Writer, h api.Health, opts Options) error {
	if opts.Mode == ModeJSON {
		return format.WriteJSONValue(w, h, opts.JSONIndent)
	}
	return format.WritePlainHealth(w, h, opts.now())
}
