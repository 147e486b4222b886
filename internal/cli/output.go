package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/marketeer/internal/present"
	"github.com/mithrel/marketeer/internal/wire"
	"github.com/mithrel/marketeer/pkg/api"
)

type outputFlags struct {
	mode      string
	indent    bool
	noHeaders bool
}

func addOutputFlags(cmd *cobra.Command, f *outputFlags, modes string) {
	cmd.Flags().StringVarP(&f.mode, "output", "o", "", "output mode: "+modes+" (default from output.mode)")
	cmd.Flags().BoolVar(&f.indent, "indent", false, "indent json output")
	cmd.Flags().BoolVar(&f.noHeaders, "no-headers", false, "omit table headers")
}

// options resolves output flags against the app config.
func (f outputFlags) options(app *wire.App) (present.Options, error) {
	raw := f.mode
	if raw == "" {
		raw = app.Cfg.GetString("output.mode")
	}
	mode, ok := present.ParseMode(strings.ToLower(strings.TrimSpace(raw)))
	if !ok {
		return present.Options{}, fmt.Errorf("invalid --output: %s", raw)
	}
	return present.Options{
		Mode:       mode,
		JSONIndent: f.indent,
		Headers:    !f.noHeaders,
		Style:      app.Cfg.GetString("output.style"),
		Width:      app.Cfg.GetInt("output.width"),
		Store:      app.History,
	}, nil
}

func renderResult(cmd *cobra.Command, app *wire.App, r api.AnalysisResult, opts present.Options) error {
	paged := app.Cfg.GetBool("pager") && opts.Mode != present.ModeJSON
	return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), paged, func(w io.Writer) error {
		return present.RenderResult(cmd.Context(), w, r, opts)
	})
}
