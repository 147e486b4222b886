package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/marketeer/internal/history"
	"github.com/mithrel/marketeer/internal/present"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "history",
		Aliases: []string{"hist"},
		Short:   "Browse recent analysis results",
	}
	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryShowCmd())
	cmd.AddCommand(newHistorySearchCmd())
	cmd.AddCommand(newHistoryDeleteCmd())
	cmd.AddCommand(newHistoryClearCmd())
	cmd.AddCommand(newHistoryBrowseCmd())
	cmd.AddCommand(newHistoryRemoteCmd())
	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var limit int
	var out outputFlags
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List saved results, most recent first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := out.options(app)
			if err != nil {
				return err
			}
			items, err := app.History.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			return present.RenderHistory(cmd.Context(), cmd.OutOrStdout(), items, historyMode(opts))
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of results (0 = all)")
	addOutputFlags(cmd, &out, "plain|json|tui")
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	var remote bool
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Render a saved result in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := out.options(app)
			if err != nil {
				return err
			}
			id := strings.TrimSpace(args[0])
			it, err := app.History.Get(cmd.Context(), id)
			switch {
			case err == nil:
				return renderResult(cmd, app, it.Result, opts)
			case errors.Is(err, history.ErrNotFound) && remote:
				res, rerr := app.Client.RemoteResult(cmd.Context(), id)
				if rerr != nil {
					return fmt.Errorf("result %s: %w", id, rerr)
				}
				return renderResult(cmd, app, res, opts)
			default:
				return fmt.Errorf("result %s: %w", id, err)
			}
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "fall back to the service when the id is not saved locally")
	addOutputFlags(cmd, &out, "plain|pretty|markdown|json")
	return cmd
}

func newHistorySearchCmd() *cobra.Command {
	var limit int
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "search <term...>",
		Short: "Fuzzy search saved queries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := out.options(app)
			if err != nil {
				return err
			}
			items, err := history.Search(cmd.Context(), app.History, strings.Join(args, " "), limit)
			if err != nil {
				return err
			}
			return present.RenderHistory(cmd.Context(), cmd.OutOrStdout(), items, historyMode(opts))
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum number of matches (0 = all)")
	addOutputFlags(cmd, &out, "plain|json|tui")
	return cmd
}

func newHistoryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Remove a saved result",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			if err := app.History.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("result %s: %w", args[0], err)
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}

func newHistoryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all saved results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			n, err := app.History.Len(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.History.Clear(cmd.Context()); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d result(s)\n", n)
			return nil
		},
	}
}

func newHistoryBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse saved results interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			items, err := app.History.List(cmd.Context(), 0)
			if err != nil {
				return err
			}
			opts := present.Options{Mode: present.ModeTUI, Store: app.History}
			return present.RenderHistory(cmd.Context(), cmd.OutOrStdout(), items, opts)
		},
	}
}

func newHistoryRemoteCmd() *cobra.Command {
	var limit int
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "List requests recorded by the service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := out.options(app)
			if err != nil {
				return err
			}
			page, err := app.Client.RemoteHistory(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("remote history: %w", err)
			}
			return withPager(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), app.Cfg.GetBool("pager") && opts.Mode != present.ModeJSON, func(w io.Writer) error {
				return present.RenderRemoteHistory(w, page, opts)
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of requests to fetch")
	addOutputFlags(cmd, &out, "plain|json")
	return cmd
}

// historyMode maps result-oriented modes onto the list renderers: only
// json and tui differ from the plain table.
func historyMode(opts present.Options) present.Options {
	if opts.Mode != present.ModeJSON && opts.Mode != present.ModeTUI {
		opts.Mode = present.ModePlain
	}
	return opts
}
