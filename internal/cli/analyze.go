package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/marketeer/internal/editor"
	"github.com/mithrel/marketeer/internal/wire"
	"github.com/mithrel/marketeer/pkg/api"
)

func newAnalyzeCmd() *cobra.Command {
	var agents []string
	var noSave, edit bool
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "analyze [query...]",
		Short: "Submit a business query for analysis",
		Long: "Submit a business query to the analysis service and render the result.\n" +
			"Use \"-\" to read the query from stdin, or --edit to compose it in $EDITOR.\n" +
			"Without --agent the service picks the agents.",
		Example: "  marketeer-cli analyze \"I'm launching a fitness app for Gen Z\"\n" +
			"  marketeer-cli analyze -a market_research -a content_delivery -o markdown \"...\"\n" +
			"  echo \"...\" | marketeer-cli analyze -",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			var query string
			var err error
			if edit {
				agents, query, err = composeInEditor(agents, strings.Join(args, " "))
			} else {
				query, err = readQuery(cmd, args)
			}
			if err != nil {
				return err
			}
			selected, err := parseAgents(agents)
			if err != nil {
				return err
			}
			opts, err := out.options(app)
			if err != nil {
				return err
			}
			res, err := app.Client.Analyze(cmd.Context(), api.AnalyzeRequest{Query: query, SpecificAgents: selected})
			if err != nil {
				return fmt.Errorf("analyze request failed: %w", err)
			}
			if err := save(cmd, app, res, noSave); err != nil {
				return err
			}
			return renderResult(cmd, app, res, opts)
		},
	}
	cmd.Flags().StringSliceVarP(&agents, "agent", "a", nil, "agent to run (repeatable): market_research|marketing_strategy|content_delivery")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not add the result to local history")
	cmd.Flags().BoolVarP(&edit, "edit", "e", false, "compose the query and agents in $EDITOR")
	addOutputFlags(cmd, &out, "plain|pretty|markdown|json")
	_ = cmd.RegisterFlagCompletionFunc("agent", completeAgents)
	return cmd
}

func newAgentCmd() *cobra.Command {
	var noSave bool
	var out outputFlags
	cmd := &cobra.Command{
		Use:               "agent <name> [query...]",
		Short:             "Run a single agent on a query",
		Args:              cobra.MinimumNArgs(1),
		ValidArgsFunction: completeAgentArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			agent, ok := api.ParseAgent(args[0])
			if !ok {
				return fmt.Errorf("unknown agent %q", args[0])
			}
			query, err := readQuery(cmd, args[1:])
			if err != nil {
				return err
			}
			opts, err := out.options(app)
			if err != nil {
				return err
			}
			res, err := app.Client.RunAgent(cmd.Context(), agent, api.AnalyzeRequest{Query: query})
			if err != nil {
				return fmt.Errorf("%s request failed: %w", agent.Label(), err)
			}
			if err := save(cmd, app, res, noSave); err != nil {
				return err
			}
			return renderResult(cmd, app, res, opts)
		},
	}
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not add the result to local history")
	addOutputFlags(cmd, &out, "plain|pretty|markdown|json")
	return cmd
}

// readQuery joins args, or reads stdin when the only arg is "-" or when no
// args are given and stdin is piped.
func readQuery(cmd *cobra.Command, args []string) (string, error) {
	var q string
	switch {
	case len(args) == 1 && args[0] == "-":
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		q = string(data)
	case len(args) == 0 && !isTerminal(cmd.InOrStdin()):
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", err
		}
		q = string(data)
	default:
		q = strings.Join(args, " ")
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return "", errors.New("query is required")
	}
	return q, nil
}

// composeInEditor opens $EDITOR seeded with agents and query. An untouched
// file aborts.
func composeInEditor(agents []string, query string) ([]string, string, error) {
	path, err := editor.TempPath()
	if err != nil {
		return nil, "", err
	}
	defer os.Remove(path)
	final, changed, err := editor.OpenAt(path, []byte(editor.ComposeQuery(agents, query)))
	if err != nil {
		return nil, "", fmt.Errorf("editor: %w", err)
	}
	edAgents, edQuery := editor.ParseEditedQuery(string(final))
	if !changed && query == "" {
		return nil, "", errors.New("aborted: query left empty")
	}
	if edQuery == "" {
		return nil, "", errors.New("query is required")
	}
	return edAgents, edQuery, nil
}

func parseAgents(names []string) ([]api.AgentType, error) {
	var out []api.AgentType
	for _, n := range names {
		a, ok := api.ParseAgent(n)
		if !ok {
			return nil, fmt.Errorf("unknown agent %q", n)
		}
		out = append(out, a)
	}
	return out, nil
}

func save(cmd *cobra.Command, app *wire.App, res api.AnalysisResult, skip bool) error {
	if skip || !res.Success {
		return nil
	}
	if _, err := app.History.Add(cmd.Context(), res); err != nil {
		return fmt.Errorf("save history: %w", err)
	}
	return nil
}
