package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mithrel/marketeer/internal/present"
	"github.com/mithrel/marketeer/pkg/api"
)

func newAgentsCmd() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "List the agents offered by the service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := out.options(app)
			if err != nil {
				return err
			}
			agents, err := app.Client.Agents(cmd.Context())
			if err != nil {
				return fmt.Errorf("list agents: %w", err)
			}
			return present.RenderAgents(cmd.OutOrStdout(), agents, opts)
		},
	}
	addOutputFlags(cmd, &out, "plain|json")
	return cmd
}

func newHealthCmd() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the service is up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := out.options(app)
			if err != nil {
				return err
			}
			h, err := app.Client.Health(cmd.Context())
			if err != nil {
				return fmt.Errorf("health check against %s: %w", app.Client.BaseURL(), err)
			}
			return present.RenderHealth(cmd.OutOrStdout(), h, opts)
		},
	}
	addOutputFlags(cmd, &out, "plain|json")
	return cmd
}

func completeAgents(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	var out []string
	for _, a := range api.Agents {
		if strings.HasPrefix(string(a), toComplete) {
			out = append(out, string(a))
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func completeAgentArg(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return completeAgents(cmd, args, toComplete)
}
