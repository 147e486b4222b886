package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/marketeer/internal/config"
	"github.com/mithrel/marketeer/internal/wire"
)

type ctxKey string

const appKey ctxKey = "app"

// Commands annotated with localOnly get an App carrying config only: no
// history store is opened and the config is not validated up front.
const localOnly = "local-only"

// Execute builds the root command and runs it.
func Execute() error {
	return NewRootCmd().Execute()
}

// NewRootCmd constructs the Cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	var cfgPath string

	cmd := &cobra.Command{
		Use:           "marketeer-cli",
		Short:         "Marketeer CLI - client for the marketing analysis service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			if err := config.Load(cmd.Context(), v); err != nil {
				return err
			}
			applyConfigFlagOverrides(cmd, v, rootFlagKeys)

			var app *wire.App
			if isLocalOnly(cmd) {
				app = &wire.App{Cfg: v}
			} else {
				if err := config.CheckConfigValidity(v); err != nil {
					return fmt.Errorf("invalid config: %w", err)
				}
				var err error
				if app, err = wire.BuildApp(cmd.Context(), v); err != nil {
					return err
				}
			}
			cmd.SetContext(context.WithValue(cmd.Context(), appKey, app))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return getApp(cmd).Close()
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (yaml|toml)")
	cmd.PersistentFlags().String("server", "", "analysis service base URL (overrides server_url)")
	cmd.PersistentFlags().String("timeout", "", "per-request timeout, e.g. 90s")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "log requests to stderr")

	cmd.AddCommand(newAnalyzeCmd())
	cmd.AddCommand(newAgentCmd())
	cmd.AddCommand(newAgentsCmd())
	cmd.AddCommand(newHealthCmd())
	cmd.AddCommand(newHistoryCmd())
	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd
}

func isLocalOnly(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[localOnly] == "true" {
			return true
		}
	}
	return false
}

func getApp(cmd *cobra.Command) *wire.App {
	v := cmd.Context().Value(appKey)
	if v == nil {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return v.(*wire.App)
}
