package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mithrel/marketeer/internal/present"
	"github.com/mithrel/marketeer/pkg/markup"
)

func newRenderCmd() *cobra.Command {
	var out outputFlags
	cmd := &cobra.Command{
		Use:         "render [file|-]",
		Short:       "Render formatted analysis text from a file or stdin",
		Long:        "Render text written in the service's output format (headings, \"- \" bullets, **bold**) without contacting the service. Reads stdin when no file or \"-\" is given.",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{localOnly: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app := getApp(cmd)
			opts, err := out.options(app)
			if err != nil {
				return err
			}
			var data []byte
			if len(args) == 0 || args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			return present.RenderBlocks(cmd.OutOrStdout(), markup.Render(string(data)), opts)
		},
	}
	addOutputFlags(cmd, &out, "plain|pretty|markdown|json")
	return cmd
}
