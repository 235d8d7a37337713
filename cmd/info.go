package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tanq16/ytfetch/internal/output"
	"gopkg.in/yaml.v3"
)

func newInfoCmd() *cobra.Command {
	var asYAML bool
	cmd := &cobra.Command{
		Use:   "info URL [--yaml]",
		Short: "Show title, duration, size, upload date and resolution of a video",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signalContext()
			defer stop()
			meta, err := mustTool().ResolveMetadata(ctx, args[0])
			if err != nil {
				output.PrintError(err.Error())
				os.Exit(1)
			}
			if !asYAML {
				fmt.Fprint(cmd.OutOrStdout(), output.RenderMetadata(meta))
				return
			}
			data, err := yaml.Marshal(meta)
			if err != nil {
				output.PrintError(fmt.Sprintf("error encoding metadata: %v", err))
				os.Exit(1)
			}
			fmt.Fprint(cmd.OutOrStdout(), string(data))
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the metadata as YAML")
	return cmd
}
