package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tanq16/ytfetch/internal/output"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "formats URL",
		Short:   "List the formats yt-dlp offers for a video",
		Aliases: []string{"F"},
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx, stop := signalContext()
			defer stop()
			records, err := mustTool().ListFormats(ctx, args[0])
			if err != nil {
				output.PrintError(err.Error())
				os.Exit(1)
			}
			fmt.Fprintln(cmd.OutOrStdout(), output.RenderFormatTable(records))
		},
	}
}
