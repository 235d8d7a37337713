package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tanq16/ytfetch/internal/utils"
)

func newVideoCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "video URL --format ID",
		Short: "Download a single video format, named after its title and resolution",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runSingle(cmd, utils.YtfetchJob{JobType: utils.JobTypeVideo, URL: args[0], VideoFormat: format})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Format id from the format listing")
	_ = cmd.MarkFlagRequired("format")
	return cmd
}
