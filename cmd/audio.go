package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tanq16/ytfetch/internal/utils"
)

func newAudioCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "audio URL --format ID",
		Short: "Download a single audio format as .m4a",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runSingle(cmd, utils.YtfetchJob{JobType: utils.JobTypeAudio, URL: args[0], AudioFormat: format})
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Audio format id from the format listing")
	_ = cmd.MarkFlagRequired("format")
	return cmd
}
