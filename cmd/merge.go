package cmd

import (
	"github.com/spf13/cobra"
	"github.com/tanq16/ytfetch/internal/utils"
)

func newMergeCmd() *cobra.Command {
	var videoFormat, audioFormat string
	cmd := &cobra.Command{
		Use:   "merge URL --video ID --audio ID",
		Short: "Download a video and an audio format and merge them into one .mp4",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runSingle(cmd, utils.YtfetchJob{
				JobType:     utils.JobTypeMerge,
				URL:         args[0],
				VideoFormat: videoFormat,
				AudioFormat: audioFormat,
			})
		},
	}
	cmd.Flags().StringVar(&videoFormat, "video", "", "Video format id")
	cmd.Flags().StringVar(&audioFormat, "audio", "", "Audio format id")
	_ = cmd.MarkFlagRequired("video")
	_ = cmd.MarkFlagRequired("audio")
	return cmd
}
