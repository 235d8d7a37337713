package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/tanq16/ytfetch/internal/downloaders/youtube"
	"github.com/tanq16/ytfetch/internal/output"
	"github.com/tanq16/ytfetch/internal/scheduler"
	"github.com/tanq16/ytfetch/internal/utils"
	"github.com/tanq16/ytfetch/internal/ytdlp"
)

func newTool() (*ytdlp.Tool, error) {
	path, err := ytdlp.EnsureYtdlp(appConfig.YtdlpPath)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("op", "cmd/helpers").Msgf("Using yt-dlp at %s", path)
	tool := ytdlp.New(path, appConfig.SubLang, appConfig.Timeout)
	tool.FFmpegPath = appConfig.FFmpegPath
	return tool, nil
}

func mustTool() *ytdlp.Tool {
	tool, err := newTool()
	if err != nil {
		output.PrintError(err.Error())
		os.Exit(1)
	}
	return tool
}

// runJobs downloads jobs in order, reporting progress and the saved file
// names on w.
func runJobs(ctx context.Context, w io.Writer, tool *ytdlp.Tool, jobs []utils.YtfetchJob) error {
	downloader := youtube.New(tool, appConfig.OutputDir)
	log.Debug().Str("op", "cmd/helpers").Msgf("Starting scheduler with %d jobs", len(jobs))
	if err := scheduler.Run(ctx, jobs, scheduler.NewRegistry(downloader), output.NewManager(w)); err != nil {
		return err
	}
	for _, job := range jobs {
		output.Success(w, fmt.Sprintf("%s downloaded successfully as %s", workflowName(job.JobType), filepath.Base(job.OutputPath)))
	}
	return nil
}

// runSingle runs one non-interactive workflow and exits non-zero on failure.
func runSingle(cmd *cobra.Command, job utils.YtfetchJob) {
	ctx, stop := signalContext()
	defer stop()
	if err := runJobs(ctx, cmd.OutOrStdout(), mustTool(), []utils.YtfetchJob{job}); err != nil {
		output.PrintError(fmt.Sprintf("%s download failed", job.JobType))
		os.Exit(1)
	}
}

func workflowName(jobType string) string {
	switch jobType {
	case utils.JobTypeAudio:
		return "Audio"
	case utils.JobTypeMerge:
		return "Merged video"
	default:
		return "Video"
	}
}
