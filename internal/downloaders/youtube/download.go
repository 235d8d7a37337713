package youtube

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/ytfetch/internal/progress"
	"github.com/tanq16/ytfetch/internal/utils"
	"github.com/tanq16/ytfetch/internal/ytdlp"
)

func (d *YouTubeDownloader) Download(ctx context.Context, job *utils.YtfetchJob) error {
	if len(job.Args) == 0 {
		return fmt.Errorf("job %s was not built", job.ID)
	}
	estimator := progress.NewEstimator(job.TotalBytes)
	onLine := func(line string) {
		if job.StreamFunc != nil {
			job.StreamFunc(line)
		}
		if delta, ok := estimator.Update(line); ok && job.ProgressFunc != nil {
			job.ProgressFunc(delta, estimator.Downloaded(), estimator.Total())
		}
	}

	exitCode, err := d.tool.Run(ctx, job.Args, onLine)
	job.Result = &utils.DownloadResult{ExitCode: exitCode, OutputPath: job.OutputPath}
	if err != nil {
		log.Error().Str("op", "youtube/download").Err(err).Msg("yt-dlp did not complete")
		return fmt.Errorf("download of %s failed: %w", job.URL, err)
	}
	if exitCode != 0 {
		log.Warn().Str("op", "youtube/download").Int("code", exitCode).Msgf("Preserving partial output at %s", job.OutputPath)
		return &ytdlp.DownloadFailedError{ExitCode: exitCode, OutputPath: job.OutputPath}
	}
	log.Info().Str("op", "youtube/download").Msgf("yt-dlp download completed for %s", job.URL)
	return nil
}
