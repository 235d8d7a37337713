package youtube

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/ytfetch/internal/utils"
	"github.com/tanq16/ytfetch/internal/ytdlp"
)

type YouTubeDownloader struct {
	tool      *ytdlp.Tool
	outputDir string
}

func New(tool *ytdlp.Tool, outputDir string) *YouTubeDownloader {
	if outputDir == "" {
		outputDir = utils.DefaultOutputDir()
	}
	return &YouTubeDownloader{tool: tool, outputDir: outputDir}
}

func (d *YouTubeDownloader) OutputDir() string {
	return d.outputDir
}

func (d *YouTubeDownloader) ValidateJob(job *utils.YtfetchJob) error {
	if strings.TrimSpace(job.URL) == "" {
		return fmt.Errorf("no URL given")
	}
	switch job.JobType {
	case utils.JobTypeVideo:
		if strings.TrimSpace(job.VideoFormat) == "" {
			return fmt.Errorf("video format id is required")
		}
	case utils.JobTypeAudio:
		if strings.TrimSpace(job.AudioFormat) == "" {
			return fmt.Errorf("audio format id is required")
		}
	case utils.JobTypeMerge:
		if strings.TrimSpace(job.VideoFormat) == "" || strings.TrimSpace(job.AudioFormat) == "" {
			return fmt.Errorf("merge needs both a video and an audio format id")
		}
	default:
		return fmt.Errorf("unknown job type: %s", job.JobType)
	}
	return nil
}

// BuildJob resolves metadata when the caller has not, then fixes the final
// output path and the yt-dlp arguments.
func (d *YouTubeDownloader) BuildJob(ctx context.Context, job *utils.YtfetchJob) error {
	if err := os.MkdirAll(d.outputDir, 0755); err != nil {
		return fmt.Errorf("error creating output directory: %w", err)
	}
	if job.Media == nil {
		media, err := d.tool.ResolveMetadata(ctx, job.URL)
		if err != nil {
			return err
		}
		job.Media = media
	}

	opts := ytdlp.DownloadOptions{}
	var name string
	switch job.JobType {
	case utils.JobTypeVideo:
		name = videoFileName(job.Media)
		opts.Format = strings.TrimSpace(job.VideoFormat)
		opts.EmbedSubs = true
	case utils.JobTypeAudio:
		name = audioFileName(job.Media)
		opts.Format = strings.TrimSpace(job.AudioFormat)
	case utils.JobTypeMerge:
		name = mergeFileName(job.Media, d.mergeResolution(ctx, job))
		opts.Format = strings.TrimSpace(job.VideoFormat) + "+" + strings.TrimSpace(job.AudioFormat)
		opts.EmbedSubs = true
		opts.MergeFormat = strings.TrimPrefix(utils.VideoExt, ".")
	}
	if opts.EmbedSubs {
		location, err := d.ffmpegLocation(job.JobType)
		if err != nil {
			return err
		}
		opts.FFmpegLocation = location
	}

	job.OutputPath = utils.RenewOutputPath(outputPath(d.outputDir, name))
	opts.OutputPath = job.OutputPath
	job.TotalBytes = utils.ParseFileSize(job.Media.FileSize)
	job.Args = d.tool.DownloadArgs(job.URL, opts)
	log.Debug().Str("op", "youtube/build").Str("output", job.OutputPath).Int64("total", job.TotalBytes).Msg("job built")
	return nil
}

// mergeResolution reads the chosen video row of the catalog. Any failure
// falls back to UnknownMergeRes.
func (d *YouTubeDownloader) mergeResolution(ctx context.Context, job *utils.YtfetchJob) string {
	if job.Formats == nil {
		formats, err := d.tool.ListFormats(ctx, job.URL)
		if err != nil {
			log.Warn().Str("op", "youtube/build").Err(err).Msg("format catalog unavailable, resolution unknown")
			return utils.UnknownMergeRes
		}
		job.Formats = formats
	}
	if res := ytdlp.ResolutionFor(job.Formats, job.VideoFormat); res != "" {
		return res
	}
	return utils.UnknownMergeRes
}

// ffmpegLocation resolves ffmpeg for jobs that post-process. Merging cannot
// work without it; a plain video download only loses its subtitles, so a
// missing unconfigured ffmpeg is a warning there.
func (d *YouTubeDownloader) ffmpegLocation(jobType string) (string, error) {
	path, err := ytdlp.EnsureFFmpeg(d.tool.FFmpegPath)
	if err != nil {
		if jobType == utils.JobTypeMerge || d.tool.FFmpegPath != "" {
			return "", fmt.Errorf("error ensuring ffmpeg: %w", err)
		}
		log.Warn().Str("op", "youtube/build").Err(err).Msg("ffmpeg unavailable, subtitles will not be embedded")
		return "", nil
	}
	if _, err := ytdlp.EnsureFFprobe(path); err != nil {
		log.Warn().Str("op", "youtube/build").Err(err).Msg("ffprobe unavailable, yt-dlp may skip container fixups")
	}
	return path, nil
}
