package ytdlp

import "github.com/tanq16/ytfetch/internal/utils"

type DownloadOptions struct {
	Format         string // single id or "video+audio"
	OutputPath     string
	FFmpegLocation string
	EmbedSubs      bool
	MergeFormat    string
}

func (t *Tool) DownloadArgs(url string, opts DownloadOptions) []string {
	args := []string{
		"--newline",
		"--no-playlist",
		"-f", opts.Format,
	}
	if opts.FFmpegLocation != "" {
		args = append(args, "--ffmpeg-location", opts.FFmpegLocation)
	}
	args = append(args, "-o", opts.OutputPath)
	if opts.MergeFormat != "" {
		args = append(args, "--merge-output-format", opts.MergeFormat)
	}
	args = append(args, url)
	if opts.EmbedSubs {
		args = append(args, "--embed-subs", "--sub-lang", t.subLang())
	}
	return args
}

func (t *Tool) subLang() string {
	if t.SubLang == "" {
		return utils.DefaultSubLang
	}
	return t.SubLang
}
