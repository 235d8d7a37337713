package utils

import "context"

type Downloader interface {
	Download(ctx context.Context, job *YtfetchJob) error
	BuildJob(ctx context.Context, job *YtfetchJob) error
	ValidateJob(job *YtfetchJob) error
}

type YtfetchJob struct {
	ID           string
	JobType      string
	URL          string
	VideoFormat  string
	AudioFormat  string
	OutputPath   string
	TotalBytes   int64
	Args         []string
	Media        *MediaMetadata
	Formats      []FormatRecord
	ProgressFunc func(delta, downloaded, total int64)
	StreamFunc   func(line string)
	Result       *DownloadResult
}

// MediaMetadata is the best-effort description of a URL as reported by yt-dlp.
// Absent fields hold the Unknown* sentinels rather than zero values.
type MediaMetadata struct {
	ID              string `json:"id" yaml:"id"`
	Title           string `json:"title" yaml:"title"`
	Uploader        string `json:"uploader" yaml:"uploader"`
	Duration        string `json:"duration" yaml:"duration"`
	ApproxSizeBytes int64  `json:"approx_size_bytes" yaml:"approx_size_bytes"`
	FileSize        string `json:"filesize" yaml:"filesize"`
	UploadDate      string `json:"upload_date" yaml:"upload_date"`
	Resolution      string `json:"resolution" yaml:"resolution"`
}

// FormatRecord is one row of the yt-dlp format listing.
type FormatRecord struct {
	FormatID    string
	Extension   string
	Resolution  string // "N/A" when the row has none
	FPS         int    // 0 when absent
	ApproxSize  string // "" when absent
	Description string
}

type DownloadResult struct {
	ExitCode   int
	OutputPath string
}
