package ytdlp

import (
	"fmt"
	"strings"
)

const stderrTailLimit = 512

// StartError means the yt-dlp process could not be launched at all.
type StartError struct {
	Path string
	Err  error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("error starting %s: %v", e.Path, e.Err)
}

func (e *StartError) Unwrap() error { return e.Err }

type MetadataError struct {
	URL      string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *MetadataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to retrieve video info for %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("failed to retrieve video info for %s: yt-dlp exited with code %d%s", e.URL, e.ExitCode, stderrSuffix(e.Stderr))
}

func (e *MetadataError) Unwrap() error { return e.Err }

type FormatError struct {
	URL      string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("failed to list formats for %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("failed to list formats for %s: yt-dlp exited with code %d%s", e.URL, e.ExitCode, stderrSuffix(e.Stderr))
}

func (e *FormatError) Unwrap() error { return e.Err }

// DownloadFailedError is a download whose process ran but exited non-zero.
// Whatever was written to OutputPath is left in place.
type DownloadFailedError struct {
	ExitCode   int
	OutputPath string
}

func (e *DownloadFailedError) Error() string {
	return fmt.Sprintf("yt-dlp exited with code %d", e.ExitCode)
}

func stderrSuffix(stderr string) string {
	if stderr == "" {
		return ""
	}
	return ": " + stderr
}

func stderrTail(stderr []byte) string {
	tail := strings.TrimSpace(string(stderr))
	if len(tail) > stderrTailLimit {
		tail = "..." + tail[len(tail)-stderrTailLimit:]
	}
	return tail
}
