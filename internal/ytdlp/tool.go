// Package ytdlp wraps the yt-dlp executable: locating it, building its
// command lines, and reading what it prints.
package ytdlp

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"
)

const (
	ytdlpBinary   = "yt-dlp"
	ffmpegBinary  = "ffmpeg"
	ffprobeBinary = "ffprobe"
)

type Tool struct {
	Path       string
	FFmpegPath string // "" means search PATH when a job needs it
	SubLang    string
	Timeout    time.Duration // 0 disables the limit
}

func New(path, subLang string, timeout time.Duration) *Tool {
	if path == "" {
		path = ytdlpBinary
	}
	return &Tool{Path: path, SubLang: subLang, Timeout: timeout}
}

// EnsureYtdlp resolves the yt-dlp executable. A configured path must exist;
// otherwise PATH is searched, then the directory holding this executable.
func EnsureYtdlp(configured string) (string, error) {
	path, err := ensureBinary(ytdlpBinary, configured)
	if err != nil && configured == "" {
		return "", fmt.Errorf("yt-dlp not found in PATH, please install it or pass --ytdlp")
	}
	return path, err
}

// EnsureFFmpeg resolves the ffmpeg yt-dlp needs for merging and embedding
// subtitles, with the same search order as EnsureYtdlp.
func EnsureFFmpeg(configured string) (string, error) {
	path, err := ensureBinary(ffmpegBinary, configured)
	if err != nil && configured == "" {
		return "", fmt.Errorf("ffmpeg not found in PATH, please install manually or pass --ffmpeg")
	}
	return path, err
}

// EnsureFFprobe looks for ffprobe beside the resolved ffmpeg first.
func EnsureFFprobe(ffmpegPath string) (string, error) {
	if ffmpegPath != "" {
		beside := filepath.Join(filepath.Dir(ffmpegPath), executableName(ffprobeBinary))
		if _, err := os.Stat(beside); err == nil {
			return beside, nil
		}
	}
	path, err := ensureBinary(ffprobeBinary, "")
	if err != nil {
		return "", fmt.Errorf("ffprobe not found in PATH, please install manually")
	}
	return path, nil
}

func ensureBinary(name, configured string) (string, error) {
	if configured != "" {
		path, err := exec.LookPath(configured)
		if err != nil {
			return "", fmt.Errorf("configured %s %q is not usable: %w", name, configured, err)
		}
		return path, nil
	}
	path, err := exec.LookPath(name)
	if err == nil {
		return path, nil
	}
	execPath, err := os.Executable()
	if err == nil {
		candidate := filepath.Join(filepath.Dir(execPath), executableName(name))
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%s not found", name)
}

func executableName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}
