package ytdlp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/ytfetch/internal/utils"
)

type dumpInfo struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Uploader       string `json:"uploader"`
	DurationString string `json:"duration_string"`
	FilesizeApprox any    `json:"filesize_approx"`
	UploadDate     string `json:"upload_date"`
	Resolution     string `json:"resolution"`
}

func (t *Tool) MetadataArgs(url string) []string {
	return []string{"--dump-json", "--no-playlist", url}
}

// ResolveMetadata asks yt-dlp for the JSON description of url in one call.
// Any failure is a *MetadataError; missing fields are not failures.
func (t *Tool) ResolveMetadata(ctx context.Context, url string) (*utils.MediaMetadata, error) {
	stdout, stderr, code, err := t.output(ctx, t.MetadataArgs(url))
	if err != nil {
		return nil, &MetadataError{URL: url, ExitCode: code, Err: err}
	}
	if code != 0 {
		log.Error().Str("op", "ytdlp/metadata").Int("code", code).Msg("yt-dlp could not retrieve video info")
		return nil, &MetadataError{URL: url, ExitCode: code, Stderr: stderrTail(stderr)}
	}
	meta, err := ParseMetadata(stdout)
	if err != nil {
		log.Error().Str("op", "ytdlp/metadata").Err(err).Msg("Error parsing video metadata")
		return nil, &MetadataError{URL: url, Err: err}
	}
	log.Debug().Str("op", "ytdlp/metadata").Msgf("Resolved %q (%s, %s)", meta.Title, meta.Resolution, meta.FileSize)
	return meta, nil
}

func ParseMetadata(data []byte) (*utils.MediaMetadata, error) {
	var info dumpInfo
	if err := json.Unmarshal(bytes.TrimSpace(data), &info); err != nil {
		return nil, fmt.Errorf("error parsing video metadata: %w", err)
	}
	approx := parseApproxSize(info.FilesizeApprox)
	return &utils.MediaMetadata{
		ID:              info.ID,
		Title:           orDefault(info.Title, utils.UnknownTitle),
		Uploader:        info.Uploader,
		Duration:        orDefault(info.DurationString, utils.UnknownDuration),
		ApproxSizeBytes: approx,
		FileSize:        utils.FormatFileSize(approx),
		UploadDate:      formatUploadDate(info.UploadDate),
		Resolution:      orDefault(info.Resolution, utils.UnknownResolution),
	}, nil
}

// parseApproxSize accepts the number yt-dlp normally emits as well as a
// numeric string; anything else, including sizes past int64, counts as
// unknown.
func parseApproxSize(raw any) int64 {
	var size float64
	switch v := raw.(type) {
	case float64:
		size = v
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		size = parsed
	default:
		return 0
	}
	if math.IsNaN(size) || size <= 0 || size >= math.MaxInt64 {
		return 0
	}
	return int64(size)
}

func formatUploadDate(raw string) string {
	if raw == "" {
		return utils.UnknownDate
	}
	date, err := time.Parse("20060102", raw)
	if err != nil {
		return utils.UnknownDate
	}
	return date.Format(time.DateOnly)
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
