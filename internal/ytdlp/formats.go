package ytdlp

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/ytfetch/internal/utils"
)

// id, extension, optional WxH, optional NNfps, optional ~size, description
var formatRowRegex = regexp.MustCompile(`^(\d+)\s+(\S+)\s+(?:(\d+x\d+)\s*)?(?:(\d+)fps\s*)?(?:(~?\s?\d+\.\d+[KMG]iB)\s*)?(.+)$`)

func (t *Tool) ListFormatsArgs(url string) []string {
	return []string{"-F", "--no-playlist", url}
}

// ListFormats runs the tabular format listing for url. Only a non-zero exit
// fails; rows that do not look like format rows are dropped.
func (t *Tool) ListFormats(ctx context.Context, url string) ([]utils.FormatRecord, error) {
	stdout, stderr, code, err := t.output(ctx, t.ListFormatsArgs(url))
	if err != nil {
		return nil, &FormatError{URL: url, ExitCode: code, Err: err}
	}
	if code != 0 {
		log.Error().Str("op", "ytdlp/formats").Int("code", code).Msg("yt-dlp could not list formats")
		return nil, &FormatError{URL: url, ExitCode: code, Stderr: stderrTail(stderr)}
	}
	records, skipped := ParseFormatCatalog(string(stdout))
	log.Debug().Str("op", "ytdlp/formats").Msgf("Parsed %d formats, skipped %d lines", len(records), skipped)
	return records, nil
}

// ParseFormatCatalog reads the rows following the listing's separator line
// (or every line when there is none). skipped counts the non-blank lines
// that were not usable rows, duplicate ids included.
func ParseFormatCatalog(listing string) (records []utils.FormatRecord, skipped int) {
	lines := strings.Split(listing, "\n")
	start := 0
	for i, line := range lines {
		if isSeparatorLine(line) {
			start = i + 1
			break
		}
	}
	seen := make(map[string]bool)
	for _, line := range lines[start:] {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		record, ok := parseFormatRow(line)
		if !ok || seen[record.FormatID] {
			skipped++
			continue
		}
		seen[record.FormatID] = true
		records = append(records, record)
	}
	return records, skipped
}

func parseFormatRow(line string) (utils.FormatRecord, bool) {
	match := formatRowRegex.FindStringSubmatch(line)
	if match == nil {
		return utils.FormatRecord{}, false
	}
	record := utils.FormatRecord{
		FormatID:    match[1],
		Extension:   match[2],
		Resolution:  match[3],
		ApproxSize:  strings.ReplaceAll(match[5], " ", ""),
		Description: strings.TrimSpace(match[6]),
	}
	if record.Resolution == "" {
		record.Resolution = utils.NotAvailable
	}
	if match[4] != "" {
		record.FPS, _ = strconv.Atoi(match[4])
	}
	return record, true
}

// isSeparatorLine matches the rule under the listing header: dashes or
// box-drawing characters, possibly with column bars, and nothing else.
func isSeparatorLine(line string) bool {
	dashes := 0
	for _, r := range line {
		switch r {
		case '-', '─', '━', '=':
			dashes++
		case ' ', '\t', '\r', '|', '│', '┃', '+', '┼', '╋':
		default:
			return false
		}
	}
	return dashes >= 3
}

// ResolutionFor returns the WxH resolution of the catalog row with formatID,
// or "" when there is no such row or it has no resolution.
func ResolutionFor(records []utils.FormatRecord, formatID string) string {
	formatID = strings.TrimSpace(formatID)
	for _, record := range records {
		if record.FormatID == formatID {
			if record.Resolution == utils.NotAvailable {
				return ""
			}
			return record.Resolution
		}
	}
	return ""
}
