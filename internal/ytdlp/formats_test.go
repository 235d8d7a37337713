package ytdlp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanq16/ytfetch/internal/utils"
)

const modernListing = `[youtube] Extracting URL: https://www.youtube.com/watch?v=abc
[youtube] abc: Downloading webpage
[info] Available formats for abc:
ID  EXT   RESOLUTION FPS CH │   FILESIZE   TBR PROTO │ VCODEC        VBR ACODEC      ABR
─────────────────────────────────────────────────────────────────────────────────────────
sb0 mhtml 48x27        0    │                  mhtml │ images                         storyboard
139 m4a   audio only      2 │    1.21MiB   49k https │ audio only        mp4a.40.5   49k
140 m4a   audio only      2 │    3.21MiB  130k https │ audio only        mp4a.40.2  130k
251-drc webm audio only   2 │    3.38MiB  137k https │ audio only        opus       137k
137 mp4   1920x1080   30    │ ~ 50.00MiB 2000k https │ avc1.640028 2000k video only
18  mp4   640x360     30  2 │ ~  8.14MiB  330k https │ avc1.42001E       mp4a.40.2
`

const legacyListing = `[youtube] abc: Downloading webpage
[info] Available formats for abc:
format code  extension  resolution note
249          webm       audio only DASH audio   50k , opus @ 50k, 1.20MiB
136          mp4        1280x720   30fps ~23.45MiB 1200k , avc1.4d401f
137          mp4        1920x1080  60fps 4.50GiB DASH video
22           mp4        1280x720   hd720 , avc1.64001F, mp4a.40.2 (best)
`

func TestParseFormatCatalogModern(t *testing.T) {
	records, skipped := ParseFormatCatalog(modernListing)
	require.Len(t, records, 4)
	assert.Equal(t, 2, skipped) // storyboard row and the non-numeric 251-drc id

	ids := []string{}
	for _, r := range records {
		ids = append(ids, r.FormatID)
	}
	assert.Equal(t, []string{"139", "140", "137", "18"}, ids)

	assert.Equal(t, utils.FormatRecord{
		FormatID: "139", Extension: "m4a", Resolution: utils.NotAvailable,
		Description: "audio only      2 │    1.21MiB   49k https │ audio only        mp4a.40.5   49k",
	}, records[0])
	assert.Equal(t, "1920x1080", records[2].Resolution)
	assert.Equal(t, "640x360", records[3].Resolution)
}

func TestParseFormatCatalogLegacyWithoutSeparator(t *testing.T) {
	records, skipped := ParseFormatCatalog(legacyListing)
	require.Len(t, records, 4)
	assert.Equal(t, 3, skipped) // the three header lines

	assert.Equal(t, utils.FormatRecord{
		FormatID: "136", Extension: "mp4", Resolution: "1280x720", FPS: 30,
		ApproxSize: "~23.45MiB", Description: "1200k , avc1.4d401f",
	}, records[1])
	assert.Equal(t, utils.FormatRecord{
		FormatID: "137", Extension: "mp4", Resolution: "1920x1080", FPS: 60,
		ApproxSize: "4.50GiB", Description: "DASH video",
	}, records[2])
	assert.Equal(t, "hd720 , avc1.64001F, mp4a.40.2 (best)", records[3].Description)
}

func TestParseFormatCatalogCountsMatchingLines(t *testing.T) {
	listing := "header one\nheader two\n---------\n" +
		"1 mp4 100x100 a\n" +
		"not a row\n" +
		"2 webm b\n" +
		"\n" +
		"x3 mp4 c\n" +
		"3 mp4 c\n" +
		"1 mp4 duplicate id\n"
	records, skipped := ParseFormatCatalog(listing)
	require.Len(t, records, 3)
	assert.Equal(t, "1", records[0].FormatID)
	assert.Equal(t, "2", records[1].FormatID)
	assert.Equal(t, "3", records[2].FormatID)
	assert.Equal(t, 3, skipped)
}

func TestParseFormatRowNeedsDescription(t *testing.T) {
	_, ok := parseFormatRow("137 mp4 ")
	assert.False(t, ok)
	_, ok = parseFormatRow("137 mp4")
	assert.False(t, ok)

	record, ok := parseFormatRow("137 mp4 x")
	require.True(t, ok)
	assert.Equal(t, "x", record.Description)

	records, skipped := ParseFormatCatalog("-----\n137 mp4 \t\n18 mp4 640x360 small\n")
	require.Len(t, records, 1)
	assert.Equal(t, "18", records[0].FormatID)
	assert.Equal(t, 1, skipped)
}

func TestResolutionFor(t *testing.T) {
	records, _ := ParseFormatCatalog(modernListing)
	assert.Equal(t, "1920x1080", ResolutionFor(records, "137"))
	assert.Equal(t, "1920x1080", ResolutionFor(records, " 137 "))
	assert.Equal(t, "", ResolutionFor(records, "140"))
	assert.Equal(t, "", ResolutionFor(records, "999"))
}

func TestIsSeparatorLine(t *testing.T) {
	assert.True(t, isSeparatorLine("──────────────"))
	assert.True(t, isSeparatorLine("---- | ---- | ----"))
	assert.True(t, isSeparatorLine("========"))
	assert.False(t, isSeparatorLine("--"))
	assert.False(t, isSeparatorLine(""))
	assert.False(t, isSeparatorLine("137 mp4 --- x"))
}

func TestListFormats(t *testing.T) {
	tool := writeFakeTool(t, `
[ "$1" = "-F" ] || exit 9
cat <<'EOF'
`+modernListing+`EOF`)
	records, err := tool.ListFormats(context.Background(), "u")
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestListFormatsFailure(t *testing.T) {
	tool := writeFakeTool(t, `echo "ERROR: Unsupported URL" 1>&2; exit 2`)
	_, err := tool.ListFormats(context.Background(), "u")
	var formatErr *FormatError
	require.True(t, errors.As(err, &formatErr))
	assert.Equal(t, 2, formatErr.ExitCode)
	assert.Contains(t, formatErr.Error(), "Unsupported URL")
}

func TestDownloadArgs(t *testing.T) {
	tool := New("yt-dlp", "de", 0)
	assert.Equal(t, []string{
		"--newline", "--no-playlist", "-f", "137+140", "-o", "/out/x_(1920x1080).mp4",
		"--merge-output-format", "mp4", "u", "--embed-subs", "--sub-lang", "de",
	}, tool.DownloadArgs("u", DownloadOptions{
		Format: "137+140", OutputPath: "/out/x_(1920x1080).mp4", EmbedSubs: true, MergeFormat: "mp4",
	}))
	assert.Equal(t, []string{
		"--newline", "--no-playlist", "-f", "140", "-o", "/out/x.m4a", "u",
	}, tool.DownloadArgs("u", DownloadOptions{Format: "140", OutputPath: "/out/x.m4a"}))
	assert.Equal(t, []string{
		"--newline", "--no-playlist", "-f", "137+140", "--ffmpeg-location", "/opt/bin/ffmpeg",
		"-o", "/out/x.mp4", "--merge-output-format", "mp4", "u", "--embed-subs", "--sub-lang", "de",
	}, tool.DownloadArgs("u", DownloadOptions{
		Format: "137+140", OutputPath: "/out/x.mp4", FFmpegLocation: "/opt/bin/ffmpeg",
		EmbedSubs: true, MergeFormat: "mp4",
	}))
}
