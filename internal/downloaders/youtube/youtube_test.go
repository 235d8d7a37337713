package youtube

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanq16/ytfetch/internal/utils"
	"github.com/tanq16/ytfetch/internal/ytdlp"
)

const metadataJSON = `{"id":"abc","title":"Test Video!","duration_string":"3:25","filesize_approx":15728640,"upload_date":"20240131","resolution":"1920x1080"}`

const formatListing = `[info] Available formats for abc:
ID  EXT   RESOLUTION FPS │   FILESIZE
──────────────────────────────────────
140 m4a   audio only     │    3.21MiB audio only
137 mp4   1920x1080   30 │ ~ 50.00MiB video only
`

// fakeTool writes a yt-dlp stand-in. Download calls record their arguments
// in argsFile, print two progress lines, write to the -o path and exit with
// exitCode.
func fakeTool(t *testing.T, exitCode int, listExit int) (tool *ytdlp.Tool, argsFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake yt-dlp is a shell script")
	}
	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args")
	script := fmt.Sprintf(`#!/bin/sh
case "$1" in
--dump-json)
	echo '%s'
	exit 0;;
-F)
	[ %d -eq 0 ] || { echo "ERROR: listing failed" 1>&2; exit %d; }
	cat <<'EOF'
%sEOF
	exit 0;;
esac
printf '%%s\n' "$@" > '%s'
out=""
while [ $# -gt 0 ]; do
	[ "$1" = "-o" ] && out="$2"
	shift
done
echo "[download]  50.0%% of 15.00MiB"
echo "[download] 100.0%% of 15.00MiB" 1>&2
printf partial > "$out"
exit %d
`, metadataJSON, listExit, listExit, formatListing, argsFile, exitCode)
	path := filepath.Join(dir, "yt-dlp")
	require.NoError(t, os.WriteFile(path, []byte(script), 0755))
	ffmpeg := filepath.Join(dir, "ffmpeg")
	require.NoError(t, os.WriteFile(ffmpeg, []byte("#!/bin/sh\nexit 0\n"), 0755))
	tool = ytdlp.New(path, "en", 10*time.Second)
	tool.FFmpegPath = ffmpeg
	return tool, argsFile
}

func readArgs(t *testing.T, argsFile string) []string {
	t.Helper()
	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func runJob(t *testing.T, d *YouTubeDownloader, job *utils.YtfetchJob) error {
	t.Helper()
	require.NoError(t, d.ValidateJob(job))
	require.NoError(t, d.BuildJob(context.Background(), job))
	return d.Download(context.Background(), job)
}

func TestVideoDownloadWritesFinalName(t *testing.T) {
	tool, argsFile := fakeTool(t, 0, 0)
	outDir := filepath.Join(t.TempDir(), "nested", "out")
	d := New(tool, outDir)

	var lines []string
	var deltas, lastDownloaded int64
	job := &utils.YtfetchJob{
		JobType: utils.JobTypeVideo, URL: "https://youtu.be/abc", VideoFormat: "137",
		StreamFunc: func(line string) { lines = append(lines, line) },
		ProgressFunc: func(delta, downloaded, total int64) {
			deltas += delta
			lastDownloaded = downloaded
			assert.Equal(t, int64(15728640), total)
		},
	}
	require.NoError(t, runJob(t, d, job))

	want := filepath.Join(outDir, "Test Video__1920x1080.mp4")
	assert.Equal(t, want, job.OutputPath)
	assert.FileExists(t, want)
	assert.NoFileExists(t, filepath.Join(outDir, "Test Video_.mp4"))
	assert.Equal(t, &utils.DownloadResult{ExitCode: 0, OutputPath: want}, job.Result)

	assert.Len(t, lines, 2)
	assert.Equal(t, int64(15728640), deltas)
	assert.Equal(t, int64(15728640), lastDownloaded)
	assert.Equal(t, []string{
		"--newline", "--no-playlist", "-f", "137", "--ffmpeg-location", tool.FFmpegPath, "-o", want,
		"https://youtu.be/abc", "--embed-subs", "--sub-lang", "en",
	}, readArgs(t, argsFile))
}

func TestVideoDownloadFailureLeavesPartialFile(t *testing.T) {
	tool, _ := fakeTool(t, 1, 0)
	outDir := t.TempDir()
	d := New(tool, outDir)
	job := &utils.YtfetchJob{JobType: utils.JobTypeVideo, URL: "u", VideoFormat: "137"}

	err := runJob(t, d, job)
	var failed *ytdlp.DownloadFailedError
	require.True(t, errors.As(err, &failed))
	assert.Equal(t, 1, failed.ExitCode)
	assert.Equal(t, job.OutputPath, failed.OutputPath)
	assert.Equal(t, 1, job.Result.ExitCode)

	data, readErr := os.ReadFile(job.OutputPath)
	require.NoError(t, readErr)
	assert.Equal(t, "partial", string(data))
	entries, _ := os.ReadDir(outDir)
	assert.Len(t, entries, 1)
}

func TestAudioDownload(t *testing.T) {
	tool, argsFile := fakeTool(t, 0, 0)
	outDir := t.TempDir()
	d := New(tool, outDir)
	job := &utils.YtfetchJob{JobType: utils.JobTypeAudio, URL: "u", AudioFormat: "140"}
	require.NoError(t, runJob(t, d, job))

	want := filepath.Join(outDir, "Test Video_.m4a")
	assert.Equal(t, want, job.OutputPath)
	args := readArgs(t, argsFile)
	assert.Equal(t, []string{"--newline", "--no-playlist", "-f", "140", "-o", want, "u"}, args)
	assert.NotContains(t, args, "--embed-subs")
}

func TestMergeDownloadQueriesCatalog(t *testing.T) {
	tool, argsFile := fakeTool(t, 0, 0)
	outDir := t.TempDir()
	d := New(tool, outDir)
	job := &utils.YtfetchJob{JobType: utils.JobTypeMerge, URL: "u", VideoFormat: "137", AudioFormat: "140"}
	require.NoError(t, runJob(t, d, job))

	want := filepath.Join(outDir, "Test Video__(1920x1080).mp4")
	assert.Equal(t, want, job.OutputPath)
	assert.Len(t, job.Formats, 2)
	assert.Equal(t, []string{
		"--newline", "--no-playlist", "-f", "137+140", "--ffmpeg-location", tool.FFmpegPath, "-o", want,
		"--merge-output-format", "mp4", "u", "--embed-subs", "--sub-lang", "en",
	}, readArgs(t, argsFile))
}

func TestMergeRequiresFFmpeg(t *testing.T) {
	tool, _ := fakeTool(t, 0, 0)
	tool.FFmpegPath = filepath.Join(t.TempDir(), "no-ffmpeg")
	d := New(tool, t.TempDir())
	job := &utils.YtfetchJob{JobType: utils.JobTypeMerge, URL: "u", VideoFormat: "137", AudioFormat: "140"}
	err := d.BuildJob(context.Background(), job)
	assert.ErrorContains(t, err, "ffmpeg")
	assert.Empty(t, job.Args)
}

func TestVideoWithoutFFmpegSkipsLocation(t *testing.T) {
	tool, _ := fakeTool(t, 0, 0)
	tool.FFmpegPath = ""
	t.Setenv("PATH", t.TempDir())
	d := New(tool, t.TempDir())
	job := &utils.YtfetchJob{JobType: utils.JobTypeVideo, URL: "u", VideoFormat: "137"}
	require.NoError(t, d.BuildJob(context.Background(), job))
	assert.NotContains(t, job.Args, "--ffmpeg-location")
	assert.Contains(t, job.Args, "--embed-subs")
}

func TestAudioNeverResolvesFFmpeg(t *testing.T) {
	tool, _ := fakeTool(t, 0, 0)
	tool.FFmpegPath = filepath.Join(t.TempDir(), "no-ffmpeg")
	d := New(tool, t.TempDir())
	job := &utils.YtfetchJob{JobType: utils.JobTypeAudio, URL: "u", AudioFormat: "140"}
	require.NoError(t, d.BuildJob(context.Background(), job))
	assert.NotContains(t, job.Args, "--ffmpeg-location")
}

func TestMergeResolutionFallbacks(t *testing.T) {
	t.Run("catalog failure", func(t *testing.T) {
		tool, _ := fakeTool(t, 0, 2)
		d := New(tool, t.TempDir())
		job := &utils.YtfetchJob{JobType: utils.JobTypeMerge, URL: "u", VideoFormat: "137", AudioFormat: "140"}
		require.NoError(t, d.BuildJob(context.Background(), job))
		assert.Equal(t, "Test Video__(UnknownRes).mp4", filepath.Base(job.OutputPath))
	})
	t.Run("supplied catalog without the row", func(t *testing.T) {
		tool, _ := fakeTool(t, 0, 2)
		d := New(tool, t.TempDir())
		job := &utils.YtfetchJob{
			JobType: utils.JobTypeMerge, URL: "u", VideoFormat: "22", AudioFormat: "140",
			Formats: []utils.FormatRecord{{FormatID: "140", Resolution: utils.NotAvailable}},
		}
		require.NoError(t, d.BuildJob(context.Background(), job))
		assert.Equal(t, "Test Video__(UnknownRes).mp4", filepath.Base(job.OutputPath))
	})
}

func TestBuildJobAvoidsCollisions(t *testing.T) {
	tool, _ := fakeTool(t, 0, 0)
	outDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outDir, "Test Video_.m4a"), []byte("old"), 0644))
	d := New(tool, outDir)
	job := &utils.YtfetchJob{JobType: utils.JobTypeAudio, URL: "u", AudioFormat: "140"}
	require.NoError(t, d.BuildJob(context.Background(), job))
	assert.Equal(t, filepath.Join(outDir, "Test Video_-(1).m4a"), job.OutputPath)
}

func TestBuildJobUsesSuppliedMetadata(t *testing.T) {
	tool, _ := fakeTool(t, 0, 0)
	d := New(tool, t.TempDir())
	job := &utils.YtfetchJob{
		JobType: utils.JobTypeVideo, URL: "u", VideoFormat: "18",
		Media: &utils.MediaMetadata{Title: "a/b", Resolution: utils.UnknownResolution, FileSize: utils.UnknownSize},
	}
	require.NoError(t, d.BuildJob(context.Background(), job))
	assert.Equal(t, "a_b_Unknown.mp4", filepath.Base(job.OutputPath))
	assert.Zero(t, job.TotalBytes)
}

func TestBuildJobMetadataFailure(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("fake yt-dlp is a shell script")
	}
	path := filepath.Join(t.TempDir(), "yt-dlp")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho 'ERROR: private video' 1>&2\nexit 1\n"), 0755))
	d := New(ytdlp.New(path, "", 0), t.TempDir())
	job := &utils.YtfetchJob{JobType: utils.JobTypeAudio, URL: "u", AudioFormat: "140"}
	err := d.BuildJob(context.Background(), job)
	var metaErr *ytdlp.MetadataError
	require.True(t, errors.As(err, &metaErr))
	assert.Empty(t, job.Args)
}

func TestValidateJob(t *testing.T) {
	d := New(ytdlp.New("", "", 0), t.TempDir())
	tests := []struct {
		name    string
		job     utils.YtfetchJob
		wantErr bool
	}{
		{"video ok", utils.YtfetchJob{JobType: utils.JobTypeVideo, URL: "u", VideoFormat: "137"}, false},
		{"video missing id", utils.YtfetchJob{JobType: utils.JobTypeVideo, URL: "u"}, true},
		{"audio ok", utils.YtfetchJob{JobType: utils.JobTypeAudio, URL: "u", AudioFormat: "140"}, false},
		{"audio blank id", utils.YtfetchJob{JobType: utils.JobTypeAudio, URL: "u", AudioFormat: "  "}, true},
		{"merge ok", utils.YtfetchJob{JobType: utils.JobTypeMerge, URL: "u", VideoFormat: "1", AudioFormat: "2"}, false},
		{"merge missing audio", utils.YtfetchJob{JobType: utils.JobTypeMerge, URL: "u", VideoFormat: "1"}, true},
		{"no url", utils.YtfetchJob{JobType: utils.JobTypeAudio, AudioFormat: "140"}, true},
		{"unknown type", utils.YtfetchJob{JobType: "playlist", URL: "u"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := d.ValidateJob(&tt.job)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDownloadRequiresBuild(t *testing.T) {
	d := New(ytdlp.New("", "", 0), t.TempDir())
	assert.Error(t, d.Download(context.Background(), &utils.YtfetchJob{ID: "x"}))
}
