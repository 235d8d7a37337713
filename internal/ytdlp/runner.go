package ytdlp

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/rs/zerolog/log"
)

const maxLineSize = 1024 * 1024

// Run starts yt-dlp with args and hands every non-blank line of its combined
// stdout/stderr to onLine as soon as it is read. It blocks until the process
// exits and returns the exit status as-is; err is only set when the process
// could not be started or was cut short by ctx.
func (t *Tool) Run(ctx context.Context, args []string, onLine func(string)) (int, error) {
	ctx, cancel := t.withTimeout(ctx)
	defer cancel()
	cmd := t.command(ctx, args)

	pr, pw, err := os.Pipe()
	if err != nil {
		return -1, &StartError{Path: t.Path, Err: err}
	}
	cmd.Stdout = pw
	cmd.Stderr = pw
	log.Debug().Str("op", "ytdlp/run").Msgf("Executing command: %s", shellescape.QuoteCommand(cmd.Args))
	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		log.Error().Str("op", "ytdlp/run").Err(err).Msg("Error starting yt-dlp")
		return -1, &StartError{Path: t.Path, Err: err}
	}
	// the child holds its own copy of the write end
	pw.Close()
	stop := context.AfterFunc(ctx, func() { pr.Close() })
	defer stop()

	if err := streamLines(pr, onLine); err != nil {
		log.Warn().Str("op", "ytdlp/run").Err(err).Msg("Stopped reading yt-dlp output, draining")
		io.Copy(io.Discard, pr)
	}
	pr.Close()

	waitErr := cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return cmd.ProcessState.ExitCode(), fmt.Errorf("yt-dlp interrupted: %w", ctxErr)
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return -1, fmt.Errorf("error waiting for yt-dlp: %w", waitErr)
		}
	}
	code := cmd.ProcessState.ExitCode()
	log.Debug().Str("op", "ytdlp/run").Msgf("yt-dlp exited with code %d", code)
	return code, nil
}

// output runs yt-dlp to completion, keeping stdout and stderr apart.
func (t *Tool) output(ctx context.Context, args []string) (stdout, stderr []byte, code int, err error) {
	ctx, cancel := t.withTimeout(ctx)
	defer cancel()
	cmd := t.command(ctx, args)
	var outBuf, errBuf bytes.Buffer
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf
	log.Debug().Str("op", "ytdlp/output").Msgf("Executing command: %s", shellescape.QuoteCommand(cmd.Args))
	if err := cmd.Start(); err != nil {
		return nil, nil, -1, &StartError{Path: t.Path, Err: err}
	}
	waitErr := cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return outBuf.Bytes(), errBuf.Bytes(), -1, fmt.Errorf("yt-dlp interrupted: %w", ctxErr)
	}
	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return outBuf.Bytes(), errBuf.Bytes(), -1, fmt.Errorf("error waiting for yt-dlp: %w", waitErr)
		}
	}
	return outBuf.Bytes(), errBuf.Bytes(), cmd.ProcessState.ExitCode(), nil
}

func (t *Tool) command(ctx context.Context, args []string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, t.Path, args...)
	// Allow for binaries in the current working directory
	if errors.Is(cmd.Err, exec.ErrDot) {
		cmd.Err = nil
	}
	return cmd
}

func (t *Tool) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if t.Timeout > 0 {
		return context.WithTimeout(ctx, t.Timeout)
	}
	return context.WithCancel(ctx)
}

func streamLines(r io.Reader, onLine func(string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	scanner.Split(scanProgressLines)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && onLine != nil {
			onLine(line)
		}
	}
	return scanner.Err()
}

// scanProgressLines splits on '\r' as well as '\n'; without --newline yt-dlp
// redraws its progress line with carriage returns.
func scanProgressLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
