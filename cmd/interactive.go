package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tanq16/ytfetch/internal/output"
	"github.com/tanq16/ytfetch/internal/utils"
)

var errNoInput = errors.New("no input")

type prompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{scanner: bufio.NewScanner(in), out: out}
}

func (p *prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, output.FPending(question))
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}
		return "", errNoInput
	}
	return strings.TrimSpace(p.scanner.Text()), nil
}

func (p *prompter) askRequired(question, what string) (string, error) {
	answer, err := p.ask(question)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", fmt.Errorf("no %s given", what)
	}
	return answer, nil
}

// chooseJob asks for the workflow and the format ids it needs.
func (p *prompter) chooseJob(url string) (utils.YtfetchJob, error) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, output.FHeader("Choose download type"))
	fmt.Fprintf(p.out, "  %s 1 %s Video only\n", output.FInfo(output.StyleSymbols["bullet"]), output.StyleSymbols["arrow"])
	fmt.Fprintf(p.out, "  %s 2 %s Audio only\n", output.FInfo(output.StyleSymbols["bullet"]), output.StyleSymbols["arrow"])
	fmt.Fprintf(p.out, "  %s 3 %s Merge video and audio\n", output.FInfo(output.StyleSymbols["bullet"]), output.StyleSymbols["arrow"])
	choice, err := p.ask("Enter choice (1/2/3): ")
	if err != nil {
		return utils.YtfetchJob{}, err
	}

	job := utils.YtfetchJob{URL: url}
	switch choice {
	case "1":
		job.JobType = utils.JobTypeVideo
		job.VideoFormat, err = p.askRequired("Enter video format ID: ", "video format id")
	case "2":
		job.JobType = utils.JobTypeAudio
		job.AudioFormat, err = p.askRequired("Enter audio format ID: ", "audio format id")
	case "3":
		job.JobType = utils.JobTypeMerge
		job.VideoFormat, err = p.askRequired("Enter video format ID: ", "video format id")
		if err == nil {
			job.AudioFormat, err = p.askRequired("Enter audio format ID: ", "audio format id")
		}
	default:
		return utils.YtfetchJob{}, fmt.Errorf("invalid choice %q", choice)
	}
	return job, err
}

func runInteractive(ctx context.Context, in io.Reader, out io.Writer, url string) error {
	p := newPrompter(in, out)
	if url == "" {
		var err error
		if url, err = p.askRequired("Enter YouTube video URL: ", "URL"); err != nil {
			return err
		}
	}
	tool, err := newTool()
	if err != nil {
		return err
	}

	meta, err := tool.ResolveMetadata(ctx, url)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, output.RenderMetadata(meta))

	formats, err := tool.ListFormats(ctx, url)
	if err != nil {
		log.Warn().Str("op", "cmd/interactive").Err(err).Msg("format listing unavailable")
		output.PrintWarning("Could not list formats, format ids can still be entered")
	} else {
		fmt.Fprintln(out)
		fmt.Fprintln(out, output.RenderFormatTable(formats))
	}

	job, err := p.chooseJob(url)
	if err != nil {
		return err
	}
	job.Media = meta
	job.Formats = formats
	return runJobs(ctx, out, tool, []utils.YtfetchJob{job})
}
