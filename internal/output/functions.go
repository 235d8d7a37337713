package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tanq16/ytfetch/internal/utils"
	"golang.org/x/term"
)

const barWidth = 30

// FormatSpeed reports the average rate of an estimated byte count.
func FormatSpeed(bytes int64, elapsed float64) string {
	if elapsed <= 0 || bytes <= 0 {
		return "0 B/s"
	}
	return utils.FormatFileSize(int64(float64(bytes)/elapsed)) + "/s"
}

// PrintProgressBar renders a bar for a known total.
func PrintProgressBar(current, total int64, width int) string {
	if width <= 0 {
		width = barWidth
	}
	if total <= 0 {
		total = 1
	}
	current = max(0, min(current, total))
	percent := float64(current) / float64(total)
	filled := max(0, min(int(percent*float64(width)), width))
	bar := StyleSymbols["bullet"]
	bar += strings.Repeat(StyleSymbols["hline"], filled)
	bar += strings.Repeat(" ", width-filled)
	bar += StyleSymbols["bullet"]
	return debugStyle.Render(fmt.Sprintf("%s %.1f%% %s ", bar, percent*100, StyleSymbols["bullet"]))
}

// PrintIndeterminateBar renders a short segment bouncing across the bar,
// used while the total size is unknown.
func PrintIndeterminateBar(frame, width int) string {
	if width <= 0 {
		width = barWidth
	}
	const segment = 5
	span := width - segment
	pos := frame % (2 * span)
	if pos > span {
		pos = 2*span - pos
	}
	bar := StyleSymbols["bullet"]
	bar += strings.Repeat(" ", pos)
	bar += strings.Repeat(StyleSymbols["hline"], segment)
	bar += strings.Repeat(" ", span-pos)
	bar += StyleSymbols["bullet"]
	return debugStyle.Render(fmt.Sprintf("%s ?? %s ", bar, StyleSymbols["bullet"]))
}

func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // Default fallback width
	}
	return width
}

func getTerminalHeight() int {
	_, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || height <= 0 {
		return 24 // Default fallback height
	}
	return height
}

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// truncate cuts text to the terminal width so redraws stay one row per line.
func truncate(text string, indent int) string {
	maxWidth := getTerminalWidth() - indent - 2
	if maxWidth <= 10 {
		maxWidth = 80
	}
	runes := []rune(text)
	if len(runes) <= maxWidth {
		return text
	}
	return string(runes[:maxWidth-1]) + "…"
}
