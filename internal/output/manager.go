package output

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/tanq16/ytfetch/internal/utils"
)

type JobOutput struct {
	ID          int
	Label       string
	Status      string
	Message     string
	StreamLines []string
	Downloaded  int64
	Total       int64
	Tracking    bool
	Complete    bool
	StartTime   time.Time
	LastUpdated time.Time
	Error       error
}

type ErrorReport struct {
	Label string
	Error error
	Time  time.Time
}

// Manager redraws the status of every registered job in place. When its writer
// is not a terminal it prints each status change on its own line instead.
type Manager struct {
	outputs     []*JobOutput
	mutex       sync.RWMutex
	out         io.Writer
	interactive bool
	numLines    int
	maxStreams  int
	frame       int
	errors      []ErrorReport
	doneCh      chan struct{}
	displayTick time.Duration
	displayWg   sync.WaitGroup
}

// NewManager redraws live on w when it is a terminal and falls back to
// plain status lines otherwise.
func NewManager(w io.Writer) *Manager {
	return NewManagerWithWriter(w, isTerminal(w))
}

func NewManagerWithWriter(w io.Writer, interactive bool) *Manager {
	return &Manager{
		out:         w,
		interactive: interactive,
		maxStreams:  3,
		doneCh:      make(chan struct{}),
		displayTick: 150 * time.Millisecond,
	}
}

func (m *Manager) RegisterJob(label string) int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	id := len(m.outputs) + 1
	m.outputs = append(m.outputs, &JobOutput{
		ID:          id,
		Label:       label,
		Status:      "pending",
		StartTime:   time.Now(),
		LastUpdated: time.Now(),
	})
	return id
}

func (m *Manager) job(id int) *JobOutput {
	if id < 1 || id > len(m.outputs) {
		return nil
	}
	return m.outputs[id-1]
}

func (m *Manager) SetMessage(id int, message string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if info := m.job(id); info != nil {
		info.Message = message
		info.LastUpdated = time.Now()
		m.printPlain(pendingStyle.Render(StyleSymbols["pending"]), message)
	}
}

func (m *Manager) SetStatus(id int, status string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if info := m.job(id); info != nil {
		info.Status = status
		info.LastUpdated = time.Now()
	}
}

func (m *Manager) GetStatus(id int) string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	if info := m.job(id); info != nil {
		return info.Status
	}
	return "unknown"
}

// UpdateProgress records the estimated bytes for a job. total 0 switches the
// job to an indeterminate indicator.
func (m *Manager) UpdateProgress(id int, downloaded, total int64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if info := m.job(id); info != nil {
		info.Downloaded = downloaded
		info.Total = total
		info.Tracking = true
		info.LastUpdated = time.Now()
	}
}

func (m *Manager) AddStreamLine(id int, line string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if info := m.job(id); info != nil {
		info.StreamLines = append(info.StreamLines, line)
		if len(info.StreamLines) > m.maxStreams {
			info.StreamLines = info.StreamLines[len(info.StreamLines)-m.maxStreams:]
		}
		info.LastUpdated = time.Now()
	}
}

func (m *Manager) Complete(id int, message string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if info := m.job(id); info != nil {
		info.StreamLines = nil
		if message == "" {
			message = fmt.Sprintf("Completed %s", info.Label)
		}
		info.Message = message
		info.Complete = true
		info.Status = "success"
		info.LastUpdated = time.Now()
		m.printPlain(successStyle.Render(StyleSymbols["pass"]), message)
	}
}

func (m *Manager) ReportError(id int, err error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if info := m.job(id); info != nil {
		info.Complete = true
		info.Status = "error"
		info.Error = err
		info.LastUpdated = time.Now()
		m.errors = append(m.errors, ErrorReport{Label: info.Label, Error: err, Time: time.Now()})
		m.printPlain(errorStyle.Render(StyleSymbols["fail"]), info.Message)
	}
}

// Errors returns the reported failures in order.
func (m *Manager) Errors() []ErrorReport {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return append([]ErrorReport(nil), m.errors...)
}

// printPlain is the non-terminal rendering of a status change; callers hold
// the lock.
func (m *Manager) printPlain(indicator, message string) {
	if m.interactive || message == "" {
		return
	}
	fmt.Fprintf(m.out, "%s%s %s\n", strings.Repeat(" ", 2), indicator, message)
}

func (m *Manager) GetStatusIndicator(status string) string {
	switch status {
	case "success":
		return successStyle.Render(StyleSymbols["pass"])
	case "error":
		return errorStyle.Render(StyleSymbols["fail"])
	case "warning":
		return warningStyle.Render(StyleSymbols["warning"])
	case "pending":
		return pendingStyle.Render(StyleSymbols["pending"])
	default:
		return infoStyle.Render(StyleSymbols["bullet"])
	}
}

func styleMessage(status, message string) string {
	switch status {
	case "success":
		return successStyle.Render(message)
	case "error":
		return errorStyle.Render(message)
	case "warning":
		return warningStyle.Render(message)
	default:
		return pendingStyle.Render(message)
	}
}

func (m *Manager) progressLine(info *JobOutput) string {
	if info.Total <= 0 {
		return PrintIndeterminateBar(m.frame, barWidth) + debugStyle.Render("size unknown")
	}
	elapsed := time.Since(info.StartTime).Seconds()
	text := fmt.Sprintf("%s / %s", utils.FormatFileSize(info.Downloaded), utils.FormatFileSize(info.Total))
	return fmt.Sprintf("%s%s %s %s", PrintProgressBar(info.Downloaded, info.Total, barWidth),
		debugStyle.Render(text), StyleSymbols["bullet"], debugStyle.Render(FormatSpeed(info.Downloaded, elapsed)))
}

func (m *Manager) updateDisplay() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.frame++
	availableLines := getTerminalHeight() - 3
	if m.numLines > 0 {
		fmt.Fprintf(m.out, "\033[%dA\033[J", m.numLines)
	}
	lineCount := 0
	indent := strings.Repeat(" ", 2+4)
	for _, info := range m.outputs {
		if lineCount >= availableLines {
			break
		}
		elapsed := time.Since(info.StartTime).Round(time.Second)
		if info.Complete {
			elapsed = info.LastUpdated.Sub(info.StartTime).Round(time.Second)
		}
		fmt.Fprintf(m.out, "%s%s %s %s\n", strings.Repeat(" ", 2), m.GetStatusIndicator(info.Status),
			debugStyle.Render(elapsed.String()), styleMessage(info.Status, info.Message))
		lineCount++
		if info.Complete {
			continue
		}
		if info.Tracking && lineCount < availableLines {
			fmt.Fprintf(m.out, "%s%s\n", indent, m.progressLine(info))
			lineCount++
		}
		for _, line := range info.StreamLines {
			if lineCount >= availableLines {
				break
			}
			fmt.Fprintf(m.out, "%s%s\n", indent, streamStyle.Render(truncate(line, 2+4)))
			lineCount++
		}
	}
	m.numLines = lineCount
}

func (m *Manager) StartDisplay() {
	if !m.interactive {
		return
	}
	m.displayWg.Add(1)
	go func() {
		defer m.displayWg.Done()
		ticker := time.NewTicker(m.displayTick)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.updateDisplay()
			case <-m.doneCh:
				m.updateDisplay()
				return
			}
		}
	}()
}

func (m *Manager) StopDisplay() {
	close(m.doneCh)
	m.displayWg.Wait()
	m.ShowSummary()
}

func (m *Manager) displayErrors() {
	if len(m.errors) == 0 {
		return
	}
	fmt.Fprintln(m.out)
	fmt.Fprintln(m.out, strings.Repeat(" ", 2)+errorStyle.Bold(true).Render("Errors:"))
	for i, err := range m.errors {
		fmt.Fprintf(m.out, "%s%s %s %s\n",
			strings.Repeat(" ", 2+2),
			errorStyle.Render(fmt.Sprintf("%d.", i+1)),
			debugStyle.Render(fmt.Sprintf("[%s]", err.Time.Format("15:04:05"))),
			errorStyle.Render(err.Label))
		fmt.Fprintf(m.out, "%s%s\n", strings.Repeat(" ", 2+4), errorStyle.Render(fmt.Sprintf("Error: %v", err.Error)))
	}
}

func (m *Manager) ShowSummary() {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	fmt.Fprintln(m.out)
	var success, failures int
	for _, info := range m.outputs {
		switch info.Status {
		case "success":
			success++
		case "error":
			failures++
		}
	}
	fmt.Fprintln(m.out, strings.Repeat(" ", 2)+success2Style.Render(fmt.Sprintf("Completed %d of %d", success, len(m.outputs))))
	if failures > 0 {
		fmt.Fprintln(m.out, strings.Repeat(" ", 2)+errorStyle.Render(fmt.Sprintf("Failed %d of %d", failures, len(m.outputs))))
	}
	m.displayErrors()
	fmt.Fprintln(m.out)
}
