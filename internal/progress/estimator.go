// Package progress turns the percentage lines printed by yt-dlp into byte
// deltas against an approximate total size.
package progress

import (
	"math"
	"regexp"
	"strconv"
)

var percentRegex = regexp.MustCompile(`(\d{1,3}(?:\.\d+)?)%`)

// Estimator derives downloaded bytes from percent-complete signals. The
// byte counts are estimates: they are only as good as the declared total.
type Estimator struct {
	total      int64
	downloaded int64
}

func NewEstimator(total int64) *Estimator {
	if total < 0 {
		total = 0
	}
	return &Estimator{total: total}
}

// Update scans one line of tool output. ok is false when the line carries no
// percentage. delta can be zero, and negative if the percentages go backwards.
func (e *Estimator) Update(line string) (delta int64, ok bool) {
	match := percentRegex.FindStringSubmatch(line)
	if match == nil {
		return 0, false
	}
	percent, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, false
	}
	newDownloaded := int64(math.Round(percent / 100 * float64(e.total)))
	delta = newDownloaded - e.downloaded
	e.downloaded = newDownloaded
	return delta, true
}

func (e *Estimator) Downloaded() int64 {
	return e.downloaded
}

func (e *Estimator) Total() int64 {
	return e.total
}

// Indeterminate reports whether there is no usable total to measure against.
func (e *Estimator) Indeterminate() bool {
	return e.total == 0
}
