package utils

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
)

// FormatFileSize scales a byte count into base-1024 units with two decimals.
// Non-positive counts and counts beyond the TB range yield UnknownSize.
func FormatFileSize(bytes int64) string {
	if bytes <= 0 {
		return UnknownSize
	}
	size := float64(bytes)
	for _, unit := range sizeUnits {
		// compare the value as printed so 1023.999 KB becomes 1.00 MB
		if math.Round(size*100)/100 < 1024 {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
		size /= 1024
	}
	return UnknownSize
}

// ParseFileSize reverses FormatFileSize. Anything it cannot read is 0.
func ParseFileSize(size string) int64 {
	matches := sizeStringRegex.FindStringSubmatch(size)
	if matches == nil {
		return 0
	}
	value, err := strconv.ParseFloat(matches[1], 64)
	if err != nil {
		return 0
	}
	for exp, unit := range sizeUnits {
		if strings.EqualFold(unit, matches[2]) {
			return int64(math.Round(value * math.Pow(1024, float64(exp))))
		}
	}
	return 0
}

func SanitizeFilename(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || r == ' ' || r == '_' || r == '-' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func DefaultOutputDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, "Downloads", "Youtube Downloads")
}

// RenewOutputPath returns outputPath unchanged when nothing exists there,
// otherwise the first free "name-(n).ext" sibling.
func RenewOutputPath(outputPath string) string {
	if _, err := os.Stat(outputPath); os.IsNotExist(err) {
		return outputPath
	}
	dir := filepath.Dir(outputPath)
	ext := filepath.Ext(outputPath)
	name := strings.TrimSuffix(filepath.Base(outputPath), ext)
	for index := 1; ; index++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s-(%d)%s", name, index, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
