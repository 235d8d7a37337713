package utils

import "regexp"

const (
	JobTypeVideo = "video"
	JobTypeAudio = "audio"
	JobTypeMerge = "merge"
)

const (
	UnknownTitle      = "Unknown Title"
	UnknownDuration   = "Unknown Duration"
	UnknownSize       = "Unknown Size"
	UnknownDate       = "Unknown Date"
	UnknownResolution = "Unknown"
	UnknownMergeRes   = "UnknownRes"
	NotAvailable      = "N/A"
)

const (
	VideoExt = ".mp4"
	AudioExt = ".m4a"
)

const DefaultSubLang = "en"

var sizeUnits = []string{"B", "KB", "MB", "GB", "TB"}

var sizeStringRegex = regexp.MustCompile(`^\s*(\d+(?:\.\d+)?)\s*([A-Za-z]+)\s*$`)
