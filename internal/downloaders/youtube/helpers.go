package youtube

import (
	"fmt"
	"path/filepath"

	"github.com/tanq16/ytfetch/internal/utils"
)

func videoFileName(media *utils.MediaMetadata) string {
	return fmt.Sprintf("%s_%s%s", utils.SanitizeFilename(media.Title), utils.SanitizeFilename(media.Resolution), utils.VideoExt)
}

func audioFileName(media *utils.MediaMetadata) string {
	return utils.SanitizeFilename(media.Title) + utils.AudioExt
}

func mergeFileName(media *utils.MediaMetadata, resolution string) string {
	return fmt.Sprintf("%s_(%s)%s", utils.SanitizeFilename(media.Title), utils.SanitizeFilename(resolution), utils.VideoExt)
}

func outputPath(dir, name string) string {
	return filepath.Join(dir, name)
}
