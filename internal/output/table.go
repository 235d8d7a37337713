package output

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/tanq16/ytfetch/internal/utils"
)

var formatTableHeaders = []string{"ID", "Ext", "Resolution", "FPS", "Size", "Type"}

// RenderFormatTable lays the catalog out as an aligned table; absent cells
// read N/A.
func RenderFormatTable(records []utils.FormatRecord) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		fps := utils.NotAvailable
		if r.FPS > 0 {
			fps = strconv.Itoa(r.FPS)
		}
		rows = append(rows, []string{
			r.FormatID,
			r.Extension,
			orNotAvailable(r.Resolution),
			fps,
			orNotAvailable(r.ApproxSize),
			r.Description,
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		BorderColumn(false).
		Headers(formatTableHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		})
	return t.String()
}

// RenderMetadata formats the metadata block shown before a download.
func RenderMetadata(meta *utils.MediaMetadata) string {
	fields := [][2]string{
		{"Title", meta.Title},
		{"Duration", meta.Duration},
		{"Filesize", meta.FileSize},
		{"Upload Date", meta.UploadDate},
		{"Resolution", meta.Resolution},
	}
	if meta.Uploader != "" {
		fields = append(fields, [2]string{"Uploader", meta.Uploader})
	}
	var b strings.Builder
	b.WriteString(FHeader("Video Details") + "\n")
	for _, f := range fields {
		b.WriteString(fmt.Sprintf("  %s %s %s\n", FInfo(StyleSymbols["bullet"]), FDebug(f[0]+":"), FDetail(f[1])))
	}
	return b.String()
}

func orNotAvailable(value string) string {
	if value == "" {
		return utils.NotAvailable
	}
	return value
}
