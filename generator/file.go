package generator

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"teamsync-project/backend/workspace-service/logging"

	"github.com/ledongthuc/pdf"
)

type FileInfo struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	SizeLabel   string `json:"sizeLabel"`
	ContentType string `json:"contentType,omitempty"`
	Pages       int    `json:"pages,omitempty"`
}

// FormatSize renders a byte count in kilobytes with one decimal.
func FormatSize(size int64) string {
	return fmt.Sprintf("%.1f KB", float64(size)/1024)
}

// Inspect describes an uploaded document. PDF page counts are best effort
// and never cause the upload to be rejected.
func Inspect(name, contentType string, data []byte) FileInfo {
	info := FileInfo{
		Name:        filepath.Base(name),
		Size:        int64(len(data)),
		SizeLabel:   FormatSize(int64(len(data))),
		ContentType: contentType,
	}
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		info.Pages = pdfPages(data)
	}
	return info
}

func pdfPages(data []byte) (pages int) {
	defer func() {
		if r := recover(); r != nil {
			logging.Logger.Warnf("Event ID: PDF_INSPECT_FAILED, Description: pdf reader panicked: %v", r)
			pages = 0
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		logging.Logger.Debugf("Event ID: PDF_INSPECT_FAILED, Description: %v", err)
		return 0
	}
	return reader.NumPage()
}
