package excel

import (
	"path/filepath"
	"strings"
)

// FileType is a supported upload format.
type FileType string

const (
	FileTypeCSV  FileType = "csv"
	FileTypeXLSX FileType = "xlsx"
)

const (
	mimeCSV  = "text/csv"
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// DetectFileType resolves a MIME type, filename or bare extension.
func DetectFileType(hint string) (FileType, bool) {
	h := strings.ToLower(strings.TrimSpace(hint))
	if i := strings.IndexByte(h, ';'); i >= 0 {
		h = strings.TrimSpace(h[:i])
	}

	switch h {
	case mimeCSV, "application/csv", "csv":
		return FileTypeCSV, true
	case mimeXLSX, "xlsx":
		return FileTypeXLSX, true
	}

	switch filepath.Ext(h) {
	case ".csv":
		return FileTypeCSV, true
	case ".xlsx":
		return FileTypeXLSX, true
	}
	return "", false
}
