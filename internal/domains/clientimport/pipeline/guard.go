package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"iptv-manager/internal/domains/clientimport/model"
)

// Limits bounds what an upload may contain.
type Limits struct {
	MaxRows      int
	MaxFileBytes int64
}

// DefaultLimits caps uploads at 1000 data rows and 10 MiB.
var DefaultLimits = Limits{MaxRows: 1000, MaxFileBytes: 10 << 20}

const (
	ExtXLSX = ".xlsx"
	ExtCSV  = ".csv"
)

// Extension returns the lower-cased extension of a file name.
func Extension(fileName string) string {
	return strings.ToLower(filepath.Ext(fileName))
}

// CheckFile rejects files by extension and size before they are read.
func CheckFile(fileName string, size int64, limits Limits) error {
	switch Extension(fileName) {
	case ExtXLSX, ExtCSV:
	default:
		return model.ErrInvalidExtension
	}

	if size > limits.MaxFileBytes {
		return &model.ImportError{
			Code:    model.CodeFileTooLarge,
			Message: fmt.Sprintf("file exceeds the maximum size of %d MiB", limits.MaxFileBytes>>20),
		}
	}

	return nil
}

// CheckRows rejects sheets with no data rows or more rows than allowed.
// It must run before format detection.
func CheckRows(count int, limits Limits) error {
	if count == 0 {
		return model.ErrEmptySheet
	}
	if count > limits.MaxRows {
		return &model.ImportError{
			Code:    model.CodeTooManyRows,
			Message: fmt.Sprintf("the sheet has %d rows, the maximum is %d", count, limits.MaxRows),
		}
	}
	return nil
}
