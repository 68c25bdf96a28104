package pathval

import (
	"fmt"
	"os"

	"github.com/edelzer/memory-toolkit/internal/model"
)

// SizeResult is the outcome of a file-size check.
type SizeResult struct {
	Path string
	Size int64
}

// ValidateFileSize checks a file against the 50 KiB ceiling using
// metadata only. A non-existent file counts as size 0 and valid, so the
// check can run before a record is created.
func ValidateFileSize(path string) (*SizeResult, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return &SizeResult{Path: path, Size: 0}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > model.MaxFileSize {
		return nil, &ValidationError{
			Rule:   RuleOversize,
			Path:   path,
			Reason: fmt.Sprintf("file size %d exceeds maximum %d bytes", info.Size(), int64(model.MaxFileSize)),
		}
	}
	return &SizeResult{Path: path, Size: info.Size()}, nil
}
