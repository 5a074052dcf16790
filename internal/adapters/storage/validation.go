package storage

import (
	"fmt"
	"path"
	"strings"
)

// MaxLayoutObjectSize caps a single layout document (1 MiB).
const MaxLayoutObjectSize int64 = 1 << 20

// layoutExtensions are the object suffixes read as layout documents.
var layoutExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
}

// IsLayoutKey reports whether key names a layout document.
func IsLayoutKey(key string) bool {
	if strings.HasSuffix(key, "/") {
		return false
	}
	return layoutExtensions[strings.ToLower(path.Ext(key))]
}

// ValidateFileSize checks if the object size is within limits.
func ValidateFileSize(sizeBytes int64) error {
	if sizeBytes <= 0 {
		return fmt.Errorf("file size must be greater than 0")
	}
	if sizeBytes > MaxLayoutObjectSize {
		return fmt.Errorf("file size %d bytes exceeds maximum allowed size of %d bytes", sizeBytes, MaxLayoutObjectSize)
	}
	return nil
}
