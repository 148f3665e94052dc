package constants

import (
	"path"
	"strings"
)

// AllowedExtensions holds the document extensions the formatter consumes.
var AllowedExtensions = map[string]struct{}{
	"json": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsDocumentJSON reports whether the key's basename carries a recognized
// document-JSON extension.
func IsDocumentJSON(key string) bool {
	ext := NormalizeExt(path.Ext(path.Base(key)))
	_, ok := AllowedExtensions[ext]
	return ok
}
