package uploader

import (
	"mime"
	"path/filepath"
	"strings"
)

// GuessMediaType returns the media type registered for the extension of
// name, without parameters, or "" when it is unknown.
func GuessMediaType(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return ""
	}
	t := mime.TypeByExtension(ext)
	if t == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(t)
	if err != nil {
		return ""
	}
	return mediaType
}

// IsImage reports whether mediaType is an image type.
func IsImage(mediaType string) bool {
	return strings.HasPrefix(mediaType, "image/")
}
