package utils

import (
	"regexp"
	"strings"
)

var unsafeFileNameChars = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeFileName replaces every character outside [A-Za-z0-9._-] with
// an underscore, so user-supplied names cannot smuggle path separators
// or special characters into storage keys.
func SanitizeFileName(name string) string {
	return unsafeFileNameChars.ReplaceAllString(name, "_")
}

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".webp", ".gif"}

// IsImageKey reports whether the storage key ends in a known image
// extension, case-insensitively.
func IsImageKey(key string) bool {
	lower := strings.ToLower(key)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
