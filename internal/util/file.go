package util

import (
	"path"
	"strings"
)

// SanitizeFileName keeps the base name of an uploaded file and replaces
// anything outside [A-Za-z0-9._-] with "_".
func SanitizeFileName(fileName string) string {
	base := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if base == "." || base == "/" {
		return "file"
	}

	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, base)
}

// UniqueObjectName prefixes the sanitized file name with a random id so that
// uploads with the same name do not overwrite each other.
// Example output for "gel image.png": "k3J9xQ2a_gel_image.png"
func UniqueObjectName(fileName string) (string, error) {
	prefix, err := GenerateNChar(8)
	if err != nil {
		return "", err
	}
	return prefix + "_" + SanitizeFileName(fileName), nil
}
