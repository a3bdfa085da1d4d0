package util

import (
	"path/filepath"
	"strings"
)

// PathToURI converts a workspace path to a file:// URI. Relative paths stay
// relative so snapshot output is position-independent.
func PathToURI(path string) string {
	return "file://" + filepath.ToSlash(path)
}

// URIToPath converts a file:// URI back to a platform path. Non-file URIs
// pass through unchanged.
func URIToPath(uri string) string {
	if strings.HasPrefix(uri, "file://") {
		return filepath.FromSlash(uri[7:])
	}
	return uri
}
