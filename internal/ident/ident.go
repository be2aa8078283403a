// # internal/ident/ident.go
package ident

import (
	"crypto/sha1"
	"encoding/hex"
	"path/filepath"
	"strings"
)

// ID returns a deterministic 16-character lowercase hex identifier: the
// first 8 bytes of the SHA-1 hash over the concatenated parts. Parts
// concatenate without a delimiter, so ID("a", "b") == ID("ab"); that
// semantics is relied on by stored identifiers and must not change.
func ID(parts ...string) string {
	h := sha1.New()
	for _, part := range parts {
		h.Write([]byte(part))
	}
	sum := h.Sum(nil)
	return hex.EncodeToString(sum[:8])
}

// FileID derives a file's identifier from its normalized relative path and
// the owning project id. Identical inputs always yield identical ids.
func FileID(projectID, normalizedPath string) string {
	return ID(normalizedPath, projectID)
}

// DeclarationID derives a declaration's identifier within a file.
func DeclarationID(fileID, declName string, kind string) string {
	return ID(fileID, declName, kind)
}

// NormalizePath rewrites a path with forward slashes, relative to root when
// the path sits under it, else as an absolute forward-slash path.
func NormalizePath(path, root string) string {
	abs := path
	if !filepath.IsAbs(abs) {
		if a, err := filepath.Abs(abs); err == nil {
			abs = a
		}
	}
	if root != "" {
		if rel, err := filepath.Rel(root, abs); err == nil && !strings.HasPrefix(rel, "..") {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(abs)
}
