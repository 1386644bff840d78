// Package asset stores uploaded catalogue images and serves back their
// public URLs. Two backends exist: AWS S3 and the local filesystem, with
// a fallback wrapper that prefers S3 when it is configured.
package asset

import (
	"context"
	"io"
	"path/filepath"
	"strings"
)

// Store persists an uploaded image and returns the URL clients use to
// fetch it.
type Store interface {
	// Save writes the image under a name derived from nameHint, keeping
	// the original file extension, and returns its public URL.
	Save(ctx context.Context, r io.Reader, nameHint, originalFilename string) (string, error)
}

// imageFilename derives a stable filename from the owning record's name:
// lowercased, spaces collapsed to underscores, original extension kept.
func imageFilename(nameHint, originalFilename string) string {
	ext := filepath.Ext(originalFilename)
	if ext == "" {
		ext = ".jpg"
	}
	base := strings.ToLower(strings.TrimSpace(nameHint))
	base = strings.Join(strings.Fields(base), "_")
	return base + ext
}

// contentTypeFor maps an image extension to its MIME type.
func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
