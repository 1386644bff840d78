package asset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// localStore implements Store by writing images into a directory served
// by the HTTP server under /static/images/.
type localStore struct {
	dir    string
	logger zerolog.Logger
}

// NewLocalStore creates a new filesystem-backed image store rooted at dir.
func NewLocalStore(dir string, logger zerolog.Logger) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create image directory %s: %w", dir, err)
	}
	return &localStore{
		dir:    dir,
		logger: logger.With().Str("component", "local-image-store").Logger(),
	}, nil
}

func (l *localStore) Save(ctx context.Context, r io.Reader, nameHint, originalFilename string) (string, error) {
	filename := imageFilename(nameHint, originalFilename)
	path := filepath.Join(l.dir, filename)

	file, err := os.Create(path)
	if err != nil {
		l.logger.Error().Err(err).Str("path", path).Msg("failed to create image file")
		return "", fmt.Errorf("failed to create image file %s: %w", path, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, r); err != nil {
		l.logger.Error().Err(err).Str("path", path).Msg("failed to write image file")
		return "", fmt.Errorf("failed to write image file %s: %w", path, err)
	}

	l.logger.Info().Str("path", path).Msg("image stored")

	return "/static/images/" + filename, nil
}

// fallbackStore tries S3 first and falls back to the local filesystem.
type fallbackStore struct {
	s3Store    Store
	localStore Store
	s3Enabled  bool
	logger     zerolog.Logger
}

// NewFallbackStore creates a store that prefers S3 when it is enabled and
// configured, falling back to the local filesystem otherwise. If s3Store
// is nil only the local store is used.
func NewFallbackStore(s3Store, localStore Store, s3Enabled bool, logger zerolog.Logger) Store {
	return &fallbackStore{
		s3Store:    s3Store,
		localStore: localStore,
		s3Enabled:  s3Enabled,
		logger:     logger.With().Str("component", "fallback-image-store").Logger(),
	}
}

func (f *fallbackStore) Save(ctx context.Context, r io.Reader, nameHint, originalFilename string) (string, error) {
	if f.s3Enabled && f.s3Store != nil {
		url, err := f.s3Store.Save(ctx, r, nameHint, originalFilename)
		if err == nil {
			return url, nil
		}
		f.logger.Warn().Err(err).Msg("failed to store image in S3, falling back to local filesystem")
		// The reader may be partially consumed after a failed upload, so
		// the fallback only works when the caller can re-send. Seekable
		// readers are rewound here.
		if seeker, ok := r.(io.Seeker); ok {
			if _, seekErr := seeker.Seek(0, io.SeekStart); seekErr != nil {
				return "", fmt.Errorf("failed to rewind image after S3 failure: %w", seekErr)
			}
		}
	}

	return f.localStore.Save(ctx, r, nameHint, originalFilename)
}
