package service

import (
	"context"
	"log/slog"
	"mime/multipart"
)

// ImageUploader stores uploaded images and returns their public path.
type ImageUploader interface {
	SaveImage(ctx context.Context, kind string, fh *multipart.FileHeader) (string, error)
	Remove(ctx context.Context, publicPath string) error
}

// saveOptional stores fh when present and returns a pointer to its public path, or nil.
func saveOptional(ctx context.Context, up ImageUploader, kind string, fh *multipart.FileHeader) (*string, error) {
	if fh == nil {
		return nil, nil
	}
	path, err := up.SaveImage(ctx, kind, fh)
	if err != nil {
		return nil, err
	}
	return &path, nil
}

// discardImage removes an image whose owning record was never written.
func discardImage(ctx context.Context, up ImageUploader, log *slog.Logger, path string) {
	if err := up.Remove(ctx, path); err != nil {
		log.WarnContext(ctx, "failed to remove orphaned image", "path", path, "error", err)
	}
}
