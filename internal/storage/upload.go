package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var (
	ErrFileTooLarge = errors.New("file size exceeds limit")
	ErrInvalidImage = errors.New("only jpeg, jpg, png and gif images are allowed")
)

// PublicPrefix is the URL path under which stored images are served.
const PublicPrefix = "/uploads/"

// sniffLen is how many leading bytes are inspected to detect the content type.
const sniffLen = 3072

var allowedImages = map[string]string{
	".jpeg": "image/jpeg",
	".jpg":  "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
}

// Uploader validates images and writes them to an ImageStore.
type Uploader struct {
	store   ImageStore
	maxSize int64
}

// NewUploader creates an Uploader accepting images up to maxSize bytes.
func NewUploader(store ImageStore, maxSize int64) *Uploader {
	return &Uploader{store: store, maxSize: maxSize}
}

// Store returns the underlying ImageStore.
func (u *Uploader) Store() ImageStore { return u.store }

// SaveImage checks size, extension and sniffed type of the uploaded file, stores it under a
// fresh name prefixed with kind and returns its public path.
func (u *Uploader) SaveImage(ctx context.Context, kind string, fh *multipart.FileHeader) (string, error) {
	if fh.Size > u.maxSize {
		return "", ErrFileTooLarge
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := allowedImages[ext]; !ok {
		return "", ErrInvalidImage
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	head = head[:n]

	mime := mimetype.Detect(head)
	if !isAllowedImage(mime) {
		return "", ErrInvalidImage
	}

	name := fmt.Sprintf("%s-%s%s", kind, uuid.NewString(), ext)
	body := io.MultiReader(bytes.NewReader(head), src)
	if err := u.store.Save(ctx, name, body, fh.Size, mime.String()); err != nil {
		return "", err
	}
	return PublicPrefix + name, nil
}

// Remove deletes a previously stored image given its public path. Unknown paths are ignored.
func (u *Uploader) Remove(ctx context.Context, publicPath string) error {
	name, ok := strings.CutPrefix(publicPath, PublicPrefix)
	if !ok {
		return nil
	}
	if err := u.store.Delete(ctx, name); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// ContentType returns the MIME type served for a stored image name.
func ContentType(name string) string {
	if ct, ok := allowedImages[strings.ToLower(filepath.Ext(name))]; ok {
		return ct
	}
	return "application/octet-stream"
}

func isAllowedImage(mime *mimetype.MIME) bool {
	for _, want := range allowedImages {
		if mime.Is(want) {
			return true
		}
	}
	return false
}
