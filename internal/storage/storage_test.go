package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func TestLocalStore_SaveOpenDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(filepath.Join(dir, "uploads"))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "car-1.png", bytes.NewReader(pngHeader), int64(len(pngHeader)), "image/png"))

	rc, err := store.Open(ctx, "car-1.png")
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, pngHeader, got)

	require.NoError(t, store.Delete(ctx, "car-1.png"))
	_, err = store.Open(ctx, "car-1.png")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStore_RejectsTraversal(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Open(context.Background(), "../etc/passwd")
	assert.ErrorIs(t, err, ErrNotFound)
	err = store.Save(context.Background(), "a/b.png", strings.NewReader("x"), 1, "")
	assert.Error(t, err)
}

func TestUploader_SaveImage(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)
	up := NewUploader(store, 5*1024*1024)

	path, err := up.SaveImage(context.Background(), "opinion", fileHeader(t, "me.PNG", pngHeader))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "/uploads/opinion-"))
	assert.True(t, strings.HasSuffix(path, ".png"))

	saved, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(path, PublicPrefix)))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, saved)

	require.NoError(t, up.Remove(context.Background(), path))
	_, err = os.Stat(filepath.Join(dir, strings.TrimPrefix(path, PublicPrefix)))
	assert.True(t, os.IsNotExist(err))
}

func TestUploader_SaveImage_Rejections(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	tests := []struct {
		name     string
		maxSize  int64
		filename string
		content  []byte
		wantErr  error
	}{
		{"too large", 10, "big.png", pngHeader, ErrFileTooLarge},
		{"bad extension", 1 << 20, "doc.pdf", pngHeader, ErrInvalidImage},
		{"extension lies about content", 1 << 20, "fake.jpg", []byte("just some plain text"), ErrInvalidImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := NewUploader(store, tt.maxSize)
			_, err := up.SaveImage(context.Background(), "car", fileHeader(t, tt.filename, tt.content))
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

type mockMinio struct {
	mock.Mock
}

func (m *mockMinio) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *mockMinio) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return m.Called(ctx, bucketName, opts).Error(0)
}

func (m *mockMinio) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *mockMinio) GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (io.ReadCloser, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

func (m *mockMinio) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	return args.Get(0).(minio.ObjectInfo), args.Error(1)
}

func (m *mockMinio) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return m.Called(ctx, bucketName, objectName, opts).Error(0)
}

func TestMinioStore_CreatesMissingBucket(t *testing.T) {
	api := &mockMinio{}
	ctx := context.Background()
	api.On("BucketExists", ctx, "imgs").Return(false, nil)
	api.On("MakeBucket", ctx, "imgs", minio.MakeBucketOptions{}).Return(nil)

	_, err := newMinioStoreWithAPI(ctx, api, "imgs")

	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestMinioStore_BucketCheckFails(t *testing.T) {
	api := &mockMinio{}
	ctx := context.Background()
	api.On("BucketExists", ctx, "imgs").Return(false, errors.New("unreachable"))

	_, err := newMinioStoreWithAPI(ctx, api, "imgs")

	assert.Error(t, err)
	api.AssertNotCalled(t, "MakeBucket", mock.Anything, mock.Anything, mock.Anything)
}

func TestMinioStore_SaveAndOpen(t *testing.T) {
	api := &mockMinio{}
	ctx := context.Background()
	api.On("BucketExists", ctx, "imgs").Return(true, nil)
	api.On("PutObject", ctx, "imgs", "car-x.png", mock.Anything, int64(4), minio.PutObjectOptions{ContentType: "image/png"}).
		Return(minio.UploadInfo{}, nil)
	api.On("StatObject", ctx, "imgs", "car-x.png", minio.StatObjectOptions{}).Return(minio.ObjectInfo{}, nil)
	api.On("GetObject", ctx, "imgs", "car-x.png", minio.GetObjectOptions{}).
		Return(io.NopCloser(strings.NewReader("data")), nil)

	store, err := newMinioStoreWithAPI(ctx, api, "imgs")
	require.NoError(t, err)

	require.NoError(t, store.Save(ctx, "car-x.png", strings.NewReader("data"), 4, "image/png"))
	rc, err := store.Open(ctx, "car-x.png")
	require.NoError(t, err)
	b, _ := io.ReadAll(rc)
	assert.Equal(t, "data", string(b))
	api.AssertExpectations(t)
}

func TestMinioStore_OpenMissing(t *testing.T) {
	api := &mockMinio{}
	ctx := context.Background()
	api.On("BucketExists", ctx, "imgs").Return(true, nil)
	api.On("StatObject", ctx, "imgs", "nope.png", minio.StatObjectOptions{}).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})

	store, err := newMinioStoreWithAPI(ctx, api, "imgs")
	require.NoError(t, err)

	_, err = store.Open(ctx, "nope.png")
	assert.ErrorIs(t, err, ErrNotFound)
	api.AssertNotCalled(t, "GetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
