package pkg

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
)

var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

// UploadPolicy 单次上传的文件限制
type UploadPolicy struct {
	MaxBytes   int64
	AllowVideo bool
}

type UploadedMedia struct {
	Asset
	Kind MediaKind
}

// Uploader 先落临时文件再上传，无论成败都删除临时文件
type Uploader struct {
	Store   BlobStore
	TempDir string
}

func NewUploader(store BlobStore, tempDir string) *Uploader {
	return &Uploader{Store: store, TempDir: tempDir}
}

func classify(fh *multipart.FileHeader, p UploadPolicy) (MediaKind, error) {
	ct := strings.ToLower(fh.Header.Get("Content-Type"))
	switch {
	case imageTypes[ct]:
		if p.MaxBytes > 0 && fh.Size > p.MaxBytes {
			return "", ErrValidation.With(fmt.Sprintf("file %q exceeds %d bytes", fh.Filename, p.MaxBytes))
		}
		return MediaImage, nil
	case p.AllowVideo && strings.HasPrefix(ct, "video/"):
		return MediaVideo, nil
	default:
		return "", ErrValidation.With(fmt.Sprintf("file %q has unsupported type %q", fh.Filename, ct))
	}
}

func (u *Uploader) Upload(ctx context.Context, fh *multipart.FileHeader, p UploadPolicy) (*UploadedMedia, error) {
	kind, err := classify(fh, p)
	if err != nil {
		return nil, err
	}

	path, err := u.stage(fh)
	if path != "" {
		defer func() {
			if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
				slog.Warn("temp file cleanup failed", "path", path, "err", rmErr)
			}
		}()
	}
	if err != nil {
		return nil, ErrInternal.With("failed to stage upload").Wrap(err)
	}

	asset, err := u.Store.Upload(ctx, path)
	if err != nil {
		return nil, err
	}
	return &UploadedMedia{Asset: *asset, Kind: kind}, nil
}

// UploadAll 任一失败则回滚已上传的文件
func (u *Uploader) UploadAll(ctx context.Context, files []*multipart.FileHeader, p UploadPolicy) ([]UploadedMedia, error) {
	for _, fh := range files {
		if _, err := classify(fh, p); err != nil {
			return nil, err
		}
	}
	out := make([]UploadedMedia, 0, len(files))
	for _, fh := range files {
		m, err := u.Upload(ctx, fh, p)
		if err != nil {
			ids := make([]string, 0, len(out))
			for _, done := range out {
				ids = append(ids, done.PublicID)
			}
			u.Discard(ctx, ids...)
			return nil, err
		}
		out = append(out, *m)
	}
	return out, nil
}

// Discard 尽力删除对象，失败只记录日志
func (u *Uploader) Discard(ctx context.Context, publicIDs ...string) {
	for _, id := range publicIDs {
		if id == "" {
			continue
		}
		if err := u.Store.Delete(ctx, id); err != nil {
			slog.Warn("orphaned media needs manual cleanup", "public_id", id, "err", err)
		}
	}
}

func (u *Uploader) stage(fh *multipart.FileHeader) (string, error) {
	if err := os.MkdirAll(u.TempDir, 0o755); err != nil {
		return "", err
	}
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	path := filepath.Join(u.TempDir, uuid.NewString()+filepath.Ext(fh.Filename))
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err = io.Copy(dst, src); err != nil {
		dst.Close()
		return path, err
	}
	return path, dst.Close()
}
