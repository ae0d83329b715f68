package pkg

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	calls    int
	failOn   int
	paths    []string
	sawFiles int
	deleted  []string
}

func (f *fakeStore) Upload(_ context.Context, path string) (*Asset, error) {
	f.calls++
	f.paths = append(f.paths, path)
	if _, err := os.Stat(path); err == nil {
		f.sawFiles++
	}
	if f.calls == f.failOn {
		return nil, ErrDependency.With("media upload failed")
	}
	id := fmt.Sprintf("id-%d", f.calls)
	return &Asset{URL: "https://cdn.test/" + id, PublicID: id}, nil
}

func (f *fakeStore) Delete(_ context.Context, publicID string) error {
	f.deleted = append(f.deleted, publicID)
	return nil
}

type part struct {
	name, contentType string
	body              []byte
}

func fileHeaders(t *testing.T, parts ...part) []*multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="media"; filename=%q`, p.name))
		h.Set("Content-Type", p.contentType)
		pw, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = pw.Write(p.body)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["media"]
}

func assertRemoved(t *testing.T, paths []string) {
	t.Helper()
	for _, p := range paths {
		_, err := os.Stat(p)
		assert.True(t, os.IsNotExist(err), "temp file %s left behind", p)
	}
}

func TestUploaderRemovesTempFileOnSuccess(t *testing.T) {
	store := &fakeStore{}
	u := NewUploader(store, t.TempDir())
	files := fileHeaders(t, part{"a.png", "image/png", []byte("png")})

	m, err := u.Upload(context.Background(), files[0], UploadPolicy{MaxBytes: 1 << 10})
	require.NoError(t, err)
	assert.Equal(t, MediaImage, m.Kind)
	assert.Equal(t, "id-1", m.PublicID)
	assert.Equal(t, 1, store.sawFiles)
	assertRemoved(t, store.paths)
}

func TestUploaderRemovesTempFileOnFailure(t *testing.T) {
	store := &fakeStore{failOn: 1}
	u := NewUploader(store, t.TempDir())
	files := fileHeaders(t, part{"a.jpg", "image/jpeg", []byte("jpg")})

	_, err := u.Upload(context.Background(), files[0], UploadPolicy{})
	assert.ErrorIs(t, err, ErrDependency)
	assertRemoved(t, store.paths)
}

func TestUploaderRejectsBadFiles(t *testing.T) {
	store := &fakeStore{}
	u := NewUploader(store, t.TempDir())
	files := fileHeaders(t,
		part{"doc.pdf", "application/pdf", []byte("pdf")},
		part{"big.png", "image/png", bytes.Repeat([]byte("x"), 64)},
		part{"clip.mp4", "video/mp4", []byte("mp4")},
	)

	_, err := u.Upload(context.Background(), files[0], UploadPolicy{})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = u.Upload(context.Background(), files[1], UploadPolicy{MaxBytes: 10})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = u.Upload(context.Background(), files[2], UploadPolicy{})
	assert.ErrorIs(t, err, ErrValidation)

	m, err := u.Upload(context.Background(), files[2], UploadPolicy{AllowVideo: true})
	require.NoError(t, err)
	assert.Equal(t, MediaVideo, m.Kind)
}

func TestUploadAllRollsBackOnFailure(t *testing.T) {
	store := &fakeStore{failOn: 2}
	u := NewUploader(store, t.TempDir())
	files := fileHeaders(t,
		part{"a.png", "image/png", []byte("a")},
		part{"b.png", "image/png", []byte("b")},
	)

	_, err := u.UploadAll(context.Background(), files, UploadPolicy{})
	assert.ErrorIs(t, err, ErrDependency)
	assert.Equal(t, []string{"id-1"}, store.deleted)
	assertRemoved(t, store.paths)
}
