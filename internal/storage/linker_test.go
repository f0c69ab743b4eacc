package storage

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassthroughLinker(t *testing.T) {
	l := PassthroughLinker{BaseURL: "http://backend.test/"}
	ctx := context.Background()

	tests := map[string]string{
		"":                       "",
		"https://cdn.test/a.jpg": "https://cdn.test/a.jpg",
		"/uploads/kk/7.pdf":      "http://backend.test/uploads/kk/7.pdf",
		"uploads/proof/8.jpg":    "http://backend.test/uploads/proof/8.jpg",
	}
	for ref, want := range tests {
		got, err := l.Link(ctx, ref)
		require.NoError(t, err)
		assert.Equal(t, want, got, ref)
	}

	got, err := PassthroughLinker{}.Link(ctx, "relative.jpg")
	require.NoError(t, err)
	assert.Equal(t, "relative.jpg", got)
}

func newTestMinioLinker(t *testing.T) *MinioLinker {
	t.Helper()
	l, err := NewMinioLinker(MinioOptions{
		Endpoint:  "localhost:9000",
		AccessKey: "minio",
		SecretKey: "minio123",
		Bucket:    "admission-documents",
		Region:    "us-east-1",
		LinkTTL:   10 * time.Minute,
	})
	require.NoError(t, err)
	return l
}

func TestMinioLinker_Presigns(t *testing.T) {
	l := newTestMinioLinker(t)

	link, err := l.Link(context.Background(), "/admission-documents/kk/7.pdf")
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/admission-documents/kk/7.pdf", u.Path)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
}

func TestMinioLinker_PassesAbsoluteAndEmpty(t *testing.T) {
	l := newTestMinioLinker(t)

	got, err := l.Link(context.Background(), "https://cdn.test/photo.png")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/photo.png", got)

	got, err = l.Link(context.Background(), "  ")
	require.NoError(t, err)
	assert.Empty(t, got)
}
