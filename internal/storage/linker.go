// Package storage turns document and payment proof references into links
// an admin can open.
package storage

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Linker resolves a stored reference. An empty reference resolves to "".
type Linker interface {
	Link(ctx context.Context, ref string) (string, error)
}

func isAbsoluteURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

// PassthroughLinker serves absolute URLs as they are and resolves relative
// references against BaseURL, usually the backend's upload host.
type PassthroughLinker struct {
	BaseURL string
}

func (p PassthroughLinker) Link(_ context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || isAbsoluteURL(ref) || p.BaseURL == "" {
		return ref, nil
	}
	return strings.TrimRight(p.BaseURL, "/") + "/" + strings.TrimLeft(ref, "/"), nil
}

type MinioOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
	Region    string
	LinkTTL   time.Duration
}

// MinioLinker presigns object keys in one bucket. Absolute URLs are passed
// through untouched.
type MinioLinker struct {
	client *minio.Client
	bucket string
	ttl    time.Duration
}

// NewMinioLinker builds the client without contacting the server; with a
// fixed Region presigning is purely local.
func NewMinioLinker(opts MinioOptions) (*MinioLinker, error) {
	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
		},
	}
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure:    opts.UseSSL,
		Region:    opts.Region,
		Transport: transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}
	ttl := opts.LinkTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &MinioLinker{client: client, bucket: opts.Bucket, ttl: ttl}, nil
}

func (l *MinioLinker) Link(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" || isAbsoluteURL(ref) {
		return ref, nil
	}
	key := strings.TrimPrefix(strings.TrimLeft(ref, "/"), l.bucket+"/")
	u, err := l.client.PresignedGetObject(ctx, l.bucket, key, l.ttl, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign %s: %w", key, err)
	}
	return u.String(), nil
}
