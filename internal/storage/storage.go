// Package storage archives originals and composed artifacts, either on the
// local filesystem or in an S3 bucket. Objects are named by content hash.
package storage

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strings"
	"time"

	"legal-assistant/config"
)

// Object describes a stored blob.
type Object struct {
	// Path is a filesystem path or an s3://bucket/key URI.
	Path   string `json:"path"`
	SHA256 string `json:"sha256"`
	Size   int64  `json:"size"`
}

// Store persists blobs under a prefix such as "documents" or "artifacts".
type Store interface {
	Put(ctx context.Context, prefix, filename, contentType string, data []byte) (Object, error)
	// URL returns a link a client can fetch the object at path from.
	URL(ctx context.Context, path string) (string, error)
}

// New returns an S3 store when a bucket is configured, else a local one.
func New(cfg config.Config) Store {
	if strings.TrimSpace(cfg.S3.Bucket) != "" {
		return NewS3(cfg.S3.Bucket, time.Duration(cfg.S3.PresignTTL)*time.Second)
	}
	return NewLocal(cfg.S3.LocalDir)
}

// objectName is the hash of data plus the lower-cased extension of filename,
// ".pdf" when there is none.
func objectName(filename string, data []byte) (name, sum string) {
	h := sha256.Sum256(data)
	sum = hex.EncodeToString(h[:])
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = ".pdf"
	}
	return sum + ext, sum
}
