package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	s3client "legal-assistant/pkg/s3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3 stores blobs in a bucket, creating it on first use. Links are
// presigned GET URLs valid for ttl.
type S3 struct {
	bucket string
	ttl    time.Duration
}

func NewS3(bucket string, ttl time.Duration) *S3 {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &S3{bucket: bucket, ttl: ttl}
}

func (s *S3) Put(ctx context.Context, prefix, filename, contentType string, data []byte) (Object, error) {
	client, err := s3client.GetClient(ctx)
	if err != nil {
		return Object{}, fmt.Errorf("s3 client: %w", err)
	}
	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		_, crtErr := client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
		if crtErr != nil {
			var bErr *s3types.BucketAlreadyOwnedByYou
			if !errors.As(crtErr, &bErr) {
				return Object{}, fmt.Errorf("create bucket: %w", crtErr)
			}
		}
	}

	name, sum := objectName(filename, data)
	key := path.Join(prefix, name)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return Object{}, fmt.Errorf("put object: %w", err)
	}
	return Object{Path: s3client.URI(s.bucket, key), SHA256: sum, Size: int64(len(data))}, nil
}

func (s *S3) URL(ctx context.Context, uri string) (string, error) {
	bucket, key, err := s3client.ParseURI(uri)
	if err != nil {
		return "", err
	}
	presigner, err := s3client.GetPresignClient(ctx)
	if err != nil {
		return "", fmt.Errorf("s3 presign client: %w", err)
	}
	req, err := presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", uri, err)
	}
	return req.URL, nil
}
