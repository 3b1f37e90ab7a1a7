// Package source turns raw inputs (PDF files, HTML bodies, local or S3
// paths) into plain text for the composer.
package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	s3client "legal-assistant/pkg/s3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func noop() {}

// FetchToLocalTemp copies a local or s3:// file to a temporary path and
// returns it with a cleanup function. The temp file keeps the source
// extension.
func FetchToLocalTemp(ctx context.Context, filePath string) (string, func(), error) {
	pattern := "source-*" + filepath.Ext(filePath)

	var src io.ReadCloser
	if strings.HasPrefix(filePath, "s3://") {
		bucket, key, err := s3client.ParseURI(filePath)
		if err != nil {
			return "", noop, err
		}
		cli, err := s3client.GetClient(ctx)
		if err != nil {
			return "", noop, err
		}
		out, err := cli.GetObject(ctx, &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)})
		if err != nil {
			return "", noop, err
		}
		src = out.Body
	} else {
		abs := filePath
		if !filepath.IsAbs(abs) {
			// allow relative stored paths
			cwd, _ := os.Getwd()
			abs = filepath.Join(cwd, filePath)
		}
		f, err := os.Open(abs)
		if err != nil {
			return "", noop, err
		}
		src = f
	}
	defer src.Close()

	tmp, err := os.CreateTemp("", pattern)
	if err != nil {
		return "", noop, err
	}
	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", noop, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", noop, err
	}
	return tmp.Name(), func() { _ = os.Remove(tmp.Name()) }, nil
}
