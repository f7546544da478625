// Package s3 resolves staged attachments to durable S3 object URLs.
package s3

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

const keyPrefix = "attachments/"

// Uploader pushes staged files to an S3 bucket. The staged file's random
// name becomes the object key, so keys are collision-free without extra
// bookkeeping.
type Uploader struct {
	uploader *s3manager.Uploader
	bucket   string
}

func New(bucket, region string) (*Uploader, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("aws session: %w", err)
	}
	return &Uploader{
		uploader: s3manager.NewUploader(sess),
		bucket:   bucket,
	}, nil
}

// Resolve uploads the staged file and returns the object URL. The caller
// removes the staged file whether or not the upload succeeds.
func (u *Uploader) Resolve(ctx context.Context, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("open staged file: %w", err)
	}
	defer f.Close()

	key := keyPrefix + filepath.Base(localPath)

	out, err := u.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType(localPath)),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return out.Location, nil
}

func contentType(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
