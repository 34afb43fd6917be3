package port

import (
	"context"
	"io"
)

// UploadInput describes one final presentation file to store. Key is the
// object key under Bucket, e.g. final/{abstractID}/{uuid}.pdf. A Size of -1
// means the length is unknown and the provider streams the body.
type UploadInput struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
}

// UploadOutput is what the provider reports for a stored final file.
type UploadOutput struct {
	Location string
	ETag     string
}

// ObjectStorage holds final presentation uploads. It is backed by S3 or MinIO.
// Delete removes an object whose abstract row could not be marked
// final_submitted. GetPresignedURL hands reviewers a time-limited download link.
type ObjectStorage interface {
	Upload(ctx context.Context, input UploadInput) (*UploadOutput, error)
	Delete(ctx context.Context, bucket, key string) error
	GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error)
}
