package filesystem

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"hadirin.app/hadirin/attendance/core"
)

// SelfieStore keeps check-in selfies in an S3 bucket with public-read
// objects. Objects are written once and never deleted here; uploads that end
// up unreferenced (record insert failed afterwards) are left for the bucket
// lifecycle rule.
type SelfieStore struct {
	client *s3.Client
	bucket string
	region string
}

func NewSelfieStore(ctx context.Context, bucket, region string) (*SelfieStore, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &SelfieStore{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
	}, nil
}

// UploadPhoto stores the photo under a fresh object name and returns that
// name. The name carries the upload timestamp plus a uuid so concurrent
// check-ins can never collide.
func (s *SelfieStore) UploadPhoto(ctx context.Context, data []byte, contentType string) (string, error) {
	name := objectName(contentType)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(name),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s in bucket %s: %v: %w", name, s.bucket, err, core.ErrUploadFailed)
	}
	return name, nil
}

// PublicURL derives the retrieval URL for an uploaded object. No I/O.
func (s *SelfieStore) PublicURL(name string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, name)
}

func objectName(contentType string) string {
	ext := ".jpg"
	if contentType == "image/png" {
		ext = ".png"
	}
	return fmt.Sprintf("selfie-%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
}
