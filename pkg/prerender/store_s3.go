package prerender

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client the store uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads documents to an S3 bucket for CDN-backed hosting.
//
// The client comes from the caller so credential and region setup
// stay in one place:
//
//	client := s3.New(s3.Options{Region: "us-east-1"})
//	store := prerender.NewS3Store(client, "my-site", "v2/")
type S3Store struct {
	client S3API
	bucket string
	prefix string
}

// NewS3Store creates a store that writes to bucket, with every key
// prefixed by prefix.
func NewS3Store(client S3API, bucket, prefix string) *S3Store {
	return &S3Store{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Store) Put(ctx context.Context, path string, data []byte) error {
	key := s.prefix + path
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("text/html; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("s3 upload of %s failed: %w", key, err)
	}
	return nil
}
