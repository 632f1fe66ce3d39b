package imagejob

import (
	"bytes"
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pageza/recipesearch/config"
)

// S3Mirror copies fetched cover images into an S3 bucket so re-runs of the
// batch do not depend on the origin site staying up.
type S3Mirror struct {
	s3Config *config.S3Config
}

// NewS3Mirror wraps an S3 configuration as a Mirror.
func NewS3Mirror(s3Config *config.S3Config) *S3Mirror {
	return &S3Mirror{s3Config: s3Config}
}

// UploadImage uploads image data and returns the public URL.
func (m *S3Mirror) UploadImage(ctx context.Context, imageData []byte, fileName string) (string, error) {
	_, err := m.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.s3Config.BucketName),
		Key:         aws.String(fileName),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", m.s3Config.BucketName, fileName)
	log.Printf("[imagejob] mirrored cover to %s", publicURL)
	return publicURL, nil
}
