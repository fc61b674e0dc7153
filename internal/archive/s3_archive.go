package archive

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"
)

// S3Client defines the interface for S3 operations we need
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archiver mirrors exported files into a bucket under a key prefix
type S3Archiver struct {
	client     S3Client
	bucketName string
	prefix     string
}

func NewS3Archiver(client S3Client, bucketName, prefix string) *S3Archiver {
	return &S3Archiver{
		client:     client,
		bucketName: bucketName,
		prefix:     strings.Trim(prefix, "/"),
	}
}

// Key is the object key a local file is stored under.
func (a *S3Archiver) Key(localPath string) string {
	name := filepath.Base(localPath)
	if a.prefix == "" {
		return name
	}
	return path.Join(a.prefix, name)
}

// Archive uploads the file at localPath and returns its s3:// location.
func (a *S3Archiver) Archive(ctx context.Context, localPath string) (string, error) {
	if a.bucketName == "" {
		return "", fmt.Errorf("empty bucket name")
	}

	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", localPath, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Error().Err(err).Str("path", localPath).Msg("Error closing archived file")
		}
	}()

	key := a.Key(localPath)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucketName),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String("text/csv"),
	})
	if err != nil {
		return "", fmt.Errorf("saving to S3: %w", err)
	}

	location := fmt.Sprintf("s3://%s/%s", a.bucketName, key)
	log.Debug().Str("path", localPath).Str("location", location).Msg("Archived export file")
	return location, nil
}
