package archive

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/bbernstein/precipexport/internal/config"
	"github.com/rs/zerolog/log"
)

// NewS3Client creates an S3 client. A configured endpoint selects a local or
// S3-compatible store with path-style addressing.
func NewS3Client(ctx context.Context, cfg *config.ArchiveConfig) (*s3.Client, error) {
	var loadOptions []func(*awsconfig.LoadOptions) error

	if cfg.Region != "" {
		loadOptions = append(loadOptions, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	if cfg.Endpoint != "" {
		log.Debug().Str("endpoint", cfg.Endpoint).Msg("Using custom S3 endpoint")
		if cfg.Region == "" {
			loadOptions = append(loadOptions, awsconfig.WithRegion("us-east-1"))
		}
		loadOptions = append(loadOptions, awsconfig.WithClientLogMode(aws.LogRetries))

		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
		if err != nil {
			return nil, err
		}

		return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(awsCfg), nil
}
