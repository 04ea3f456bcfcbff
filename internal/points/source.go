// Package points loads the input coordinate table from a local file or S3
// and parses it into an ordered point set.
package points

import (
	"context"
	"io"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/npidgeon/Heatmap/internal/config"
)

// Source yields the raw CSV bytes of the coordinate table.
type Source interface {
	// Open returns the CSV body. Caller closes.
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FileSource reads the table from the local filesystem.
type FileSource struct {
	Path string
}

// Open opens the local CSV file.
func (s FileSource) Open(_ context.Context) (io.ReadCloser, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, eris.Wrapf(err, "points: open csv %s", s.Path)
	}
	return f, nil
}

// S3Source reads the table from an S3 object using static credentials.
type S3Source struct {
	Bucket string
	Key    string
	client *s3.Client
}

// NewS3Source builds an S3 source from configuration. All of bucket, key,
// and both credential halves must be present.
func NewS3Source(ctx context.Context, awsCfg config.AWSConfig, s3Cfg config.S3Config) (*S3Source, error) {
	if awsCfg.AccessKeyID == "" || awsCfg.SecretAccessKey == "" || s3Cfg.BucketName == "" || s3Cfg.FileKey == "" {
		return nil, eris.New("points: missing required AWS environment variables for S3 access")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(awsCfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(awsCfg.AccessKeyID, awsCfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, eris.Wrap(err, "points: load AWS config")
	}

	return &S3Source{
		Bucket: s3Cfg.BucketName,
		Key:    s3Cfg.FileKey,
		client: s3.NewFromConfig(cfg),
	}, nil
}

// Open fetches the object body from S3.
func (s *S3Source) Open(ctx context.Context) (io.ReadCloser, error) {
	zap.L().Info("fetching source data from S3",
		zap.String("bucket", s.Bucket),
		zap.String("key", s.Key),
	)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, eris.Wrapf(err, "points: get s3://%s/%s", s.Bucket, s.Key)
	}
	return out.Body, nil
}
