// Package r2 lists videos stored in a Cloudflare R2 bucket through its S3
// compatible API.
package r2

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/bnema/vidshelf/internal/domain"
	"github.com/bnema/vidshelf/internal/port"
)

// Region is the only region R2 accepts.
const Region = "auto"

type Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	PublicURL       string
}

func (c Config) Endpoint() string {
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", c.AccountID)
}

func (c Config) Validate() error {
	if c.AccountID == "" || c.AccessKeyID == "" || c.SecretAccessKey == "" {
		return errors.New("r2: account id and credentials are required")
	}
	if c.Bucket == "" {
		return errors.New("r2: bucket name is required")
	}
	return nil
}

// NewClient builds an S3 client pointed at the account's R2 endpoint with
// static credentials.
func NewClient(ctx context.Context, cfg Config) (*s3.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(Region),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load r2 config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint())
		o.UsePathStyle = true
	}), nil
}

type Lister struct {
	client    s3.ListObjectsV2APIClient
	bucket    string
	publicURL string
}

func NewLister(client s3.ListObjectsV2APIClient, bucket, publicURL string) *Lister {
	return &Lister{
		client:    client,
		bucket:    bucket,
		publicURL: publicURL,
	}
}

func (l *Lister) Kind() domain.VideoSourceKind {
	return domain.SourceR2
}

func (l *Lister) URLBase() string {
	return l.publicURL
}

// ListVideos walks every page of the bucket listing.
func (l *Lister) ListVideos(ctx context.Context) ([]domain.ObjectInfo, error) {
	paginator := s3.NewListObjectsV2Paginator(l.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(l.bucket),
	})

	var objects []domain.ObjectInfo
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list bucket %s: %w", l.bucket, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !domain.IsVideoFile(key) {
				continue
			}
			objects = append(objects, domain.ObjectInfo{
				Key:          key,
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}
	return objects, nil
}

var _ port.VideoSource = (*Lister)(nil)
