package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"

	v1 "github.com/openshift/pr-report/pkg/apis/report/v1"
)

// DefaultRegion is used for website URLs when no region is configured.
const DefaultRegion = "us-east-1"

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

type s3Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

type S3Bucket struct {
	name     string
	region   string
	client   s3API
	uploader s3Uploader
}

// NewS3Bucket uses the default AWS credential chain. An empty region falls back to the
// SDK's own resolution (AWS_REGION, shared config) and then to DefaultRegion.
func NewS3Bucket(ctx context.Context, name, region string) (*S3Bucket, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "could not load AWS configuration")
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}

	client := s3.NewFromConfig(cfg)
	return &S3Bucket{
		name:     name,
		region:   cfg.Region,
		client:   client,
		uploader: manager.NewUploader(client),
	}, nil
}

func (b *S3Bucket) Name() string {
	return b.name
}

func (b *S3Bucket) Upload(ctx context.Context, localPath, key, contentType string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", errors.Wrapf(err, "could not open %s", localPath)
	}
	defer f.Close()

	_, err = b.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.name),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Wrapf(err, "error uploading to S3 bucket %s", b.name)
	}
	return b.ObjectURL(key), nil
}

func (b *S3Bucket) PutObject(ctx context.Context, key string, content []byte, contentType string) error {
	_, err := b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.name),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	return errors.Wrapf(err, "error writing s3://%s/%s", b.name, key)
}

func (b *S3Bucket) ListObjects(ctx context.Context, prefix string) ([]v1.ObjectMetadata, error) {
	var objects []v1.ObjectMetadata
	paginator := s3.NewListObjectsV2Paginator(b.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(b.name),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, errors.Wrapf(err, "error listing s3://%s/%s", b.name, prefix)
		}
		for _, obj := range page.Contents {
			objects = append(objects, v1.ObjectMetadata{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}
	return objects, nil
}

func (b *S3Bucket) ObjectURL(key string) string {
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", b.name, key)
}

func (b *S3Bucket) WebsiteURL() string {
	return fmt.Sprintf("https://%s.s3-website-%s.amazonaws.com", b.name, b.region)
}
