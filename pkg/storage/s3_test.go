package storage

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	putObject     func(*s3.PutObjectInput) (*s3.PutObjectOutput, error)
	listObjectsV2 func(*s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error)
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	return f.putObject(in)
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	return f.listObjectsV2(in)
}

type fakeUploader struct {
	upload func(*s3.PutObjectInput) (*manager.UploadOutput, error)
}

func (f *fakeUploader) Upload(_ context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	return f.upload(in)
}

func TestS3URLs(t *testing.T) {
	b := &S3Bucket{name: "my-reports", region: "eu-west-1"}
	assert.Equal(t, "https://my-reports.s3.amazonaws.com/reports/2024-01-01/x.pdf", b.ObjectURL("reports/2024-01-01/x.pdf"))
	assert.Equal(t, "https://my-reports.s3-website-eu-west-1.amazonaws.com", b.WebsiteURL())
}

func TestS3Upload(t *testing.T) {
	var got *s3.PutObjectInput
	var body []byte
	b := &S3Bucket{name: "my-reports", region: "us-east-1", uploader: &fakeUploader{
		upload: func(in *s3.PutObjectInput) (*manager.UploadOutput, error) {
			got = in
			var err error
			body, err = io.ReadAll(in.Body)
			return &manager.UploadOutput{}, err
		},
	}}

	url, err := b.Upload(context.Background(), writeReport(t), "reports/2024-01-01/x.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://my-reports.s3.amazonaws.com/reports/2024-01-01/x.pdf", url)
	assert.Equal(t, "my-reports", aws.ToString(got.Bucket))
	assert.Equal(t, "application/pdf", aws.ToString(got.ContentType))
	assert.Equal(t, "%PDF-1.3", string(body))
}

func TestS3UploadFailure(t *testing.T) {
	b := &S3Bucket{name: "my-reports", uploader: &fakeUploader{
		upload: func(*s3.PutObjectInput) (*manager.UploadOutput, error) {
			return nil, fmt.Errorf("AccessDenied")
		},
	}}
	url, err := b.Upload(context.Background(), writeReport(t), "k.pdf", "application/pdf")
	assert.Error(t, err)
	assert.Empty(t, url)
}

func TestS3PutObject(t *testing.T) {
	var got *s3.PutObjectInput
	b := &S3Bucket{name: "my-reports", client: &fakeS3{
		putObject: func(in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
			got = in
			return &s3.PutObjectOutput{}, nil
		},
	}}
	require.NoError(t, b.PutObject(context.Background(), "index.html", []byte("<html>"), "text/html"))
	assert.Equal(t, "index.html", aws.ToString(got.Key))
	assert.Equal(t, "text/html", aws.ToString(got.ContentType))
}

func TestS3ListObjectsPaginates(t *testing.T) {
	modified := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	calls := 0
	b := &S3Bucket{name: "my-reports", client: &fakeS3{
		listObjectsV2: func(in *s3.ListObjectsV2Input) (*s3.ListObjectsV2Output, error) {
			calls++
			assert.Equal(t, "reports/2024-01-01/", aws.ToString(in.Prefix))
			if in.ContinuationToken == nil {
				return &s3.ListObjectsV2Output{
					Contents:              []types.Object{{Key: aws.String("reports/2024-01-01/a.pdf"), Size: aws.Int64(10), LastModified: aws.Time(modified)}},
					IsTruncated:           aws.Bool(true),
					NextContinuationToken: aws.String("next"),
				}, nil
			}
			return &s3.ListObjectsV2Output{
				Contents:    []types.Object{{Key: aws.String("reports/2024-01-01/b.pdf"), Size: aws.Int64(20)}},
				IsTruncated: aws.Bool(false),
			}, nil
		},
	}}

	objects, err := b.ListObjects(context.Background(), "reports/2024-01-01/")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Len(t, objects, 2)
	assert.Equal(t, "reports/2024-01-01/a.pdf", objects[0].Key)
	assert.Equal(t, int64(10), objects[0].Size)
	assert.Equal(t, modified, objects[0].LastModified)
	assert.Equal(t, int64(20), objects[1].Size)
}
