package flags

import (
	"context"

	"github.com/spf13/pflag"

	configv1 "github.com/openshift/pr-report/pkg/apis/config/v1"
	"github.com/openshift/pr-report/pkg/storage"
)

// StorageFlags select the bucket reports are published to. No bucket means no publishing.
type StorageFlags struct {
	Backend   string `flag:"storage" validate:"oneof=s3 gcs"`
	Bucket    string `flag:"bucket"`
	AWSRegion string `flag:"aws-region"`
}

func NewStorageFlags() *StorageFlags {
	return &StorageFlags{
		Backend: storage.BackendS3,
	}
}

func (f *StorageFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Backend, "storage", f.Backend, "Storage backend for published reports: {s3,gcs}")
	fs.StringVar(&f.Bucket, "bucket", f.Bucket, "Bucket to upload the report to, the report is only written locally when empty")
	fs.StringVar(&f.AWSRegion, "aws-region", f.AWSRegion, "AWS region for S3 and SNS, defaults to the AWS SDK's own resolution")
}

func (f *StorageFlags) ApplyConfig(cfg *configv1.ReportConfig, fs *pflag.FlagSet) {
	if cfg.Storage.Backend != "" && !fs.Changed("storage") {
		f.Backend = cfg.Storage.Backend
	}
	if cfg.Storage.Bucket != "" && !fs.Changed("bucket") {
		f.Bucket = cfg.Storage.Bucket
	}
	if cfg.Storage.AWSRegion != "" && !fs.Changed("aws-region") {
		f.AWSRegion = cfg.Storage.AWSRegion
	}
}

// GetBucket returns nil when no bucket was configured.
func (f *StorageFlags) GetBucket(ctx context.Context, google *GoogleCloudFlags) (storage.Bucket, error) {
	if f.Bucket == "" {
		return nil, nil
	}
	if f.Backend == storage.BackendGCS {
		return storage.NewGCSBucket(ctx, f.Bucket, google.ServiceAccountCredentialFile)
	}
	return storage.NewS3Bucket(ctx, f.Bucket, f.AWSRegion)
}
