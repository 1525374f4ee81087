package storage

import (
	"context"
	"fmt"
	"io"
	"os"

	gcs "cloud.google.com/go/storage"
	"github.com/pkg/errors"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	v1 "github.com/openshift/pr-report/pkg/apis/report/v1"
)

type GCSBucket struct {
	name string
	bkt  *gcs.BucketHandle
}

// NewGCSBucket authenticates with a service account file when one is given and with
// application default credentials otherwise.
func NewGCSBucket(ctx context.Context, name, serviceAccountCredentialFile string) (*GCSBucket, error) {
	var opts []option.ClientOption
	if serviceAccountCredentialFile != "" {
		opts = append(opts, option.WithCredentialsFile(serviceAccountCredentialFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "could not create GCS client")
	}
	return &GCSBucket{name: name, bkt: client.Bucket(name)}, nil
}

func (b *GCSBucket) Name() string {
	return b.name
}

func (b *GCSBucket) Upload(ctx context.Context, localPath, key, contentType string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", errors.Wrapf(err, "could not open %s", localPath)
	}
	defer f.Close()

	w := b.bkt.Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, f); err != nil {
		w.Close()
		return "", errors.Wrapf(err, "error uploading to GCS bucket %s", b.name)
	}
	if err := w.Close(); err != nil {
		return "", errors.Wrapf(err, "error uploading to GCS bucket %s", b.name)
	}
	return b.ObjectURL(key), nil
}

func (b *GCSBucket) PutObject(ctx context.Context, key string, content []byte, contentType string) error {
	w := b.bkt.Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(content); err != nil {
		w.Close()
		return errors.Wrapf(err, "error writing gs://%s/%s", b.name, key)
	}
	return errors.Wrapf(w.Close(), "error writing gs://%s/%s", b.name, key)
}

func (b *GCSBucket) ListObjects(ctx context.Context, prefix string) ([]v1.ObjectMetadata, error) {
	var objects []v1.ObjectMetadata
	it := b.bkt.Objects(ctx, &gcs.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "error listing gs://%s/%s", b.name, prefix)
		}
		objects = append(objects, v1.ObjectMetadata{
			Key:          attrs.Name,
			Size:         attrs.Size,
			LastModified: attrs.Updated,
		})
	}
	return objects, nil
}

func (b *GCSBucket) ObjectURL(key string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", b.name, key)
}

// WebsiteURL points at the index page, GCS serves public objects without a website endpoint.
func (b *GCSBucket) WebsiteURL() string {
	return b.ObjectURL("index.html")
}
