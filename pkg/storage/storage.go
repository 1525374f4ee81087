package storage

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	v1 "github.com/openshift/pr-report/pkg/apis/report/v1"
	"github.com/openshift/pr-report/pkg/metrics"
	"github.com/openshift/pr-report/pkg/webindex"
)

const (
	BackendS3  = "s3"
	BackendGCS = "gcs"

	// ReportsPrefix is where reports are stored, one folder per day.
	ReportsPrefix = "reports/"
)

// Bucket is a storage bucket reports are published to.
type Bucket interface {
	Name() string
	// Upload copies a local file to key and returns its public URL.
	Upload(ctx context.Context, localPath, key, contentType string) (string, error)
	PutObject(ctx context.Context, key string, content []byte, contentType string) error
	ListObjects(ctx context.Context, prefix string) ([]v1.ObjectMetadata, error)
	ObjectURL(key string) string
	WebsiteURL() string
}

// DayPrefix is the folder holding the reports uploaded on day.
func DayPrefix(day time.Time) string {
	return ReportsPrefix + day.Format("2006-01-02") + "/"
}

// ReportKey is "reports/<date>/<base>_<timestamp><ext>", the timestamp keeps repeated runs
// of the same report from overwriting each other.
func ReportKey(localPath string, now time.Time) string {
	name := filepath.Base(localPath)
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)
	return fmt.Sprintf("%s%s_%s%s", DayPrefix(now), base, now.Format("20060102_150405"), ext)
}

func contentType(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return "application/octet-stream"
}

// Publisher uploads reports and keeps the bucket's index page current.
type Publisher struct {
	bucket Bucket
	now    func() time.Time
}

func NewPublisher(bucket Bucket) *Publisher {
	return &Publisher{bucket: bucket, now: time.Now}
}

// Publish uploads the report at localPath. Failures are returned as upload errors, callers
// treat them as "no URL" and carry on. A failure to refresh the index page is only logged.
func (p *Publisher) Publish(ctx context.Context, localPath string) (*v1.PublishedArtifact, error) {
	start := time.Now()
	defer metrics.ObserveStage("publish", start)

	now := p.now()
	key := ReportKey(localPath, now)
	logger := log.WithField("bucket", p.bucket.Name()).WithField("key", key)

	info, err := os.Stat(localPath)
	if err != nil {
		return nil, v1.NewError(v1.ErrorKindUpload, localPath, errors.Wrap(err, "report file not readable"))
	}

	url, err := p.bucket.Upload(ctx, localPath, key, contentType(localPath))
	if err != nil {
		logger.WithError(err).Error("error uploading report")
		return nil, v1.NewError(v1.ErrorKindUpload, localPath, err)
	}
	logger.WithField("url", url).Info("report uploaded")

	website, err := webindex.Generate(ctx, p.bucket, now)
	if err != nil {
		logger.WithError(err).Error("error updating web interface")
	} else {
		logger.WithField("website", website).Info("web interface updated")
	}

	return &v1.PublishedArtifact{
		Bucket:       p.bucket.Name(),
		Key:          key,
		URL:          url,
		Size:         info.Size(),
		LastModified: now,
		Website:      website,
	}, nil
}
