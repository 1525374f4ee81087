// Package webindex renders the static index page listing the reports held in a bucket.
package webindex

import (
	"bytes"
	"context"
	"html/template"
	"math"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	v1 "github.com/openshift/pr-report/pkg/apis/report/v1"
)

const (
	// LookbackDays is how many daily report folders the index covers.
	LookbackDays = 30

	IndexKey  = "index.html"
	ErrorKey  = "error.html"
	htmlType  = "text/html"
	unknown   = "N/A"
	reportExt = ".pdf"
)

var indexTemplate = template.Must(template.New("index").Parse(indexPage))

// Store is the part of a bucket the index needs.
type Store interface {
	ListObjects(ctx context.Context, prefix string) ([]v1.ObjectMetadata, error)
	PutObject(ctx context.Context, key string, content []byte, contentType string) error
	ObjectURL(key string) string
	WebsiteURL() string
}

type Entry struct {
	Key          string
	Date         string
	Repo         string
	State        string
	URL          string
	Size         int64
	LastModified time.Time
}

func (e Entry) SizeMB() string {
	mb := math.Round(float64(e.Size)/1024/1024*100) / 100
	return strconv.FormatFloat(mb, 'f', 2, 64)
}

func (e Entry) Updated() string {
	return e.LastModified.UTC().Format("2006-01-02 15:04:05")
}

func (e Entry) BadgeClass() string {
	switch e.State {
	case v1.StateOpen, v1.StateClosed, v1.StateAll:
		return "badge-" + e.State
	}
	return "badge-na"
}

// ParseReportName extracts the repository and state from a "<repo>_<state>[_...].pdf" file
// name. Names without an underscore are not ours and report N/A for both.
func ParseReportName(key string) (repo, state string) {
	parts := strings.Split(path.Base(key), "_")
	if len(parts) < 2 {
		return unknown, unknown
	}
	state, _, _ = strings.Cut(parts[1], ".")
	return parts[0], state
}

// Collect lists the reports of the last LookbackDays days, newest first. A day that cannot
// be listed is skipped.
func Collect(ctx context.Context, store Store, now time.Time) []Entry {
	var entries []Entry
	for i := 0; i < LookbackDays; i++ {
		day := now.AddDate(0, 0, -i)
		date := day.Format("2006-01-02")
		prefix := "reports/" + date + "/"

		objects, err := store.ListObjects(ctx, prefix)
		if err != nil {
			log.WithError(err).WithField("prefix", prefix).Warning("could not list reports")
			continue
		}
		for _, obj := range objects {
			if !strings.HasSuffix(obj.Key, reportExt) {
				continue
			}
			repo, state := ParseReportName(obj.Key)
			entries = append(entries, Entry{
				Key:          obj.Key,
				Date:         date,
				Repo:         repo,
				State:        state,
				URL:          store.ObjectURL(obj.Key),
				Size:         obj.Size,
				LastModified: obj.LastModified,
			})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LastModified.After(entries[j].LastModified)
	})
	return entries
}

// Render produces the index page for entries.
func Render(entries []Entry, now time.Time) ([]byte, error) {
	var buf bytes.Buffer
	err := indexTemplate.Execute(&buf, struct {
		Entries      []Entry
		LookbackDays int
		GeneratedAt  string
	}{
		Entries:      entries,
		LookbackDays: LookbackDays,
		GeneratedAt:  now.UTC().Format("2006-01-02 15:04:05 MST"),
	})
	if err != nil {
		return nil, errors.Wrap(err, "error rendering index page")
	}
	return buf.Bytes(), nil
}

// Generate rewrites the index and error pages and returns the website URL.
func Generate(ctx context.Context, store Store, now time.Time) (string, error) {
	entries := Collect(ctx, store, now)
	log.WithField("reports", len(entries)).Debug("regenerating index page")

	page, err := Render(entries, now)
	if err != nil {
		return "", err
	}
	if err := store.PutObject(ctx, IndexKey, page, htmlType); err != nil {
		return "", errors.WithMessage(err, "could not upload index page")
	}
	if err := store.PutObject(ctx, ErrorKey, []byte(errorPage), htmlType); err != nil {
		return "", errors.WithMessage(err, "could not upload error page")
	}
	return store.WebsiteURL(), nil
}
