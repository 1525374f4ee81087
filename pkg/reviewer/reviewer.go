// Package reviewer runs a complete review: fetch pull requests, render the PDF report,
// publish it and announce it.
package reviewer

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	v1 "github.com/openshift/pr-report/pkg/apis/report/v1"
	"github.com/openshift/pr-report/pkg/fetcher"
	"github.com/openshift/pr-report/pkg/metrics"
	"github.com/openshift/pr-report/pkg/report"
)

// Publisher uploads a finished report.
type Publisher interface {
	Publish(ctx context.Context, localPath string) (*v1.PublishedArtifact, error)
}

// Notifier announces a finished report.
type Notifier interface {
	Notify(ctx context.Context, email string, repositories []string, reportPath, url string) error
}

type Options struct {
	fetcher.Options
	// Output is the requested PDF path, report.DefaultOutput is replaced by a derived name.
	Output string
	Email  string
	Notify bool
}

type Result struct {
	Records    int
	ReportPath string
	Pages      int
	// Artifact is nil when the report was not published.
	Artifact *v1.PublishedArtifact
	Notified bool
	// Errors holds the recovered failures of the run, one per failed repository, upload
	// or notification.
	Errors []error
}

// URL is the published report's URL, empty when it was only written locally.
func (r *Result) URL() string {
	if r.Artifact == nil {
		return ""
	}
	return r.Artifact.URL
}

type Reviewer struct {
	service   fetcher.RepositoryService
	publisher Publisher
	notifier  Notifier
	pusher    *metrics.Pusher
	progress  io.Writer
	assembler *report.Assembler
}

// New returns a reviewer that neither publishes nor notifies, see WithPublisher and WithNotifier.
func New(service fetcher.RepositoryService, progress io.Writer) *Reviewer {
	if progress == nil {
		progress = io.Discard
	}
	return &Reviewer{
		service:   service,
		progress:  progress,
		assembler: report.NewAssembler(),
	}
}

func (r *Reviewer) WithPublisher(p Publisher) *Reviewer {
	r.publisher = p
	return r
}

func (r *Reviewer) WithNotifier(n Notifier) *Reviewer {
	r.notifier = n
	return r
}

func (r *Reviewer) WithPusher(p *metrics.Pusher) *Reviewer {
	r.pusher = p
	return r
}

// Run only returns an error when the report could not be written. Repository, upload and
// notification failures are recovered and listed in Result.Errors.
func (r *Reviewer) Run(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	defer r.pusher.Push()

	orchestrator := fetcher.New(r.service, r.progress)
	records := orchestrator.Run(ctx, opts.Options)
	result := &Result{
		Records: len(records),
		Errors:  orchestrator.Errors(),
	}

	log.WithFields(fetcher.Summarize(records).Fields()).
		WithField("failed_repositories", len(result.Errors)).
		Info("pull requests collected")

	if len(records) == 0 {
		fmt.Fprintf(r.progress, "No pull requests with state '%s' found in the last %d days.\n", opts.State, opts.Days)
		return result, nil
	}

	result.ReportPath = report.OutputFilename(opts.Repositories, opts.State, opts.Output)
	doc := r.assembler.Assemble(opts.Repositories, records, opts.Days, opts.State)
	pages, err := report.WriteFile(doc, result.ReportPath)
	if err != nil {
		return result, errors.WithMessagef(err, "could not write report %s", result.ReportPath)
	}
	result.Pages = pages
	fmt.Fprintf(r.progress, "PDF report generated: %s\n", result.ReportPath)

	if r.publisher != nil {
		artifact, err := r.publisher.Publish(ctx, result.ReportPath)
		if err != nil {
			result.Errors = append(result.Errors, err)
		} else {
			result.Artifact = artifact
			fmt.Fprintf(r.progress, "Report uploaded: %s\n", artifact.URL)
		}
	}

	if opts.Notify && opts.Email != "" && r.notifier != nil {
		if err := r.notifier.Notify(ctx, opts.Email, opts.Repositories, result.ReportPath, result.URL()); err != nil {
			log.WithError(err).Error("error sending notification")
			result.Errors = append(result.Errors, err)
		} else {
			result.Notified = true
			fmt.Fprintf(r.progress, "Notification sent to: %s\n", opts.Email)
		}
	}

	log.WithField("report", result.ReportPath).
		WithField("pages", result.Pages).
		WithField("url", result.URL()).
		WithField("notified", result.Notified).
		WithField("elapsed", time.Since(start)).
		Info("review complete")
	return result, nil
}
