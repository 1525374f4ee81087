package fetcher

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/openshift/pr-report/pkg/analysis"
	v1 "github.com/openshift/pr-report/pkg/apis/report/v1"
	"github.com/openshift/pr-report/pkg/metrics"
)

const (
	DefaultLimit = 100
	DefaultDays  = 32

	// AnalysisPause is slept after every analyzed pull request to stay under the
	// repository service's secondary rate limits.
	AnalysisPause = 500 * time.Millisecond
)

// RepositoryService is the part of the remote repository API the orchestrator needs.
type RepositoryService interface {
	analysis.FileLister
	GetRepository(ctx context.Context, fullName string) (*v1.Repository, error)
	ListPullRequests(ctx context.Context, repo *v1.Repository, state string, page int) ([]v1.PullRequestRecord, int, error)
	GetPullRequest(ctx context.Context, repo *v1.Repository, number int) (*v1.PullRequestRecord, error)
}

type Options struct {
	Repositories []string
	State        string
	Days         int
	Limit        int
	Analyze      bool
}

// Orchestrator walks the configured repositories one at a time and collects pull request
// records. A failing repository is logged and skipped, its error is kept for Errors().
type Orchestrator struct {
	service  RepositoryService
	progress io.Writer
	now      func() time.Time
	pause    func(time.Duration)
	errs     []error
}

func New(service RepositoryService, progress io.Writer) *Orchestrator {
	if progress == nil {
		progress = io.Discard
	}
	return &Orchestrator{
		service:  service,
		progress: progress,
		now:      time.Now,
		pause:    time.Sleep,
	}
}

// Run returns the records of every repository that could be processed, in repository order
// and, within a repository, newest first.
func (o *Orchestrator) Run(ctx context.Context, opts Options) []v1.PullRequestRecord {
	start := time.Now()
	defer metrics.ObserveStage("fetch", start)

	if opts.Limit <= 0 {
		opts.Limit = DefaultLimit
	}
	cutoff := o.now().UTC().Add(-time.Duration(opts.Days) * 24 * time.Hour)

	var all []v1.PullRequestRecord
	for _, name := range UniqueRepositories(opts.Repositories) {
		fmt.Fprintf(o.progress, "Reviewing repository %s\n", name)

		records, err := o.fetchRepository(ctx, name, opts, cutoff)
		if err != nil {
			repoErr := v1.NewError(v1.ErrorKindRepository, name, err)
			log.WithError(err).WithField("repo", name).Error("error processing repository")
			metrics.RepositoryErrors.WithLabelValues(name).Inc()
			o.errs = append(o.errs, repoErr)
			continue
		}
		all = append(all, records...)
	}
	return all
}

// Errors returns the per-repository failures of the last Run.
func (o *Orchestrator) Errors() []error {
	return o.errs
}

func (o *Orchestrator) fetchRepository(ctx context.Context, name string, opts Options, cutoff time.Time) ([]v1.PullRequestRecord, error) {
	repo, err := o.service.GetRepository(ctx, name)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(o.progress, "Connected to repository: %s\n", repo.FullName)
	fmt.Fprintf(o.progress, "Processing up to %d pull requests with state '%s'...\n", opts.Limit, opts.State)

	logger := log.WithField("repo", repo.FullName).WithField("state", opts.State)

	var records []v1.PullRequestRecord
	page := 0
	for {
		summaries, next, err := o.service.ListPullRequests(ctx, repo, opts.State, page)
		if err != nil {
			return nil, err
		}

		for _, summary := range summaries {
			if len(records) >= opts.Limit {
				fmt.Fprintf(o.progress, "Limit of %d PRs reached. Use --limit to increase.\n", opts.Limit)
				return records, nil
			}
			// listing is sorted newest first, everything after this is older too
			if summary.CreatedAt.Before(cutoff) {
				logger.Debugf("PR #%d created %s is before cutoff %s", summary.Number, summary.CreatedAt, cutoff)
				return records, nil
			}

			fmt.Fprintf(o.progress, "Processing PR #%d (%d/%d)\n", summary.Number, len(records)+1, opts.Limit)
			record, err := o.service.GetPullRequest(ctx, repo, summary.Number)
			if err != nil {
				return nil, err
			}
			record.Repo = name

			if opts.Analyze {
				record.Analysis = analysis.AnalyzePullRequest(ctx, o.service, repo, record.Number)
				o.pause(AnalysisPause)
			}

			records = append(records, *record)
			metrics.PullRequestsProcessed.WithLabelValues(name).Inc()
		}

		if next == 0 {
			return records, nil
		}
		page = next
	}
}

// UniqueRepositories trims names and drops blanks and repeats, keeping first-seen order.
func UniqueRepositories(repositories []string) []string {
	seen := sets.New[string]()
	var unique []string
	for _, r := range repositories {
		r = strings.TrimSpace(r)
		if r == "" || seen.Has(r) {
			continue
		}
		seen.Insert(r)
		unique = append(unique, r)
	}
	return unique
}
