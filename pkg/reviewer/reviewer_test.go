package reviewer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/openshift/pr-report/pkg/apis/report/v1"
	"github.com/openshift/pr-report/pkg/fetcher"
)

type fakeService struct {
	prs     map[string][]v1.PullRequestRecord
	repoErr map[string]error
}

func (f *fakeService) GetRepository(_ context.Context, fullName string) (*v1.Repository, error) {
	if err := f.repoErr[fullName]; err != nil {
		return nil, err
	}
	return &v1.Repository{FullName: fullName}, nil
}

func (f *fakeService) ListPullRequests(_ context.Context, repo *v1.Repository, _ string, _ int) ([]v1.PullRequestRecord, int, error) {
	return f.prs[repo.FullName], 0, nil
}

func (f *fakeService) GetPullRequest(_ context.Context, repo *v1.Repository, number int) (*v1.PullRequestRecord, error) {
	for _, pr := range f.prs[repo.FullName] {
		if pr.Number == number {
			return &pr, nil
		}
	}
	return nil, fmt.Errorf("no PR %d", number)
}

func (f *fakeService) ListFiles(context.Context, *v1.Repository, int) ([]v1.ChangedFile, error) {
	return nil, nil
}

type fakePublisher struct {
	publish func(path string) (*v1.PublishedArtifact, error)
	paths   []string
}

func (f *fakePublisher) Publish(_ context.Context, localPath string) (*v1.PublishedArtifact, error) {
	f.paths = append(f.paths, localPath)
	return f.publish(localPath)
}

type notification struct {
	email string
	repos []string
	path  string
	url   string
}

type fakeNotifier struct {
	err  error
	sent []notification
}

func (f *fakeNotifier) Notify(_ context.Context, email string, repositories []string, reportPath, url string) error {
	f.sent = append(f.sent, notification{email: email, repos: repositories, path: reportPath, url: url})
	return f.err
}

func newService() *fakeService {
	created := time.Now().UTC().Add(-time.Hour)
	return &fakeService{
		prs: map[string][]v1.PullRequestRecord{
			"octocat/hello-world": {
				{Number: 2, Title: "Add docs", Author: "alice", CreatedAt: created, State: "open", Additions: 5, Deletions: 1, ChangedFiles: 1},
				{Number: 1, Title: "Fix bug", Author: "bob", CreatedAt: created.Add(-time.Hour), State: "open", Additions: 3, Deletions: 3, ChangedFiles: 2},
			},
		},
		repoErr: map[string]error{},
	}
}

func options(t *testing.T, repos ...string) Options {
	return Options{
		Options: fetcher.Options{Repositories: repos, State: v1.StateOpen, Days: 7, Limit: 10},
		Output:  filepath.Join(t.TempDir(), "out.pdf"),
	}
}

func TestRunWritesReport(t *testing.T) {
	var progress bytes.Buffer
	opts := options(t, "octocat/hello-world")

	result, err := New(newService(), &progress).Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Records)
	assert.Equal(t, opts.Output, result.ReportPath)
	assert.GreaterOrEqual(t, result.Pages, 1)
	assert.Nil(t, result.Artifact)
	assert.Empty(t, result.URL())
	assert.Empty(t, result.Errors)

	info, err := os.Stat(opts.Output)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
	assert.Contains(t, progress.String(), "PDF report generated: "+opts.Output)
}

func TestRunWithoutRecords(t *testing.T) {
	var progress bytes.Buffer
	opts := options(t, "octocat/empty")
	opts.State = v1.StateClosed

	result, err := New(newService(), &progress).Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Zero(t, result.Records)
	assert.Empty(t, result.ReportPath)
	assert.Contains(t, progress.String(), "No pull requests with state 'closed' found in the last 7 days.")
	_, err = os.Stat(opts.Output)
	assert.True(t, os.IsNotExist(err))
}

func TestRunKeepsGoingAfterRepositoryFailure(t *testing.T) {
	service := newService()
	service.repoErr["octocat/missing"] = fmt.Errorf("repository octocat/missing not found")
	opts := options(t, "octocat/missing", "octocat/hello-world")

	result, err := New(service, nil).Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Records)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, v1.ErrorKindRepository, v1.KindOf(result.Errors[0]))
}

func TestRunPublishesAndNotifies(t *testing.T) {
	publisher := &fakePublisher{publish: func(path string) (*v1.PublishedArtifact, error) {
		return &v1.PublishedArtifact{Key: "reports/x.pdf", URL: "https://bucket/reports/x.pdf"}, nil
	}}
	notifier := &fakeNotifier{}
	opts := options(t, "octocat/hello-world")
	opts.Notify = true
	opts.Email = "dev@example.com"

	result, err := New(newService(), nil).WithPublisher(publisher).WithNotifier(notifier).Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{opts.Output}, publisher.paths)
	assert.Equal(t, "https://bucket/reports/x.pdf", result.URL())
	assert.True(t, result.Notified)
	require.Len(t, notifier.sent, 1)
	assert.Equal(t, notification{
		email: "dev@example.com",
		repos: []string{"octocat/hello-world"},
		path:  opts.Output,
		url:   "https://bucket/reports/x.pdf",
	}, notifier.sent[0])
}

func TestRunUploadFailureNotifiesWithoutURL(t *testing.T) {
	publisher := &fakePublisher{publish: func(string) (*v1.PublishedArtifact, error) {
		return nil, v1.NewError(v1.ErrorKindUpload, "out.pdf", fmt.Errorf("AccessDenied"))
	}}
	notifier := &fakeNotifier{}
	opts := options(t, "octocat/hello-world")
	opts.Notify = true
	opts.Email = "dev@example.com"

	result, err := New(newService(), nil).WithPublisher(publisher).WithNotifier(notifier).Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Nil(t, result.Artifact)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, v1.ErrorKindUpload, v1.KindOf(result.Errors[0]))
	require.Len(t, notifier.sent, 1)
	assert.Empty(t, notifier.sent[0].url)
}

func TestRunNotificationFailure(t *testing.T) {
	notifier := &fakeNotifier{err: v1.NewError(v1.ErrorKindNotification, "dev@example.com", fmt.Errorf("throttled"))}
	opts := options(t, "octocat/hello-world")
	opts.Notify = true
	opts.Email = "dev@example.com"

	result, err := New(newService(), nil).WithNotifier(notifier).Run(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, result.Notified)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, v1.ErrorKindNotification, v1.KindOf(result.Errors[0]))
}

func TestRunSkipsNotificationWithoutEmail(t *testing.T) {
	notifier := &fakeNotifier{}
	opts := options(t, "octocat/hello-world")
	opts.Notify = true

	result, err := New(newService(), nil).WithNotifier(notifier).Run(context.Background(), opts)
	require.NoError(t, err)
	assert.False(t, result.Notified)
	assert.Empty(t, notifier.sent)
}

func TestRunReportWriteFailure(t *testing.T) {
	opts := options(t, "octocat/hello-world")
	opts.Output = filepath.Join(t.TempDir(), "missing-dir", "out.pdf")

	_, err := New(newService(), nil).Run(context.Background(), opts)
	assert.Error(t, err)
}
