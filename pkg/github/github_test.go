package github

import (
	"context"
	"net/http"
	"testing"
	"time"

	gh "github.com/google/go-github/v45/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/openshift/pr-report/pkg/apis/report/v1"
)

const (
	openshift  = "openshift"
	kubernetes = "kubernetes"
)

var testRepo = &v1.Repository{Owner: openshift, Name: kubernetes, FullName: "openshift/kubernetes"}

func notFound() error {
	return &gh.ErrorResponse{
		Response: &http.Response{
			StatusCode: http.StatusNotFound,
			Status:     "Not Found",
		},
	}
}

func TestClient_GetRepository(t *testing.T) {
	fullName := "openshift/kubernetes"
	client := &Client{
		repoFetch: func(_ context.Context, owner, repo string) (*gh.Repository, error) {
			if owner == openshift && repo == kubernetes {
				return &gh.Repository{FullName: &fullName}, nil
			}
			return nil, notFound()
		},
	}

	tests := []struct {
		name        string
		fullName    string
		want        *v1.Repository
		wantErr     bool
		errContains string
	}{
		{
			name:     "existing repository",
			fullName: "openshift/kubernetes",
			want:     &v1.Repository{Owner: openshift, Name: kubernetes, FullName: "openshift/kubernetes"},
		},
		{
			name:        "missing repository",
			fullName:    "openshift/not-exist",
			wantErr:     true,
			errContains: "repository openshift/not-exist not found",
		},
		{
			name:        "malformed name",
			fullName:    "kubernetes",
			wantErr:     true,
			errContains: "expected owner/name",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := client.GetRepository(context.TODO(), tt.fullName)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_ListPullRequests(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	title := "Fix the thing"
	login := "someone"
	number := 42
	state := "open"

	var gotOpts *gh.PullRequestListOptions
	client := &Client{
		pageSize: DefaultPageSize,
		prList: func(_ context.Context, owner, repo string, opts *gh.PullRequestListOptions) ([]*gh.PullRequest, int, error) {
			gotOpts = opts
			return []*gh.PullRequest{
				{Number: &number, Title: &title, User: &gh.User{Login: &login}, CreatedAt: &created, State: &state},
				nil,
				{},
			}, 3, nil
		},
	}

	records, next, err := client.ListPullRequests(context.TODO(), testRepo, "open", 2)
	require.NoError(t, err)
	assert.Equal(t, 3, next)
	require.Len(t, records, 1)
	assert.Equal(t, v1.PullRequestRecord{
		Repo:      "openshift/kubernetes",
		Number:    42,
		Title:     title,
		Author:    login,
		CreatedAt: created,
		State:     "open",
	}, records[0])

	require.NotNil(t, gotOpts)
	assert.Equal(t, "open", gotOpts.State)
	assert.Equal(t, "created", gotOpts.Sort)
	assert.Equal(t, "desc", gotOpts.Direction)
	assert.Equal(t, 2, gotOpts.Page)
	assert.Equal(t, DefaultPageSize, gotOpts.PerPage)
}

func TestClient_ListPullRequestsError(t *testing.T) {
	client := &Client{
		prList: func(_ context.Context, _, _ string, _ *gh.PullRequestListOptions) ([]*gh.PullRequest, int, error) {
			return nil, 0, &gh.ErrorResponse{Response: &http.Response{StatusCode: http.StatusForbidden}}
		},
	}
	_, _, err := client.ListPullRequests(context.TODO(), testRepo, "all", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied to repository openshift/kubernetes")
}

func TestClient_GetPullRequest(t *testing.T) {
	now := time.Now()
	pr := &gh.PullRequest{
		Number:       gh.Int(1),
		Title:        gh.String("Test PR"),
		User:         &gh.User{Login: gh.String("testuser")},
		CreatedAt:    &now,
		UpdatedAt:    &now,
		Comments:     gh.Int(5),
		Additions:    gh.Int(100),
		Deletions:    gh.Int(50),
		ChangedFiles: gh.Int(3),
		HTMLURL:      gh.String("https://github.com/test/repo/pull/1"),
		State:        gh.String("closed"),
		MergedAt:     &now,
	}
	client := &Client{
		prFetch: func(_ context.Context, owner, repo string, number int) (*gh.PullRequest, error) {
			if number == 1 {
				return pr, nil
			}
			return nil, notFound()
		},
	}

	got, err := client.GetPullRequest(context.TODO(), testRepo, 1)
	require.NoError(t, err)
	assert.Equal(t, &v1.PullRequestRecord{
		Repo:         "openshift/kubernetes",
		Number:       1,
		Title:        "Test PR",
		Author:       "testuser",
		CreatedAt:    now,
		UpdatedAt:    now,
		Comments:     5,
		Additions:    100,
		Deletions:    50,
		ChangedFiles: 3,
		URL:          "https://github.com/test/repo/pull/1",
		State:        "closed",
		Merged:       true,
	}, got)

	_, err = client.GetPullRequest(context.TODO(), testRepo, 2)
	assert.Error(t, err)
}

func TestClient_ListFilesFollowsPages(t *testing.T) {
	var pages []int
	client := &Client{
		prFilesFetch: func(_ context.Context, _, _ string, _ int, opts *gh.ListOptions) ([]*gh.CommitFile, int, error) {
			pages = append(pages, opts.Page)
			switch opts.Page {
			case 0:
				return []*gh.CommitFile{
					{Filename: gh.String("a.go"), Changes: gh.Int(3), Patch: gh.String("+TODO")},
					nil,
				}, 2, nil
			case 2:
				return []*gh.CommitFile{{Filename: gh.String("b.bin"), Changes: gh.Int(0)}}, 0, nil
			}
			t.Fatalf("unexpected page %d", opts.Page)
			return nil, 0, nil
		},
	}

	files, err := client.ListFiles(context.TODO(), testRepo, 7)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, pages)
	assert.Equal(t, []v1.ChangedFile{
		{Filename: "a.go", Changes: 3, Patch: "+TODO"},
		{Filename: "b.bin"},
	}, files)
}

func TestResolveToken(t *testing.T) {
	t.Setenv(TokenEnv, "from-env")

	token, err := ResolveToken("explicit")
	require.NoError(t, err)
	assert.Equal(t, "explicit", token)

	token, err = ResolveToken("")
	require.NoError(t, err)
	assert.Equal(t, "from-env", token)
}

func TestResolveTokenMissing(t *testing.T) {
	home := t.TempDir()
	t.Setenv(TokenEnv, "")
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")

	_, err := ResolveToken("")
	require.Error(t, err)
	assert.Equal(t, v1.ErrorKindConfig, v1.KindOf(err))
}

func TestSplitFullName(t *testing.T) {
	owner, name, err := SplitFullName(" vec21/aws-challenge-automation ")
	require.NoError(t, err)
	assert.Equal(t, "vec21", owner)
	assert.Equal(t, "aws-challenge-automation", name)

	for _, bad := range []string{"", "a", "a/", "/b", "a/b/c"} {
		_, _, err := SplitFullName(bad)
		assert.Error(t, err, bad)
	}
}
