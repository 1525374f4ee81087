package github

import (
	"context"
	"net/http"
	"os"
	"strings"

	gh "github.com/google/go-github/v45/github"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tcnksm/go-gitconfig"
	"golang.org/x/oauth2"

	v1 "github.com/openshift/pr-report/pkg/apis/report/v1"
)

// TokenEnv is consulted when no token is passed explicitly.
const TokenEnv = "GITHUB_TOKEN"

// DefaultPageSize matches what the web UI shows per page, smaller pages mean fewer
// wasted detail lookups once the date cutoff is reached.
const DefaultPageSize = 30

var ErrMissingToken = errors.New("GitHub token is required, use --token or set " + TokenEnv)

type Client struct {
	pageSize int

	repoFetch    func(ctx context.Context, owner, repo string) (*gh.Repository, error)
	prList       func(ctx context.Context, owner, repo string, opts *gh.PullRequestListOptions) ([]*gh.PullRequest, int, error)
	prFetch      func(ctx context.Context, owner, repo string, number int) (*gh.PullRequest, error)
	prFilesFetch func(ctx context.Context, owner, repo string, number int, opts *gh.ListOptions) ([]*gh.CommitFile, int, error)
}

// New returns a client authenticating every request with token as a bearer token.
func New(ctx context.Context, token string) *Client {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	return newClient(gh.NewClient(oauth2.NewClient(ctx, ts)))
}

func newClient(ghc *gh.Client) *Client {
	client := &Client{pageSize: DefaultPageSize}

	client.repoFetch = func(ctx context.Context, owner, repo string) (*gh.Repository, error) {
		r, _, err := ghc.Repositories.Get(ctx, owner, repo)
		return r, err
	}

	client.prList = func(ctx context.Context, owner, repo string, opts *gh.PullRequestListOptions) ([]*gh.PullRequest, int, error) {
		prs, resp, err := ghc.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, 0, err
		}
		return prs, resp.NextPage, nil
	}

	client.prFetch = func(ctx context.Context, owner, repo string, number int) (*gh.PullRequest, error) {
		pr, _, err := ghc.PullRequests.Get(ctx, owner, repo, number)
		return pr, err
	}

	client.prFilesFetch = func(ctx context.Context, owner, repo string, number int, opts *gh.ListOptions) ([]*gh.CommitFile, int, error) {
		files, resp, err := ghc.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, 0, err
		}
		return files, resp.NextPage, nil
	}

	return client
}

// ResolveToken picks the explicit token, then the environment, then git config's github.token.
func ResolveToken(explicit string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if token := os.Getenv(TokenEnv); token != "" {
		return token, nil
	}

	log.Infof("No GitHub token environment variable, checking git config")
	token, err := gitconfig.GithubToken()
	if err != nil {
		log.WithError(err).Debug("unable to retrieve GitHub token from git config")
	}
	if token == "" {
		return "", v1.NewError(v1.ErrorKindConfig, "token", ErrMissingToken)
	}
	return token, nil
}

// SplitFullName splits "owner/name".
func SplitFullName(fullName string) (owner, name string, err error) {
	parts := strings.Split(strings.TrimSpace(fullName), "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("invalid repository %q, expected owner/name", fullName)
	}
	return parts[0], parts[1], nil
}

func (c *Client) GetRepository(ctx context.Context, fullName string) (*v1.Repository, error) {
	owner, name, err := SplitFullName(fullName)
	if err != nil {
		return nil, err
	}

	repo, err := c.repoFetch(ctx, owner, name)
	if err != nil {
		return nil, describe(err, fullName)
	}

	result := &v1.Repository{Owner: owner, Name: name, FullName: fullName}
	if repo != nil && repo.GetFullName() != "" {
		result.FullName = repo.GetFullName()
	}
	return result, nil
}

// ListPullRequests returns one page of pull requests in state, newest first, and the next
// page number (0 when this is the last page). List results lack the diff statistics, use
// GetPullRequest for those.
func (c *Client) ListPullRequests(ctx context.Context, repo *v1.Repository, state string, page int) ([]v1.PullRequestRecord, int, error) {
	opts := &gh.PullRequestListOptions{
		State:       state,
		Sort:        "created",
		Direction:   "desc",
		ListOptions: gh.ListOptions{Page: page, PerPage: c.pageSize},
	}
	prs, next, err := c.prList(ctx, repo.Owner, repo.Name, opts)
	if err != nil {
		return nil, 0, describe(err, repo.FullName)
	}

	records := make([]v1.PullRequestRecord, 0, len(prs))
	for _, pr := range prs {
		if pr == nil || pr.Number == nil {
			continue
		}
		records = append(records, toRecord(repo.FullName, pr))
	}
	return records, next, nil
}

func (c *Client) GetPullRequest(ctx context.Context, repo *v1.Repository, number int) (*v1.PullRequestRecord, error) {
	pr, err := c.prFetch(ctx, repo.Owner, repo.Name, number)
	if err != nil {
		return nil, describe(err, repo.FullName)
	}
	if pr == nil {
		return nil, errors.Errorf("pull request %s#%d not found", repo.FullName, number)
	}
	record := toRecord(repo.FullName, pr)
	return &record, nil
}

// ListFiles returns every changed file of a pull request, following pagination.
func (c *Client) ListFiles(ctx context.Context, repo *v1.Repository, number int) ([]v1.ChangedFile, error) {
	var files []v1.ChangedFile
	opts := &gh.ListOptions{PerPage: 100}
	for {
		page, next, err := c.prFilesFetch(ctx, repo.Owner, repo.Name, number, opts)
		if err != nil {
			return nil, describe(err, repo.FullName)
		}
		for _, f := range page {
			if f == nil {
				continue
			}
			files = append(files, v1.ChangedFile{
				Filename: f.GetFilename(),
				Changes:  f.GetChanges(),
				Patch:    f.GetPatch(),
			})
		}
		if next == 0 {
			return files, nil
		}
		opts.Page = next
	}
}

func toRecord(fullName string, pr *gh.PullRequest) v1.PullRequestRecord {
	return v1.PullRequestRecord{
		Repo:         fullName,
		Number:       pr.GetNumber(),
		Title:        pr.GetTitle(),
		Author:       pr.GetUser().GetLogin(),
		CreatedAt:    pr.GetCreatedAt(),
		UpdatedAt:    pr.GetUpdatedAt(),
		Comments:     pr.GetComments(),
		Additions:    pr.GetAdditions(),
		Deletions:    pr.GetDeletions(),
		ChangedFiles: pr.GetChangedFiles(),
		URL:          pr.GetHTMLURL(),
		State:        pr.GetState(),
		Merged:       pr.GetMerged() || pr.MergedAt != nil,
	}
}

// describe turns the common GitHub API failures into messages that name the repository.
func describe(err error, fullName string) error {
	var resp *gh.ErrorResponse
	if errors.As(err, &resp) && resp.Response != nil {
		switch resp.Response.StatusCode {
		case http.StatusNotFound:
			return errors.Wrapf(err, "repository %s not found", fullName)
		case http.StatusForbidden, http.StatusUnauthorized:
			return errors.Wrapf(err, "access denied to repository %s", fullName)
		}
	}
	return errors.Wrapf(err, "error querying repository %s", fullName)
}
