package flags

import (
	"github.com/spf13/pflag"

	"github.com/openshift/pr-report/pkg/github"
)

// GitHubFlags holds credentials for the GitHub API.
type GitHubFlags struct {
	Token string
}

func NewGitHubFlags() *GitHubFlags {
	return &GitHubFlags{}
}

func (f *GitHubFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringVar(&f.Token, "token", f.Token, "GitHub token, defaults to $"+github.TokenEnv+" and then to git config github.token")
}

// GetToken fails with a config error when no token can be found anywhere.
func (f *GitHubFlags) GetToken() (string, error) {
	return github.ResolveToken(f.Token)
}
