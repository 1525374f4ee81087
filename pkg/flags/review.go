package flags

import (
	"github.com/spf13/pflag"

	configv1 "github.com/openshift/pr-report/pkg/apis/config/v1"
	v1 "github.com/openshift/pr-report/pkg/apis/report/v1"
	"github.com/openshift/pr-report/pkg/fetcher"
	"github.com/openshift/pr-report/pkg/report"
)

// ReviewFlags select which pull requests end up in the report.
type ReviewFlags struct {
	Repositories []string `flag:"repo" validate:"required,min=1,dive,repository"`
	State        string   `flag:"state" validate:"oneof=open closed all"`
	Days         int      `flag:"days" validate:"min=1"`
	Limit        int      `flag:"limit" validate:"min=1"`
	Output       string   `flag:"output" validate:"required"`
	Analyze      bool     `flag:"analyze"`
}

func NewReviewFlags() *ReviewFlags {
	return &ReviewFlags{
		State:  v1.StateOpen,
		Days:   fetcher.DefaultDays,
		Limit:  fetcher.DefaultLimit,
		Output: report.DefaultOutput,
	}
}

func (f *ReviewFlags) BindFlags(fs *pflag.FlagSet) {
	fs.StringSliceVar(&f.Repositories, "repo", f.Repositories, "Repositories to review as owner/name, comma separated or repeated")
	fs.StringVar(&f.State, "state", f.State, "Pull request state to include: {open,closed,all}")
	fs.IntVar(&f.Days, "days", f.Days, "Include pull requests created in the last N days")
	fs.IntVar(&f.Limit, "limit", f.Limit, "Maximum number of pull requests per repository")
	fs.StringVar(&f.Output, "output", f.Output, "PDF file to write, the default name is derived from the repositories and state")
	fs.BoolVar(&f.Analyze, "analyze", f.Analyze, "Analyze the changed files of every pull request")
}

// ApplyConfig fills in values from the config file for flags not given on the command line.
func (f *ReviewFlags) ApplyConfig(cfg *configv1.ReportConfig, fs *pflag.FlagSet) {
	if len(cfg.Repositories) > 0 && !fs.Changed("repo") {
		f.Repositories = cfg.Repositories
	}
	if cfg.State != "" && !fs.Changed("state") {
		f.State = cfg.State
	}
	if cfg.Days != 0 && !fs.Changed("days") {
		f.Days = cfg.Days
	}
	if cfg.Limit != 0 && !fs.Changed("limit") {
		f.Limit = cfg.Limit
	}
	if cfg.Output != "" && !fs.Changed("output") {
		f.Output = cfg.Output
	}
	if cfg.Analyze && !fs.Changed("analyze") {
		f.Analyze = true
	}
}

func (f *ReviewFlags) GetOptions() fetcher.Options {
	return fetcher.Options{
		Repositories: fetcher.UniqueRepositories(f.Repositories),
		State:        f.State,
		Days:         f.Days,
		Limit:        f.Limit,
		Analyze:      f.Analyze,
	}
}
