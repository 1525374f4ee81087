package main

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/openshift/pr-report/pkg/flags"
	"github.com/openshift/pr-report/pkg/flags/configflags"
	"github.com/openshift/pr-report/pkg/github"
	"github.com/openshift/pr-report/pkg/notify"
	"github.com/openshift/pr-report/pkg/reviewer"
	"github.com/openshift/pr-report/pkg/storage"
)

// A run over many repositories with analysis enabled pauses half a second per pull request.
const reviewTimeout = 2 * time.Hour

type ReviewFlags struct {
	ConfigFlags      *configflags.ConfigFlags
	GitHubFlags      *flags.GitHubFlags
	ReviewFlags      *flags.ReviewFlags
	StorageFlags     *flags.StorageFlags
	GoogleCloudFlags *flags.GoogleCloudFlags
	NotifyFlags      *flags.NotifyFlags
	MetricsFlags     *flags.MetricsFlags
}

func NewReviewFlags() *ReviewFlags {
	return &ReviewFlags{
		ConfigFlags:      configflags.NewConfigFlags(),
		GitHubFlags:      flags.NewGitHubFlags(),
		ReviewFlags:      flags.NewReviewFlags(),
		StorageFlags:     flags.NewStorageFlags(),
		GoogleCloudFlags: flags.NewGoogleCloudFlags(),
		NotifyFlags:      flags.NewNotifyFlags(),
		MetricsFlags:     flags.NewMetricsFlags(),
	}
}

func (f *ReviewFlags) BindFlags(fs *pflag.FlagSet) {
	f.ConfigFlags.BindFlags(fs)
	f.GitHubFlags.BindFlags(fs)
	f.ReviewFlags.BindFlags(fs)
	f.StorageFlags.BindFlags(fs)
	f.GoogleCloudFlags.BindFlags(fs)
	f.NotifyFlags.BindFlags(fs)
	f.MetricsFlags.BindFlags(fs)
}

// Complete merges the config file into flags left unset and validates the result.
func (f *ReviewFlags) Complete(fs *pflag.FlagSet) error {
	config, err := f.ConfigFlags.GetConfig()
	if err != nil {
		return err
	}
	f.ReviewFlags.ApplyConfig(config, fs)
	f.StorageFlags.ApplyConfig(config, fs)
	f.NotifyFlags.ApplyConfig(config, fs)

	return flags.Validate(f.ReviewFlags, f.StorageFlags, f.NotifyFlags)
}

func (f *ReviewFlags) GetOptions() reviewer.Options {
	return reviewer.Options{
		Options: f.ReviewFlags.GetOptions(),
		Output:  f.ReviewFlags.Output,
		Notify:  f.NotifyFlags.Enabled,
		Email:   f.NotifyFlags.Email,
	}
}

// GetReviewer wires the GitHub client and, when configured, the bucket and the notifier.
func (f *ReviewFlags) GetReviewer(ctx context.Context, token string, progress io.Writer) (*reviewer.Reviewer, error) {
	r := reviewer.New(github.New(ctx, token), progress).
		WithPusher(f.MetricsFlags.GetPusher())

	bucket, err := f.StorageFlags.GetBucket(ctx, f.GoogleCloudFlags)
	if err != nil {
		return nil, errors.WithMessage(err, "could not connect to bucket")
	}
	if bucket != nil {
		r = r.WithPublisher(storage.NewPublisher(bucket))
	}

	if f.NotifyFlags.Enabled {
		notifier, err := notify.NewSNSNotifierFromConfig(ctx, f.StorageFlags.AWSRegion)
		if err != nil {
			return nil, errors.WithMessage(err, "could not create notifier")
		}
		r = r.WithNotifier(notifier)
	}
	return r, nil
}

func NewReviewCommand() *cobra.Command {
	f := NewReviewFlags()

	cmd := &cobra.Command{
		Use:     "review",
		Aliases: []string{"review-code"},
		Short:   "Generate a PDF report of recent pull requests",
		Example: `  pr-report review --repo octocat/hello-world --days 14 --analyze
  pr-report review --repo octocat/hello-world,octocat/spoon-knife --state all --bucket my-reports --notify --email dev@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := f.Complete(cmd.Flags()); err != nil {
				return err
			}

			token, err := f.GitHubFlags.GetToken()
			if err != nil {
				log.WithError(err).Fatal("cannot review pull requests without a GitHub token")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), reviewTimeout)
			defer cancel()

			r, err := f.GetReviewer(ctx, token, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			result, err := r.Run(ctx, f.GetOptions())
			if err != nil {
				return err
			}
			for _, e := range result.Errors {
				log.WithError(e).Warning("review finished with errors")
			}
			return nil
		},
	}

	f.BindFlags(cmd.Flags())
	return cmd
}
