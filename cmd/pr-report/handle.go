package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	v1 "github.com/openshift/pr-report/pkg/apis/report/v1"
	"github.com/openshift/pr-report/pkg/event"
	"github.com/openshift/pr-report/pkg/fetcher"
	"github.com/openshift/pr-report/pkg/flags"
	"github.com/openshift/pr-report/pkg/github"
	"github.com/openshift/pr-report/pkg/notify"
	"github.com/openshift/pr-report/pkg/reviewer"
	"github.com/openshift/pr-report/pkg/storage"
)

type HandleFlags struct {
	EventFile    string
	RequestID    string
	MetricsFlags *flags.MetricsFlags
}

func NewHandleFlags() *HandleFlags {
	return &HandleFlags{
		EventFile:    "-",
		MetricsFlags: flags.NewMetricsFlags(),
	}
}

func (f *HandleFlags) BindFlags(fs *pflag.FlagSet) {
	f.MetricsFlags.BindFlags(fs)
	fs.StringVar(&f.EventFile, "event", f.EventFile, "JSON event file, - reads standard input")
	fs.StringVar(&f.RequestID, "request-id", f.RequestID, "Invocation id used to name the report, generated when empty")
}

func (f *HandleFlags) readEvent(stdin io.Reader) (*event.Event, error) {
	var data []byte
	var err error
	if f.EventFile == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(f.EventFile)
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not read event")
	}
	return event.Parse(data)
}

// NewHandleCommand runs a review the way the serverless function does: parameters come from
// an event, credentials and the bucket from the environment, and a JSON response is printed.
func NewHandleCommand() *cobra.Command {
	f := NewHandleFlags()

	cmd := &cobra.Command{
		Use:              "handle",
		Short:            "Run a review from an invocation event and print the function response",
		PersistentPreRun: NoPrintVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := f.readEvent(cmd.InOrStdin())
			if err != nil {
				return err
			}
			env, err := event.LoadEnvironment()
			if err != nil {
				return err
			}

			review := &flags.ReviewFlags{
				Repositories: e.Repositories,
				State:        e.State,
				Days:         e.Days,
				Limit:        fetcher.DefaultLimit,
				Output:       event.OutputPath(f.RequestID),
				Analyze:      e.Analyze,
			}
			if err := flags.Validate(review); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Minute)
			defer cancel()

			// Progress goes to stderr, stdout carries the response.
			r := reviewer.New(github.New(ctx, env.GitHubToken), cmd.ErrOrStderr()).
				WithPusher(f.MetricsFlags.GetPusher())

			var bucket storage.Bucket
			if env.BucketName != "" {
				bucket, err = storage.NewS3Bucket(ctx, env.BucketName, env.AWSRegion)
				if err != nil {
					return errors.WithMessage(err, "could not connect to bucket")
				}
				r = r.WithPublisher(storage.NewPublisher(bucket))
			}

			sendNotification := e.Notify && e.Email != ""
			if sendNotification {
				notifier, err := notify.NewSNSNotifierFromConfig(ctx, env.AWSRegion)
				if err != nil {
					return errors.WithMessage(err, "could not create notifier")
				}
				r = r.WithNotifier(notifier)
			}

			result, err := r.Run(ctx, reviewer.Options{
				Options: review.GetOptions(),
				Output:  review.Output,
				Notify:  sendNotification,
				Email:   e.Email,
			})
			if err != nil {
				return err
			}
			for _, re := range result.Errors {
				log.WithError(re).Warning("review finished with errors")
			}

			resp, err := event.NewResponse(reportLocation(result, review.Output), websiteURL(bucket))
			if err != nil {
				return err
			}
			out, err := json.Marshal(resp)
			if err != nil {
				return errors.Wrap(err, "could not encode response")
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	f.BindFlags(cmd.Flags())
	return cmd
}

func reportLocation(result *reviewer.Result, output string) string {
	if a := result.Artifact; a != nil {
		return storageURI(a)
	}
	return output
}

func storageURI(a *v1.PublishedArtifact) string {
	return fmt.Sprintf("s3://%s/%s", a.Bucket, a.Key)
}

func websiteURL(bucket storage.Bucket) string {
	if bucket == nil {
		return ""
	}
	return bucket.WebsiteURL()
}
