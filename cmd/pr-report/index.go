package main

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/openshift/pr-report/pkg/flags"
	"github.com/openshift/pr-report/pkg/webindex"
)

type IndexFlags struct {
	StorageFlags     *flags.StorageFlags
	GoogleCloudFlags *flags.GoogleCloudFlags
}

func NewIndexFlags() *IndexFlags {
	return &IndexFlags{
		StorageFlags:     flags.NewStorageFlags(),
		GoogleCloudFlags: flags.NewGoogleCloudFlags(),
	}
}

func (f *IndexFlags) BindFlags(fs *pflag.FlagSet) {
	f.StorageFlags.BindFlags(fs)
	f.GoogleCloudFlags.BindFlags(fs)
}

func NewIndexCommand() *cobra.Command {
	f := NewIndexFlags()

	cmd := &cobra.Command{
		Use:   "index",
		Short: "Regenerate the index page of a report bucket",
		RunE: func(cmd *cobra.Command, args []string) error {
			if f.StorageFlags.Bucket == "" {
				return fmt.Errorf("--bucket is required")
			}
			if err := flags.Validate(f.StorageFlags); err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()

			bucket, err := f.StorageFlags.GetBucket(ctx, f.GoogleCloudFlags)
			if err != nil {
				return errors.WithMessage(err, "could not connect to bucket")
			}
			url, err := webindex.Generate(ctx, bucket, time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Web interface generated: %s\n", url)
			return nil
		},
	}

	f.BindFlags(cmd.Flags())
	return cmd
}
