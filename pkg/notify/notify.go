// Package notify announces finished reports to an email address over Amazon SNS.
package notify

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	v1 "github.com/openshift/pr-report/pkg/apis/report/v1"
	"github.com/openshift/pr-report/pkg/report"
)

const (
	TopicName     = "github-report-notifications"
	emailProtocol = "email"
	footer        = "This is an automated email, please do not reply."
)

// SNSAPI is the subset of the SNS client used to deliver notifications.
type SNSAPI interface {
	CreateTopic(ctx context.Context, params *sns.CreateTopicInput, optFns ...func(*sns.Options)) (*sns.CreateTopicOutput, error)
	Subscribe(ctx context.Context, params *sns.SubscribeInput, optFns ...func(*sns.Options)) (*sns.SubscribeOutput, error)
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSNotifier struct {
	client SNSAPI
}

func NewSNSNotifier(client SNSAPI) *SNSNotifier {
	return &SNSNotifier{client: client}
}

// NewSNSNotifierFromConfig builds a notifier from the default AWS credential chain.
func NewSNSNotifierFromConfig(ctx context.Context, region string) (*SNSNotifier, error) {
	var opts []func(*config.LoadOptions) error
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "could not load AWS configuration")
	}
	return NewSNSNotifier(sns.NewFromConfig(cfg)), nil
}

// Subject is the notification subject line for repositories.
func Subject(repositories []string) string {
	return "Pull Request Report - " + report.RepositoryLabel(repositories)
}

// Message is the notification body. It links url when the report was published and names
// the local report file otherwise.
func Message(repositories []string, reportPath, url string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The Pull Request report for %s is ready.\n\n", report.RepositoryLabel(repositories))
	if url != "" {
		fmt.Fprintf(&b, "You can access it at: %s\n\n", url)
	} else {
		fmt.Fprintf(&b, "The report was generated as %s.\n\n", filepath.Base(reportPath))
	}
	b.WriteString(footer)
	return b.String()
}

// Notify subscribes email to the report topic and publishes the announcement. The address
// has to confirm the subscription before it receives anything, SNS handles that handshake.
func (n *SNSNotifier) Notify(ctx context.Context, email string, repositories []string, reportPath, url string) error {
	logger := log.WithField("email", email)

	topic, err := n.client.CreateTopic(ctx, &sns.CreateTopicInput{Name: aws.String(TopicName)})
	if err != nil {
		return v1.NewError(v1.ErrorKindNotification, email, errors.Wrap(err, "could not create topic"))
	}

	_, err = n.client.Subscribe(ctx, &sns.SubscribeInput{
		TopicArn: topic.TopicArn,
		Protocol: aws.String(emailProtocol),
		Endpoint: aws.String(email),
	})
	if err != nil {
		return v1.NewError(v1.ErrorKindNotification, email, errors.Wrap(err, "could not subscribe"))
	}

	_, err = n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: topic.TopicArn,
		Subject:  aws.String(Subject(repositories)),
		Message:  aws.String(Message(repositories, reportPath, url)),
	})
	if err != nil {
		return v1.NewError(v1.ErrorKindNotification, email, errors.Wrap(err, "could not publish"))
	}

	logger.WithField("topic", aws.ToString(topic.TopicArn)).Info("notification sent")
	return nil
}
