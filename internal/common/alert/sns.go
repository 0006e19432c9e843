// Package alert notifies administrators about unhandled server failures so
// problems surface before a caller complains.
package alert

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// Notifier publishes alert messages.
type Notifier interface {
	NotifyError(ctx context.Context, subject string, err error)
}

// SNSClient is the subset of the SNS API the notifier uses.
type SNSClient interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSNotifier publishes alerts to an SNS topic. Publishing is best effort:
// a failed publish is logged and dropped, never propagated.
type SNSNotifier struct {
	client   SNSClient
	topicARN string
}

// NewSNSNotifier creates a notifier for the given topic
func NewSNSNotifier(client SNSClient, topicARN string) *SNSNotifier {
	return &SNSNotifier{
		client:   client,
		topicARN: topicARN,
	}
}

// NotifyError publishes an error to the alert topic
func (n *SNSNotifier) NotifyError(ctx context.Context, subject string, err error) {
	_, publishErr := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(err.Error()),
	})
	if publishErr != nil {
		slog.Error("Failed to publish alert",
			"subject", subject,
			"alertError", err,
			"publishError", publishErr)
	}
}

// NopNotifier discards alerts. Used when no alert topic is configured.
type NopNotifier struct{}

// NotifyError logs the error and drops it
func (NopNotifier) NotifyError(ctx context.Context, subject string, err error) {
	slog.Debug("Alert topic not configured, dropping alert", "subject", subject, "error", err)
}
