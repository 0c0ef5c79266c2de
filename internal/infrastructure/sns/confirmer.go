package sns

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/hotel-event-indexer/internal/config"
	"github.com/hotel-event-indexer/internal/infrastructure/awscfg"
)

// SubscriptionConfirmer confirms HTTP(S) endpoint subscriptions to a topic.
type SubscriptionConfirmer interface {
	ConfirmSubscription(ctx context.Context, topicARN, token string) (string, error)
}

// ConfirmAPI is the subset of *sns.Client used by confirmer.
type ConfirmAPI interface {
	ConfirmSubscription(ctx context.Context, in *sns.ConfirmSubscriptionInput, optFns ...func(*sns.Options)) (*sns.ConfirmSubscriptionOutput, error)
}

type confirmer struct {
	client ConfirmAPI
}

// NewClient creates an SNS client, honouring the LocalStack endpoint override.
func NewClient(ctx context.Context, cfg *config.Config) (*sns.Client, error) {
	awsCfg, err := awscfg.Load(ctx, cfg, cfg.SNSRegion)
	if err != nil {
		return nil, err
	}
	clientOpts := []func(*sns.Options){}
	if cfg.AWSEndpointURL != "" {
		clientOpts = append(clientOpts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}
	return sns.NewFromConfig(awsCfg, clientOpts...), nil
}

func NewConfirmer(client ConfirmAPI) SubscriptionConfirmer {
	return &confirmer{client: client}
}

// ConfirmSubscription returns the ARN of the confirmed subscription.
func (c *confirmer) ConfirmSubscription(ctx context.Context, topicARN, token string) (string, error) {
	out, err := c.client.ConfirmSubscription(ctx, &sns.ConfirmSubscriptionInput{
		TopicArn: aws.String(topicARN),
		Token:    aws.String(token),
	})
	if err != nil {
		return "", fmt.Errorf("confirm subscription to %s: %w", topicARN, err)
	}
	return aws.ToString(out.SubscriptionArn), nil
}
