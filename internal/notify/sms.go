package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// Texter sends short SMS alerts
type Texter interface {
	SendSMS(ctx context.Context, phone, message string) error
}

// NopTexter drops messages. Used when sms.enabled is false.
type NopTexter struct{}

func (NopTexter) SendSMS(ctx context.Context, phone, message string) error { return nil }

// SNSAPI is the subset of the SNS client the texter uses
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// SNSTexter publishes transactional SMS through Amazon SNS
type SNSTexter struct {
	client   SNSAPI
	senderID string
}

func NewSNSTexter(ctx context.Context, region, senderID string) (*SNSTexter, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return NewSNSTexterWithClient(sns.NewFromConfig(cfg), senderID), nil
}

func NewSNSTexterWithClient(client SNSAPI, senderID string) *SNSTexter {
	return &SNSTexter{client: client, senderID: senderID}
}

func (t *SNSTexter) SendSMS(ctx context.Context, phone, message string) error {
	attrs := map[string]types.MessageAttributeValue{
		"AWS.SNS.SMS.SMSType": {
			DataType:    aws.String("String"),
			StringValue: aws.String("Transactional"),
		},
	}
	if t.senderID != "" {
		attrs["AWS.SNS.SMS.SenderID"] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(t.senderID),
		}
	}

	_, err := t.client.Publish(ctx, &sns.PublishInput{
		PhoneNumber:       aws.String(phone),
		Message:           aws.String(message),
		MessageAttributes: attrs,
	})
	if err != nil {
		return fmt.Errorf("sns publish failed: %w", err)
	}
	return nil
}
