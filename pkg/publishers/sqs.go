package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

const fifoSuffix = ".fifo"

// sqsClient is the part of the SQS API the publisher calls.
type sqsClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// sqsPublisher sends one message per invocation to a queue. FIFO queues get a message group
// and the invocation ID as deduplication ID.
type sqsPublisher struct {
	id       string
	queueURL string
	groupID  string
	client   sqsClient
	log      Logger
}

func newSQSPublisher(ctx context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.SQS == nil {
		return nil, fmt.Errorf("publisher %q missing sqs configuration", cfg.ID)
	}

	awsCfg, err := loadAWSConfig(ctx, cfg.SQS.Region, cfg.SQS.AWSCredentials)
	if err != nil {
		return nil, err
	}

	return &sqsPublisher{
		id:       cfg.ID,
		queueURL: cfg.SQS.QueueURL,
		groupID:  cfg.SQS.MessageGroupID,
		client:   sqs.NewFromConfig(awsCfg),
		log:      ensureLogger(log),
	}, nil
}

func (s *sqsPublisher) ID() string   { return s.id }
func (s *sqsPublisher) Type() string { return TypeSQS }

func (s *sqsPublisher) Publish(ctx context.Context, evt Event) error {
	input, err := s.message(evt)
	if err != nil {
		return err
	}

	out, err := s.client.SendMessage(ctx, input)
	if err != nil {
		s.log.ErrorObj("sqs publisher send failed", "publisher_sqs_error", map[string]any{
			"publisher_id":  s.id,
			"invocation_id": evt.InvocationID,
			"error":         err.Error(),
		})
		return fmt.Errorf("send message to sqs: %w", err)
	}
	s.log.DebugObj("sqs publisher delivered event", "publisher_sqs_delivery", map[string]any{
		"publisher_id":  s.id,
		"invocation_id": evt.InvocationID,
		"message_id":    aws.ToString(out.MessageId),
	})
	return nil
}

func (s *sqsPublisher) message(evt Event) (*sqs.SendMessageInput, error) {
	payload, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("marshal event: %w", err)
	}

	input := &sqs.SendMessageInput{
		QueueUrl:          aws.String(s.queueURL),
		MessageBody:       aws.String(string(payload)),
		MessageAttributes: map[string]types.MessageAttributeValue{},
	}
	for k, v := range evt.attributes() {
		input.MessageAttributes[k] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(v),
		}
	}
	if strings.HasSuffix(s.queueURL, fifoSuffix) {
		input.MessageGroupId = aws.String(messageGroup(s.groupID, evt))
		if evt.InvocationID != "" {
			input.MessageDeduplicationId = aws.String(evt.InvocationID)
		}
	}
	return input, nil
}

// messageGroup returns the configured group, or the request method so invocations of one
// verb stay ordered.
func messageGroup(configured string, evt Event) string {
	if configured != "" {
		return configured
	}
	if evt.Parameters.Method != "" {
		return evt.Parameters.Method
	}
	return "http-methods"
}
