package events

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/markdave123-py/resumeapp/internal/logger"
	"github.com/markdave123-py/resumeapp/internal/metrics"
)

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, in *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, in *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

// SQSSource long-polls a queue that receives S3 event notifications.
// A message is deleted only after the handler succeeds; anything else is
// left to reappear after the visibility timeout or move to the redrive queue.
type SQSSource struct {
	client     sqsAPI
	queueURL   string
	waitTime   int32
	retryDelay time.Duration
}

var _ Source = (*SQSSource)(nil)

func NewSQSSource(awsCfg aws.Config, queueURL string) (*SQSSource, error) {
	if queueURL == "" {
		return nil, errors.New("sqs source: SQS_QUEUE_URL is required")
	}
	return newSQSSource(sqs.NewFromConfig(awsCfg), queueURL), nil
}

func newSQSSource(client sqsAPI, queueURL string) *SQSSource {
	return &SQSSource{client: client, queueURL: queueURL, waitTime: 20, retryDelay: 5 * time.Second}
}

func (s *SQSSource) Name() string { return "sqs" }

func (s *SQSSource) Poll(ctx context.Context, handle Handler) error {
	log := logger.Ctx(ctx)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		out, err := s.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(s.queueURL),
			MaxNumberOfMessages: 1,
			WaitTimeSeconds:     s.waitTime,
		})
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Warn().Err(err).Dur("retry_in", s.retryDelay).Msg("sqs receive failed")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.retryDelay):
			}
			continue
		}

		for _, msg := range out.Messages {
			s.process(ctx, msg, handle)
		}
	}
}

func (s *SQSSource) process(ctx context.Context, msg types.Message, handle Handler) {
	log := logger.Ctx(ctx).With().Str("message_id", aws.ToString(msg.MessageId)).Logger()

	if err := handle(ctx, []byte(aws.ToString(msg.Body))); err != nil {
		result := "failed"
		if permanent(err) {
			result = "rejected"
		}
		metrics.EventsTotal.WithLabelValues(s.Name(), result).Inc()
		log.Error().Err(err).Str("result", result).Msg("notification not processed, leaving it on the queue")
		return
	}

	if _, err := s.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(s.queueURL),
		ReceiptHandle: msg.ReceiptHandle,
	}); err != nil {
		metrics.EventsTotal.WithLabelValues(s.Name(), "ack_failed").Inc()
		log.Warn().Err(fmt.Errorf("delete message: %w", err)).Msg("notification processed but not deleted")
		return
	}
	metrics.EventsTotal.WithLabelValues(s.Name(), "acked").Inc()
}

func (s *SQSSource) Close() error { return nil }
