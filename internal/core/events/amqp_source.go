package events

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/markdave123-py/resumeapp/internal/logger"
	"github.com/markdave123-py/resumeapp/internal/metrics"
)

// AMQPSource consumes bucket notifications from a RabbitMQ queue, as
// published by MinIO's AMQP notification target. Deliveries are acked after
// the handler succeeds and nacked otherwise.
type AMQPSource struct {
	conn       *amqp.Connection
	ch         *amqp.Channel
	deliveries <-chan amqp.Delivery
	requeue    bool
}

var _ Source = (*AMQPSource)(nil)

// NewAMQPSource declares queue as durable and starts a manual-ack consumer
// with prefetch set to the number of consumer loops.
func NewAMQPSource(url, queue string, prefetch int, requeue bool) (*AMQPSource, error) {
	if url == "" || queue == "" {
		return nil, errors.New("amqp source: AMQP_URL and AMQP_QUEUE are required")
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp declare %s: %w", queue, err)
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp qos: %w", err)
	}

	deliveries, err := ch.Consume(
		queue,
		"resumeapp-worker",
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqp consume %s: %w", queue, err)
	}

	logger.Info().Str("queue", queue).Int("prefetch", prefetch).Msg("amqp consumer ready")
	src := newAMQPSource(deliveries, requeue)
	src.conn, src.ch = conn, ch
	return src, nil
}

func newAMQPSource(deliveries <-chan amqp.Delivery, requeue bool) *AMQPSource {
	return &AMQPSource{deliveries: deliveries, requeue: requeue}
}

func (s *AMQPSource) Name() string { return "amqp" }

func (s *AMQPSource) Poll(ctx context.Context, handle Handler) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-s.deliveries:
			if !ok {
				return ErrSourceClosed
			}
			s.process(ctx, d, handle)
		}
	}
}

func (s *AMQPSource) process(ctx context.Context, d amqp.Delivery, handle Handler) {
	log := logger.Ctx(ctx).With().Uint64("delivery_tag", d.DeliveryTag).Logger()

	if err := handle(ctx, d.Body); err != nil {
		requeue := s.requeue && !permanent(err)
		result := "failed"
		if permanent(err) {
			result = "rejected"
		}
		metrics.EventsTotal.WithLabelValues(s.Name(), result).Inc()
		log.Error().Err(err).Bool("requeue", requeue).Msg("notification not processed")
		if nerr := d.Nack(false, requeue); nerr != nil {
			log.Warn().Err(nerr).Msg("nack failed")
		}
		return
	}

	if err := d.Ack(false); err != nil {
		metrics.EventsTotal.WithLabelValues(s.Name(), "ack_failed").Inc()
		log.Warn().Err(err).Msg("ack failed")
		return
	}
	metrics.EventsTotal.WithLabelValues(s.Name(), "acked").Inc()
}

func (s *AMQPSource) Close() error {
	if s.ch != nil {
		_ = s.ch.Close()
	}
	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}
