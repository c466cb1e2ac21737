package events

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/resumeapp/internal/config"
	ingestor "github.com/markdave123-py/resumeapp/internal/core/ingestion_engine"
	"github.com/markdave123-py/resumeapp/internal/logger"
)

// Handler processes one notification body. A nil error acknowledges the message.
type Handler func(ctx context.Context, body []byte) error

// Source delivers storage notifications at least once.
//
// Poll blocks, handing messages to handle one at a time, until ctx is done
// or the source fails. Several Poll loops may run on the same Source.
type Source interface {
	Name() string
	Poll(ctx context.Context, handle Handler) error
	Close() error
}

var ErrSourceClosed = errors.New("event source closed")

// New builds the source selected by cfg.EventSource.
func New(ctx context.Context, cfg *config.Config) (Source, error) {
	switch cfg.EventSource {
	case "sqs":
		awsCfg, err := cfg.AWSConfig(ctx)
		if err != nil {
			return nil, err
		}
		src, err := NewSQSSource(awsCfg, cfg.SQSQueueURL)
		if err != nil {
			return nil, err
		}
		return src, nil
	case "amqp":
		src, err := NewAMQPSource(cfg.AMQPURL, cfg.AMQPQueue, cfg.WorkerConcurrency, cfg.AMQPRequeue)
		if err != nil {
			return nil, err
		}
		return src, nil
	default:
		return nil, fmt.Errorf("unknown event source %q", cfg.EventSource)
	}
}

// RunWorkers runs workers independent Poll loops on src and waits for them.
// A loop that fails cancels the others. Cancellation of ctx is a clean stop.
func RunWorkers(ctx context.Context, src Source, handle Handler, workers int) error {
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		id := i + 1
		g.Go(func() error {
			wctx := logger.WithFields(gctx, map[string]string{"worker": strconv.Itoa(id), "source": src.Name()})
			logger.Ctx(wctx).Info().Msg("consumer loop started")
			err := src.Poll(wctx, handle)
			logger.Ctx(wctx).Info().Err(err).Msg("consumer loop stopped")
			return err
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// permanent reports failures that redelivery cannot fix.
func permanent(err error) bool {
	return errors.Is(err, ingestor.ErrUndecodableEvent) ||
		ingestor.KindOf(err) == ingestor.KindMalformedDocument
}
