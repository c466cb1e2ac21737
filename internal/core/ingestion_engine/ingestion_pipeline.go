package ingestion_engine

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/markdave123-py/resumeapp/internal/core"
	"github.com/markdave123-py/resumeapp/internal/logger"
	"github.com/markdave123-py/resumeapp/internal/metrics"
	"github.com/markdave123-py/resumeapp/internal/models"
)

var _ Ingestor = (*ResumeIngestor)(nil)

// NewResumeIngestor wires the collaborators of a run. A nil cfg uses DefaultIngestConfig.
func NewResumeIngestor(store core.UserStore, obj core.ObjectClient, extractor core.TextExtractor, fields *FieldExtractor, cfg *IngestConfig) *ResumeIngestor {
	if cfg == nil {
		cfg = DefaultIngestConfig()
	}
	if cfg.NewID == nil {
		cfg.NewID = DefaultIngestConfig().NewID
	}
	return &ResumeIngestor{store: store, obj: obj, extractor: extractor, fields: fields, cfg: cfg}
}

// Ingest runs Received → Fetched → Extracted → Classified → Persisted.
// Any failure stops the run with an *IngestError and nothing is written.
// Every run generates a new user id, so ingesting the same key twice yields two rows.
func (i *ResumeIngestor) Ingest(ctx context.Context, bucket, key string) (*models.UserRecord, error) {
	started := time.Now()
	if i.cfg.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.cfg.RunTimeout)
		defer cancel()
	}

	log := logger.Ctx(ctx).With().Str("bucket", bucket).Str("key", key).Logger()
	run := &ingestRun{log: &log, bucket: bucket, key: key, state: StateReceived, started: started}
	run.log.Info().Str("state", string(run.state)).Msg("resume ingestion started")

	data, err := i.obj.GetFile(ctx, bucket, key)
	if err != nil {
		return nil, run.fail(classifyFetch(err), err)
	}
	run.advance(StateFetched, intField("bytes", len(data)))

	text, err := i.extractor.ExtractText(data)
	if err != nil {
		return nil, run.fail(KindMalformedDocument, err)
	}
	run.advance(StateExtracted, intField("chars", len(text)))

	fields, err := i.fields.Extract(ctx, text)
	if err != nil {
		return nil, run.fail(classifyExtraction(err), err)
	}
	run.advance(StateClassified, nil)

	rec := models.NewUserRecord(i.cfg.NewID(), fields, text, key)
	if err := i.store.UpsertUser(ctx, rec); err != nil {
		return nil, run.fail(KindPersistenceError, err)
	}
	run.advance(StatePersisted, func(e *zerolog.Event) { e.Str("user_id", rec.UserID) })

	metrics.IngestionsTotal.WithLabelValues("success", string(StatePersisted)).Inc()
	metrics.IngestionDuration.Observe(time.Since(started).Seconds())
	return rec, nil
}

type ingestRun struct {
	log     *zerolog.Logger
	bucket  string
	key     string
	state   State
	started time.Time
}

func (r *ingestRun) advance(to State, fields func(*zerolog.Event)) {
	ev := r.log.Info().Str("from", string(r.state)).Str("state", string(to))
	if fields != nil {
		fields(ev)
	}
	ev.Msg("resume ingestion transition")
	r.state = to
}

func (r *ingestRun) fail(kind Kind, err error) error {
	ie := &IngestError{Kind: kind, At: r.state, Bucket: r.bucket, Key: r.key, Err: err}
	r.log.Error().Err(err).
		Str("kind", string(kind)).
		Str("at", string(r.state)).
		Str("state", string(StateFailed)).
		Dur("elapsed", time.Since(r.started)).
		Msg("resume ingestion failed")

	metrics.IngestionsTotal.WithLabelValues(string(kind), string(r.state)).Inc()
	metrics.IngestionDuration.Observe(time.Since(r.started).Seconds())
	return ie
}

func intField(key string, v int) func(*zerolog.Event) {
	return func(e *zerolog.Event) { e.Int(key, v) }
}

// HandleNotification ingests every record of one storage notification in
// order and stops at the first failure. Notifications without records are ignored.
func (i *ResumeIngestor) HandleNotification(ctx context.Context, body []byte) error {
	refs, err := ParseS3Event(body)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		logger.Ctx(ctx).Debug().Msg("notification without object records, ignoring")
		return nil
	}
	for _, ref := range refs {
		if _, err := i.Ingest(ctx, ref.Bucket, ref.Key); err != nil {
			return err
		}
	}
	return nil
}
