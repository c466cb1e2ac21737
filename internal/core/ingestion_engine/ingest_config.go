package ingestion_engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/markdave123-py/resumeapp/internal/core"
)

// IngestConfig tunes a resume ingestion run.
//
// Generate:   sampling parameters for the field extraction call.
// RunTimeout: upper bound for one run, fetch through upsert.
// NewID:      user id generator; a fresh id is drawn for every run.
type IngestConfig struct {
	Generate   core.GenerateOptions
	RunTimeout time.Duration
	NewID      func() string
}

func DefaultIngestConfig() *IngestConfig {
	return &IngestConfig{
		Generate:   core.DefaultGenerateOptions,
		RunTimeout: 5 * time.Minute,
		NewID:      uuid.NewString,
	}
}

// State is a step of the ingestion state machine.
type State string

const (
	StateReceived   State = "Received"
	StateFetched    State = "Fetched"
	StateExtracted  State = "Extracted"
	StateClassified State = "Classified"
	StatePersisted  State = "Persisted"
	StateFailed     State = "Failed"
)

// ResumeIngestor runs one storage notification record through
// fetch, text extraction, field extraction and upsert:
//
// store:     persistence for user rows.
// obj:       object storage holding the uploaded PDFs.
// extractor: PDF to plain text.
// fields:    language-model backed field extraction.
// cfg:       runtime knobs.
type ResumeIngestor struct {
	store     core.UserStore
	obj       core.ObjectClient
	extractor core.TextExtractor
	fields    *FieldExtractor
	cfg       *IngestConfig
}

// PDFExtractor implements core.TextExtractor using ledongthuc/pdf.
type PDFExtractor struct{}

// ObjectRef names one stored object referenced by a notification.
type ObjectRef struct {
	Bucket string
	Key    string
}
