package ingestion_engine

import (
	"errors"
	"fmt"

	"github.com/markdave123-py/resumeapp/internal/core"
)

var (
	ErrMalformedDocument    = errors.New("malformed document")
	ErrModelResponseInvalid = errors.New("model response is not a JSON object")
	ErrModelSchemaViolation = errors.New("model response violates the field schema")
	ErrUndecodableEvent     = errors.New("undecodable storage event")
)

// Kind classifies why an ingestion run failed.
type Kind string

const (
	KindObjectNotFound       Kind = "ObjectNotFound"
	KindStoreUnavailable     Kind = "StoreUnavailable"
	KindMalformedDocument    Kind = "MalformedDocument"
	KindModelResponseInvalid Kind = "ModelResponseInvalid"
	KindModelSchemaViolation Kind = "ModelSchemaViolation"
	KindServiceUnavailable   Kind = "ServiceUnavailable"
	KindPersistenceError     Kind = "PersistenceError"
)

// IngestError is returned by a failed run. At is the state the run was in
// when the failing step was attempted.
type IngestError struct {
	Kind   Kind
	At     State
	Bucket string
	Key    string
	Err    error
}

func (e *IngestError) Error() string {
	return fmt.Sprintf("ingest %s/%s: %s while %s: %v", e.Bucket, e.Key, e.Kind, e.At, e.Err)
}

func (e *IngestError) Unwrap() error { return e.Err }

// KindOf returns the failure kind carried by err, or "" when err is not an IngestError.
func KindOf(err error) Kind {
	var ie *IngestError
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return ""
}

func classifyFetch(err error) Kind {
	if errors.Is(err, core.ErrNotFound) {
		return KindObjectNotFound
	}
	return KindStoreUnavailable
}

func classifyExtraction(err error) Kind {
	switch {
	case errors.Is(err, ErrModelSchemaViolation):
		return KindModelSchemaViolation
	case errors.Is(err, ErrModelResponseInvalid):
		return KindModelResponseInvalid
	default:
		return KindServiceUnavailable
	}
}
