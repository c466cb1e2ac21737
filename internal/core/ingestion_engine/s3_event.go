package ingestion_engine

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

type s3Notification struct {
	Records []struct {
		EventName string `json:"eventName"`
		S3        struct {
			Bucket struct {
				Name string `json:"name"`
			} `json:"bucket"`
			Object struct {
				Key string `json:"key"`
			} `json:"object"`
		} `json:"s3"`
	} `json:"Records"`

	// SNS fan-out wraps the notification in Message.
	Message string `json:"Message"`
}

// ParseS3Event decodes an S3 (or MinIO) event notification, optionally inside
// an SNS envelope, into the objects it references. Object keys arrive
// percent-encoded and are decoded with url.PathUnescape. Records that are not
// ObjectCreated events are dropped. A test event yields no refs and no error.
func ParseS3Event(body []byte) ([]ObjectRef, error) {
	var n s3Notification
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodableEvent, err)
	}
	if len(n.Records) == 0 && n.Message != "" {
		return ParseS3Event([]byte(n.Message))
	}

	refs := make([]ObjectRef, 0, len(n.Records))
	for idx, rec := range n.Records {
		if rec.EventName != "" && !strings.Contains(rec.EventName, "ObjectCreated") {
			continue
		}
		bucket := rec.S3.Bucket.Name
		key, err := url.PathUnescape(rec.S3.Object.Key)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d key %q: %v", ErrUndecodableEvent, idx, rec.S3.Object.Key, err)
		}
		if bucket == "" || key == "" {
			return nil, fmt.Errorf("%w: record %d has no bucket or key", ErrUndecodableEvent, idx)
		}
		refs = append(refs, ObjectRef{Bucket: bucket, Key: key})
	}
	return refs, nil
}
