package ingestion_engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseS3Event(t *testing.T) {
	body := `{"Records":[
		{"eventName":"ObjectCreated:Put","s3":{"bucket":{"name":"resumes"},"object":{"key":"jane%20doe%2Bcv.pdf"}}},
		{"eventName":"ObjectRemoved:Delete","s3":{"bucket":{"name":"resumes"},"object":{"key":"old.pdf"}}},
		{"eventName":"s3:ObjectCreated:CompleteMultipartUpload","s3":{"bucket":{"name":"resumes"},"object":{"key":"big.pdf"}}}
	]}`

	refs, err := ParseS3Event([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, []ObjectRef{
		{Bucket: "resumes", Key: "jane doe+cv.pdf"},
		{Bucket: "resumes", Key: "big.pdf"},
	}, refs)
}

func TestParseS3Event_SNSEnvelope(t *testing.T) {
	inner := `{"Records":[{"eventName":"ObjectCreated:Put","s3":{"bucket":{"name":"resumes"},"object":{"key":"a.pdf"}}}]}`
	outer, err := json.Marshal(map[string]string{"Type": "Notification", "Message": inner})
	require.NoError(t, err)

	refs, err := ParseS3Event(outer)
	require.NoError(t, err)
	assert.Equal(t, []ObjectRef{{Bucket: "resumes", Key: "a.pdf"}}, refs)
}

func TestParseS3Event_NoRecords(t *testing.T) {
	refs, err := ParseS3Event([]byte(`{"Event":"s3:TestEvent"}`))
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestParseS3Event_Undecodable(t *testing.T) {
	bad := []string{
		`not json`,
		`{"Records":[{"s3":{"bucket":{"name":"resumes"},"object":{"key":"%zz.pdf"}}}]}`,
		`{"Records":[{"s3":{"bucket":{"name":""},"object":{"key":"a.pdf"}}}]}`,
		`{"Records":[{"s3":{"bucket":{"name":"resumes"},"object":{"key":""}}}]}`,
		`{"Message":"{broken"}`,
	}
	for _, in := range bad {
		_, err := ParseS3Event([]byte(in))
		assert.ErrorIs(t, err, ErrUndecodableEvent, in)
	}
}
