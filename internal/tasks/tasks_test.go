package tasks

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendationPayload(t *testing.T) {
	id := uuid.MustParse("8f14e45f-ceea-467f-a0e6-1f2c3d4b5a69")
	b, err := NewRecommendationPayload(id, "launch video")
	require.NoError(t, err)
	assert.JSONEq(t, `{"job_id":"8f14e45f-ceea-467f-a0e6-1f2c3d4b5a69","query":"launch video"}`, string(b))

	p, err := ParseRecommendationPayload(b)
	require.NoError(t, err)
	assert.Equal(t, "launch video", p.Query)
	assert.Equal(t, id, p.JobID)

	_, err = ParseRecommendationPayload([]byte("{"))
	assert.Error(t, err)
}
