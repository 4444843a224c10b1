package models

/*
Job status and resolution source constants shared by the store, worker and
API layers.
*/

// Job status constants
const (
	JobStatusEnqueued  = "enqueued"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// Resolution sources recorded in query history.
const (
	SourceAI       = "ai"
	SourceFallback = "fallback"
	SourceShared   = "shared" // decoded from a share link, never recorded
)

// Service types recorded in AI usage logs.
const (
	ServiceTypeRecommendation = "recommendation"
)
