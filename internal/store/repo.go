package store

import (
	"context"
	"time"
)

// QueryOpts configures submission queries with filtering and pagination.
type QueryOpts struct {
	QuizID string    // only this quiz ("" = all)
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After
	From   time.Time // created >= From
}

// Submission is one recorded quiz submission.
type Submission struct {
	ID         string
	Sequence   int64
	QuizID     string
	StorageKey string
	Questions  int
	Correct    int
	Percent    float64
	// Answers is the encoded stored-session string of the submission.
	Answers   string
	CreatedAt time.Time
}

// SubmissionStats aggregates the submissions of one quiz.
type SubmissionStats struct {
	QuizID   string
	Attempts int
	Best     float64
	Average  float64
	Last     time.Time
}

// SubmissionRepo records quiz submissions. Submissions are append-only.
type SubmissionRepo interface {
	// Append stores s, assigning its ID, sequence and timestamp.
	Append(ctx context.Context, s *Submission) error

	// List returns submissions newest first.
	List(ctx context.Context, opts QueryOpts) ([]Submission, error)

	// Stats aggregates submissions per quiz, ordered by quiz ID.
	Stats(ctx context.Context) ([]SubmissionStats, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMUsage totals logged LLM requests.
type LLMUsage struct {
	Requests     int
	Failures     int
	InputTokens  int
	OutputTokens int
}

// EventRepo provides append access to the LLM request log.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// LLMUsage totals every logged request.
	LLMUsage(ctx context.Context) (LLMUsage, error)
}
