package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/wraith/pkg/stage"
)

// StageRecord is one entry in a session's append-only stage history.
type StageRecord struct {
	Stage      string       `json:"stage"`
	Status     stage.Status `json:"status"`
	DurationMs int64        `json:"duration_ms"`
	Error      string       `json:"error,omitempty"`
}

// Session correlates all stage calls and artifact uploads for one pipeline
// run. It is created when a request arrives, mutated only by the
// orchestrator (one record appended per executed stage) and discarded
// once the final result is returned. Retried runs get a new Session.
type Session struct {
	ID        uuid.UUID
	StartedAt time.Time
	results   []StageRecord
}

// NewSession creates a Session with a fresh identifier.
func NewSession() *Session {
	return &Session{
		ID:        uuid.New(),
		StartedAt: time.Now(),
	}
}

// Record appends a stage outcome to the session history.
func (s *Session) Record(name string, status stage.Status, duration time.Duration, err error) {
	record := StageRecord{
		Stage:      name,
		Status:     status,
		DurationMs: duration.Milliseconds(),
	}
	if err != nil {
		record.Error = err.Error()
	}
	s.results = append(s.results, record)
}

// StageResults returns the ordered stage history.
func (s *Session) StageResults() []StageRecord {
	return s.results
}

// TotalDuration sums all recorded stage durations. Observability only;
// no control decision depends on it.
func (s *Session) TotalDuration() time.Duration {
	var total int64
	for _, r := range s.results {
		total += r.DurationMs
	}
	return time.Duration(total) * time.Millisecond
}
