package queue

import (
	"time"

	"github.com/benvon/morning-affirmations/internal/models"
	"github.com/google/uuid"
)

// JobType represents the type of job
type JobType string

const (
	// JobTypeSelectionRecorded carries selection events to be folded into statistics
	JobTypeSelectionRecorded JobType = "selection_recorded"
	// JobTypeMaintenance expires stale locks and prunes processed batch ids
	JobTypeMaintenance JobType = "nightly_maintenance"
)

// Valid reports whether t is a job type the worker handles
func (t JobType) Valid() bool {
	return t == JobTypeSelectionRecorded || t == JobTypeMaintenance
}

// Job represents a job in the queue
type Job struct {
	ID         uuid.UUID               `json:"id"`
	Type       JobType                 `json:"type"`
	SessionID  *uuid.UUID              `json:"session_id,omitempty"`
	Events     []models.SelectionEvent `json:"events,omitempty"`
	NotBefore  *time.Time              `json:"not_before,omitempty"` // Earliest time to process job (nil = immediate)
	NotAfter   *time.Time              `json:"not_after,omitempty"`  // Latest time to process job (nil = no expiration)
	Metadata   map[string]any          `json:"metadata,omitempty"`
	CreatedAt  time.Time               `json:"created_at"`
	RetryCount int                     `json:"retry_count"`
	MaxRetries int                     `json:"max_retries"`
}

// NewJob creates a new job
func NewJob(jobType JobType) *Job {
	return &Job{
		ID:         uuid.New(),
		Type:       jobType,
		Metadata:   make(map[string]any),
		CreatedAt:  time.Now(),
		RetryCount: 0,
		MaxRetries: 3,
	}
}

// NewSelectionRecordedJob wraps the events produced by one selection
func NewSelectionRecordedJob(sessionID uuid.UUID, events []models.SelectionEvent) *Job {
	job := NewJob(JobTypeSelectionRecorded)
	if sessionID != uuid.Nil {
		job.SessionID = &sessionID
	}
	job.Events = events
	return job
}

// NewMaintenanceJob creates a maintenance job for the run starting at runAt. The job is
// only valid for window after runAt so a backlog does not replay old runs.
func NewMaintenanceJob(runAt time.Time, window time.Duration) *Job {
	job := NewJob(JobTypeMaintenance)
	notAfter := runAt.Add(window)
	job.NotBefore = &runAt
	job.NotAfter = &notAfter
	job.Metadata["run_at"] = runAt.UTC().Format(time.RFC3339)
	return job
}

// ShouldProcess checks if the job should be processed now
func (j *Job) ShouldProcess() bool {
	return j.shouldProcessAt(time.Now())
}

func (j *Job) shouldProcessAt(now time.Time) bool {
	if j.NotBefore != nil && now.Before(*j.NotBefore) {
		return false
	}
	if j.NotAfter != nil && now.After(*j.NotAfter) {
		return false
	}
	return true
}

// IsExpired checks if the job has expired
func (j *Job) IsExpired() bool {
	if j.NotAfter == nil {
		return false
	}
	return time.Now().After(*j.NotAfter)
}

// CanRetry checks if the job can be retried
func (j *Job) CanRetry() bool {
	return j.RetryCount < j.MaxRetries
}

// IncrementRetry increments the retry count
func (j *Job) IncrementRetry() {
	j.RetryCount++
}
