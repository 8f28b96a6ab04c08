package render

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Status is the render job lifecycle state
type Status string

const (
	StatusQueued        Status = "queued"
	StatusNormalizing   Status = "normalizing"
	StatusConcatenating Status = "concatenating"
	StatusUploading     Status = "uploading"
	StatusCompleted     Status = "completed"
	StatusError         Status = "error"
)

// State is a read-only snapshot of a job for pollers
type State struct {
	ID           string  `json:"id"`
	Status       Status  `json:"status"`
	Progress     float64 `json:"progress"`
	Error        string  `json:"error,omitempty"`
	OutputURL    string  `json:"output_url,omitempty"`
	ThumbnailURL string  `json:"thumbnail_url,omitempty"`
}

// Job tracks one render from queue to terminal state. The pipeline goroutine
// is the only writer; the editing session reads snapshots.
type Job struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}

	mu           sync.Mutex
	status       Status
	progress     float64
	err          string
	outputURL    string
	thumbnailURL string
}

func newJob(cancel context.CancelFunc) *Job {
	return &Job{
		id:     uuid.NewString(),
		cancel: cancel,
		done:   make(chan struct{}),
		status: StatusQueued,
	}
}

// ID returns the job's identifier
func (j *Job) ID() string { return j.id }

// Snapshot returns the current state for polling
func (j *Job) Snapshot() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return State{
		ID:           j.id,
		Status:       j.status,
		Progress:     j.progress,
		Error:        j.err,
		OutputURL:    j.outputURL,
		ThumbnailURL: j.thumbnailURL,
	}
}

// Cancel aborts the job between interruptible stages
func (j *Job) Cancel() { j.cancel() }

// Done closes when the job reaches a terminal state
func (j *Job) Done() <-chan struct{} { return j.done }

func (j *Job) setStage(status Status, progress float64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.status = status
	if progress > j.progress {
		j.progress = progress
	}
}

func (j *Job) setProgress(progress float64) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if progress > j.progress {
		j.progress = progress
	}
}

func (j *Job) complete(outputURL, thumbnailURL string) {
	j.mu.Lock()
	j.status = StatusCompleted
	j.progress = 100
	j.outputURL = outputURL
	j.thumbnailURL = thumbnailURL
	j.mu.Unlock()
	close(j.done)
}

func (j *Job) fail(msg string) {
	j.mu.Lock()
	j.status = StatusError
	j.err = msg
	j.mu.Unlock()
	close(j.done)
}
