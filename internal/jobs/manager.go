package jobs

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"url-roaster/internal/roast"
)

// Status mirrors the lifecycle the rendering service reports, collapsed to
// the four states the browser needs to distinguish.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ErrJobAlreadyRunning is returned when a second video job is started while
// one is still in flight. Each job costs credits, so the web front end gets
// at most one at a time.
var ErrJobAlreadyRunning = errors.New("a video job is already running")

// ErrEmptyScript is returned when a job is created without script text.
var ErrEmptyScript = errors.New("no script to render")

// Job is a snapshot of one video-rendering request.
type Job struct {
	ID        string    `json:"job_id"`
	Status    Status    `json:"status"`
	Detail    string    `json:"detail,omitempty"`
	VideoURL  string    `json:"video_url,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Renderer runs the billable submit+poll half of the pipeline.
type Renderer interface {
	ProduceVideo(ctx context.Context, scriptText string, progress func(status string)) (*roast.Video, error)
}

// Manager tracks video jobs for the web front end so the browser can poll
// status instead of blocking on the render. At most one job is active.
type Manager struct {
	mu       sync.RWMutex
	jobs     map[string]*Job
	activeID string
	renderer Renderer

	// baseCtx parents every worker so Close can reclaim a stuck poll
	// loop; with no MaxPollWait configured a worker would otherwise
	// outlive the server.
	baseCtx context.Context
	cancel  context.CancelFunc
}

// NewManager creates an idle manager.
func NewManager(renderer Renderer) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		jobs:     make(map[string]*Job),
		renderer: renderer,
		baseCtx:  ctx,
		cancel:   cancel,
	}
}

// Close cancels any in-flight render worker. Jobs already in a terminal
// state are unaffected; a cancelled worker marks its job failed.
func (m *Manager) Close() {
	m.cancel()
}

// Create registers a new job for scriptText and starts rendering it in the
// background. The returned snapshot carries the id the browser polls with.
func (m *Manager) Create(scriptText string) (Job, error) {
	if scriptText == "" {
		return Job{}, ErrEmptyScript
	}

	m.mu.Lock()
	if active, ok := m.jobs[m.activeID]; ok && !isTerminal(active.Status) {
		m.mu.Unlock()
		return Job{}, ErrJobAlreadyRunning
	}
	job := &Job{
		ID:        uuid.New().String(),
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	m.jobs[job.ID] = job
	m.activeID = job.ID
	snapshot := *job
	m.mu.Unlock()

	go m.runWorker(job.ID, scriptText)

	return snapshot, nil
}

// Get returns a snapshot of the job with the given id.
func (m *Manager) Get(id string) (Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

func (m *Manager) runWorker(id, scriptText string) {
	m.update(id, func(j *Job) {
		j.Status = StatusProcessing
	})

	video, err := m.renderer.ProduceVideo(m.baseCtx, scriptText, func(status string) {
		m.update(id, func(j *Job) {
			j.Detail = status
		})
	})

	if err != nil {
		log.Printf("[Job %s] Rendering failed: %v", id, err)
		m.update(id, func(j *Job) {
			j.Status = StatusFailed
			j.Error = err.Error()
		})
		return
	}

	log.Printf("[Job %s] Video ready: %s", id, video.URL)
	m.update(id, func(j *Job) {
		j.Status = StatusCompleted
		j.VideoURL = video.URL
		j.Detail = ""
	})
}

func (m *Manager) update(id string, fn func(*Job)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if job, ok := m.jobs[id]; ok {
		fn(job)
	}
}

func isTerminal(s Status) bool {
	return s == StatusCompleted || s == StatusFailed
}
