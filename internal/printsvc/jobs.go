package printsvc

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/arkwaretechnologies/laundropos-print/internal/driver"
)

// Job is one print attempt as recorded in the job log.
type Job struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"` // "order" or "test"
	OrderRef  string         `json:"orderRef,omitempty"`
	Backend   driver.Backend `json:"backend"`
	Code      Code           `json:"code"`
	Message   string         `json:"message,omitempty"`
	StartedAt time.Time      `json:"startedAt"`
	Duration  time.Duration  `json:"duration"`
}

// jobLogCapacity bounds the in-memory history.
const jobLogCapacity = 200

// JobLog is a bounded, newest-first history of print attempts.
type JobLog struct {
	mu   sync.RWMutex
	jobs []*Job
}

// NewJobLog creates an empty job log.
func NewJobLog() *JobLog {
	return &JobLog{}
}

// Open records the start of a new job and returns it.
func (l *JobLog) Open(kind, orderRef string) *Job {
	job := &Job{
		ID:        uuid.NewString(),
		Kind:      kind,
		OrderRef:  orderRef,
		Backend:   driver.BackendNone,
		StartedAt: time.Now(),
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.jobs = append(l.jobs, job)
	if len(l.jobs) > jobLogCapacity {
		l.jobs = l.jobs[len(l.jobs)-jobLogCapacity:]
	}
	return job
}

// Close finalizes a job with its outcome.
func (l *JobLog) Close(job *Job, backend driver.Backend, code Code, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	job.Backend = backend
	job.Code = code
	job.Message = message
	job.Duration = time.Since(job.StartedAt)
}

// List returns jobs newest first.
func (l *JobLog) List() []*Job {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]*Job, len(l.jobs))
	for i, job := range l.jobs {
		out[len(l.jobs)-1-i] = job
	}
	return out
}

// Get looks a job up by ID.
func (l *JobLog) Get(id string) (*Job, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for _, job := range l.jobs {
		if job.ID == id {
			return job, true
		}
	}
	return nil, false
}
