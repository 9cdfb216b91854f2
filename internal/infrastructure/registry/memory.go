// Package registry keeps job state in process memory. Jobs are transient by
// design; a restart forgets every run.
package registry

import (
	"sync"
	"time"

	"github.com/StanleyyHuynhh/10k-storytelling/internal/core/domain"
)

type Memory struct {
	mu   sync.RWMutex
	jobs map[string]*domain.Job
}

func NewMemory() *Memory {
	return &Memory{jobs: make(map[string]*domain.Job)}
}

func (m *Memory) Create(job *domain.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = job
}

func (m *Memory) Get(jobID string) (*domain.Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return nil, false
	}
	copied := *job
	return &copied, true
}

func (m *Memory) UpdateStatus(jobID string, status domain.JobStatus, errMessage string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	job, ok := m.jobs[jobID]
	if !ok {
		return
	}
	job.Status = status
	job.Error = errMessage
	job.UpdatedAt = time.Now().UTC()
}
