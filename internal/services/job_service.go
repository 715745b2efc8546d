package services

import (
	"github.com/daftarapp/daftar-api/internal/jobs"
)

// JobService exposes the background worker to the HTTP layer.
type JobService struct {
	worker *jobs.Worker
}

// NewJobService creates a new job service
func NewJobService(worker *jobs.Worker) *JobService {
	return &JobService{worker: worker}
}

// GetStatus returns the worker's current statistics.
func (s *JobService) GetStatus() jobs.WorkerStats {
	return s.worker.GetStats()
}

// Enqueue hands a job to the worker pool.
func (s *JobService) Enqueue(job jobs.Job) {
	s.worker.Enqueue(job)
}
