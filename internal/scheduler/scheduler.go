package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/wonny/argos/backend/pkg/logger"
)

// Job is one schedulable unit of background work
// ⭐ SSOT: 스케줄 작업 인터페이스는 여기서만 정의
type Job interface {
	Name() string

	Run(ctx context.Context) error

	// Schedule returns the cron expression ("@every 10m", "0 0 * * * *", ...)
	Schedule() string
}

// RunRecord is the outcome of one job execution
type RunRecord struct {
	JobName   string        `json:"job_name"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

const historyCap = 50

// Scheduler runs the periodic refresh jobs on cron schedules
// ⭐ SSOT: 주기 작업 등록/실행은 여기서만
type Scheduler struct {
	cron   *cron.Cron
	logger *logger.Logger

	mu      sync.RWMutex
	jobs    map[string]Job
	history map[string][]RunRecord

	maxRetries int
	retryDelay time.Duration
}

// New creates a scheduler. 초 단위 크론 표현식 지원.
func New(log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		logger:     log.WithField("component", "scheduler"),
		jobs:       make(map[string]Job),
		history:    make(map[string][]RunRecord),
		maxRetries: 2,
		retryDelay: 10 * time.Second,
	}
}

// Register adds a job; duplicate names are rejected
func (s *Scheduler) Register(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := job.Name()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}

	if _, err := s.cron.AddFunc(job.Schedule(), func() { s.execute(job) }); err != nil {
		return fmt.Errorf("schedule job %s: %w", name, err)
	}

	s.jobs[name] = job
	s.logger.WithFields(map[string]interface{}{
		"job":      name,
		"schedule": job.Schedule(),
	}).Info("Job registered")
	return nil
}

// Start begins running registered jobs
func (s *Scheduler) Start() {
	s.logger.Info("Starting scheduler")
	s.cron.Start()
}

// Stop waits for in-flight jobs to finish
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
	s.logger.Info("Scheduler stopped")
}

// Trigger runs a job immediately, outside its schedule
func (s *Scheduler) Trigger(name string) error {
	s.mu.RLock()
	job, exists := s.jobs[name]
	s.mu.RUnlock()

	if !exists {
		return fmt.Errorf("job %s not found", name)
	}
	go s.execute(job)
	return nil
}

// JobNames lists registered jobs
func (s *Scheduler) JobNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	return names
}

// History returns the recent run records for one job
func (s *Scheduler) History(name string) []RunRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.history[name]
	out := make([]RunRecord, len(records))
	copy(out, records)
	return out
}

// execute runs a job with bounded retries and records the outcome
func (s *Scheduler) execute(job Job) {
	name := job.Name()
	start := time.Now()

	var lastErr error
	success := false
	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		if err := job.Run(context.Background()); err == nil {
			success = true
			break
		} else {
			lastErr = err
			s.logger.WithError(err).WithFields(map[string]interface{}{
				"job":     name,
				"attempt": attempt + 1,
			}).Warn("Job run failed")
		}
		if attempt < s.maxRetries {
			time.Sleep(s.retryDelay)
		}
	}

	record := RunRecord{
		JobName:   name,
		StartedAt: start,
		Duration:  time.Since(start),
		Success:   success,
	}
	if !success && lastErr != nil {
		record.Error = lastErr.Error()
	}

	s.mu.Lock()
	records := append(s.history[name], record)
	if len(records) > historyCap {
		records = records[len(records)-historyCap:]
	}
	s.history[name] = records
	s.mu.Unlock()

	if success {
		s.logger.WithFields(map[string]interface{}{
			"job":      name,
			"duration": record.Duration,
		}).Info("Job completed")
	} else {
		s.logger.WithError(lastErr).WithField("job", name).Error("Job failed after retries")
	}
}
