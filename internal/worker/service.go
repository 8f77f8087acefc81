// Package worker runs the ingest, process and trends jobs on a schedule.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ai-pulse/internal/config"
	"ai-pulse/internal/ingest"
	"ai-pulse/internal/pipeline"
	"ai-pulse/internal/trends"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// JobName identifies a background job
type JobName string

const (
	JobIngest  JobName = "ingest"
	JobProcess JobName = "process"
	JobTrends  JobName = "trends"
)

var (
	// ErrUnknownJob is returned for a job name with no registered function
	ErrUnknownJob = errors.New("unknown job")
	// ErrJobRunning is returned when the job is already in progress
	ErrJobRunning = errors.New("job already running")
)

// JobFunc runs one invocation of a job and returns a printable result
type JobFunc func(ctx context.Context) (interface{}, error)

// JobStatus is the last known state of a job
type JobStatus struct {
	Schedule     string      `json:"schedule,omitempty"`
	Running      bool        `json:"running"`
	Runs         int         `json:"runs"`
	LastStarted  *time.Time  `json:"last_started,omitempty"`
	LastDuration string      `json:"last_duration,omitempty"`
	LastError    string      `json:"last_error,omitempty"`
	LastResult   interface{} `json:"last_result,omitempty"`
}

type job struct {
	name   JobName
	run    JobFunc
	lock   sync.Mutex
	mu     sync.RWMutex
	status JobStatus
}

// WorkerService manages background workers for the application
type WorkerService struct {
	schedule  config.ScheduleConfig
	cron      *cron.Cron
	jobs      map[JobName]*job
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	running   bool
	startedAt time.Time
	mu        sync.RWMutex
}

// NewJobs binds the three pipelines to their job names
func NewJobs(ingester *ingest.Service, processor *pipeline.Processor, aggregator *trends.Aggregator) map[JobName]JobFunc {
	jobs := map[JobName]JobFunc{}
	if ingester != nil {
		jobs[JobIngest] = func(ctx context.Context) (interface{}, error) { return ingester.Run(ctx) }
	}
	if processor != nil {
		jobs[JobProcess] = func(ctx context.Context) (interface{}, error) { return processor.ProcessBatch(ctx) }
	}
	if aggregator != nil {
		jobs[JobTrends] = func(ctx context.Context) (interface{}, error) { return aggregator.Run(ctx) }
	}
	return jobs
}

// NewWorkerService creates a worker service for the given jobs
func NewWorkerService(schedule config.ScheduleConfig, jobs map[JobName]JobFunc) *WorkerService {
	ctx, cancel := context.WithCancel(context.Background())
	logger := cronLogger{}

	ws := &WorkerService{
		schedule: schedule,
		cron:     cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
		jobs:     make(map[JobName]*job, len(jobs)),
		ctx:      ctx,
		cancel:   cancel,
	}
	for name, run := range jobs {
		ws.jobs[name] = &job{name: name, run: run}
	}
	return ws
}

// Start schedules every job that has a cron spec
func (ws *WorkerService) Start() error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if ws.running {
		return nil
	}

	if ws.schedule.Enabled {
		specs := map[JobName]string{
			JobIngest:  ws.schedule.Ingest,
			JobProcess: ws.schedule.Process,
			JobTrends:  ws.schedule.Trends,
		}
		for name, spec := range specs {
			j, ok := ws.jobs[name]
			if !ok || spec == "" {
				continue
			}
			if _, err := ws.cron.AddFunc(spec, func() { ws.execute(j) }); err != nil {
				return fmt.Errorf("invalid schedule %q for %s: %w", spec, name, err)
			}
			j.mu.Lock()
			j.status.Schedule = spec
			j.mu.Unlock()
			log.Info().Str("job", string(name)).Str("schedule", spec).Msg("Job scheduled")
		}
		ws.cron.Start()
	}

	ws.running = true
	ws.startedAt = time.Now()
	log.Info().Bool("scheduled", ws.schedule.Enabled).Msg("Background workers started")
	return nil
}

// Stop cancels in-flight jobs and waits for them to return
func (ws *WorkerService) Stop() {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if !ws.running {
		return
	}

	log.Info().Msg("Stopping background workers...")
	stopped := ws.cron.Stop()
	ws.cancel()
	<-stopped.Done()
	ws.wg.Wait()

	ws.running = false
	log.Info().Msg("Background workers stopped")
}

// IsRunning returns whether the worker service is currently running
func (ws *WorkerService) IsRunning() bool {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.running
}

// RunNow starts a job outside its schedule and returns immediately
func (ws *WorkerService) RunNow(name JobName) error {
	j, ok := ws.jobs[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	if !j.lock.TryLock() {
		return ErrJobRunning
	}

	ws.wg.Add(1)
	go func() {
		defer ws.wg.Done()
		defer j.lock.Unlock()
		ws.runLocked(ws.ctx, j)
	}()
	return nil
}

// Run executes a job synchronously with ctx
func (ws *WorkerService) Run(ctx context.Context, name JobName) (interface{}, error) {
	j, ok := ws.jobs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	if !j.lock.TryLock() {
		return nil, ErrJobRunning
	}
	defer j.lock.Unlock()
	return ws.runLocked(ctx, j)
}

// execute is the cron entry point. A run already started by RunNow is skipped.
func (ws *WorkerService) execute(j *job) {
	if !j.lock.TryLock() {
		log.Debug().Str("job", string(j.name)).Msg("Job still running, skipping scheduled run")
		return
	}
	defer j.lock.Unlock()

	ws.wg.Add(1)
	defer ws.wg.Done()
	ws.runLocked(ws.ctx, j)
}

func (ws *WorkerService) runLocked(ctx context.Context, j *job) (result interface{}, err error) {
	started := time.Now()
	j.mu.Lock()
	j.status.Running = true
	j.status.LastStarted = &started
	j.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}

		j.mu.Lock()
		j.status.Running = false
		j.status.Runs++
		j.status.LastDuration = time.Since(started).Round(time.Millisecond).String()
		j.status.LastResult = result
		j.status.LastError = ""
		if err != nil {
			j.status.LastError = err.Error()
		}
		j.mu.Unlock()

		if err != nil {
			log.Error().Err(err).Str("job", string(j.name)).Msg("Job failed")
		} else {
			log.Debug().Str("job", string(j.name)).Dur("duration", time.Since(started)).Msg("Job finished")
		}
	}()

	return j.run(ctx)
}

// GetStatus returns the current status of the worker service
func (ws *WorkerService) GetStatus() map[string]interface{} {
	ws.mu.RLock()
	running, startedAt := ws.running, ws.startedAt
	ws.mu.RUnlock()

	jobs := make(map[string]JobStatus, len(ws.jobs))
	for name, j := range ws.jobs {
		j.mu.RLock()
		jobs[string(name)] = j.status
		j.mu.RUnlock()
	}

	status := map[string]interface{}{
		"running":   running,
		"scheduled": ws.schedule.Enabled,
		"jobs":      jobs,
	}
	if running {
		status["uptime"] = time.Since(startedAt).Round(time.Second).String()
	}
	return status
}

// cronLogger routes cron's logging to zerolog
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
