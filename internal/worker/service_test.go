package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"ai-pulse/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerService_Run(t *testing.T) {
	calls := 0
	ws := NewWorkerService(config.ScheduleConfig{}, map[JobName]JobFunc{
		JobTrends: func(ctx context.Context) (interface{}, error) {
			calls++
			return map[string]int{"topics": 3}, nil
		},
		JobIngest: func(ctx context.Context) (interface{}, error) {
			return nil, errors.New("feed down")
		},
	})

	result, err := ws.Run(context.Background(), JobTrends)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"topics": 3}, result)
	assert.Equal(t, 1, calls)

	_, err = ws.Run(context.Background(), JobIngest)
	assert.EqualError(t, err, "feed down")

	_, err = ws.Run(context.Background(), JobProcess)
	assert.ErrorIs(t, err, ErrUnknownJob)

	jobs := ws.GetStatus()["jobs"].(map[string]JobStatus)
	assert.Equal(t, 1, jobs["trends"].Runs)
	assert.Empty(t, jobs["trends"].LastError)
	assert.Equal(t, "feed down", jobs["ingest"].LastError)
}

func TestWorkerService_RunNowSkipsWhileRunning(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	ws := NewWorkerService(config.ScheduleConfig{}, map[JobName]JobFunc{
		JobProcess: func(ctx context.Context) (interface{}, error) {
			close(started)
			<-release
			return "done", nil
		},
	})

	require.NoError(t, ws.RunNow(JobProcess))
	<-started

	assert.ErrorIs(t, ws.RunNow(JobProcess), ErrJobRunning)
	_, err := ws.Run(context.Background(), JobProcess)
	assert.ErrorIs(t, err, ErrJobRunning)
	assert.ErrorIs(t, ws.RunNow("reindex"), ErrUnknownJob)

	close(release)
	assert.Eventually(t, func() bool {
		jobs := ws.GetStatus()["jobs"].(map[string]JobStatus)
		return jobs["process"].Runs == 1 && !jobs["process"].Running
	}, time.Second, 10*time.Millisecond)
}

func TestWorkerService_RecoversPanics(t *testing.T) {
	ws := NewWorkerService(config.ScheduleConfig{}, map[JobName]JobFunc{
		JobProcess: func(ctx context.Context) (interface{}, error) { panic("bad batch") },
	})

	_, err := ws.Run(context.Background(), JobProcess)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad batch")
}

func TestWorkerService_StartStop(t *testing.T) {
	ws := NewWorkerService(config.ScheduleConfig{Enabled: true, Trends: "@every 1h"}, map[JobName]JobFunc{
		JobTrends: func(ctx context.Context) (interface{}, error) { return nil, nil },
	})

	require.NoError(t, ws.Start())
	assert.True(t, ws.IsRunning())

	status := ws.GetStatus()
	assert.Equal(t, true, status["scheduled"])
	assert.Equal(t, "@every 1h", status["jobs"].(map[string]JobStatus)["trends"].Schedule)

	ws.Stop()
	assert.False(t, ws.IsRunning())
}

func TestWorkerService_InvalidSchedule(t *testing.T) {
	ws := NewWorkerService(config.ScheduleConfig{Enabled: true, Ingest: "not a schedule"}, map[JobName]JobFunc{
		JobIngest: func(ctx context.Context) (interface{}, error) { return nil, nil },
	})
	assert.Error(t, ws.Start())
}
