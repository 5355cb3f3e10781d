package tui

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
)

type jobKind string

type jobStatus string

const (
	jobKindLoad    jobKind = "load"
	jobKindAnalyze jobKind = "analyze"
	jobKindSave    jobKind = "save"
	jobKindDelete  jobKind = "delete"
)

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

var jobTimeouts = map[jobKind]time.Duration{
	jobKindLoad:    30 * time.Second,
	jobKindAnalyze: 5 * time.Minute,
	jobKindSave:    30 * time.Second,
	jobKindDelete:  30 * time.Second,
}

type jobSnapshot struct {
	ID          string
	Kind        jobKind
	Status      jobStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         error
	Duration    time.Duration
}

type jobResultEnvelope struct {
	Snapshot jobSnapshot
}

type jobRunner func(context.Context) error

// jobBus runs one workflow action off the UI goroutine and reports back.
type jobBus struct {
	counter int64
	logger  *zap.Logger
}

func newJobBus(logger *zap.Logger) *jobBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &jobBus{logger: logger}
}

func (b *jobBus) nextID(kind jobKind) string {
	idx := atomic.AddInt64(&b.counter, 1)
	return fmt.Sprintf("%s-%d", kind, idx)
}

// Start returns the running snapshot and the command that performs the job.
func (b *jobBus) Start(kind jobKind, runner jobRunner) (jobSnapshot, tea.Cmd) {
	id := b.nextID(kind)
	started := time.Now()
	running := jobSnapshot{ID: id, Kind: kind, Status: jobStatusRunning, StartedAt: started}

	run := func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeouts[kind])
		defer cancel()
		err := runner(ctx)
		snapshot := running
		snapshot.CompletedAt = time.Now()
		snapshot.Duration = snapshot.CompletedAt.Sub(started)
		snapshot.Status = jobStatusSucceeded
		if err != nil {
			snapshot.Status = jobStatusFailed
			snapshot.Err = err
		}
		b.logger.Info("job finished",
			zap.String("job", id),
			zap.String("kind", string(kind)),
			zap.String("status", string(snapshot.Status)),
			zap.Duration("duration", snapshot.Duration),
			zap.Error(err))
		return jobResultEnvelope{Snapshot: snapshot}
	}
	return running, run
}
