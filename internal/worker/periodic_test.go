package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingJob struct {
	runs atomic.Int32
	err  error
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run(context.Context) error {
	j.runs.Add(1)
	return j.err
}

func TestPeriodic_RunsImmediately(t *testing.T) {
	job := &countingJob{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- NewPeriodic(job, time.Hour).Start(ctx) }()

	assert.Eventually(t, func() bool { return job.runs.Load() == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop")
	}
	assert.Equal(t, int32(1), job.runs.Load())
}

func TestPeriodic_KeepsRunningAfterErrors(t *testing.T) {
	job := &countingJob{err: errors.New("cycle failed")}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = NewPeriodic(job, 10*time.Millisecond).Start(ctx) }()

	assert.Eventually(t, func() bool { return job.runs.Load() >= 3 }, 2*time.Second, 5*time.Millisecond)
}

func TestNewPeriodic_NonPositiveIntervalUsesDefault(t *testing.T) {
	for _, interval := range []time.Duration{0, -time.Minute} {
		p := NewPeriodic(&countingJob{}, interval)
		assert.Equal(t, DefaultInterval, p.interval, "interval %s", interval)
	}

	job := &countingJob{}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewPeriodic(job, 0).Start(ctx) }()

	assert.Eventually(t, func() bool { return job.runs.Load() == 1 }, time.Second, 5*time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
