package scheduler

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/herald/internal/common"
)

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("0 7 * * 1-5"))
	assert.NoError(t, ValidateSchedule("*/5 * * * *"))
	assert.Error(t, ValidateSchedule("not a cron"))
	assert.Error(t, ValidateSchedule("0 7 * *"))
}

func TestRegisterJob(t *testing.T) {
	svc := NewService(common.GetLogger())

	err := svc.RegisterJob("morning", "0 7 * * 1-5", "Morning cycle", func() error { return nil })
	require.NoError(t, err)

	status, err := svc.GetJobStatus("morning")
	require.NoError(t, err)
	assert.Equal(t, "morning", status.Name)
	assert.Equal(t, "0 7 * * 1-5", status.Schedule)
	assert.True(t, status.Enabled)
	assert.False(t, status.IsRunning)
}

func TestRegisterJob_Duplicate(t *testing.T) {
	svc := NewService(common.GetLogger())

	require.NoError(t, svc.RegisterJob("morning", "0 7 * * 1-5", "", func() error { return nil }))
	err := svc.RegisterJob("morning", "0 8 * * 1-5", "", func() error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegisterJob_InvalidSchedule(t *testing.T) {
	svc := NewService(common.GetLogger())

	err := svc.RegisterJob("broken", "every tuesday", "", func() error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schedule")
}

func TestTriggerJob(t *testing.T) {
	svc := NewService(common.GetLogger())

	done := make(chan struct{})
	require.NoError(t, svc.RegisterJob("snapshot", "0 16 * * 1-5", "", func() error {
		close(done)
		return nil
	}))

	require.NoError(t, svc.TriggerJob("snapshot"))

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("triggered job never ran")
	}

	require.Eventually(t, func() bool {
		status, err := svc.GetJobStatus("snapshot")
		return err == nil && status.LastRun != nil && !status.IsRunning
	}, 2*time.Second, 10*time.Millisecond)
}

func TestTriggerJob_NotFound(t *testing.T) {
	svc := NewService(common.GetLogger())
	err := svc.TriggerJob("ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestTriggerJob_RecordsError(t *testing.T) {
	svc := NewService(common.GetLogger())

	require.NoError(t, svc.RegisterJob("flaky", "0 7 * * *", "", func() error {
		return errors.New("upstream unavailable")
	}))
	require.NoError(t, svc.TriggerJob("flaky"))

	require.Eventually(t, func() bool {
		status, err := svc.GetJobStatus("flaky")
		return err == nil && status.LastError == "upstream unavailable"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestTriggerJob_RecoversFromPanic(t *testing.T) {
	svc := NewService(common.GetLogger())

	require.NoError(t, svc.RegisterJob("explosive", "0 7 * * *", "", func() error {
		panic("handler blew up")
	}))
	require.NoError(t, svc.TriggerJob("explosive"))

	require.Eventually(t, func() bool {
		status, err := svc.GetJobStatus("explosive")
		return err == nil && status.LastError == "panic: handler blew up" && !status.IsRunning
	}, 2*time.Second, 10*time.Millisecond)
}

func TestJobsNeverOverlap(t *testing.T) {
	svc := NewService(common.GetLogger())

	var mu sync.Mutex
	active := 0
	maxActive := 0
	var wg sync.WaitGroup

	handler := func() error {
		mu.Lock()
		active++
		if active > maxActive {
			maxActive = active
		}
		mu.Unlock()

		time.Sleep(50 * time.Millisecond)

		mu.Lock()
		active--
		mu.Unlock()
		wg.Done()
		return nil
	}

	require.NoError(t, svc.RegisterJob("a", "0 7 * * *", "", handler))
	require.NoError(t, svc.RegisterJob("b", "0 8 * * *", "", handler))

	wg.Add(2)
	require.NoError(t, svc.TriggerJob("a"))
	require.NoError(t, svc.TriggerJob("b"))
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, maxActive, "global mutex must serialize jobs")
}

func TestEnableDisable(t *testing.T) {
	svc := NewService(common.GetLogger())

	require.NoError(t, svc.RegisterJob("weekly", "0 17 * * 5", "", func() error { return nil }))
	require.NoError(t, svc.DisableJob("weekly"))

	status, err := svc.GetJobStatus("weekly")
	require.NoError(t, err)
	assert.False(t, status.Enabled)
	assert.Nil(t, status.NextRun)

	require.NoError(t, svc.EnableJob("weekly"))
	status, err = svc.GetJobStatus("weekly")
	require.NoError(t, err)
	assert.True(t, status.Enabled)
}

func TestStartStop(t *testing.T) {
	svc := NewService(common.GetLogger())

	require.NoError(t, svc.Start())
	assert.True(t, svc.IsRunning())
	assert.Error(t, svc.Start(), "double start is rejected")

	require.NoError(t, svc.Stop())
	assert.False(t, svc.IsRunning())
	assert.NoError(t, svc.Stop(), "stop is idempotent")
}
