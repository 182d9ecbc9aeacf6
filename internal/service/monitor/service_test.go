package monitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	mu    sync.Mutex
	err   error
	calls int
}

func (p *fakePinger) Ping(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.err
}

func (p *fakePinger) setErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func next(t *testing.T, ch <-chan bool) bool {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timeout")
	}
	return false
}

func TestService_PublishesReachability(t *testing.T) {
	p := &fakePinger{}
	svc := NewService(p, Config{PollInterval: 10 * time.Millisecond}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates := svc.Subscribe(ctx)
	require.False(t, next(t, updates))

	svc.Start(ctx)
	defer svc.Stop()

	assert.True(t, next(t, updates))

	p.setErr(errors.New("connection refused"))
	assert.False(t, next(t, updates))

	st := svc.CurrentStatus()
	assert.False(t, st.Reachable)
	assert.Contains(t, st.LastError, "connection refused")
}

func TestService_StopWaitsForRoutine(t *testing.T) {
	p := &fakePinger{}
	svc := NewService(p, Config{PollInterval: 5 * time.Millisecond}, nil)

	svc.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	svc.Stop()

	p.mu.Lock()
	calls := p.calls
	p.mu.Unlock()
	time.Sleep(20 * time.Millisecond)

	p.mu.Lock()
	defer p.mu.Unlock()
	assert.Equal(t, calls, p.calls)
	assert.GreaterOrEqual(t, calls, 1)
}

func TestService_PauseSkipsPolling(t *testing.T) {
	p := &fakePinger{}
	svc := NewService(p, Config{PollInterval: 5 * time.Millisecond}, nil)

	svc.Pause()
	svc.Start(context.Background())
	defer svc.Stop()
	time.Sleep(30 * time.Millisecond)

	p.mu.Lock()
	assert.Equal(t, 1, p.calls)
	p.mu.Unlock()

	svc.Resume()
	assert.Eventually(t, func() bool {
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.calls > 1
	}, time.Second, 5*time.Millisecond)
}
