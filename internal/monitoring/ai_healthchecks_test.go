package monitoring

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type flakyProber struct {
	mu    sync.Mutex
	calls int
	fail  bool
}

func (p *flakyProber) Health(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.fail {
		return errors.New("connection refused")
	}
	return nil
}

func (p *flakyProber) setFail(fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fail = fail
}

func TestMonitorAnalyzerHealthTracksProbe(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	prober := &flakyProber{fail: true}
	var healthy atomic.Bool
	healthy.Store(true)

	done := make(chan struct{})
	go func() {
		monitorAnalyzerHealth(ctx, prober, &healthy, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return !healthy.Load() }, time.Second, time.Millisecond)

	prober.setFail(false)
	assert.Eventually(t, healthy.Load, time.Second, time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop after cancel")
	}
}
