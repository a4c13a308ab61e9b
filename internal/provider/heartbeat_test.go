package provider

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeartbeatReportsLossAfterThreshold(t *testing.T) {
	var pings atomic.Int32
	hb := NewHeartbeat(func(ctx context.Context) error {
		pings.Add(1)
		return errors.New("connection refused")
	}, 5*time.Millisecond, 3, nil)
	hb.Start()
	defer hb.Stop()

	select {
	case err := <-hb.Lost():
		require.ErrorIs(t, err, ErrSessionLost)
		assert.Equal(t, int32(3), pings.Load())
	case <-time.After(2 * time.Second):
		t.Fatal("heartbeat never reported loss")
	}
}

func TestHeartbeatRecoversBelowThreshold(t *testing.T) {
	var pings atomic.Int32
	hb := NewHeartbeat(func(ctx context.Context) error {
		// fail every other ping: never three in a row
		if pings.Add(1)%2 == 0 {
			return errors.New("timeout")
		}
		return nil
	}, 2*time.Millisecond, 2, nil)
	hb.Start()

	time.Sleep(50 * time.Millisecond)
	hb.Stop()
	select {
	case err := <-hb.Lost():
		t.Fatalf("unexpected loss: %v", err)
	default:
	}
	assert.Greater(t, pings.Load(), int32(4))
}

func TestHeartbeatStopIsSilent(t *testing.T) {
	hb := NewHeartbeat(func(ctx context.Context) error {
		return errors.New("down")
	}, time.Hour, 1, nil)
	hb.Start()
	hb.Stop()
	hb.Stop()
	select {
	case <-hb.Lost():
		t.Fatal("stop must not report loss")
	default:
	}
}

func TestHeartbeatDisabled(t *testing.T) {
	hb := NewHeartbeat(func(ctx context.Context) error {
		t.Fatal("ping must not run")
		return nil
	}, 0, 1, nil)
	hb.Start()
	hb.Stop()
}
