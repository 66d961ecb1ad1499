package computation_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/on-the-ground/io_ive_go/computation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestTraced_LogsSuccessfulRun(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	c := computation.Traced(computation.NewTraceConfig("double", zap.New(core)),
		computation.Map(computation.Get[int](), func(x int) int { return x * 2 }))

	assert.Equal(t, 42, mustAwait(t, c.Run(21)))

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, "computation started", entries[0].Message)
	assert.Equal(t, "computation settled", entries[1].Message)
	assert.Equal(t, zapcore.DebugLevel, entries[1].Level)

	fields := entries[1].ContextMap()
	assert.Equal(t, "double", fields["name"])
	assert.NotEmpty(t, fields["run_id"])
	assert.Equal(t, entries[0].ContextMap()["run_id"], fields["run_id"])
	assert.Contains(t, fields, "elapsed")
}

func TestTraced_LogsFailureAndKeepsErrorIdentity(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	boom := errors.New("boom")
	c := computation.Traced(computation.NewTraceConfig("", zap.New(core)), computation.Fail[int, int](boom))

	_, err := await(t, c.Run(0))
	assert.Same(t, boom, err)

	failed := logs.FilterMessage("computation failed").AllUntimed()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.WarnLevel, failed[0].Level)
	assert.Equal(t, "computation", failed[0].ContextMap()["name"])
	assert.Equal(t, "boom", failed[0].ContextMap()["error"])
}

func TestTraced_ReportsEveryRunToOnSettle(t *testing.T) {
	var (
		mu      sync.Mutex
		records []computation.RunRecord
	)
	cfg := computation.TraceConfig{
		Name:   "slow",
		Logger: zaptest.NewLogger(t),
		OnSettle: func(r computation.RunRecord) {
			mu.Lock()
			defer mu.Unlock()
			records = append(records, r)
		},
	}
	c := computation.Traced(cfg, computation.Async(func(s int) (int, error) {
		time.Sleep(5 * time.Millisecond)
		return s, nil
	}))

	mustAwait(t, c.Run(1))
	mustAwait(t, c.Run(2))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, "slow", r.Name)
		assert.NotEmpty(t, r.RunID)
		assert.NoError(t, r.Err)
		assert.GreaterOrEqual(t, r.Span.Duration(), 5*time.Millisecond)
	}
	assert.NotEqual(t, records[0].RunID, records[1].RunID)
}

func TestTraced_OnSettleSeesFailure(t *testing.T) {
	boom := errors.New("boom")
	var got computation.RunRecord
	cfg := computation.TraceConfig{OnSettle: func(r computation.RunRecord) { got = r }}

	_, err := await(t, computation.Traced(cfg, computation.Fail[int, int](boom)).Run(0))
	assert.Same(t, boom, err)
	assert.Same(t, boom, got.Err)
	assert.Equal(t, "computation", got.Name)
}

func TestTraced_PanickingOnSettleKeepsOutcome(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	cfg := computation.TraceConfig{
		Logger:   zap.New(core),
		OnSettle: func(computation.RunRecord) { panic("observer") },
	}

	assert.Equal(t, 7, mustAwait(t, computation.Traced(cfg, computation.Of[int](7)).Run(0)))

	boom := errors.New("boom")
	_, err := await(t, computation.Traced(cfg, computation.Fail[int, int](boom)).Run(0))
	assert.Same(t, boom, err)

	panicked := logs.FilterMessage("settle callback panicked").AllUntimed()
	require.Len(t, panicked, 2)
	assert.Equal(t, zapcore.ErrorLevel, panicked[0].Level)
	assert.Equal(t, "observer", panicked[0].ContextMap()["panic"])
}

func TestTraced_IsLazy(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	_ = computation.Traced(computation.NewTraceConfig("idle", zap.New(core)), computation.Of[int](1))
	assert.Zero(t, logs.Len())
}

func TestNewTraceConfig_Defaults(t *testing.T) {
	cfg := computation.NewTraceConfig("", nil)
	assert.Equal(t, "computation", cfg.Name)
	require.NotNil(t, cfg.Logger)
	assert.Nil(t, cfg.OnSettle)
}
