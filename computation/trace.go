package computation

import (
	"time"

	"github.com/google/uuid"
	"github.com/on-the-ground/io_ive_go/deferred"
	"github.com/rickb777/date/v2/timespan"
	"go.uber.org/zap"
)

// TimeSpan is the interval a traced run took, from Run to settlement.
type TimeSpan = timespan.TimeSpan

// RunRecord describes one settled run of a traced Computation.
type RunRecord struct {
	RunID string   // Unique per run.
	Name  string   // TraceConfig.Name.
	Span  TimeSpan // From Run to settlement.
	Err   error    // Failure of the run, nil on success.
}

// TraceConfig configures Traced.
type TraceConfig struct {
	Name     string
	Logger   *zap.Logger
	OnSettle func(RunRecord) // optional; called before the traced run settles
}

// NewTraceConfig returns a TraceConfig with zero values filled in:
// an empty name becomes "computation" and a nil logger a no-op logger.
func NewTraceConfig(name string, logger *zap.Logger) TraceConfig {
	return TraceConfig{Name: name, Logger: logger}.normalize()
}

func (cfg TraceConfig) normalize() TraceConfig {
	if cfg.Name == "" {
		cfg.Name = "computation"
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return cfg
}

// Traced wraps c so that every run is logged and reported to
// cfg.OnSettle. The outcome of c passes through unchanged, error identity
// included.
//
// Each run logs "computation started" and then either "computation settled"
// at debug level or "computation failed" at warn level, with the name and a
// per-run id as fields.
func Traced[S, A any](cfg TraceConfig, c Computation[S, A]) Computation[S, A] {
	cfg = cfg.normalize()
	return FromAction(func(state S) *deferred.Deferred[A] {
		runID := uuid.New().String()
		logger := cfg.Logger.With(zap.String("name", cfg.Name), zap.String("run_id", runID))
		start := time.Now()
		logger.Debug("computation started")

		return deferred.Tap(c.Run(state), func(res deferred.Result[A]) {
			span := timespan.BetweenTimes(start, time.Now())
			if res.Err != nil {
				logger.Warn("computation failed", zap.Duration("elapsed", span.Duration()), zap.Error(res.Err))
			} else {
				logger.Debug("computation settled", zap.Duration("elapsed", span.Duration()))
			}
			cfg.report(logger, RunRecord{RunID: runID, Name: cfg.Name, Span: span, Err: res.Err})
		})
	})
}

// report hands rec to OnSettle. A panicking OnSettle is logged and never
// changes the outcome of the run.
func (cfg TraceConfig) report(logger *zap.Logger, rec RunRecord) {
	if cfg.OnSettle == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			logger.Error("settle callback panicked", zap.Any("panic", r))
		}
	}()
	cfg.OnSettle(rec)
}
