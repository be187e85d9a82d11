package ats

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spigell/ats-insights/internal/logger"
	"github.com/spigell/ats-insights/internal/resume"
)

// State is the engine lifecycle state.
type State string

const (
	StateIdle        State = "idle"
	StateCalculating State = "calculating"
	StateReady       State = "ready"
	StateError       State = "error"
)

// TriggerReason tells why a recalculation started. Both reasons follow the same path.
type TriggerReason string

const (
	TriggerInputChanged  TriggerReason = "input_changed"
	TriggerManualRefresh TriggerReason = "manual_refresh"
)

// ErrSuperseded is returned to a trigger whose result was discarded because a newer
// trigger started before it finished.
var ErrSuperseded = errors.New("ats: computation superseded by a newer trigger")

// Engine runs the scoring pipeline with cancel-and-restart semantics: a new trigger cancels
// the in-flight computation and only the newest result is applied. The engine is the single
// writer of its history; the latest snapshot and the history advance together.
type Engine struct {
	analyzer Analyzer
	logger   *zap.Logger
	now      func() time.Time

	mu         sync.Mutex
	state      State
	generation uint64
	cancel     context.CancelFunc
	latest     *Snapshot
	history    History
	lastErr    error
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithClock overrides the time source used for snapshot timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithHistory seeds the engine with previously recorded entries.
func WithHistory(h History) Option {
	return func(e *Engine) {
		e.history = h
	}
}

// NewEngine creates an idle engine. A nil analyzer falls back to the heuristic one.
func NewEngine(analyzer Analyzer, opts ...Option) *Engine {
	if analyzer == nil {
		analyzer = NewHeuristicAnalyzer()
	}

	e := &Engine{
		analyzer: analyzer,
		logger:   zap.NewNop(),
		now:      time.Now,
		state:    StateIdle,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Input produces the documents to score. It runs inside the calculating state, so a failed
// load is reported the same way as a failed analysis.
type Input func(ctx context.Context) (*resume.Document, *resume.JobPosting, error)

// Trigger recomputes the snapshot for the given input. It blocks until the computation
// finishes, fails or is superseded by a later Trigger call.
func (e *Engine) Trigger(ctx context.Context, doc *resume.Document, job *resume.JobPosting, reason TriggerReason) (*Snapshot, error) {
	return e.TriggerInput(ctx, func(context.Context) (*resume.Document, *resume.JobPosting, error) {
		return doc, job, nil
	}, reason)
}

// TriggerInput is Trigger with the input loaded by the engine run itself.
func (e *Engine) TriggerInput(ctx context.Context, load Input, reason TriggerReason) (*Snapshot, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	e.generation++
	generation := e.generation
	e.cancel = cancel
	e.state = StateCalculating
	e.mu.Unlock()

	log := logger.WithFields(e.logger, logger.ScoringFields(uuid.NewString(), string(reason))...)
	log.Debug("score calculation started")

	snapshot, err := e.compute(runCtx, load)

	e.mu.Lock()
	defer e.mu.Unlock()

	if generation != e.generation {
		log.Debug("discarding superseded score calculation", zap.NamedError("run_error", err))
		return nil, ErrSuperseded
	}
	e.cancel = nil

	if err != nil {
		e.state = StateError
		e.lastErr = err
		log.Warn("score calculation failed; keeping last snapshot", zap.Error(err), zap.Bool("has_previous", e.latest != nil))
		return nil, err
	}

	e.latest = snapshot
	e.history = e.history.Record(snapshot.HistoryEntry())
	e.state = StateReady
	e.lastErr = nil

	log.Info("score calculated",
		zap.Int("score", snapshot.Current),
		zap.String("confidence", string(snapshot.Confidence)),
		zap.Int("history_len", e.history.Len()),
	)

	return snapshot, nil
}

func (e *Engine) compute(ctx context.Context, load Input) (*Snapshot, error) {
	doc, job, err := load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading input: %w", err)
	}

	return Compute(ctx, e.analyzer, doc, job, e.now())
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// EngineStatus is a consistent view of the engine: the snapshot and the history were read
// under the same lock.
type EngineStatus struct {
	State    State
	Snapshot *Snapshot
	History  History
	// Stale is set when the last computation failed and Snapshot is the previous good result.
	Stale bool
	Err   error
}

// Status returns the state, latest snapshot and history atomically.
func (e *Engine) Status() EngineStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	return EngineStatus{
		State:    e.state,
		Snapshot: e.latest,
		History:  e.history,
		Stale:    e.state == StateError && e.latest != nil,
		Err:      e.lastErr,
	}
}

// Latest returns the last successfully computed snapshot, or nil.
func (e *Engine) Latest() *Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.latest
}

// History returns a copy of the recorded history.
func (e *Engine) History() History {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.history
}
