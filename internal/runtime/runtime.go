// Package runtime implements the dependency-aware wave scheduler that
// executes a plan's tool-call DAG with bounded parallelism and cooperative
// cancellation.
package runtime

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/guestflow/concierge/internal/cancel"
	"github.com/guestflow/concierge/internal/events"
	"github.com/guestflow/concierge/internal/graph"
	"github.com/guestflow/concierge/internal/tools"
	"github.com/guestflow/concierge/pkg/models"
)

// DefaultCallTimeout bounds a single tool call when no timeout is configured.
const DefaultCallTimeout = 30 * time.Second

// DefaultMaxParallel bounds intra-wave fan-out when no limit is configured.
const DefaultMaxParallel = 8

// Runtime schedules a plan's tool calls into waves and executes them.
// The registry and emitter are injected; Runtime holds no global state and
// a single instance can serve concurrent runs (each run owns its own
// result map).
type Runtime struct {
	registry    tools.Registry
	emitter     *events.Emitter
	hooks       []WaveHook
	callTimeout time.Duration
	maxParallel int
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithCallTimeout sets the per-call timeout. Timeouts are per tool call,
// never per wave or per run.
func WithCallTimeout(d time.Duration) Option {
	return func(r *Runtime) {
		if d > 0 {
			r.callTimeout = d
		}
	}
}

// WithMaxParallel bounds the number of calls in flight within a wave.
func WithMaxParallel(n int) Option {
	return func(r *Runtime) {
		if n > 0 {
			r.maxParallel = n
		}
	}
}

// WithEmitter sets the observability emitter.
func WithEmitter(e *events.Emitter) Option {
	return func(r *Runtime) {
		r.emitter = e
	}
}

// WithWaveHook registers a post-wave extension hook.
func WithWaveHook(h WaveHook) Option {
	return func(r *Runtime) {
		r.hooks = append(r.hooks, h)
	}
}

// New creates a Runtime dispatching against the given registry.
func New(registry tools.Registry, opts ...Option) *Runtime {
	r := &Runtime{
		registry:    registry,
		callTimeout: DefaultCallTimeout,
		maxParallel: DefaultMaxParallel,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Execute runs the tool-call DAG to completion, or until the token is
// observed cancelled at a wave boundary. The returned Outcome is one of:
//
//   - OK: every wave settled; Results holds one entry per call.
//   - Cancelled: the token was cancelled; Results holds all fully
//     completed prior waves and WaveIndex names the wave about to start.
//   - Fatal: the plan has a cycle or dangling dependency; no wave ran.
//
// An empty call list returns an empty OK immediately, with no
// cancellation check.
func (r *Runtime) Execute(ctx context.Context, calls []models.ToolCall, runContext map[string]any, token *cancel.Token) models.Outcome {
	if len(calls) == 0 {
		return models.OK("", map[string]models.ToolResult{})
	}

	g := graph.New()
	g.SetDebugLog(debugLog)
	if err := g.Build(calls); err != nil {
		return models.Fatal(err)
	}
	waves, err := g.Waves()
	if err != nil {
		return models.Fatal(err)
	}

	results := make(map[string]models.ToolResult, len(calls))
	for waveIdx, wave := range waves {
		// Cancellation is wave-boundary-granular: checked immediately
		// before dispatch, never mid-wave.
		if token != nil && token.IsCancelled() {
			reason := token.Reason()
			r.emit(events.Event{Type: events.TypeCancellationDetected, Wave: waveIdx, Count: len(results), Message: reason})
			debugLog("[runtime] cancellation observed before wave %d (%d results gathered): %s", waveIdx, len(results), reason)
			return models.Cancelled(results, reason, waveIdx)
		}

		r.emit(events.Event{Type: events.TypeWaveStarted, Wave: waveIdx, Count: len(wave)})
		waveStart := time.Now()

		r.executeWave(ctx, wave, runContext, results)
		r.runHooks(wave, results)

		r.emit(events.Event{
			Type:     events.TypeWaveCompleted,
			Wave:     waveIdx,
			Count:    len(wave),
			Duration: time.Since(waveStart),
		})
	}

	return models.OK("", results)
}

// executeWave dispatches every call in the wave concurrently and waits for
// all of them to settle. There is no fire-and-forget: the wave is done only
// when every call has succeeded, errored, or timed out.
//
// Prior-wave results are read-only here; per-call writes go to an indexed
// slice, so no lock is needed on the shared map until the merge below.
func (r *Runtime) executeWave(ctx context.Context, wave []models.ToolCall, runContext map[string]any, results map[string]models.ToolResult) {
	sem := make(chan struct{}, r.maxParallel)
	settled := make([]models.ToolResult, len(wave))

	var wg sync.WaitGroup
	for i, tc := range wave {
		wg.Add(1)
		go func(i int, tc models.ToolCall) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			settled[i] = r.executeCall(ctx, tc, runContext, results)
		}(i, tc)
	}
	wg.Wait()

	for i, tc := range wave {
		results[tc.ID] = settled[i]
	}
}

// executeCall resolves effective arguments and invokes a single tool under
// an individual timeout. Any error or timeout is captured as an error
// record for this call and never aborts siblings.
func (r *Runtime) executeCall(ctx context.Context, tc models.ToolCall, runContext map[string]any, prior map[string]models.ToolResult) models.ToolResult {
	var schema tools.Schema
	if tool, ok := r.registry.Lookup(tc.Tool); ok {
		schema = tool.Schema()
	}
	args := resolveArgs(tc, schema, runContext, prior)

	r.emit(events.Event{Type: events.TypeToolStarted, CallID: tc.ID, Tool: tc.Tool})
	start := time.Now()

	callCtx, cancelFn := context.WithTimeout(ctx, r.callTimeout)
	defer cancelFn()

	type settled struct {
		result models.ToolResult
		err    error
	}
	done := make(chan settled, 1)
	go func() {
		res, err := r.registry.Call(callCtx, tc.Tool, args)
		done <- settled{result: res, err: err}
	}()

	var result models.ToolResult
	select {
	case s := <-done:
		if s.err != nil {
			result = models.ErrorResult(s.err.Error())
		} else {
			result = s.result
		}
	case <-callCtx.Done():
		result = models.ErrorResult(fmt.Sprintf("tool %s timed out after %s", tc.Tool, r.callTimeout))
	}

	if result.IsError() {
		r.emit(events.Event{
			Type:     events.TypeToolFailed,
			CallID:   tc.ID,
			Tool:     tc.Tool,
			Message:  result.Err,
			Duration: time.Since(start),
		})
		log.Printf("[runtime] tool %s (%s) failed: %s", tc.Tool, tc.ID, result.Err)
	} else {
		r.emit(events.Event{
			Type:     events.TypeToolCompleted,
			CallID:   tc.ID,
			Tool:     tc.Tool,
			Duration: time.Since(start),
		})
	}
	return result
}

// emit sends an observability event if an emitter is configured.
func (r *Runtime) emit(event events.Event) {
	if r.emitter != nil {
		r.emitter.Emit(event)
	}
}

// debugEnabled gates verbose scheduler logging.
var debugEnabled = os.Getenv("CONCIERGE_DEBUG") != ""

func debugLog(format string, args ...interface{}) {
	if debugEnabled {
		log.Printf(format, args...)
	}
}
