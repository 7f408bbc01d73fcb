// Package pipeline orchestrates text-to-3D generation: submit the prompt,
// download the container, materialize it into a scene tree, and report
// progress through callbacks. Each invocation is a cancellable task on an
// explicit worker scheduler; callers hold a Handle for its lifetime.
package pipeline

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/0xRetroDev/mehsifai-go/internal/metrics"
	"github.com/0xRetroDev/mehsifai-go/internal/sched"
	"github.com/0xRetroDev/mehsifai-go/scene"
	"github.com/0xRetroDev/mehsifai-go/types"
)

// Progress milestones reported through Callbacks.OnStatus, in order.
const (
	statusSubmitting    = "Sending request to API..."
	statusDownloading   = "Downloading model..."
	statusMaterializing = "Processing model..."

	progressSubmitting    = 0.1
	progressDownloading   = 0.4
	progressMaterializing = 0.7
)

// Transport submits prompts and downloads generated containers.
// *client.Client satisfies it.
type Transport interface {
	Submit(ctx context.Context, prompt string, variance float64) (*types.GenerationResult, error)
	Download(ctx context.Context, url string) ([]byte, error)
}

// Materializer turns downloaded bytes into a scene tree.
// *materialize.Materializer satisfies it.
type Materializer interface {
	Materialize(ctx context.Context, data []byte, req types.GenerationRequest, applyDefaultAppearance bool) (*scene.Node, error)
}

// GeneratorOption adjusts a Generator.
type GeneratorOption func(*Generator)

// WithScheduler injects a caller-owned scheduler. The generator will not stop
// it on Close.
func WithScheduler(s *sched.Scheduler) GeneratorOption {
	return func(g *Generator) {
		g.sched = s
		g.ownSched = false
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) GeneratorOption {
	return func(g *Generator) { g.logger = logger }
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector *metrics.Collector) GeneratorOption {
	return func(g *Generator) { g.metrics = collector }
}

// WithTracer overrides the tracer used for invocation spans.
func WithTracer(tracer trace.Tracer) GeneratorOption {
	return func(g *Generator) { g.tracer = tracer }
}

// WithSchedulerConfig sizes the generator-owned scheduler. Ignored when
// WithScheduler is also given.
func WithSchedulerConfig(cfg sched.Config) GeneratorOption {
	return func(g *Generator) { g.schedCfg = cfg }
}

// Generator runs generation invocations. Create one per API configuration and
// share it; all methods are safe for concurrent use.
type Generator struct {
	transport Transport
	mat       Materializer
	sched     *sched.Scheduler
	schedCfg  sched.Config
	ownSched  bool
	logger    *zap.Logger
	metrics   *metrics.Collector
	tracer    trace.Tracer

	handles handleRegistry
}

// NewGenerator wires a generator from its transport and materializer.
func NewGenerator(transport Transport, mat Materializer, opts ...GeneratorOption) *Generator {
	g := &Generator{
		transport: transport,
		mat:       mat,
		schedCfg:  sched.DefaultConfig(),
		ownSched:  true,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.logger == nil {
		g.logger, _ = zap.NewProduction()
	}
	g.logger = g.logger.With(zap.String("component", "pipeline"))
	if g.tracer == nil {
		g.tracer = otel.Tracer("github.com/0xRetroDev/mehsifai-go/pipeline")
	}
	if g.sched == nil {
		cfg := g.schedCfg
		if cfg.PanicHandler == nil {
			logger := g.logger
			cfg.PanicHandler = func(r any) {
				logger.Error("invocation panicked", zap.Any("panic", r))
			}
		}
		g.sched = sched.New(cfg)
	}
	g.handles.init()
	return g
}

// Generate starts one invocation and returns its handle immediately. The
// prompt is validated before any network traffic: an empty or blank prompt
// fails synchronously through cb.OnError and the returned handle is already
// terminal.
func (g *Generator) Generate(ctx context.Context, prompt string, cb Callbacks, opts ...Option) *Handle {
	o := defaultInvocationOptions()
	for _, opt := range opts {
		opt(&o)
	}

	invCtx, cancel := context.WithCancel(ctx)
	h := newHandle(cancel)

	if strings.TrimSpace(prompt) == "" {
		cancel()
		err := types.NewError(types.ErrInvalidInput, "Prompt cannot be empty")
		if h.finish(StateErrored, Result{Err: err}) && cb.OnError != nil {
			cb.OnError(err)
		}
		g.observeOutcome("error", 0)
		return h
	}

	req := types.GenerationRequest{
		Prompt:   prompt,
		Variance: types.ClampVariance(o.variance),
	}

	g.handles.add(h)

	// Cover cancellation windows where run is not executing: queued tasks the
	// scheduler skips, and cancels that land between blocking calls. finish is
	// once-only, so this never races a real terminal transition into a second
	// callback.
	go func() {
		select {
		case <-invCtx.Done():
			if h.finish(StateCancelled, Result{Err: invCtx.Err()}) {
				g.observeOutcome("cancelled", 0)
				g.logger.Info("generation cancelled", zap.String("id", h.id.String()))
			}
			g.handles.remove(h.id)
		case <-h.done:
		}
	}()

	if err := g.sched.Submit(invCtx, func(taskCtx context.Context) {
		g.run(taskCtx, h, req, o, cb)
	}); err != nil {
		// Finish before cancelling: the watcher parks on invCtx.Done, and
		// cancelling first would let it claim the once-only terminal as a
		// cancellation, swallowing the error callback.
		failure := types.NewError(types.ErrGenerationFailed, "generation could not be scheduled").WithCause(err)
		if h.finish(StateErrored, Result{Err: failure}) && cb.OnError != nil {
			cb.OnError(failure)
		}
		g.observeOutcome("error", 0)
		cancel()
		g.handles.remove(h.id)
		return h
	}

	return h
}

// Close cancels every in-flight invocation and, when the generator owns its
// scheduler, stops it.
func (g *Generator) Close() error {
	for _, h := range g.handles.snapshot() {
		h.Cancel()
	}
	if g.ownSched {
		g.sched.Stop()
	}
	return nil
}

func (g *Generator) run(ctx context.Context, h *Handle, req types.GenerationRequest, o invocationOptions, cb Callbacks) {
	started := time.Now()
	ctx, span := g.tracer.Start(ctx, "pipeline.generate", trace.WithAttributes(
		attribute.String("invocation.id", h.id.String()),
		attribute.Float64("invocation.variance", req.Variance),
	))
	defer span.End()
	defer h.cancel()
	defer g.handles.remove(h.id)

	g.metrics.AddInFlight(1)
	defer g.metrics.AddInFlight(-1)

	emit := func(status string, progress float64) {
		if h.State().Terminal() {
			return
		}
		span.AddEvent(status)
		if cb.OnStatus != nil {
			cb.OnStatus(status, progress)
		}
	}
	fail := func(err error) {
		if h.finish(StateErrored, Result{Err: err}) {
			span.RecordError(err)
			span.SetStatus(codes.Error, types.ErrorMessage(err))
			g.observeOutcome("error", time.Since(started))
			g.logger.Warn("generation failed",
				zap.String("id", h.id.String()),
				zap.String("code", string(types.GetErrorCode(err))),
				zap.Error(err),
			)
			if cb.OnError != nil {
				cb.OnError(err)
			}
		}
	}
	cancelled := func() bool {
		if ctx.Err() == nil {
			return false
		}
		if h.finish(StateCancelled, Result{Err: ctx.Err()}) {
			g.observeOutcome("cancelled", time.Since(started))
			g.logger.Info("generation cancelled", zap.String("id", h.id.String()))
		}
		span.AddEvent("cancelled")
		return true
	}

	h.setState(StateSubmitting)
	emit(statusSubmitting, progressSubmitting)

	h.setState(StateAwaitingResult)
	stageStart := time.Now()
	result, err := g.transport.Submit(ctx, req.Prompt, req.Variance)
	g.metrics.ObserveStage("submit", time.Since(stageStart))
	if cancelled() {
		return
	}
	if err != nil {
		fail(err)
		return
	}
	g.metrics.SetRateLimit(result.RateLimit.HourlyRemaining, result.RateLimit.BurstRemaining)
	if !result.Success {
		msg := result.Message
		if msg == "" {
			msg = "Model generation failed"
		}
		fail(types.NewError(types.ErrGenerationFailed, msg))
		return
	}

	h.setState(StateDownloading)
	emit(statusDownloading, progressDownloading)

	h.setState(StateAwaitingDownload)
	stageStart = time.Now()
	data, err := g.transport.Download(ctx, result.DownloadURL)
	g.metrics.ObserveStage("download", time.Since(stageStart))
	if cancelled() {
		return
	}
	if err != nil {
		fail(err)
		return
	}
	g.metrics.ObserveDownloadSize(len(data))

	// An empty body fails straight out of the download phase; only a payload
	// worth materializing reaches the 0.7 milestone. The materializer keeps
	// its own guard for callers that bypass the pipeline.
	if len(data) == 0 {
		fail(types.NewError(types.ErrEmptyPayload, "downloaded model payload is empty"))
		return
	}

	h.setState(StateMaterializing)
	emit(statusMaterializing, progressMaterializing)

	stageStart = time.Now()
	model, err := g.mat.Materialize(ctx, data, req, o.defaultAppearance)
	g.metrics.ObserveStage("materialize", time.Since(stageStart))
	if cancelled() {
		return
	}
	if err != nil {
		fail(err)
		return
	}

	if h.finish(StateComplete, Result{Model: model}) {
		span.SetStatus(codes.Ok, "")
		g.observeOutcome("success", time.Since(started))
		g.logger.Info("generation complete",
			zap.String("id", h.id.String()),
			zap.Duration("elapsed", time.Since(started)),
			zap.Int("renderables", len(model.Renderables())),
		)
		if cb.OnComplete != nil {
			cb.OnComplete(model)
		}
	}
}

func (g *Generator) observeOutcome(outcome string, elapsed time.Duration) {
	g.metrics.ObserveGeneration(outcome, elapsed)
}
