// Package materialize turns downloaded container bytes into scene nodes.
// Once bytes are in hand the contract is fail-soft: an undecodable payload
// degrades to a deterministic placeholder model instead of an error, so the
// caller always receives a model unless the local disk or post-processing
// itself is broken.
package materialize

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/0xRetroDev/mehsifai-go/importer"
	"github.com/0xRetroDev/mehsifai-go/internal/metrics"
	"github.com/0xRetroDev/mehsifai-go/scene"
	"github.com/0xRetroDev/mehsifai-go/types"
)

// Config configures the materializer.
type Config struct {
	// ScratchDir is where container bytes are persisted before import.
	// Defaults to the OS temporary directory.
	ScratchDir string `json:"scratch_dir,omitempty" yaml:"scratch_dir,omitempty" env:"DIR"`

	// KeepFiles leaves the persisted container on disk after a successful
	// import and records its path on the returned node. Off by default; the
	// scratch file is removed on every exit path.
	KeepFiles bool `json:"keep_files,omitempty" yaml:"keep_files,omitempty" env:"KEEP_FILES"`
}

// Option adjusts a Materializer.
type Option func(*Materializer)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Materializer) { m.logger = logger }
}

// WithMetrics sets the metrics collector.
func WithMetrics(collector *metrics.Collector) Option {
	return func(m *Materializer) { m.metrics = collector }
}

// WithClock overrides the time source used for scratch names and metadata.
func WithClock(clock func() time.Time) Option {
	return func(m *Materializer) { m.clock = clock }
}

// Materializer persists payload bytes, drives the importer, and
// post-processes the resulting model.
type Materializer struct {
	cfg     Config
	factory importer.Factory
	logger  *zap.Logger
	metrics *metrics.Collector
	clock   func() time.Time
}

// New creates a materializer. A nil factory disables real imports, so every
// payload materializes as the placeholder model.
func New(cfg Config, factory importer.Factory, opts ...Option) *Materializer {
	if cfg.ScratchDir == "" {
		cfg.ScratchDir = os.TempDir()
	}
	m := &Materializer{
		cfg:     cfg,
		factory: factory,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger, _ = zap.NewProduction()
	}
	m.logger = m.logger.With(zap.String("component", "materializer"))
	return m
}

// Materialize converts data into a scene node tree. Failure modes:
//
//   - zero-length data fails with EMPTY_PAYLOAD
//   - a failed scratch write fails with PERSISTENCE_ERROR (no bytes on disk
//     means there is nothing to fall back to)
//   - import failure of any kind degrades to the placeholder model
//   - a post-processing failure discards the model and fails with
//     POST_PROCESS_ERROR
//
// Every returned node carries exactly one metadata record initialized from
// req, on the import and fallback paths alike.
func (m *Materializer) Materialize(ctx context.Context, data []byte, req types.GenerationRequest, applyDefaultAppearance bool) (*scene.Node, error) {
	if len(data) == 0 {
		return nil, types.NewError(types.ErrEmptyPayload, "downloaded model payload is empty")
	}

	scratch, err := newScratchFile(m.cfg.ScratchDir, m.clock(), data)
	if err != nil {
		return nil, types.NewError(types.ErrPersistence, "failed to persist model bytes").WithCause(err)
	}
	keep := false
	defer func() {
		if !keep {
			scratch.Remove(m.logger)
		}
	}()

	root, imported := m.importModel(ctx, scratch.Path())
	if err := ctx.Err(); err != nil {
		// Cancelled while importing; the pipeline tears down silently.
		return nil, err
	}

	if err := m.postProcess(root, applyDefaultAppearance); err != nil {
		return nil, types.NewError(types.ErrPostProcess, "model post-processing failed").WithCause(err)
	}

	root.Metadata = &types.GenerationMetadata{
		Prompt:      req.Prompt,
		Variance:    req.Variance,
		GeneratedAt: m.clock(),
	}
	if imported && m.cfg.KeepFiles {
		keep = true
		root.Source = scratch.Path()
	}

	m.logger.Info("model materialized",
		zap.Bool("imported", imported),
		zap.Int("bytes", len(data)),
		zap.Int("renderables", len(root.Renderables())),
	)
	return root, nil
}

// importModel never fails: any problem constructing or running the importer
// degrades to the placeholder model.
func (m *Materializer) importModel(ctx context.Context, path string) (root *scene.Node, imported bool) {
	if m.factory == nil {
		m.logger.Warn("no importer configured, using placeholder")
		m.metrics.IncFallback()
		return scene.PlaceholderCube("generated-model"), false
	}

	imp, err := m.factory()
	if err != nil {
		m.logger.Warn("importer construction failed, using placeholder", zap.Error(err))
		m.metrics.IncFallback()
		return scene.PlaceholderCube("generated-model"), false
	}

	node, err := imp.Import(ctx, path)
	if err != nil || node == nil {
		if ctx.Err() == nil {
			m.logger.Warn("model import failed, using placeholder", zap.Error(err))
			m.metrics.IncFallback()
		}
		return scene.PlaceholderCube("generated-model"), false
	}
	return node, true
}

// postProcess centers the combined renderable volume on the local origin and
// optionally replaces every material with the shared default, so importer
// materials incompatible with the host render pipeline never show up as
// missing-shader artifacts. A panic in either step is converted into an
// error; the caller discards the partially-built model.
func (m *Materializer) postProcess(root *scene.Node, applyDefaultAppearance bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("post-process panic: %v", r)
		}
	}()

	if err := scene.CenterOnOrigin(root); err != nil {
		return err
	}
	if applyDefaultAppearance {
		scene.ApplyMaterial(root, scene.DefaultMaterial())
	}
	return nil
}
