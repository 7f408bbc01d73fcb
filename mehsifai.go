// Package mehsifai is a Go SDK for the MehsifAI text-to-3D generation API.
// It submits a prompt, downloads the generated model container, and
// materializes it into a scene tree, reporting progress along the way.
//
// Minimal use:
//
//	gen, err := mehsifai.New(mehsifai.WithAPIKey(key))
//	if err != nil { ... }
//	defer gen.Close()
//
//	h := gen.Generate(ctx, "a weathered fishing boat", pipeline.Callbacks{
//	    OnComplete: func(model *scene.Node) { ... },
//	    OnError:    func(err error) { ... },
//	})
package mehsifai

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/0xRetroDev/mehsifai-go/client"
	"github.com/0xRetroDev/mehsifai-go/config"
	"github.com/0xRetroDev/mehsifai-go/importer"
	"github.com/0xRetroDev/mehsifai-go/internal/metrics"
	"github.com/0xRetroDev/mehsifai-go/materialize"
	"github.com/0xRetroDev/mehsifai-go/pipeline"
)

// Option adjusts SDK construction.
type Option func(*options)

type options struct {
	cfg      *config.Config
	logger   *zap.Logger
	factory  importer.Factory
	registry prometheus.Registerer
}

// WithConfig replaces the entire configuration. Field-level options applied
// after it still take effect.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithAPIKey sets the API key sent as the bearer token.
func WithAPIKey(key string) Option {
	return func(o *options) { o.cfg.API.APIKey = key }
}

// WithBaseURL points the SDK at a different API endpoint.
func WithBaseURL(url string) Option {
	return func(o *options) { o.cfg.API.BaseURL = url }
}

// WithTimeout bounds each HTTP request.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.cfg.API.Timeout = d }
}

// WithRequestsPerMinute throttles prompt submissions client-side.
func WithRequestsPerMinute(n int) Option {
	return func(o *options) { o.cfg.API.RequestsPerMinute = n }
}

// WithScratchDir sets where downloaded containers are persisted.
func WithScratchDir(dir string) Option {
	return func(o *options) { o.cfg.Scratch.ScratchDir = dir }
}

// WithKeepFiles keeps successfully imported containers on disk and records
// their paths on the returned models.
func WithKeepFiles(keep bool) Option {
	return func(o *options) { o.cfg.Scratch.KeepFiles = keep }
}

// WithLogger sets the logger, bypassing the log config.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithImporterFactory sets the model importer. Without one, every
// generation materializes as the placeholder model.
func WithImporterFactory(factory importer.Factory) Option {
	return func(o *options) { o.factory = factory }
}

// WithMetricsRegisterer registers the SDK's prometheus collectors with reg.
// Without it no metrics are collected.
func WithMetricsRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registry = reg }
}

// New assembles a ready-to-use generator: transport client, glTF importer by
// default, materializer, and the invocation scheduler.
func New(opts ...Option) (*pipeline.Generator, error) {
	o := options{cfg: config.DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}

	logger := o.logger
	if logger == nil {
		var err error
		logger, err = o.cfg.Log.Build()
		if err != nil {
			return nil, err
		}
	}

	var collector *metrics.Collector
	if o.registry != nil {
		collector = metrics.NewCollector("mehsifai", o.registry, logger)
	}

	factory := o.factory
	if factory == nil {
		factory = importer.GLTFFactory(logger)
	}

	transport := client.New(o.cfg.API, logger)
	mat := materialize.New(o.cfg.Scratch, factory,
		materialize.WithLogger(logger),
		materialize.WithMetrics(collector),
	)
	return pipeline.NewGenerator(transport, mat,
		pipeline.WithLogger(logger),
		pipeline.WithMetrics(collector),
		pipeline.WithSchedulerConfig(o.cfg.Pipeline),
	), nil
}
