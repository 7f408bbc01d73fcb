// Command mehsifai generates 3D models from text prompts.
//
// Usage:
//
//	mehsifai generate "a weathered fishing boat"
//	mehsifai generate --config mehsifai.yaml -o boat.glb "a weathered fishing boat"
//	mehsifai generate --count 4 "a chess piece"
//	mehsifai version
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	mehsifai "github.com/0xRetroDev/mehsifai-go"
	"github.com/0xRetroDev/mehsifai-go/config"
	"github.com/0xRetroDev/mehsifai-go/internal/telemetry"
	"github.com/0xRetroDev/mehsifai-go/pipeline"
	"github.com/0xRetroDev/mehsifai-go/scene"
)

// Injected at build time.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "generate":
		runGenerate(os.Args[2:])
	case "version":
		printVersion()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runGenerate(args []string) {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	variance := fs.Float64("variance", pipeline.DefaultVariance, "Generation variance in [0, 1]")
	output := fs.String("o", "", "Write the downloaded container to this path")
	count := fs.Int("count", 1, "Number of models to generate in parallel")
	keepMaterials := fs.Bool("keep-materials", false, "Keep imported materials instead of the flat default")
	fs.Parse(args)

	prompt := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if prompt == "" {
		fmt.Fprintln(os.Stderr, "generate: a prompt is required")
		fs.Usage()
		os.Exit(1)
	}
	if *count < 1 {
		fmt.Fprintln(os.Stderr, "generate: --count must be at least 1")
		os.Exit(1)
	}

	loader := config.NewLoader()
	if *configPath != "" {
		loader = loader.WithConfigPath(*configPath)
	}
	cfg, err := loader.WithValidator((*config.Config).Validate).Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := cfg.Log.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	otelProviders, err := telemetry.Init(cfg.Telemetry, logger)
	if err != nil {
		logger.Warn("failed to initialize telemetry", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []mehsifai.Option{
		mehsifai.WithConfig(cfg),
		mehsifai.WithLogger(logger),
		mehsifai.WithMetricsRegisterer(prometheus.NewRegistry()),
	}
	if *output != "" {
		opts = append(opts, mehsifai.WithKeepFiles(true))
	}
	gen, err := mehsifai.New(opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < *count; i++ {
		i := i
		g.Go(func() error {
			return generateOne(gctx, gen, prompt, *variance, !*keepMaterials, outputPath(*output, i, *count), i, *count)
		})
	}
	err = g.Wait()

	_ = gen.Close()
	if otelProviders != nil {
		_ = otelProviders.Shutdown(context.Background())
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generation failed: %v\n", err)
		os.Exit(1)
	}
}

func generateOne(ctx context.Context, gen *pipeline.Generator, prompt string, variance float64, defaultAppearance bool, output string, index, count int) error {
	prefix := ""
	if count > 1 {
		prefix = fmt.Sprintf("[%d] ", index+1)
	}

	h := gen.Generate(ctx, prompt,
		pipeline.Callbacks{
			OnStatus: func(status string, progress float64) {
				fmt.Printf("%s%3.0f%% %s\n", prefix, progress*100, status)
			},
		},
		pipeline.WithVariance(variance),
		pipeline.WithDefaultAppearance(defaultAppearance),
	)

	res, err := h.Wait(ctx)
	if err != nil {
		h.Cancel()
		return err
	}
	if res.Err != nil {
		return res.Err
	}

	printModelSummary(prefix, res.Model)
	if output != "" {
		if res.Model.Source == "" {
			fmt.Printf("%smodel fell back to the placeholder, nothing to save\n", prefix)
			return nil
		}
		if err := os.Rename(res.Model.Source, output); err != nil {
			return fmt.Errorf("save container: %w", err)
		}
		fmt.Printf("%ssaved %s\n", prefix, output)
	}
	return nil
}

// outputPath numbers the output file when more than one model is generated:
// boat.glb becomes boat-1.glb, boat-2.glb, ...
func outputPath(output string, index, count int) string {
	if output == "" {
		return ""
	}
	if count == 1 {
		return output
	}
	ext := filepath.Ext(output)
	return fmt.Sprintf("%s-%d%s", strings.TrimSuffix(output, ext), index+1, ext)
}

func printModelSummary(prefix string, model *scene.Node) {
	renderables := model.Renderables()
	fmt.Printf("%sgenerated %q: %d renderable node(s)\n", prefix, model.Name, len(renderables))
	for _, n := range renderables {
		fmt.Printf("%s  - %s size %v\n", prefix, n.Name, n.Mesh.Bounds.Size())
	}
	if model.Metadata != nil {
		fmt.Printf("%s  prompt=%q variance=%.1f at %s\n",
			prefix, model.Metadata.Prompt, model.Metadata.Variance,
			model.Metadata.GeneratedAt.Format("15:04:05"))
	}
}

func printVersion() {
	fmt.Printf("mehsifai %s\n", Version)
	fmt.Printf("  Build Time: %s\n", BuildTime)
	fmt.Printf("  Git Commit: %s\n", GitCommit)
}

func printUsage() {
	fmt.Println(`mehsifai - text-to-3D generation CLI

Usage:
  mehsifai <command> [options]

Commands:
  generate  Generate a model from a text prompt
  version   Show version information
  help      Show this help message

Options for 'generate':
  --config <path>    Path to configuration file (YAML)
  --variance <f>     Generation variance in [0, 1] (default 0.2)
  --count <n>        Generate n models in parallel
  --keep-materials   Keep imported materials instead of the flat default
  -o <path>          Save the downloaded container file

Examples:
  mehsifai generate "a weathered fishing boat"
  mehsifai generate --config mehsifai.yaml -o boat.glb "a weathered fishing boat"
  mehsifai generate --count 4 "a chess piece"
  mehsifai version`)
}
