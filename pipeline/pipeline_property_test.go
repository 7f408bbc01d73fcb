package pipeline_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/0xRetroDev/mehsifai-go/materialize"
	"github.com/0xRetroDev/mehsifai-go/pipeline"
	"github.com/0xRetroDev/mehsifai-go/testutil/mocks"
	"github.com/0xRetroDev/mehsifai-go/types"
)

// Whatever the transport and importer do, one invocation delivers milestones
// in order with non-decreasing progress and exactly one terminal callback.
func TestInvocationCallbackDiscipline_Property(t *testing.T) {
	milestones := []string{
		"Sending request to API...",
		"Downloading model...",
		"Processing model...",
	}
	scratch := t.TempDir()

	rapid.Check(t, func(t *rapid.T) {
		scenario := rapid.SampledFrom([]string{
			"success", "submit_error", "rejected", "empty_payload", "import_error",
		}).Draw(t, "scenario")
		prompt := rapid.StringMatching(`[a-z][a-z ]{0,39}`).Draw(t, "prompt")
		variance := rapid.Float64Range(-2, 3).Draw(t, "variance")

		tr := successTransport()
		imp := &mocks.MockImporter{Node: sampleModel()}
		switch scenario {
		case "submit_error":
			tr.SubmitErr = types.NewError(types.ErrTransport, "connection refused")
		case "rejected":
			tr.Result = &types.GenerationResult{Success: false}
		case "empty_payload":
			tr.Data = nil
		case "import_error":
			imp.Err = errors.New("bad container")
		}

		mat := materialize.New(materialize.Config{ScratchDir: scratch}, imp.Factory(), materialize.WithLogger(zap.NewNop()))
		g := pipeline.NewGenerator(tr, mat, pipeline.WithLogger(zap.NewNop()))
		defer g.Close()

		rec := &recorder{}
		h := g.Generate(context.Background(), prompt, rec.callbacks(), pipeline.WithVariance(variance))

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := h.Wait(ctx); err != nil {
			t.Fatalf("invocation did not finish: %v", err)
		}

		statuses, completes, errs := rec.snapshot()

		if got := len(completes) + len(errs); got != 1 {
			t.Fatalf("want exactly one terminal callback, got %d complete + %d error", len(completes), len(errs))
		}
		if len(statuses) > len(milestones) {
			t.Fatalf("too many status callbacks: %d", len(statuses))
		}
		last := -1.0
		for i, s := range statuses {
			if s.status != milestones[i] {
				t.Fatalf("status %d = %q, want %q", i, s.status, milestones[i])
			}
			if s.progress <= last || s.progress < 0 || s.progress > 1 {
				t.Fatalf("progress out of order at %d: %v after %v", i, s.progress, last)
			}
			last = s.progress
		}

		// Prompts here are never blank, so the variance on the wire is always
		// the clamped one.
		if calls := tr.SubmitCalls(); len(calls) == 1 {
			if calls[0].Variance < 0 || calls[0].Variance > 1 {
				t.Fatalf("submitted variance %v not clamped", calls[0].Variance)
			}
		}
	})
}
