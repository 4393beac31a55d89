package nlp

import (
	"context"
	"errors"
	"log/slog"
	"testing"
)

type scriptedGenerator struct {
	failures int
	story    string
	calls    int
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.calls++
	if g.calls <= g.failures {
		return "", errors.New("model unavailable")
	}
	return g.story, nil
}

func TestGenerationService_ReturnsStory(t *testing.T) {
	gen := &scriptedGenerator{story: "A tale of two caches."}
	svc := NewGenerationService(gen, Policy{MaxAttempts: 3}, slog.Default())

	result := svc.Generate(context.Background(), "write something")
	if result.Fallback {
		t.Error("fallback set on a successful generation")
	}
	if result.Content != "A tale of two caches." {
		t.Errorf("content = %q", result.Content)
	}
	if gen.calls != 1 {
		t.Errorf("calls = %d, want 1", gen.calls)
	}
}

func TestGenerationService_RecoversWithinRetryBudget(t *testing.T) {
	gen := &scriptedGenerator{failures: 2, story: "finally"}
	svc := NewGenerationService(gen, Policy{MaxAttempts: 3}, slog.Default())

	result := svc.Generate(context.Background(), "p")
	if result.Fallback || result.Content != "finally" {
		t.Errorf("result = %+v, want recovered story", result)
	}
	if gen.calls != 3 {
		t.Errorf("calls = %d, want 3", gen.calls)
	}
}

func TestGenerationService_FallsBackAfterExhaustion(t *testing.T) {
	gen := &scriptedGenerator{failures: 99}
	svc := NewGenerationService(gen, Policy{MaxAttempts: 3}, slog.Default())

	result := svc.Generate(context.Background(), "p")
	if !result.Fallback {
		t.Fatal("fallback flag not set")
	}
	if result.Content != FallbackStory {
		t.Errorf("content = %q, want the canned fallback story", result.Content)
	}
	if gen.calls != 3 {
		t.Errorf("calls = %d, want 3", gen.calls)
	}
}

func TestLoremGenerator_ProducesText(t *testing.T) {
	gen := NewLoremGenerator()
	story, err := gen.Generate(context.Background(), "anything")
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if story == "" {
		t.Error("empty story from mock generator")
	}
}
