package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"versecraft/internal/domain"
	"versecraft/internal/domain/models"
	"versecraft/internal/service/nlp"
)

type fakePromptRepo struct {
	prompts  map[string]*models.Prompt
	messages []*models.PromptMessage
}

func newFakePromptRepo() *fakePromptRepo {
	return &fakePromptRepo{prompts: make(map[string]*models.Prompt)}
}

func (r *fakePromptRepo) Create(_ context.Context, prompt *models.Prompt) error {
	prompt.ID = uuid.NewString()
	clone := *prompt
	r.prompts[prompt.ID] = &clone
	return nil
}

func (r *fakePromptRepo) GetByID(_ context.Context, id string) (*models.Prompt, error) {
	prompt, ok := r.prompts[id]
	if !ok {
		return nil, fmt.Errorf("prompt %s: %w", id, domain.ErrNotFound)
	}
	clone := *prompt
	return &clone, nil
}

func (r *fakePromptRepo) ListByStory(_ context.Context, storyID string) ([]models.Prompt, error) {
	out := make([]models.Prompt, 0)
	for _, p := range r.prompts {
		if p.StoryID == storyID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePromptRepo) AddMessage(_ context.Context, msg *models.PromptMessage) error {
	msg.ID = uuid.NewString()
	clone := *msg
	r.messages = append(r.messages, &clone)
	return nil
}

func (r *fakePromptRepo) ListMessages(_ context.Context, promptID string) ([]models.PromptMessage, error) {
	out := make([]models.PromptMessage, 0)
	for _, m := range r.messages {
		if m.PromptID == promptID {
			out = append(out, *m)
		}
	}
	return out, nil
}

// echoGenerator replies with a fixed suffix so tests can see what prompt
// text reached the model.
type echoGenerator struct {
	prompt string
	fail   bool
}

func (g *echoGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompt = prompt
	if g.fail {
		return "", errors.New("model unavailable")
	}
	return "generated continuation", nil
}

func newPromptFixture(gen nlp.Generator, storyIDs ...string) (*PromptService, *fakePromptRepo) {
	repo := newFakePromptRepo()
	generation := nlp.NewGenerationService(gen, nlp.Policy{MaxAttempts: 2}, slog.Default())
	svc := NewPromptService(repo, newFakeStoryRepo(storyIDs...), generation, slog.Default())
	return svc, repo
}

func TestCreatePrompt_RequiresStory(t *testing.T) {
	svc, _ := newPromptFixture(&echoGenerator{}, "story-1")

	if _, err := svc.CreatePrompt(context.Background(), &models.CreatePromptRequest{
		StoryID: "missing", Title: "Ideas",
	}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	if _, err := svc.CreatePrompt(context.Background(), &models.CreatePromptRequest{
		StoryID: "story-1",
	}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation for missing title", err)
	}
}

func TestAddMessage_RoleLimited(t *testing.T) {
	svc, _ := newPromptFixture(&echoGenerator{}, "story-1")
	prompt, err := svc.CreatePrompt(context.Background(), &models.CreatePromptRequest{
		StoryID: "story-1", Title: "Ideas",
	})
	if err != nil {
		t.Fatalf("create prompt: %v", err)
	}

	if _, err := svc.AddMessage(context.Background(), &models.CreateMessageRequest{
		PromptID: prompt.ID, Role: "assistant", Content: "hi",
	}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation for bad role", err)
	}

	if _, err := svc.AddMessage(context.Background(), &models.CreateMessageRequest{
		PromptID: prompt.ID, Role: models.RoleUser, Content: "hi",
	}); err != nil {
		t.Fatalf("add message: %v", err)
	}
}

func TestGenerate_JoinsConversationAndPersistsReply(t *testing.T) {
	gen := &echoGenerator{}
	svc, _ := newPromptFixture(gen, "story-1")
	ctx := context.Background()

	prompt, err := svc.CreatePrompt(ctx, &models.CreatePromptRequest{StoryID: "story-1", Title: "Ideas"})
	if err != nil {
		t.Fatalf("create prompt: %v", err)
	}
	for _, content := range []string{"Once there was a lighthouse.", "Make it stormier."} {
		if _, err := svc.AddMessage(ctx, &models.CreateMessageRequest{
			PromptID: prompt.ID, Role: models.RoleUser, Content: content,
		}); err != nil {
			t.Fatalf("add message: %v", err)
		}
	}

	result, err := svc.Generate(ctx, prompt.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if result.Fallback {
		t.Error("fallback set on successful generation")
	}
	if gen.prompt != "Once there was a lighthouse.\nMake it stormier." {
		t.Errorf("model saw %q", gen.prompt)
	}

	messages, err := svc.ListMessages(ctx, prompt.ID)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(messages) != 3 {
		t.Fatalf("messages = %d, want 3 (reply persisted)", len(messages))
	}
	last := messages[len(messages)-1]
	if last.Role != models.RoleModel || last.Content != "generated continuation" {
		t.Errorf("reply = %+v", last)
	}
}

func TestGenerate_EmptyConversationRejected(t *testing.T) {
	svc, _ := newPromptFixture(&echoGenerator{}, "story-1")
	prompt, err := svc.CreatePrompt(context.Background(), &models.CreatePromptRequest{StoryID: "story-1", Title: "Ideas"})
	if err != nil {
		t.Fatalf("create prompt: %v", err)
	}

	if _, err := svc.Generate(context.Background(), prompt.ID); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestGenerate_FallbackReplyIsPersisted(t *testing.T) {
	svc, _ := newPromptFixture(&echoGenerator{fail: true}, "story-1")
	ctx := context.Background()

	prompt, err := svc.CreatePrompt(ctx, &models.CreatePromptRequest{StoryID: "story-1", Title: "Ideas"})
	if err != nil {
		t.Fatalf("create prompt: %v", err)
	}
	if _, err := svc.AddMessage(ctx, &models.CreateMessageRequest{
		PromptID: prompt.ID, Role: models.RoleUser, Content: "continue the story",
	}); err != nil {
		t.Fatalf("add message: %v", err)
	}

	result, err := svc.Generate(ctx, prompt.ID)
	if err != nil {
		t.Fatalf("generate must degrade, not error: %v", err)
	}
	if !result.Fallback {
		t.Fatal("fallback flag not set")
	}
	if result.Content != nlp.FallbackStory {
		t.Errorf("content = %q, want the canned story", result.Content)
	}

	messages, _ := svc.ListMessages(ctx, prompt.ID)
	if len(messages) != 2 || messages[1].Content != nlp.FallbackStory {
		t.Errorf("fallback reply not persisted: %d messages", len(messages))
	}
}
