package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"versecraft/internal/domain"
	"versecraft/internal/domain/models"
)

type fakeCommentRepo struct {
	comments []*models.Comment
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *models.Comment) error {
	comment.ID = uuid.NewString()
	clone := *comment
	r.comments = append(r.comments, &clone)
	return nil
}

func (r *fakeCommentRepo) ListByStory(_ context.Context, storyID string) ([]models.Comment, error) {
	out := make([]models.Comment, 0)
	for i := len(r.comments) - 1; i >= 0; i-- {
		if r.comments[i].StoryID == storyID {
			out = append(out, *r.comments[i])
		}
	}
	return out, nil
}

type fakeRatingRepo struct {
	ratings map[string]*models.Rating // keyed by story|user
}

func newFakeRatingRepo() *fakeRatingRepo {
	return &fakeRatingRepo{ratings: make(map[string]*models.Rating)}
}

func (r *fakeRatingRepo) Upsert(_ context.Context, rating *models.Rating) error {
	clone := *rating
	r.ratings[rating.StoryID+"|"+rating.UserID] = &clone
	return nil
}

func (r *fakeRatingRepo) GetAverage(_ context.Context, storyID string) (float64, int, error) {
	sum, count := 0, 0
	for _, rating := range r.ratings {
		if rating.StoryID == storyID {
			sum += rating.Value
			count++
		}
	}
	if count == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(count), count, nil
}

type favoriteKey struct {
	storyID string
	userID  string
}

type fakeFavoriteRepo struct {
	favorites map[favoriteKey]bool
}

func newFakeFavoriteRepo() *fakeFavoriteRepo {
	return &fakeFavoriteRepo{favorites: make(map[favoriteKey]bool)}
}

func (r *fakeFavoriteRepo) Toggle(_ context.Context, storyID, userID string) (bool, error) {
	key := favoriteKey{storyID: storyID, userID: userID}
	if r.favorites[key] {
		delete(r.favorites, key)
		return false, nil
	}
	r.favorites[key] = true
	return true, nil
}

func (r *fakeFavoriteRepo) ListByUser(_ context.Context, userID string) ([]models.Favorite, error) {
	out := make([]models.Favorite, 0)
	for key := range r.favorites {
		if key.userID == userID {
			out = append(out, models.Favorite{StoryID: key.storyID, UserID: userID})
		}
	}
	return out, nil
}

type scriptedClassifier struct {
	sentiment string
	err       error
}

func (c *scriptedClassifier) Classify(_ context.Context, _ string) (string, error) {
	return c.sentiment, c.err
}

func newEngagementFixture(classifier *scriptedClassifier, storyIDs ...string) (*EngagementService, *fakeCommentRepo) {
	commentRepo := &fakeCommentRepo{}
	var svc *EngagementService
	if classifier == nil {
		svc = NewEngagementService(commentRepo, newFakeRatingRepo(), newFakeFavoriteRepo(), newFakeStoryRepo(storyIDs...), nil, slog.Default())
	} else {
		svc = NewEngagementService(commentRepo, newFakeRatingRepo(), newFakeFavoriteRepo(), newFakeStoryRepo(storyIDs...), classifier, slog.Default())
	}
	return svc, commentRepo
}

func TestCreateComment_TagsSentiment(t *testing.T) {
	svc, _ := newEngagementFixture(&scriptedClassifier{sentiment: models.SentimentPositive}, "story-1")

	comment, err := svc.CreateComment(context.Background(), &models.CreateCommentRequest{
		StoryID: "story-1",
		UserID:  "user-1",
		Text:    "Loved the twist at the end",
	})
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if comment.Sentiment != models.SentimentPositive {
		t.Errorf("sentiment = %q, want positive", comment.Sentiment)
	}
}

func TestCreateComment_ClassifierFailureDowngradesToUndecided(t *testing.T) {
	svc, repo := newEngagementFixture(&scriptedClassifier{err: errors.New("service down")}, "story-1")

	comment, err := svc.CreateComment(context.Background(), &models.CreateCommentRequest{
		StoryID: "story-1",
		UserID:  "user-1",
		Text:    "Interesting chapter",
	})
	if err != nil {
		t.Fatalf("classifier failure must not fail the comment: %v", err)
	}
	if comment.Sentiment != models.SentimentUndecided {
		t.Errorf("sentiment = %q, want undecided", comment.Sentiment)
	}
	if len(repo.comments) != 1 {
		t.Errorf("comment not persisted")
	}
}

func TestCreateComment_Validation(t *testing.T) {
	svc, _ := newEngagementFixture(nil, "story-1")

	tests := []struct {
		name string
		req  models.CreateCommentRequest
	}{
		{"missing text", models.CreateCommentRequest{StoryID: "story-1", UserID: "u"}},
		{"missing user", models.CreateCommentRequest{StoryID: "story-1", Text: "hi"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateComment(context.Background(), &tt.req); !errors.Is(err, domain.ErrValidation) {
				t.Errorf("err = %v, want ErrValidation", err)
			}
		})
	}
}

func TestCreateComment_StoryMustExist(t *testing.T) {
	svc, _ := newEngagementFixture(nil, "story-1")

	_, err := svc.CreateComment(context.Background(), &models.CreateCommentRequest{
		StoryID: "missing",
		UserID:  "user-1",
		Text:    "hello",
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestSubmitRating_BoundsAndUpsert(t *testing.T) {
	svc, _ := newEngagementFixture(nil, "story-1")
	ctx := context.Background()

	for _, value := range []int{0, 6, -1} {
		if _, err := svc.SubmitRating(ctx, &models.SubmitRatingRequest{StoryID: "story-1", UserID: "u", Value: value}); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("value %d: err = %v, want ErrValidation", value, err)
		}
	}

	// last write wins per (story, user)
	for _, value := range []int{2, 5} {
		if _, err := svc.SubmitRating(ctx, &models.SubmitRatingRequest{StoryID: "story-1", UserID: "u", Value: value}); err != nil {
			t.Fatalf("submit %d: %v", value, err)
		}
	}
	avg, count, err := svc.GetRatingSummary(ctx, "story-1")
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if count != 1 || avg != 5 {
		t.Errorf("avg = %v count = %d, want 5 and 1", avg, count)
	}
}

func TestToggleFavorite_FlipsState(t *testing.T) {
	svc, _ := newEngagementFixture(nil, "story-1")
	ctx := context.Background()

	state, err := svc.ToggleFavorite(ctx, "story-1", "user-1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if !state.Favorited {
		t.Error("first toggle should favorite")
	}

	state, err = svc.ToggleFavorite(ctx, "story-1", "user-1")
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if state.Favorited {
		t.Error("second toggle should unfavorite")
	}
}
