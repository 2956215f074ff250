package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/toakuai/internal/middleware"
	"github.com/hitoshi/toakuai/internal/model"
	"github.com/hitoshi/toakuai/internal/vote"
)

// --- モック定義 ---

// mockDictionaryService はDictionaryServiceのモック実装。
type mockDictionaryService struct {
	getUserFn       func(ctx context.Context, textID string) (model.UserText, error)
	getUserByNameFn func(ctx context.Context, username string) (model.UserText, error)
	getWordFn       func(ctx context.Context, textID string) (model.WordText, vote.Tally, error)
	findWordFn      func(ctx context.Context, text string) (model.WordText, error)
	createWordFn    func(ctx context.Context, in model.WordText) (model.WordText, error)
	deleteWordFn    func(ctx context.Context, textID, text string) error
	wordVotesFn     func(ctx context.Context, textID string) (vote.Tally, error)
	listCommentsFn  func(ctx context.Context, wordTextID string) ([]model.CommentText, error)
	getCommentFn    func(ctx context.Context, textID string) (model.CommentText, error)
	addCommentFn    func(ctx context.Context, wordTextID string, in model.CommentText) (model.CommentText, error)
	castVoteFn      func(ctx context.Context, in model.VoteText) error
}

var _ DictionaryService = (*mockDictionaryService)(nil)

func (m *mockDictionaryService) GetUser(ctx context.Context, textID string) (model.UserText, error) {
	if m.getUserFn != nil {
		return m.getUserFn(ctx, textID)
	}
	return model.UserText{}, model.NewUserNotFoundError()
}

func (m *mockDictionaryService) GetUserByName(ctx context.Context, username string) (model.UserText, error) {
	if m.getUserByNameFn != nil {
		return m.getUserByNameFn(ctx, username)
	}
	return model.UserText{}, model.NewUserNotFoundError()
}

func (m *mockDictionaryService) GetWord(ctx context.Context, textID string) (model.WordText, vote.Tally, error) {
	if m.getWordFn != nil {
		return m.getWordFn(ctx, textID)
	}
	return model.WordText{}, vote.Tally{}, model.NewWordNotFoundError(textID)
}

func (m *mockDictionaryService) FindWord(ctx context.Context, text string) (model.WordText, error) {
	if m.findWordFn != nil {
		return m.findWordFn(ctx, text)
	}
	return model.WordText{}, model.NewWordNotFoundError(text)
}

func (m *mockDictionaryService) CreateWord(ctx context.Context, in model.WordText) (model.WordText, error) {
	if m.createWordFn != nil {
		return m.createWordFn(ctx, in)
	}
	return in, nil
}

func (m *mockDictionaryService) DeleteWord(ctx context.Context, textID, text string) error {
	if m.deleteWordFn != nil {
		return m.deleteWordFn(ctx, textID, text)
	}
	return nil
}

func (m *mockDictionaryService) WordVotes(ctx context.Context, textID string) (vote.Tally, error) {
	if m.wordVotesFn != nil {
		return m.wordVotesFn(ctx, textID)
	}
	return vote.Tally{}, nil
}

func (m *mockDictionaryService) ListComments(ctx context.Context, wordTextID string) ([]model.CommentText, error) {
	if m.listCommentsFn != nil {
		return m.listCommentsFn(ctx, wordTextID)
	}
	return []model.CommentText{}, nil
}

func (m *mockDictionaryService) GetComment(ctx context.Context, textID string) (model.CommentText, error) {
	if m.getCommentFn != nil {
		return m.getCommentFn(ctx, textID)
	}
	return model.CommentText{}, model.NewCommentNotFoundError(textID)
}

func (m *mockDictionaryService) AddComment(ctx context.Context, wordTextID string, in model.CommentText) (model.CommentText, error) {
	if m.addCommentFn != nil {
		return m.addCommentFn(ctx, wordTextID, in)
	}
	return in, nil
}

func (m *mockDictionaryService) CastVote(ctx context.Context, in model.VoteText) error {
	if m.castVoteFn != nil {
		return m.castVoteFn(ctx, in)
	}
	return nil
}

// --- テストヘルパー ---

const (
	testUserID    = "123e4567-e89b-12d3-a456-426614174000"
	testWordID    = "223e4567-e89b-12d3-a456-426614174001"
	testCommentID = "323e4567-e89b-12d3-a456-426614174002"
)

// withChiURLParam はテスト用にchiのURLパラメータを注入するヘルパー。
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	return r.WithContext(ctx)
}

// decodeErrorBody はエラーレスポンスのボディをデコードする。
func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) middleware.ErrorResponseBody {
	t.Helper()
	var body middleware.ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	return body
}

func strPtr(s string) *string { return &s }
