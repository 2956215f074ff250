package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/toakuai/internal/model"
)

// CommentServiceInterface はコメントハンドラーが必要とするサービスインターフェース。
type CommentServiceInterface interface {
	ListComments(ctx context.Context, wordTextID string) ([]model.CommentText, error)
	GetComment(ctx context.Context, textID string) (model.CommentText, error)
	// AddComment は見出し語にコメントを追加する。パスの見出し語IDがボディより優先される。
	AddComment(ctx context.Context, wordTextID string, in model.CommentText) (model.CommentText, error)
}

// CommentHandler はコメントのHTTPハンドラー。
type CommentHandler struct {
	service CommentServiceInterface
}

// NewCommentHandler はCommentHandlerを生成する。
func NewCommentHandler(service CommentServiceInterface) *CommentHandler {
	return &CommentHandler{service: service}
}

// ListComments は見出し語のコメント一覧を返す。
// GET /api/words/{id}/comments
func (h *CommentHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.service.ListComments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

// AddComment は見出し語にコメントを追加する。
// POST /api/words/{id}/comments
func (h *CommentHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var req model.CommentText
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.Content == "" {
		writeAPIErrorResponse(w, model.NewInvalidRequestError("content が空です"))
		return
	}

	created, err := h.service.AddComment(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// GetComment はコメントを取得する。
// GET /api/comments/{id}
func (h *CommentHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetComment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
