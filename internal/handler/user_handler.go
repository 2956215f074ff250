package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/toakuai/internal/model"
)

// UserServiceInterface はユーザーハンドラーが必要とするサービスインターフェース。
type UserServiceInterface interface {
	// GetUser はテキスト形式のIDでユーザーを取得する。
	GetUser(ctx context.Context, textID string) (model.UserText, error)
	// GetUserByName はユーザー名でユーザーを取得する。
	GetUserByName(ctx context.Context, username string) (model.UserText, error)
}

// UserHandler はユーザー参照のHTTPハンドラー。
type UserHandler struct {
	service UserServiceInterface
}

// NewUserHandler はUserHandlerを生成する。
func NewUserHandler(service UserServiceInterface) *UserHandler {
	return &UserHandler{
		service: service,
	}
}

// GetUser はユーザーを取得する。
// GET /api/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// GetUserByName はユーザー名でユーザーを取得する。
// GET /api/users/by-name/{username}
func (h *UserHandler) GetUserByName(w http.ResponseWriter, r *http.Request) {
	u, err := h.service.GetUserByName(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}
