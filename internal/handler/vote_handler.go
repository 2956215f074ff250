package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/toakuai/internal/model"
)

// VoteServiceInterface は投票ハンドラーが必要とするサービスインターフェース。
type VoteServiceInterface interface {
	// CastVote は見出し語またはコメントに投票する。同じ対象への再投票はDUPLICATE_VOTEになる。
	CastVote(ctx context.Context, in model.VoteText) error
}

// VoteHandler は投票のHTTPハンドラー。
type VoteHandler struct {
	service VoteServiceInterface
}

// NewVoteHandler はVoteHandlerを生成する。
func NewVoteHandler(service VoteServiceInterface) *VoteHandler {
	return &VoteHandler{service: service}
}

// CastVote は投票を登録する。
// POST /api/votes
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	var req model.VoteText
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if err := h.service.CastVote(r.Context(), req); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, req)
}
