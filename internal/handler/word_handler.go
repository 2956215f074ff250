package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/toakuai/internal/model"
	"github.com/hitoshi/toakuai/internal/vote"
)

// WordServiceInterface は見出し語ハンドラーが必要とするサービスインターフェース。
type WordServiceInterface interface {
	// GetWord は見出し語と投票集計を返す。
	GetWord(ctx context.Context, textID string) (model.WordText, vote.Tally, error)
	FindWord(ctx context.Context, text string) (model.WordText, error)
	CreateWord(ctx context.Context, in model.WordText) (model.WordText, error)
	// DeleteWord はIDと綴りの両方が一致する見出し語を削除する。
	DeleteWord(ctx context.Context, textID, text string) error
	// WordVotes は見出し語への投票を集計する。
	WordVotes(ctx context.Context, textID string) (vote.Tally, error)
}

// WordHandler は見出し語のHTTPハンドラー。
type WordHandler struct {
	service WordServiceInterface
}

// NewWordHandler はWordHandlerを生成する。
func NewWordHandler(service WordServiceInterface) *WordHandler {
	return &WordHandler{service: service}
}

// wordResponse は見出し語と投票集計をまとめたAPIレスポンス。
type wordResponse struct {
	model.WordText
	Votes voteTallyResponse `json:"votes"`
}

// voteTallyResponse は投票集計のAPIレスポンス。
type voteTallyResponse struct {
	Up    uint64 `json:"up"`
	Down  uint64 `json:"down"`
	Score int64  `json:"score"`
}

func toVoteTallyResponse(t vote.Tally) voteTallyResponse {
	return voteTallyResponse{Up: t.Up, Down: t.Down, Score: t.Score()}
}

// GetWord は見出し語を投票集計付きで取得する。
// GET /api/words/{id}
func (h *WordHandler) GetWord(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	word, tally, err := h.service.GetWord(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, wordResponse{
		WordText: word,
		Votes:    toVoteTallyResponse(tally),
	})
}

// FindWord は綴りで見出し語を検索する。
// GET /api/words?text=...
func (h *WordHandler) FindWord(w http.ResponseWriter, r *http.Request) {
	text, ok := requireQuery(w, r, "text")
	if !ok {
		return
	}

	word, err := h.service.FindWord(r.Context(), text)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, word)
}

// CreateWord は見出し語を登録する。
// POST /api/words
func (h *WordHandler) CreateWord(w http.ResponseWriter, r *http.Request) {
	var req model.WordText
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if req.Word == "" {
		writeAPIErrorResponse(w, model.NewInvalidRequestError("word が空です"))
		return
	}

	created, err := h.service.CreateWord(r.Context(), req)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// DeleteWord は見出し語を削除する。
// DELETE /api/words/{id}?word=...
func (h *WordHandler) DeleteWord(w http.ResponseWriter, r *http.Request) {
	text, ok := requireQuery(w, r, "word")
	if !ok {
		return
	}

	if err := h.service.DeleteWord(r.Context(), chi.URLParam(r, "id"), text); err != nil {
		handleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// WordVotes は見出し語への投票集計を返す。
// GET /api/words/{id}/votes
func (h *WordHandler) WordVotes(w http.ResponseWriter, r *http.Request) {
	tally, err := h.service.WordVotes(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toVoteTallyResponse(tally))
}
