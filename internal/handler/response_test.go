package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hitoshi/toakuai/internal/model"
)

func TestHandleServiceError_StoreBusy(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/words/x", nil)
	w := httptest.NewRecorder()

	handleServiceError(w, req, model.NewStoreBusyError())

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", w.Code, http.StatusServiceUnavailable)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Retry-After should be set for STORE_BUSY")
	}
}

func TestHandleServiceError_WrappedAPIError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/words/x", nil)
	w := httptest.NewRecorder()

	handleServiceError(w, req, fmt.Errorf("context: %w", model.NewWordNotFoundError("x")))

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if body := decodeErrorBody(t, w); body.Code != model.ErrCodeWordNotFound {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeWordNotFound)
	}
}

func TestHandleServiceError_PlainErrorHidesDetail(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/words/x", nil)
	w := httptest.NewRecorder()

	handleServiceError(w, req, errors.New("pq: relation \"words\" does not exist"))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	if strings.Contains(w.Body.String(), "relation") {
		t.Errorf("internal error detail leaked: %s", w.Body.String())
	}
}

func TestDecodeJSONBody_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/votes", strings.NewReader("{not json"))
	w := httptest.NewRecorder()

	var v model.VoteText
	if decodeJSONBody(w, req, &v) {
		t.Fatal("expected decode to fail")
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestDecodeJSONBody_MaxBytesExceeded(t *testing.T) {
	body := `{"author":"` + strings.Repeat("a", 100) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/votes", strings.NewReader(body))
	w := httptest.NewRecorder()
	req.Body = http.MaxBytesReader(w, req.Body, 16)

	var v model.VoteText
	if decodeJSONBody(w, req, &v) {
		t.Fatal("expected decode to fail")
	}
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want %d", w.Code, http.StatusRequestEntityTooLarge)
	}
	if got := decodeErrorBody(t, w); got.Code != model.ErrCodePayloadTooLarge {
		t.Errorf("code = %q, want %q", got.Code, model.ErrCodePayloadTooLarge)
	}
}
