package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/hitoshi/toakuai/internal/model"
)

// storeBusyRetryAfter はSTORE_BUSYに付けるRetry-Afterの秒数。
const storeBusyRetryAfter = "1"

// ErrorResponseBody は辞書APIのエラーレスポンス。
// categoryはvalidation、dictionary、systemのいずれか。
type ErrorResponseBody struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// StatusForCode は辞書のエラーコードをHTTPステータスコードに変換する。
// 未知のコードは500になる。
func StatusForCode(code string) int {
	switch code {
	case model.ErrCodeInvalidID, model.ErrCodeInvalidRequest, model.ErrCodeInvalidVoteTarget:
		return http.StatusBadRequest
	case model.ErrCodeUserNotFound, model.ErrCodeWordNotFound, model.ErrCodeCommentNotFound:
		return http.StatusNotFound
	case model.ErrCodeDuplicateVote, model.ErrCodeWordMismatch:
		return http.StatusConflict
	case model.ErrCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case model.ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case model.ErrCodeStoreBusy:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteAPIError はエラーコードから決まるステータスでAPIErrorを書き込む。
// STORE_BUSYにはRetry-Afterを付ける。呼び出し側が設定済みの場合は上書きしない。
func WriteAPIError(w http.ResponseWriter, apiErr *model.APIError) {
	status := StatusForCode(apiErr.Code)
	if status == http.StatusServiceUnavailable && w.Header().Get("Retry-After") == "" {
		w.Header().Set("Retry-After", storeBusyRetryAfter)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponseBody{
		Code:     apiErr.Code,
		Message:  apiErr.Message,
		Category: apiErr.Category,
		Action:   apiErr.Action,
	})
}

// WriteInternalServerError は500を書き込む。原因はレスポンスに含めない。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteAPIError(w, model.NewInternalError())
}
