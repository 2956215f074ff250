// Package model はドメインモデルを定義する。
//
// 各エンティティは正規形（uuid.UUID識別子、ストア用）とテキスト形式
// （ハイフン区切り文字列、API境界用）の2つの具象型を持ち、
// Project（全域・無損失）とLift（失敗しうる）で相互に変換する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, dictionary, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeInvalidID         = "INVALID_ID"
	ErrCodeInvalidRequest    = "INVALID_REQUEST"
	ErrCodeInvalidVoteTarget = "INVALID_VOTE_TARGET"
	ErrCodeUserNotFound      = "USER_NOT_FOUND"
	ErrCodeWordNotFound      = "WORD_NOT_FOUND"
	ErrCodeCommentNotFound   = "COMMENT_NOT_FOUND"
	ErrCodeDuplicateVote     = "DUPLICATE_VOTE"
	ErrCodeWordMismatch      = "WORD_MISMATCH"
	ErrCodeStoreBusy         = "STORE_BUSY"
	ErrCodePayloadTooLarge   = "PAYLOAD_TOO_LARGE"
	ErrCodeRateLimited       = "RATE_LIMIT_EXCEEDED"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

// NewInvalidIDError は不正な識別子のエラーを生成する。
func NewInvalidIDError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidID,
		Message:  fmt.Sprintf("無効な識別子です: %s", reason),
		Category: "validation",
		Action:   "識別子はハイフン区切りのUUID形式（例: 123e4567-e89b-12d3-a456-426614174000）で指定してください。",
	}
}

// NewInvalidRequestError はリクエスト内容が不正な場合のエラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	}
}

// NewInvalidVoteTargetError は投票対象の指定が不正な場合のエラーを生成する。
func NewInvalidVoteTargetError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidVoteTarget,
		Message:  "投票対象が不正です。",
		Category: "validation",
		Action:   "entry_word と entry_comment のどちらか一方だけを指定してください。",
	}
}

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError() *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  "ユーザーが見つかりません。",
		Category: "dictionary",
		Action:   "ユーザーIDまたはユーザー名を確認してください。",
	}
}

// NewWordNotFoundError は見出し語が見つからない場合のエラーを生成する。
func NewWordNotFoundError(key string) *APIError {
	return &APIError{
		Code:     ErrCodeWordNotFound,
		Message:  fmt.Sprintf("指定された見出し語が見つかりません: %s", key),
		Category: "dictionary",
		Action:   "見出し語のIDまたは綴りを確認してください。",
	}
}

// NewCommentNotFoundError はコメントが見つからない場合のエラーを生成する。
func NewCommentNotFoundError(commentID string) *APIError {
	return &APIError{
		Code:     ErrCodeCommentNotFound,
		Message:  fmt.Sprintf("指定されたコメントが見つかりません: %s", commentID),
		Category: "dictionary",
		Action:   "コメントIDを確認してください。",
	}
}

// NewDuplicateVoteError は同じ対象に再投票しようとした場合のエラーを生成する。
func NewDuplicateVoteError() *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateVote,
		Message:  "この対象には既に投票しています。",
		Category: "dictionary",
		Action:   "同じ対象への投票は1回のみです。",
	}
}

// NewWordMismatchError はIDと綴りの組が一致せず削除できなかった場合のエラーを生成する。
func NewWordMismatchError() *APIError {
	return &APIError{
		Code:     ErrCodeWordMismatch,
		Message:  "IDと綴りが一致する見出し語がありません。",
		Category: "dictionary",
		Action:   "最新の見出し語を取得し直してから再度お試しください。",
	}
}

// NewStoreBusyError はコネクションプールが枯渇している場合のエラーを生成する。
func NewStoreBusyError() *APIError {
	return &APIError{
		Code:     ErrCodeStoreBusy,
		Message:  "サーバーが混み合っています。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}

// NewPayloadTooLargeError はリクエストボディが上限を超えた場合のエラーを生成する。
func NewPayloadTooLargeError() *APIError {
	return &APIError{
		Code:     ErrCodePayloadTooLarge,
		Message:  "リクエストボディが大きすぎます。",
		Category: "validation",
		Action:   "リクエストボディを16KiB以下にしてください。",
	}
}

// NewRateLimitedError はレート制限を超えた場合のエラーを生成する。
func NewRateLimitedError() *APIError {
	return &APIError{
		Code:     ErrCodeRateLimited,
		Message:  "リクエストが多すぎます。",
		Category: "system",
		Action:   "Retry-Afterに示された秒数だけ待ってから再度お試しください。",
	}
}

// NewInternalError は内部エラーを生成する。詳細はログにのみ残す。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
