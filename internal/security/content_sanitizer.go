// Package security はユーザー投稿テキストのサニタイズを提供する。
//
// 見出し語の定義、gloss、frame、コメント本文は保存前にここを通す。
// bluemondayの許可リストに含まれないタグと属性はすべて除去される。
package security

import (
	"github.com/microcosm-cc/bluemonday"
)

// ContentSanitizer はユーザー投稿テキストのサニタイズ機能のインターフェース。
type ContentSanitizer interface {
	// Sanitize は許可リスト外のタグと属性を除去した文字列を返す。
	// テキスト中の<、>、&などはHTMLエスケープされる。
	// 空文字列の入力には空文字列を返す。
	// 同一入力に対して常に同一出力を返す（冪等）。
	Sanitize(raw string) string
}

// contentSanitizer はContentSanitizerの実装。
// bluemondayのポリシーはスレッドセーフ。
type contentSanitizer struct {
	policy *bluemonday.Policy
}

// NewPlainTextSanitizer はすべてのタグを除去するサニタイザを生成する。
// gloss、frame、コメント本文に使用する。
func NewPlainTextSanitizer() ContentSanitizer {
	return &contentSanitizer{policy: bluemonday.StrictPolicy()}
}

// NewDefinitionSanitizer は定義文用のサニタイザを生成する。
// ポリシーの内容:
//   - 許可タグ: em, strong, code, br（属性なし）
//   - script, style等のタグと全てのon*イベント属性は除去
func NewDefinitionSanitizer() ContentSanitizer {
	p := bluemonday.NewPolicy()
	p.AllowElements("em", "strong", "code", "br")
	return &contentSanitizer{policy: p}
}

// Sanitize は許可リスト外のタグと属性を除去する。
func (s *contentSanitizer) Sanitize(raw string) string {
	if raw == "" {
		return ""
	}
	return s.policy.Sanitize(raw)
}

// SanitizeAll はスライスの各要素をサニタイズした新しいスライスを返す。
// nilの入力には空スライスを返す。
func SanitizeAll(s ContentSanitizer, values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = s.Sanitize(v)
	}
	return out
}
