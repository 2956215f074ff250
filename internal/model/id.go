package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// NilID は未設定を表す全ゼロの識別子。
// テンプレートレコードのプレースホルダとしてのみ使用し、参照として扱ってはならない。
var NilID = uuid.Nil

// idTextLen はハイフン区切り16進表記（8-4-4-4-12）の文字数。
const idTextLen = 36

var (
	// ErrMalformedIdentifier は識別子のテキスト表現が不正な場合のエラー。
	ErrMalformedIdentifier = errors.New("malformed identifier")

	// ErrNilIdentifier は参照としてNilIDが渡された場合のエラー。
	// ErrMalformedIdentifierとしても判定できる。
	ErrNilIdentifier = fmt.Errorf("%w: nil identifier is not a valid reference", ErrMalformedIdentifier)
)

// MalformedIDError は不正な識別子の詳細を保持する。
// Fieldはエンティティのフィールド名（単体パース時は空）。
type MalformedIDError struct {
	Field string
	Input string
	Err   error
}

// Error はerrorインターフェースを実装する。
func (e *MalformedIDError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("malformed identifier %q: %v", e.Input, e.Err)
	}
	return fmt.Sprintf("malformed identifier in %s %q: %v", e.Field, e.Input, e.Err)
}

// Unwrap はerrors.Is(err, ErrMalformedIdentifier)を成立させる。
func (e *MalformedIDError) Unwrap() []error {
	return []error{ErrMalformedIdentifier, e.Err}
}

// IDText は識別子を正規のテキスト表現（小文字ハイフン区切り）に変換する。
func IDText(id uuid.UUID) string {
	return id.String()
}

// ParseID はテキスト表現を識別子に変換する。
// 受け付けるのは36文字のハイフン区切り形式のみで、
// uuid.Parseが許容するurn:uuid:接頭辞や波括弧、ハイフンなし形式は拒否する。
func ParseID(s string) (uuid.UUID, error) {
	if len(s) != idTextLen {
		return uuid.Nil, &MalformedIDError{
			Input: s,
			Err:   fmt.Errorf("invalid length %d, want %d", len(s), idTextLen),
		}
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, &MalformedIDError{Input: s, Err: err}
	}
	return id, nil
}

// ParseRef は他エンティティへの参照としての識別子をパースする。
// ParseIDに加えてNilIDを拒否する。
func ParseRef(field, s string) (uuid.UUID, error) {
	id, err := ParseID(s)
	if err != nil {
		var mErr *MalformedIDError
		if errors.As(err, &mErr) {
			mErr.Field = field
		}
		return uuid.Nil, err
	}
	if id == uuid.Nil {
		return uuid.Nil, &MalformedIDError{Field: field, Input: s, Err: ErrNilIdentifier}
	}
	return id, nil
}

// parseOptionalRef は省略可能な参照をパースする。nilはパースせずnilのまま返す。
func parseOptionalRef(field string, s *string) (*uuid.UUID, error) {
	if s == nil {
		return nil, nil
	}
	id, err := ParseRef(field, *s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// optionalIDText は省略可能な識別子をテキスト表現に変換する。
func optionalIDText(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := IDText(*id)
	return &s
}

// parseOwnID はエンティティ自身の識別子をパースする。
// 空文字列は未採番（ストア側で生成）としてNilIDを返す。
func parseOwnID(field, s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	id, err := ParseID(s)
	if err != nil {
		var mErr *MalformedIDError
		if errors.As(err, &mErr) {
			mErr.Field = field
		}
		return uuid.Nil, err
	}
	return id, nil
}
