package model

import "github.com/google/uuid"

// User は辞書の利用者を表す（正規形）。
// 登録は外部フローで行われ、このレイヤーでは更新しない。
type User struct {
	ID       uuid.UUID
	Username string
}

// UserText はUserのテキスト識別子形式。API境界で使用する。
type UserText struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// NewUser は未設定のテンプレートUserを返す。
func NewUser() User {
	return User{ID: NilID}
}

// Project はテキスト形式に変換する。
func (u User) Project() UserText {
	return UserText{
		ID:       IDText(u.ID),
		Username: u.Username,
	}
}

// Lift は正規形に変換する。不正な識別子はErrMalformedIdentifierを返す。
func (u UserText) Lift() (User, error) {
	id, err := parseOwnID("id", u.ID)
	if err != nil {
		return User{}, err
	}
	return User{ID: id, Username: u.Username}, nil
}
