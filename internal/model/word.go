package model

import "github.com/google/uuid"

// Word は辞書の見出し語を表す（正規形）。
// ForkedFromは別のWordへの弱参照で、参照先が削除されていても残る。
// Createdは挿入時に設定されて以降変更しない。Editedは編集されるまでnil。
// Gloss、Frameのnilは空スライスと同じ意味で、ProjectとLiftは空スライスに揃える。
type Word struct {
	ID         uuid.UUID
	Author     *uuid.UUID
	Word       string
	Definition string
	ForkedFrom *uuid.UUID
	Lang       string
	Gloss      []string
	Frame      []string
	Created    int64 // エポック秒
	Edited     *int64
}

// WordText はWordのテキスト識別子形式。API境界で使用する。
type WordText struct {
	ID         string   `json:"id"`
	Author     *string  `json:"author"`
	Word       string   `json:"word"`
	Definition string   `json:"definition"`
	ForkedFrom *string  `json:"forked_from"`
	Lang       string   `json:"lang"`
	Gloss      []string `json:"gloss"`
	Frame      []string `json:"frame"`
	Created    int64    `json:"created"`
	Edited     *int64   `json:"edited"`
}

// NewWord は未設定のテンプレートWordを返す。
func NewWord() Word {
	return Word{
		ID:    NilID,
		Gloss: []string{},
		Frame: []string{},
	}
}

// Project はテキスト形式に変換する。
func (w Word) Project() WordText {
	return WordText{
		ID:         IDText(w.ID),
		Author:     optionalIDText(w.Author),
		Word:       w.Word,
		Definition: w.Definition,
		ForkedFrom: optionalIDText(w.ForkedFrom),
		Lang:       w.Lang,
		Gloss:      cloneStrings(w.Gloss),
		Frame:      cloneStrings(w.Frame),
		Created:    w.Created,
		Edited:     cloneInt64(w.Edited),
	}
}

// Lift は正規形に変換する。
// IDが空の場合は未採番としてNilIDになる。author、forked_fromは省略可能。
func (w WordText) Lift() (Word, error) {
	id, err := parseOwnID("id", w.ID)
	if err != nil {
		return Word{}, err
	}
	author, err := parseOptionalRef("author", w.Author)
	if err != nil {
		return Word{}, err
	}
	forkedFrom, err := parseOptionalRef("forked_from", w.ForkedFrom)
	if err != nil {
		return Word{}, err
	}
	return Word{
		ID:         id,
		Author:     author,
		Word:       w.Word,
		Definition: w.Definition,
		ForkedFrom: forkedFrom,
		Lang:       w.Lang,
		Gloss:      cloneStrings(w.Gloss),
		Frame:      cloneStrings(w.Frame),
		Created:    w.Created,
		Edited:     cloneInt64(w.Edited),
	}, nil
}

// cloneStrings はスライスを複製する。nilは空スライスになる。
func cloneStrings(s []string) []string {
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func cloneInt64(v *int64) *int64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
