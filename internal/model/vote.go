package model

import (
	"errors"

	"github.com/google/uuid"
)

// ErrInvalidVoteTarget はentry_wordとentry_commentが両方指定、または両方未指定の場合のエラー。
var ErrInvalidVoteTarget = errors.New("vote must target exactly one of entry_word or entry_comment")

// TargetKind は投票対象の種別。
type TargetKind string

const (
	// TargetWord はWordへの投票。
	TargetWord TargetKind = "word"
	// TargetComment はCommentへの投票。
	TargetComment TargetKind = "comment"
)

// VoteTarget は投票対象。WordTargetまたはCommentTargetで生成する。
// 「両方」「どちらでもない」状態は表現できない。
type VoteTarget struct {
	kind TargetKind
	id   uuid.UUID
}

// WordTarget はWordを対象とするVoteTargetを返す。
func WordTarget(id uuid.UUID) VoteTarget {
	return VoteTarget{kind: TargetWord, id: id}
}

// CommentTarget はCommentを対象とするVoteTargetを返す。
func CommentTarget(id uuid.UUID) VoteTarget {
	return VoteTarget{kind: TargetComment, id: id}
}

// Kind は対象の種別を返す。ゼロ値のVoteTargetでは空文字列。
func (t VoteTarget) Kind() TargetKind { return t.kind }

// ID は対象の識別子を返す。
func (t VoteTarget) ID() uuid.UUID { return t.id }

// WordID は対象がWordの場合にその識別子を返す。
func (t VoteTarget) WordID() (uuid.UUID, bool) {
	return t.id, t.kind == TargetWord
}

// CommentID は対象がCommentの場合にその識別子を返す。
func (t VoteTarget) CommentID() (uuid.UUID, bool) {
	return t.id, t.kind == TargetComment
}

// IsZero は対象が未設定かどうかを返す。
func (t VoteTarget) IsZero() bool { return t.kind == "" }

// Vote は投票を表す（正規形）。識別子を持たず、(Author, Target)の組で同一性が決まる。
// 同じ組の再投票はストアの一意制約で拒否される。
type Vote struct {
	Author   uuid.UUID
	Target   VoteTarget
	IsUpvote bool
}

// VoteText はVoteのテキスト識別子形式。
// ワイヤ上はentry_word / entry_commentの2フィールドで表す。
type VoteText struct {
	Author       string  `json:"author"`
	EntryWord    *string `json:"entry_word"`
	EntryComment *string `json:"entry_comment"`
	IsUpvote     bool    `json:"is_upvote"`
}

// NewVote は未設定のテンプレートVoteを返す。対象は未設定（IsZero）で、
// WordTargetまたはCommentTargetを設定するまでLiftの往復はできない。
func NewVote() Vote {
	return Vote{Author: NilID}
}

// Project はテキスト形式に変換する。
func (v Vote) Project() VoteText {
	out := VoteText{
		Author:   IDText(v.Author),
		IsUpvote: v.IsUpvote,
	}
	s := IDText(v.Target.id)
	switch v.Target.kind {
	case TargetWord:
		out.EntryWord = &s
	case TargetComment:
		out.EntryComment = &s
	}
	return out
}

// Lift は正規形に変換する。
// entry_wordとentry_commentのちょうど一方が指定されていない場合はErrInvalidVoteTargetを返す。
func (v VoteText) Lift() (Vote, error) {
	author, err := ParseRef("author", v.Author)
	if err != nil {
		return Vote{}, err
	}

	var target VoteTarget
	switch {
	case v.EntryWord != nil && v.EntryComment == nil:
		id, err := ParseRef("entry_word", *v.EntryWord)
		if err != nil {
			return Vote{}, err
		}
		target = WordTarget(id)
	case v.EntryComment != nil && v.EntryWord == nil:
		id, err := ParseRef("entry_comment", *v.EntryComment)
		if err != nil {
			return Vote{}, err
		}
		target = CommentTarget(id)
	default:
		return Vote{}, ErrInvalidVoteTarget
	}

	return Vote{Author: author, Target: target, IsUpvote: v.IsUpvote}, nil
}
