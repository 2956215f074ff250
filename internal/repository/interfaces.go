// Package repository は辞書データの永続化を扱う。
//
// 各操作はdatabase.Poolからコネクションを1本借り、終了時に必ず返却する。
// 行はカラム名で読み取り（Row）、正規形のエンティティに変換して返す。
package repository

import (
	"context"
	"iter"

	"github.com/google/uuid"
	"github.com/hitoshi/toakuai/internal/model"
)

// UserRepository はユーザーの参照インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はErrNotFoundを返す。
	FindByID(ctx context.Context, id uuid.UUID) (model.User, error)
	// FindByUsername はユーザー名の完全一致で取得する。見つからない場合はErrNotFoundを返す。
	FindByUsername(ctx context.Context, username string) (model.User, error)
}

// WordRepository は見出し語の永続化インターフェース。
type WordRepository interface {
	// FindByID は指定IDの見出し語を取得する。見つからない場合はErrNotFoundを返す。
	FindByID(ctx context.Context, id uuid.UUID) (model.Word, error)
	// FindByText は綴りの完全一致で取得する。同じ綴りが複数ある場合は最も古いものを返す。
	FindByText(ctx context.Context, text string) (model.Word, error)
	// Create は見出し語を挿入し、採番されたIDをw.IDに書き戻す。
	Create(ctx context.Context, w *model.Word) error
	// Delete はIDと綴りの両方が一致する見出し語を削除し、削除件数を返す。
	Delete(ctx context.Context, id uuid.UUID, text string) (int64, error)
}

// CommentRepository はコメントの永続化インターフェース。
type CommentRepository interface {
	// FindByID は指定IDのコメントを取得する。見つからない場合はErrNotFoundを返す。
	FindByID(ctx context.Context, id uuid.UUID) (model.Comment, error)
	// ListByWord は見出し語に付いたコメントを順に返す。順序は保証しない。
	ListByWord(ctx context.Context, wordID uuid.UUID) iter.Seq2[model.Comment, error]
	// Create はコメントを挿入し、採番されたIDをc.IDに書き戻す。
	Create(ctx context.Context, c *model.Comment) error
}

// VoteRepository は投票の永続化インターフェース。
type VoteRepository interface {
	// ScanByWord は見出し語への投票を順に返す。
	ScanByWord(ctx context.Context, wordID uuid.UUID) iter.Seq2[model.Vote, error]
	// Create は投票を挿入する。同じ対象への再投票はErrDuplicateVoteになる。
	Create(ctx context.Context, v model.Vote) error
}
