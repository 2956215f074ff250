package repository

import (
	"context"
	"database/sql"
	"fmt"
	"iter"

	"github.com/google/uuid"
	"github.com/hitoshi/toakuai/internal/database"
	"github.com/hitoshi/toakuai/internal/model"
)

var _ VoteRepository = (*PostgresVoteRepo)(nil)

// PostgresVoteRepo はPostgreSQLを使用した投票リポジトリ。
type PostgresVoteRepo struct {
	pool *database.Pool
}

// NewPostgresVoteRepo はPostgresVoteRepoを生成する。
func NewPostgresVoteRepo(pool *database.Pool) *PostgresVoteRepo {
	return &PostgresVoteRepo{pool: pool}
}

// ScanByWord は見出し語への投票を1件ずつ返す。全件をメモリに載せない。
func (r *PostgresVoteRepo) ScanByWord(ctx context.Context, wordID uuid.UUID) iter.Seq2[model.Vote, error] {
	const op = "vote.scan_by_word"
	if err := requireID(op, wordID); err != nil {
		return failedStream[model.Vote](err)
	}
	return queryStream(ctx, r.pool, op, mapVote,
		`SELECT `+voteColumns+` FROM votes WHERE entry_word = $1`,
		wordID,
	)
}

// Create は投票を挿入する。
func (r *PostgresVoteRepo) Create(ctx context.Context, v model.Vote) error {
	const op = "vote.create"
	if v.Target.IsZero() {
		return fmt.Errorf("%s: %w", op, model.ErrInvalidVoteTarget)
	}

	var entryWord, entryComment *uuid.UUID
	if id, ok := v.Target.WordID(); ok {
		entryWord = &id
	}
	if id, ok := v.Target.CommentID(); ok {
		entryComment = &id
	}

	return withConn(ctx, r.pool, op, func(conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx,
			`INSERT INTO votes (author, entry_word, entry_comment, is_upvote)
			 VALUES ($1, $2, $3, $4)`,
			v.Author, entryWord, entryComment, v.IsUpvote,
		)
		if err != nil {
			err = storeError(op, err)
			if IsKind(err, KindUniqueViolation) {
				return fmt.Errorf("%w: %w", ErrDuplicateVote, err)
			}
			return err
		}
		return nil
	})
}
