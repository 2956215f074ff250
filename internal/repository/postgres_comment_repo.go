package repository

import (
	"context"
	"database/sql"
	"iter"

	"github.com/google/uuid"
	"github.com/hitoshi/toakuai/internal/database"
	"github.com/hitoshi/toakuai/internal/model"
)

var _ CommentRepository = (*PostgresCommentRepo)(nil)

// PostgresCommentRepo はPostgreSQLを使用したコメントリポジトリ。
type PostgresCommentRepo struct {
	pool *database.Pool
}

// NewPostgresCommentRepo はPostgresCommentRepoを生成する。
func NewPostgresCommentRepo(pool *database.Pool) *PostgresCommentRepo {
	return &PostgresCommentRepo{pool: pool}
}

// FindByID は指定IDのコメントを取得する。
func (r *PostgresCommentRepo) FindByID(ctx context.Context, id uuid.UUID) (model.Comment, error) {
	const op = "comment.find_by_id"
	if err := requireID(op, id); err != nil {
		return model.Comment{}, err
	}
	return queryOne(ctx, r.pool, op, mapComment,
		`SELECT `+commentColumns+` FROM comments WHERE id = $1`,
		id,
	)
}

// ListByWord は見出し語に付いたコメントを返す。
func (r *PostgresCommentRepo) ListByWord(ctx context.Context, wordID uuid.UUID) iter.Seq2[model.Comment, error] {
	const op = "comment.list_by_word"
	if err := requireID(op, wordID); err != nil {
		return failedStream[model.Comment](err)
	}
	return queryStream(ctx, r.pool, op, mapComment,
		`SELECT `+commentColumns+` FROM comments WHERE parent_word = $1`,
		wordID,
	)
}

// Create はコメントを挿入する。IDは常にストア側で採番し、c.IDに書き戻す。
func (r *PostgresCommentRepo) Create(ctx context.Context, c *model.Comment) error {
	const op = "comment.create"
	return withConn(ctx, r.pool, op, func(conn *sql.Conn) error {
		var id uuid.UUID
		err := conn.QueryRowContext(ctx,
			`INSERT INTO comments (author, parent_word, parent_comment, content)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			c.Author, c.ParentWord, c.ParentComment, c.Content,
		).Scan(&id)
		if err != nil {
			return storeError(op, err)
		}
		c.ID = id
		return nil
	})
}
