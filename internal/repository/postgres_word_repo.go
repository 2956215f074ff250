package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/hitoshi/toakuai/internal/database"
	"github.com/hitoshi/toakuai/internal/model"
	"github.com/lib/pq"
)

var _ WordRepository = (*PostgresWordRepo)(nil)

// PostgresWordRepo はPostgreSQLを使用した見出し語リポジトリ。
type PostgresWordRepo struct {
	pool *database.Pool
}

// NewPostgresWordRepo はPostgresWordRepoを生成する。
func NewPostgresWordRepo(pool *database.Pool) *PostgresWordRepo {
	return &PostgresWordRepo{pool: pool}
}

// FindByID は指定IDの見出し語を取得する。
func (r *PostgresWordRepo) FindByID(ctx context.Context, id uuid.UUID) (model.Word, error) {
	const op = "word.find_by_id"
	if err := requireID(op, id); err != nil {
		return model.Word{}, err
	}
	return queryOne(ctx, r.pool, op, mapWord,
		`SELECT `+wordColumns+` FROM words WHERE id = $1`,
		id,
	)
}

// FindByText は綴りの完全一致で見出し語を取得する。
func (r *PostgresWordRepo) FindByText(ctx context.Context, text string) (model.Word, error) {
	return queryOne(ctx, r.pool, "word.find_by_text", mapWord,
		`SELECT `+wordColumns+` FROM words WHERE word = $1 ORDER BY created, id LIMIT 1`,
		text,
	)
}

// Create は見出し語を挿入する。IDは常にストア側で採番し、w.IDに書き戻す。
// 呼び出し側が設定したw.IDは使わない。
// createdは秒精度で保存され、editedはw.Editedの値がそのまま入る。
func (r *PostgresWordRepo) Create(ctx context.Context, w *model.Word) error {
	const op = "word.create"
	return withConn(ctx, r.pool, op, func(conn *sql.Conn) error {
		var id uuid.UUID
		err := conn.QueryRowContext(ctx,
			`INSERT INTO words (author, word, definition, forked_from, lang, gloss, frame, created, edited)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			 RETURNING id`,
			w.Author, w.Word, w.Definition, w.ForkedFrom, w.Lang,
			pq.Array(nonNil(w.Gloss)), pq.Array(nonNil(w.Frame)),
			fromEpochSeconds(w.Created), optionalTimeParam(w.Edited),
		).Scan(&id)
		if err != nil {
			return storeError(op, err)
		}
		w.ID = id
		return nil
	})
}

// Delete はIDと綴りが両方一致する行だけを削除する。
func (r *PostgresWordRepo) Delete(ctx context.Context, id uuid.UUID, text string) (int64, error) {
	const op = "word.delete"
	if err := requireID(op, id); err != nil {
		return 0, err
	}

	var affected int64
	err := withConn(ctx, r.pool, op, func(conn *sql.Conn) error {
		result, err := conn.ExecContext(ctx,
			`DELETE FROM words WHERE id = $1 AND word = $2`,
			id, text,
		)
		if err != nil {
			return storeError(op, err)
		}
		affected, err = result.RowsAffected()
		if err != nil {
			return fmt.Errorf("%s: failed to get rows affected: %w", op, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return affected, nil
}

// nonNil はtext[]のNOT NULL制約に合わせてnilを空スライスにする。
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
