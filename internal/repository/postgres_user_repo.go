package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/hitoshi/toakuai/internal/database"
	"github.com/hitoshi/toakuai/internal/model"
)

var _ UserRepository = (*PostgresUserRepo)(nil)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	pool *database.Pool
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(pool *database.Pool) *PostgresUserRepo {
	return &PostgresUserRepo{pool: pool}
}

// FindByID は指定IDのユーザーを取得する。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	const op = "user.find_by_id"
	if err := requireID(op, id); err != nil {
		return model.User{}, err
	}
	return queryOne(ctx, r.pool, op, mapUser,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	)
}

// FindByUsername はユーザー名で取得する。
func (r *PostgresUserRepo) FindByUsername(ctx context.Context, username string) (model.User, error) {
	return queryOne(ctx, r.pool, "user.find_by_username", mapUser,
		`SELECT `+userColumns+` FROM users WHERE username = $1`,
		username,
	)
}
