package repository

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/toakuai/internal/database"
	"github.com/hitoshi/toakuai/internal/model"
)

// withConn はコネクションを1本借りてfnを実行し、すべての経路で返却する。
// fnが返すエラーは分類済みであること。
func withConn(ctx context.Context, pool *database.Pool, op string, fn func(*sql.Conn) error) (err error) {
	start := time.Now()
	defer func() { pool.ObserveQuery(op, time.Since(start), err) }()

	conn, err := pool.Acquire(ctx)
	if err != nil {
		return storeError(op, err)
	}
	defer conn.Close()

	return fn(conn)
}

// queryOne はポイント検索を実行し、先頭行をmapRowで変換する。
// 0行の場合はErrNotFoundを返す。
func queryOne[T any](ctx context.Context, pool *database.Pool, op string, mapRow func(Row) (T, error), query string, args ...any) (T, error) {
	var result T
	err := withConn(ctx, pool, op, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, query, args...)
		if err != nil {
			return storeError(op, err)
		}
		defer rows.Close()

		scanner, err := newRowScanner(rows)
		if err != nil {
			return storeError(op, err)
		}
		if !rows.Next() {
			if err := rows.Err(); err != nil {
				return storeError(op, err)
			}
			return fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		row, err := scanner.scan()
		if err != nil {
			return storeError(op, err)
		}
		v, err := mapRow(row)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		result = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}

// queryStream はクエリ結果を1行ずつ返すイテレータを生成する。
// コネクションはイテレーション開始時に借り、走査の終了または中断時に返却する。
// rangeするたびにクエリを再実行する。
func queryStream[T any](ctx context.Context, pool *database.Pool, op string, mapRow func(Row) (T, error), query string, args ...any) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		err := withConn(ctx, pool, op, func(conn *sql.Conn) error {
			rows, err := conn.QueryContext(ctx, query, args...)
			if err != nil {
				return storeError(op, err)
			}
			defer rows.Close()

			scanner, err := newRowScanner(rows)
			if err != nil {
				return storeError(op, err)
			}
			for rows.Next() {
				row, err := scanner.scan()
				if err != nil {
					return storeError(op, err)
				}
				v, err := mapRow(row)
				if err != nil {
					return fmt.Errorf("%s: %w", op, err)
				}
				if !yield(v, nil) {
					return nil
				}
			}
			if err := rows.Err(); err != nil {
				return storeError(op, err)
			}
			return nil
		})
		if err != nil {
			yield(zero, err)
		}
	}
}

// failedStream はエラーを1つだけ返すイテレータ。
func failedStream[T any](err error) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		yield(zero, err)
	}
}

// requireID は検索キーとしてNilIDを拒否する。
func requireID(op string, id uuid.UUID) error {
	if id == uuid.Nil {
		return fmt.Errorf("%s: %w", op, model.ErrNilIdentifier)
	}
	return nil
}

func optionalTimeParam(sec *int64) any {
	if sec == nil {
		return nil
	}
	return fromEpochSeconds(*sec)
}
