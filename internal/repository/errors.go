package repository

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"

	"github.com/hitoshi/toakuai/internal/database"
	"github.com/lib/pq"
)

var (
	// ErrNotFound はポイント検索で0行だった場合に返す。
	// 異常ではなく正常な空結果で、呼び出し側が扱いを決める。
	ErrNotFound = errors.New("not found")

	// ErrRowShapeMismatch は行のカラムが欠けている、または型が想定と異なる場合のエラー。
	ErrRowShapeMismatch = errors.New("row shape mismatch")

	// ErrDuplicateVote は同じ(author, 対象)への再投票がストアの一意制約で拒否された場合のエラー。
	ErrDuplicateVote = errors.New("duplicate vote")
)

// RowShapeError はスキーマのずれを検出したカラムを保持する。
type RowShapeError struct {
	Column string
	Reason string
}

// Error はerrorインターフェースを実装する。
func (e *RowShapeError) Error() string {
	return fmt.Sprintf("row shape mismatch on column %q: %s", e.Column, e.Reason)
}

// Unwrap はerrors.Is(err, ErrRowShapeMismatch)を成立させる。
func (e *RowShapeError) Unwrap() error {
	return ErrRowShapeMismatch
}

// StoreErrorKind はストアエラーの分類。
type StoreErrorKind string

const (
	// KindConnection は接続・通信の失敗。
	KindConnection StoreErrorKind = "connection"
	// KindTimeout はコネクション取得待ちまたはクエリのタイムアウト。
	KindTimeout StoreErrorKind = "timeout"
	// KindCanceled は呼び出し側によるキャンセル。
	KindCanceled StoreErrorKind = "canceled"
	// KindUniqueViolation は一意制約違反。
	KindUniqueViolation StoreErrorKind = "unique_violation"
	// KindConstraint は一意制約以外の整合性制約違反（外部キー、CHECK、NOT NULL）。
	KindConstraint StoreErrorKind = "constraint"
	// KindQuery はその他のクエリ失敗。
	KindQuery StoreErrorKind = "query"
)

// StoreError はストアとのやり取りで発生したエラー。
type StoreError struct {
	Op         string
	Kind       StoreErrorKind
	Constraint string // 制約違反の場合の制約名
	Err        error
}

// Error はerrorインターフェースを実装する。
func (e *StoreError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s: %s (%s): %v", e.Op, e.Kind, e.Constraint, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

// Unwrap は元のエラーを返す。
func (e *StoreError) Unwrap() error {
	return e.Err
}

// IsKind はerrがkindに分類されるStoreErrorかどうかを返す。
func IsKind(err error, kind StoreErrorKind) bool {
	var sErr *StoreError
	return errors.As(err, &sErr) && sErr.Kind == kind
}

// storeError はドライバ由来のエラーをStoreErrorに分類する。
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	switch {
	case errors.As(err, &pqErr):
		return classifyPQError(op, pqErr)
	case errors.Is(err, database.ErrAcquireTimeout), errors.Is(err, context.DeadlineExceeded):
		return &StoreError{Op: op, Kind: KindTimeout, Err: err}
	case errors.Is(err, context.Canceled):
		return &StoreError{Op: op, Kind: KindCanceled, Err: err}
	case errors.Is(err, database.ErrPoolClosed), errors.Is(err, driver.ErrBadConn):
		return &StoreError{Op: op, Kind: KindConnection, Err: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return &StoreError{Op: op, Kind: KindConnection, Err: err}
	}
	return &StoreError{Op: op, Kind: KindQuery, Err: err}
}

// classifyPQError はSQLSTATEで分類する。
// 23505: unique_violation、クラス23: 整合性制約違反、クラス08: 接続例外、57014: query_canceled
func classifyPQError(op string, pqErr *pq.Error) error {
	switch {
	case pqErr.Code == "23505":
		return &StoreError{Op: op, Kind: KindUniqueViolation, Constraint: pqErr.Constraint, Err: pqErr}
	case pqErr.Code.Class() == "23":
		return &StoreError{Op: op, Kind: KindConstraint, Constraint: pqErr.Constraint, Err: pqErr}
	case pqErr.Code.Class() == "08":
		return &StoreError{Op: op, Kind: KindConnection, Err: pqErr}
	case pqErr.Code == "57014":
		return &StoreError{Op: op, Kind: KindTimeout, Err: pqErr}
	default:
		return &StoreError{Op: op, Kind: KindQuery, Err: pqErr}
	}
}
