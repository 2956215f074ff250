package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Row は1行分の値をカラム名で引けるようにしたもの。
// SELECTのカラム順には依存しない。
type Row map[string]any

// rowScanner は*sql.RowsからRowを取り出す。カラム名は最初に一度だけ読む。
type rowScanner struct {
	rows    *sql.Rows
	columns []string
}

func newRowScanner(rows *sql.Rows) (*rowScanner, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	return &rowScanner{rows: rows, columns: columns}, nil
}

// scan は現在行をRowとして返す。rows.Nextの後に呼ぶこと。
func (s *rowScanner) scan() (Row, error) {
	values := make([]any, len(s.columns))
	dest := make([]any, len(s.columns))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := s.rows.Scan(dest...); err != nil {
		return nil, err
	}

	row := make(Row, len(s.columns))
	for i, name := range s.columns {
		row[name] = values[i]
	}
	return row, nil
}

func (r Row) lookup(column string) (any, error) {
	v, ok := r[column]
	if !ok {
		return nil, &RowShapeError{Column: column, Reason: "column missing"}
	}
	return v, nil
}

func typeMismatch(column string, v any) error {
	return &RowShapeError{Column: column, Reason: fmt.Sprintf("unexpected type %T", v)}
}

// UUID はNOT NULLのuuidカラムを読む。
func (r Row) UUID(column string) (uuid.UUID, error) {
	v, err := r.lookup(column)
	if err != nil {
		return uuid.Nil, err
	}
	if v == nil {
		return uuid.Nil, &RowShapeError{Column: column, Reason: "unexpected NULL"}
	}
	return decodeUUID(column, v)
}

// OptionalUUID はNULL可のuuidカラムを読む。NULLはnilになる。
func (r Row) OptionalUUID(column string) (*uuid.UUID, error) {
	v, err := r.lookup(column)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, nil
	}
	id, err := decodeUUID(column, v)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// decodeUUID はドライバが返しうる表現（テキスト、16バイト、uuid.UUID）を受け付ける。
func decodeUUID(column string, v any) (uuid.UUID, error) {
	var (
		id  uuid.UUID
		err error
	)
	switch t := v.(type) {
	case uuid.UUID:
		return t, nil
	case [16]byte:
		return uuid.UUID(t), nil
	case []byte:
		if len(t) == 16 {
			id, err = uuid.FromBytes(t)
		} else {
			id, err = uuid.ParseBytes(t)
		}
	case string:
		id, err = uuid.Parse(t)
	default:
		return uuid.Nil, typeMismatch(column, v)
	}
	if err != nil {
		return uuid.Nil, &RowShapeError{Column: column, Reason: err.Error()}
	}
	return id, nil
}

// String はNOT NULLのテキストカラムを読む。
func (r Row) String(column string) (string, error) {
	v, err := r.lookup(column)
	if err != nil {
		return "", err
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	case nil:
		return "", &RowShapeError{Column: column, Reason: "unexpected NULL"}
	default:
		return "", typeMismatch(column, v)
	}
}

// Bool はNOT NULLのbooleanカラムを読む。
func (r Row) Bool(column string) (bool, error) {
	v, err := r.lookup(column)
	if err != nil {
		return false, err
	}
	switch t := v.(type) {
	case bool:
		return t, nil
	case nil:
		return false, &RowShapeError{Column: column, Reason: "unexpected NULL"}
	default:
		return false, typeMismatch(column, v)
	}
}

// StringArray はtext[]カラムを読む。空配列とNULLはどちらも空スライスになる。
func (r Row) StringArray(column string) ([]string, error) {
	v, err := r.lookup(column)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case nil:
		return []string{}, nil
	case []string:
		return append([]string{}, t...), nil
	case []byte, string:
		var arr pq.StringArray
		if err := arr.Scan(t); err != nil {
			return nil, &RowShapeError{Column: column, Reason: err.Error()}
		}
		if arr == nil {
			return []string{}, nil
		}
		return []string(arr), nil
	default:
		return nil, typeMismatch(column, v)
	}
}

// EpochSeconds はNOT NULLのtimestamptzカラムを最も近い秒のUNIX時刻として読む。
func (r Row) EpochSeconds(column string) (int64, error) {
	v, err := r.lookup(column)
	if err != nil {
		return 0, err
	}
	switch t := v.(type) {
	case time.Time:
		return toEpochSeconds(t), nil
	case nil:
		return 0, &RowShapeError{Column: column, Reason: "unexpected NULL"}
	default:
		return 0, typeMismatch(column, v)
	}
}

// OptionalEpochSeconds はNULL可のtimestamptzカラムを読む。NULLはnilになる。
func (r Row) OptionalEpochSeconds(column string) (*int64, error) {
	v, err := r.lookup(column)
	if err != nil {
		return nil, err
	}
	switch t := v.(type) {
	case time.Time:
		sec := toEpochSeconds(t)
		return &sec, nil
	case nil:
		return nil, nil
	default:
		return nil, typeMismatch(column, v)
	}
}

// toEpochSeconds は最も近い秒に丸める。ちょうど0.5秒は切り上げる。
func toEpochSeconds(t time.Time) int64 {
	return t.Round(time.Second).Unix()
}

// fromEpochSeconds は書き込み用にUTCのtime.Timeへ戻す。
func fromEpochSeconds(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
