// Package vote は見出し語への投票を集計する。
package vote

import (
	"context"
	"fmt"
	"iter"

	"github.com/google/uuid"
	"github.com/hitoshi/toakuai/internal/model"
)

// Scanner は見出し語への投票を1件ずつ返す。repository.VoteRepositoryが満たす。
type Scanner interface {
	ScanByWord(ctx context.Context, wordID uuid.UUID) iter.Seq2[model.Vote, error]
}

// Tally は賛成票と反対票の件数。
type Tally struct {
	Up   uint64 `json:"up"`
	Down uint64 `json:"down"`
}

// Score は賛成票から反対票を引いた値を返す。
func (t Tally) Score() int64 {
	return int64(t.Up) - int64(t.Down)
}

// Aggregator は投票をストリームで走査して集計する。メモリ使用量は投票数に依存しない。
type Aggregator struct {
	scanner Scanner
}

// NewAggregator はAggregatorを生成する。
func NewAggregator(scanner Scanner) *Aggregator {
	return &Aggregator{scanner: scanner}
}

// CountVotes は見出し語への賛成票と反対票を数える。
// 投票がない場合は(0, 0)を返す。走査中のエラーはそのまま返し、途中までの件数は返さない。
func (a *Aggregator) CountVotes(ctx context.Context, wordID uuid.UUID) (Tally, error) {
	var tally Tally
	for v, err := range a.scanner.ScanByWord(ctx, wordID) {
		if err != nil {
			return Tally{}, fmt.Errorf("failed to count votes: %w", err)
		}
		if v.IsUpvote {
			tally.Up++
		} else {
			tally.Down++
		}
	}
	return tally, nil
}

// CountUpvotes は賛成票だけを数える。同じスナップショットに対してCountVotes().Upと一致する。
func (a *Aggregator) CountUpvotes(ctx context.Context, wordID uuid.UUID) (uint64, error) {
	var up uint64
	for v, err := range a.scanner.ScanByWord(ctx, wordID) {
		if err != nil {
			return 0, fmt.Errorf("failed to count upvotes: %w", err)
		}
		if v.IsUpvote {
			up++
		}
	}
	return up, nil
}
