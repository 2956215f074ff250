// Package dictionary は辞書APIのドメインロジックを提供する。
//
// API境界ではテキスト形式のエンティティを受け取り、Liftで正規形に変換してから
// リポジトリに渡す。取得結果はProjectでテキスト形式に戻して返す。
// リポジトリのエラーはここでmodel.APIErrorに変換する。
package dictionary

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/toakuai/internal/database"
	"github.com/hitoshi/toakuai/internal/model"
	"github.com/hitoshi/toakuai/internal/repository"
	"github.com/hitoshi/toakuai/internal/security"
	"github.com/hitoshi/toakuai/internal/vote"
)

// VoteCounter は見出し語の投票を集計する。vote.Aggregatorが満たす。
type VoteCounter interface {
	CountVotes(ctx context.Context, wordID uuid.UUID) (vote.Tally, error)
}

// Service は辞書のサービス層。
type Service struct {
	users    repository.UserRepository
	words    repository.WordRepository
	comments repository.CommentRepository
	votes    repository.VoteRepository
	counter  VoteCounter

	definitionSanitizer security.ContentSanitizer
	textSanitizer       security.ContentSanitizer

	now func() time.Time
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	users repository.UserRepository,
	words repository.WordRepository,
	comments repository.CommentRepository,
	votes repository.VoteRepository,
	counter VoteCounter,
) *Service {
	return &Service{
		users:               users,
		words:               words,
		comments:            comments,
		votes:               votes,
		counter:             counter,
		definitionSanitizer: security.NewDefinitionSanitizer(),
		textSanitizer:       security.NewPlainTextSanitizer(),
		now:                 time.Now,
	}
}

// GetUser はテキスト形式のIDでユーザーを取得する。
func (s *Service) GetUser(ctx context.Context, textID string) (model.UserText, error) {
	id, err := model.ParseRef("id", textID)
	if err != nil {
		return model.UserText{}, invalidID(err)
	}
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.UserText{}, mapStoreError(err, model.NewUserNotFoundError)
	}
	return u.Project(), nil
}

// GetUserByName はユーザー名でユーザーを取得する。
func (s *Service) GetUserByName(ctx context.Context, username string) (model.UserText, error) {
	if username == "" {
		return model.UserText{}, model.NewInvalidRequestError("username is required")
	}
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return model.UserText{}, mapStoreError(err, model.NewUserNotFoundError)
	}
	return u.Project(), nil
}

// GetWord はテキスト形式のIDで見出し語を取得し、投票集計を添えて返す。
// 見出し語の読み出しは1回だけ行う。
func (s *Service) GetWord(ctx context.Context, textID string) (model.WordText, vote.Tally, error) {
	id, err := model.ParseRef("id", textID)
	if err != nil {
		return model.WordText{}, vote.Tally{}, invalidID(err)
	}
	w, err := s.words.FindByID(ctx, id)
	if err != nil {
		return model.WordText{}, vote.Tally{}, mapStoreError(err, func() *model.APIError {
			return model.NewWordNotFoundError(textID)
		})
	}
	tally, err := s.counter.CountVotes(ctx, w.ID)
	if err != nil {
		return model.WordText{}, vote.Tally{}, mapStoreError(err, nil)
	}
	return w.Project(), tally, nil
}

// FindWord は綴りの完全一致で見出し語を取得する。
func (s *Service) FindWord(ctx context.Context, text string) (model.WordText, error) {
	if text == "" {
		return model.WordText{}, model.NewInvalidRequestError("text is required")
	}
	w, err := s.words.FindByText(ctx, text)
	if err != nil {
		return model.WordText{}, mapStoreError(err, func() *model.APIError {
			return model.NewWordNotFoundError(text)
		})
	}
	return w.Project(), nil
}

// CreateWord は見出し語を登録し、採番後のテキスト形式を返す。
// IDはストアが採番し、createdは常に現在時刻になる。editedは登録時には常に未設定になる。
func (s *Service) CreateWord(ctx context.Context, in model.WordText) (model.WordText, error) {
	w, err := in.Lift()
	if err != nil {
		return model.WordText{}, invalidID(err)
	}
	w.ID = model.NilID
	if w.Word == "" {
		return model.WordText{}, model.NewInvalidRequestError("word is required")
	}

	w.Definition = s.definitionSanitizer.Sanitize(w.Definition)
	w.Gloss = security.SanitizeAll(s.textSanitizer, w.Gloss)
	w.Frame = security.SanitizeAll(s.textSanitizer, w.Frame)
	w.Created = s.now().Unix()
	w.Edited = nil

	if err := s.words.Create(ctx, &w); err != nil {
		if repository.IsKind(err, repository.KindConstraint) {
			return model.WordText{}, model.NewUserNotFoundError()
		}
		return model.WordText{}, mapStoreError(err, nil)
	}

	slog.Info("見出し語を登録しました",
		slog.String("word_id", model.IDText(w.ID)),
		slog.String("word", w.Word),
	)
	return w.Project(), nil
}

// DeleteWord はIDと綴りが両方一致する見出し語を削除する。
// 一致する行がない場合はWORD_MISMATCHを返す。
func (s *Service) DeleteWord(ctx context.Context, textID, text string) error {
	id, err := model.ParseRef("id", textID)
	if err != nil {
		return invalidID(err)
	}
	n, err := s.words.Delete(ctx, id, text)
	if err != nil {
		return mapStoreError(err, nil)
	}
	if n == 0 {
		return model.NewWordMismatchError()
	}

	slog.Info("見出し語を削除しました", slog.String("word_id", textID))
	return nil
}

// ListComments は見出し語に付いたコメントを返す。
// 見出し語が存在しない場合はWORD_NOT_FOUND、コメントがない場合は空スライスを返す。
func (s *Service) ListComments(ctx context.Context, wordTextID string) ([]model.CommentText, error) {
	wordID, err := model.ParseRef("word_id", wordTextID)
	if err != nil {
		return nil, invalidID(err)
	}
	if err := s.requireWord(ctx, wordID, wordTextID); err != nil {
		return nil, err
	}

	results := []model.CommentText{}
	for c, err := range s.comments.ListByWord(ctx, wordID) {
		if err != nil {
			return nil, mapStoreError(err, nil)
		}
		results = append(results, c.Project())
	}
	return results, nil
}

// GetComment はテキスト形式のIDでコメントを取得する。
func (s *Service) GetComment(ctx context.Context, textID string) (model.CommentText, error) {
	id, err := model.ParseRef("id", textID)
	if err != nil {
		return model.CommentText{}, invalidID(err)
	}
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return model.CommentText{}, mapStoreError(err, func() *model.APIError {
			return model.NewCommentNotFoundError(textID)
		})
	}
	return c.Project(), nil
}

// AddComment は見出し語にコメントを追加する。
// parent_wordはパスの見出し語IDで上書きし、IDはストアが採番する。
// 返信先のコメントは同じ見出し語に属していなければならない。
func (s *Service) AddComment(ctx context.Context, wordTextID string, in model.CommentText) (model.CommentText, error) {
	in.ParentWord = wordTextID
	c, err := in.Lift()
	if err != nil {
		return model.CommentText{}, invalidID(err)
	}
	c.ID = model.NilID
	if c.Content == "" {
		return model.CommentText{}, model.NewInvalidRequestError("content is required")
	}

	if err := s.requireWord(ctx, c.ParentWord, wordTextID); err != nil {
		return model.CommentText{}, err
	}
	if c.ParentComment != nil {
		parentText := model.IDText(*c.ParentComment)
		parent, err := s.comments.FindByID(ctx, *c.ParentComment)
		if err != nil {
			return model.CommentText{}, mapStoreError(err, func() *model.APIError {
				return model.NewCommentNotFoundError(parentText)
			})
		}
		if parent.ParentWord != c.ParentWord {
			return model.CommentText{}, model.NewInvalidRequestError("parent_comment belongs to another word")
		}
	}

	c.Content = s.textSanitizer.Sanitize(c.Content)
	if err := s.comments.Create(ctx, &c); err != nil {
		if repository.IsKind(err, repository.KindConstraint) {
			return model.CommentText{}, model.NewUserNotFoundError()
		}
		return model.CommentText{}, mapStoreError(err, nil)
	}
	return c.Project(), nil
}

// WordVotes はテキスト形式のIDで見出し語の投票を集計する。
func (s *Service) WordVotes(ctx context.Context, textID string) (vote.Tally, error) {
	id, err := model.ParseRef("id", textID)
	if err != nil {
		return vote.Tally{}, invalidID(err)
	}
	if err := s.requireWord(ctx, id, textID); err != nil {
		return vote.Tally{}, err
	}
	tally, err := s.counter.CountVotes(ctx, id)
	if err != nil {
		return vote.Tally{}, mapStoreError(err, nil)
	}
	return tally, nil
}

// CastVote は投票を登録する。同じ対象への再投票はDUPLICATE_VOTEになる。
func (s *Service) CastVote(ctx context.Context, in model.VoteText) error {
	v, err := in.Lift()
	if err != nil {
		if errors.Is(err, model.ErrInvalidVoteTarget) {
			return model.NewInvalidVoteTargetError()
		}
		return invalidID(err)
	}

	if err := s.votes.Create(ctx, v); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateVote):
			return model.NewDuplicateVoteError()
		case repository.IsKind(err, repository.KindConstraint):
			return voteReferenceError(err, v)
		default:
			return mapStoreError(err, nil)
		}
	}
	return nil
}

func (s *Service) requireWord(ctx context.Context, id uuid.UUID, textID string) error {
	if _, err := s.words.FindByID(ctx, id); err != nil {
		return mapStoreError(err, func() *model.APIError {
			return model.NewWordNotFoundError(textID)
		})
	}
	return nil
}

// voteReferenceError は外部キー違反を参照先に応じたエラーに変換する。
func voteReferenceError(err error, v model.Vote) error {
	var sErr *repository.StoreError
	if errors.As(err, &sErr) && sErr.Constraint == "votes_author_fkey" {
		return model.NewUserNotFoundError()
	}
	id := model.IDText(v.Target.ID())
	if v.Target.Kind() == model.TargetComment {
		return model.NewCommentNotFoundError(id)
	}
	return model.NewWordNotFoundError(id)
}

func invalidID(err error) error {
	if errors.Is(err, model.ErrMalformedIdentifier) {
		return model.NewInvalidIDError(err.Error())
	}
	return model.NewInvalidRequestError(err.Error())
}

// mapStoreError はリポジトリのエラーをAPIErrorに変換する。
// 変換できないエラーはラップしてそのまま返し、ハンドラで内部エラーとして扱う。
func mapStoreError(err error, notFound func() *model.APIError) error {
	switch {
	case errors.Is(err, repository.ErrNotFound) && notFound != nil:
		return notFound()
	case errors.Is(err, model.ErrMalformedIdentifier):
		return model.NewInvalidIDError(err.Error())
	case errors.Is(err, database.ErrAcquireTimeout):
		return model.NewStoreBusyError()
	default:
		return fmt.Errorf("辞書データの操作に失敗しました: %w", err)
	}
}
