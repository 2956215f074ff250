package repository

import (
	"github.com/hitoshi/toakuai/internal/model"
)

// 各SELECTで読むカラム。マッパーは名前で引くため順序は問わない。
const (
	userColumns    = "id, username"
	wordColumns    = "id, author, word, definition, forked_from, lang, gloss, frame, created, edited"
	commentColumns = "id, author, parent_word, parent_comment, content"
	voteColumns    = "author, entry_word, entry_comment, is_upvote"
)

func mapUser(r Row) (model.User, error) {
	var (
		u   model.User
		err error
	)
	if u.ID, err = r.UUID("id"); err != nil {
		return model.User{}, err
	}
	if u.Username, err = r.String("username"); err != nil {
		return model.User{}, err
	}
	return u, nil
}

func mapWord(r Row) (model.Word, error) {
	var (
		w   model.Word
		err error
	)
	if w.ID, err = r.UUID("id"); err != nil {
		return model.Word{}, err
	}
	if w.Author, err = r.OptionalUUID("author"); err != nil {
		return model.Word{}, err
	}
	if w.Word, err = r.String("word"); err != nil {
		return model.Word{}, err
	}
	if w.Definition, err = r.String("definition"); err != nil {
		return model.Word{}, err
	}
	if w.ForkedFrom, err = r.OptionalUUID("forked_from"); err != nil {
		return model.Word{}, err
	}
	if w.Lang, err = r.String("lang"); err != nil {
		return model.Word{}, err
	}
	if w.Gloss, err = r.StringArray("gloss"); err != nil {
		return model.Word{}, err
	}
	if w.Frame, err = r.StringArray("frame"); err != nil {
		return model.Word{}, err
	}
	if w.Created, err = r.EpochSeconds("created"); err != nil {
		return model.Word{}, err
	}
	if w.Edited, err = r.OptionalEpochSeconds("edited"); err != nil {
		return model.Word{}, err
	}
	return w, nil
}

func mapComment(r Row) (model.Comment, error) {
	var (
		c   model.Comment
		err error
	)
	if c.ID, err = r.UUID("id"); err != nil {
		return model.Comment{}, err
	}
	if c.Author, err = r.UUID("author"); err != nil {
		return model.Comment{}, err
	}
	if c.ParentWord, err = r.UUID("parent_word"); err != nil {
		return model.Comment{}, err
	}
	if c.ParentComment, err = r.OptionalUUID("parent_comment"); err != nil {
		return model.Comment{}, err
	}
	if c.Content, err = r.String("content"); err != nil {
		return model.Comment{}, err
	}
	return c, nil
}

// mapVote は投票行を読む。entry_wordとentry_commentのちょうど一方が非NULLでなければならない。
func mapVote(r Row) (model.Vote, error) {
	author, err := r.UUID("author")
	if err != nil {
		return model.Vote{}, err
	}
	entryWord, err := r.OptionalUUID("entry_word")
	if err != nil {
		return model.Vote{}, err
	}
	entryComment, err := r.OptionalUUID("entry_comment")
	if err != nil {
		return model.Vote{}, err
	}
	isUpvote, err := r.Bool("is_upvote")
	if err != nil {
		return model.Vote{}, err
	}

	var target model.VoteTarget
	switch {
	case entryWord != nil && entryComment == nil:
		target = model.WordTarget(*entryWord)
	case entryWord == nil && entryComment != nil:
		target = model.CommentTarget(*entryComment)
	default:
		return model.Vote{}, &RowShapeError{
			Column: "entry_word",
			Reason: "exactly one of entry_word and entry_comment must be set",
		}
	}

	return model.Vote{Author: author, Target: target, IsUpvote: isUpvote}, nil
}
