package model

import "github.com/google/uuid"

// Comment はWordに付くコメントを表す（正規形）。
// ParentCommentがnilの場合はWord直下のコメント。
// 同じWord上のコメントへの返信であることは構造上強制しない。
type Comment struct {
	ID            uuid.UUID
	Author        uuid.UUID
	ParentWord    uuid.UUID
	ParentComment *uuid.UUID
	Content       string
}

// CommentText はCommentのテキスト識別子形式。
type CommentText struct {
	ID            string  `json:"id"`
	Author        string  `json:"author"`
	ParentWord    string  `json:"parent_word"`
	ParentComment *string `json:"parent_comment"`
	Content       string  `json:"content"`
}

// NewComment は未設定のテンプレートCommentを返す。
func NewComment() Comment {
	return Comment{ID: NilID, Author: NilID, ParentWord: NilID}
}

// Project はテキスト形式に変換する。
func (c Comment) Project() CommentText {
	return CommentText{
		ID:            IDText(c.ID),
		Author:        IDText(c.Author),
		ParentWord:    IDText(c.ParentWord),
		ParentComment: optionalIDText(c.ParentComment),
		Content:       c.Content,
	}
}

// Lift は正規形に変換する。author、parent_wordは必須の参照。
func (c CommentText) Lift() (Comment, error) {
	id, err := parseOwnID("id", c.ID)
	if err != nil {
		return Comment{}, err
	}
	author, err := ParseRef("author", c.Author)
	if err != nil {
		return Comment{}, err
	}
	parentWord, err := ParseRef("parent_word", c.ParentWord)
	if err != nil {
		return Comment{}, err
	}
	parentComment, err := parseOptionalRef("parent_comment", c.ParentComment)
	if err != nil {
		return Comment{}, err
	}
	return Comment{
		ID:            id,
		Author:        author,
		ParentWord:    parentWord,
		ParentComment: parentComment,
		Content:       c.Content,
	}, nil
}
