package service

import "errors"

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrPostTitleTaken    = errors.New("post with this title already exists")
	ErrInvalidPost       = errors.New("post is invalid")
	ErrInvalidStatus     = errors.New("invalid post status")
	ErrNegativeViews     = errors.New("views must not be negative")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategorySlugTaken = errors.New("category with this slug already exists")
	ErrCategoryTitle     = errors.New("category title is required")
	ErrCommentNotFound   = errors.New("comment not found")
	ErrCommentEmpty      = errors.New("comment is empty")
	ErrTagNotFound       = errors.New("tag not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrUsernameTaken     = errors.New("a user with that username already exists")
	ErrInvalidLogin      = errors.New("please enter a correct username and password")
	ErrInvalidResetToken = errors.New("password reset link is invalid or has expired")
)
