package service

import "github.com/blogdesk/internal/db"

// CanCreatePost reports whether user may open the post editor.
func CanCreatePost(user *db.User) bool {
	return user != nil && user.IsStaff
}

// CanEditPost reports whether user may save changes to post. Staff may open
// the edit page but only the author can submit it.
func CanEditPost(user *db.User, post db.Post) bool {
	return user != nil && user.IsStaff && user.ID == post.AuthorID
}

// CanDeletePost reports whether user may delete post: its author or any staff member.
func CanDeletePost(user *db.User, post db.Post) bool {
	if user == nil {
		return false
	}
	return user.ID == post.AuthorID || user.IsStaff
}
