package views

import (
	"yatube/app/models"
	"yatube/app/paginator"
)

// PostPage is a page of hydrated posts.
type PostPage = paginator.Page[*models.Post]

// Base is shared by every page context.
type Base struct {
	CurrentUser *models.User
}

// IsAuthenticated reports whether the viewer is logged in.
func (b Base) IsAuthenticated() bool { return b.CurrentUser != nil }

type IndexContext struct {
	Base
	Page *PostPage
}

type GroupContext struct {
	Base
	Group *models.Group
	Page  *PostPage
}

type ProfileContext struct {
	Base
	Author    *models.User
	PostCount int
	Page      *PostPage
}

// PostDetailContext renders one post with its comments and the reply form.
type PostDetailContext struct {
	Base
	Post            *models.Post
	AuthorPostCount int
	Comments        []*models.Comment
	CommentForm     CommentForm
}

// CanEdit reports whether the viewer authored the post.
func (c *PostDetailContext) CanEdit() bool {
	return c.CurrentUser != nil && c.Post != nil && c.CurrentUser.ID == c.Post.AuthorID
}

// PostFormContext drives both the create and the edit form.
type PostFormContext struct {
	Base
	Form   PostForm
	Groups []*models.Group
	IsEdit bool
	PostID int
}

type NotFoundContext struct {
	Base
	Path string
}
