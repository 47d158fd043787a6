package models

import "time"

// User is a post author.
type User struct {
	ID        int       `json:"id" validate:"gte=0"`
	Username  string    `json:"username" validate:"required,max=150,username"`
	FirstName string    `json:"first_name,omitempty" validate:"max=150"`
	LastName  string    `json:"last_name,omitempty" validate:"max=150"`
	CreatedAt time.Time `json:"created_at" validate:"required"`
}

// Group is a community posts can be published to.
type Group struct {
	ID          int    `json:"id" validate:"gte=0"`
	Title       string `json:"title" validate:"required,max=200"`
	Slug        string `json:"slug" validate:"required,max=50,slug"`
	Description string `json:"description"`
}

// Post represents a blog entry. Author and Group are attached by the
// service layer and never persisted.
type Post struct {
	ID        int       `json:"id" validate:"gte=0"`
	Text      string    `json:"text" validate:"required"`
	CreatedAt time.Time `json:"pub_date" validate:"required"`
	AuthorID  int       `json:"author_id" validate:"required,gt=0"`
	GroupID   int       `json:"group_id,omitempty" validate:"gte=0"`

	Author   *User      `json:"-" validate:"-"`
	Group    *Group     `json:"-" validate:"-"`
	Comments []*Comment `json:"-" validate:"-"`
}

// Comment is a reader's reply under a post.
type Comment struct {
	ID        int       `json:"id" validate:"gte=0"`
	PostID    int       `json:"post_id" validate:"required,gt=0"`
	AuthorID  int       `json:"author_id" validate:"required,gt=0"`
	Text      string    `json:"text" validate:"required,max=2000"`
	CreatedAt time.Time `json:"created" validate:"required"`

	Author *User `json:"-" validate:"-"`
	Post   *Post `json:"-" validate:"-"`
}
