package models

import (
	"errors"
	"time"
)

// Validate checks text, post and author are set.
func (c *Comment) Validate() error {
	return validate.Struct(c)
}

// BeforeCreate stamps CreatedAt unless the caller already did.
func (c *Comment) BeforeCreate() {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now()
	}
}

// SetPost threads the comment under post. Comments are keyed by their
// post, so the post must already be stored.
func (c *Comment) SetPost(post *Post) error {
	if post == nil {
		return errors.New("post cannot be nil")
	}
	if post.ID == 0 {
		return errors.New("post is not saved yet")
	}
	c.Post = post
	c.PostID = post.ID
	return nil
}
