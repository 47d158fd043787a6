package views

import "yatube/app/models"

// PostForm is the submitted create/edit form.
type PostForm struct {
	Text  string `schema:"text"`
	Group int    `schema:"group"`

	Errors map[string]string `schema:"-"`
}

// PostFormFrom prefills the form from an existing post.
func PostFormFrom(post *models.Post) PostForm {
	return PostForm{Text: post.Text, Group: post.GroupID}
}

// Error returns the message for field, empty when it is valid.
func (f PostForm) Error(field string) string {
	return f.Errors[field]
}

// CommentForm is the reply box under a post.
type CommentForm struct {
	Text string `schema:"text"`

	Errors map[string]string `schema:"-"`
}

func (f CommentForm) Error(field string) string {
	return f.Errors[field]
}
