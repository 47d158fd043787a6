package repositories

import "yatube/app/models"

// PostFilter narrows a post listing. Zero fields match everything.
type PostFilter struct {
	GroupID  int
	AuthorID int
}

// Match reports whether post passes the filter.
func (f PostFilter) Match(post *models.Post) bool {
	if f.GroupID != 0 && post.GroupID != f.GroupID {
		return false
	}
	if f.AuthorID != 0 && post.AuthorID != f.AuthorID {
		return false
	}
	return true
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Delete(id int) error
}

// GroupRepository defines the interface for group data access
type GroupRepository interface {
	Create(group *models.Group) error
	GetByID(id int) (*models.Group, error)
	GetBySlug(slug string) (*models.Group, error)
	List() ([]*models.Group, error)
	Delete(id int) error
}

// PostRepository defines the interface for post data access.
// List returns posts newest first.
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id int) (*models.Post, error)
	List(filter PostFilter, limit, offset int) ([]*models.Post, error)
	Count(filter PostFilter) (int, error)
	Update(post *models.Post) error
	Delete(id int) error
}

// CommentRepository defines the interface for comment data access.
// ListByPost returns comments oldest first.
type CommentRepository interface {
	Create(comment *models.Comment) error
	ListByPost(postID int) ([]*models.Comment, error)
	Delete(id int) error
	DeleteByPost(postID int) error
}
