package services

import (
	"fmt"
	"strings"

	"yatube/app/models"
	"yatube/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	userRepo    repositories.UserRepository
}

// NewCommentService creates a new CommentService
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
	}
}

// AddComment adds a comment by author under the post
func (s *CommentService) AddComment(author *models.User, postID int, text string) (*models.Comment, error) {
	if author == nil {
		return nil, ErrForbidden
	}
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return nil, fmt.Errorf("post %d: %w", postID, err)
	}

	comment := &models.Comment{
		AuthorID: author.ID,
		Author:   author,
		Text:     strings.TrimSpace(text),
	}
	comment.BeforeCreate()
	if err := comment.SetPost(post); err != nil {
		return nil, err
	}
	if err := validationError(comment.Validate()); err != nil {
		return nil, err
	}

	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// ListPostComments retrieves all comments for a post with their authors
func (s *CommentService) ListPostComments(postID int) ([]*models.Comment, error) {
	if _, err := s.postRepo.GetByID(postID); err != nil {
		return nil, fmt.Errorf("post %d: %w", postID, err)
	}

	comments, err := s.commentRepo.ListByPost(postID)
	if err != nil {
		return nil, err
	}
	for _, comment := range comments {
		author, err := s.userRepo.GetByID(comment.AuthorID)
		if err != nil {
			return nil, fmt.Errorf("comment %d author: %w", comment.ID, err)
		}
		comment.Author = author
	}
	return comments, nil
}

// DeleteComment deletes a comment
func (s *CommentService) DeleteComment(id int) error {
	return s.commentRepo.Delete(id)
}
