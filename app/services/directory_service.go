package services

import (
	"fmt"
	"strings"

	"yatube/app/models"
	"yatube/app/repositories"
)

// UserService manages authors.
type UserService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUser registers an author.
func (s *UserService) CreateUser(username, firstName, lastName string) (*models.User, error) {
	user := &models.User{
		Username:  strings.TrimSpace(username),
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
	}
	user.BeforeCreate()
	if err := validationError(user.Validate()); err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetByUsername(username string) (*models.User, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", username, err)
	}
	return user, nil
}

// GroupService manages groups.
type GroupService struct {
	groupRepo repositories.GroupRepository
}

func NewGroupService(groupRepo repositories.GroupRepository) *GroupService {
	return &GroupService{groupRepo: groupRepo}
}

// CreateGroup creates a group with a unique slug.
func (s *GroupService) CreateGroup(title, slug, description string) (*models.Group, error) {
	group := &models.Group{
		Title:       strings.TrimSpace(title),
		Slug:        strings.TrimSpace(slug),
		Description: strings.TrimSpace(description),
	}
	if err := validationError(group.Validate()); err != nil {
		return nil, err
	}
	if err := s.groupRepo.Create(group); err != nil {
		return nil, err
	}
	return group, nil
}

func (s *GroupService) GetBySlug(slug string) (*models.Group, error) {
	if !models.IsSlug(slug) {
		return nil, fmt.Errorf("group %q: %w", slug, repositories.ErrNotFound)
	}
	group, err := s.groupRepo.GetBySlug(slug)
	if err != nil {
		return nil, fmt.Errorf("group %q: %w", slug, err)
	}
	return group, nil
}

// ListGroups returns all groups, used for the post form's group choices.
func (s *GroupService) ListGroups() ([]*models.Group, error) {
	return s.groupRepo.List()
}
