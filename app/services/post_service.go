package services

import (
	"errors"
	"fmt"
	"strings"

	"yatube/app/models"
	"yatube/app/paginator"
	"yatube/app/repositories"
)

// DefaultPerPage is the listing page size.
const DefaultPerPage = 10

// PostInput is the user-editable part of a post.
type PostInput struct {
	Text    string
	GroupID int
}

// PostService handles business logic for blog posts
type PostService struct {
	postRepo    repositories.PostRepository
	userRepo    repositories.UserRepository
	groupRepo   repositories.GroupRepository
	commentRepo repositories.CommentRepository
	perPage     int
}

// NewPostService creates a new PostService. A non-positive perPage falls
// back to DefaultPerPage.
func NewPostService(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	groupRepo repositories.GroupRepository,
	commentRepo repositories.CommentRepository,
	perPage int,
) *PostService {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	return &PostService{
		postRepo:    postRepo,
		userRepo:    userRepo,
		groupRepo:   groupRepo,
		commentRepo: commentRepo,
		perPage:     perPage,
	}
}

// PerPage returns the listing page size.
func (s *PostService) PerPage() int {
	return s.perPage
}

// IndexPage returns one page of the whole feed.
func (s *PostService) IndexPage(rawPage string) (*paginator.Page[*models.Post], error) {
	return s.page(repositories.PostFilter{}, rawPage)
}

// GroupPage returns the group identified by slug and one page of its posts.
func (s *PostService) GroupPage(slug, rawPage string) (*models.Group, *paginator.Page[*models.Post], error) {
	if !models.IsSlug(slug) {
		return nil, nil, fmt.Errorf("group %q: %w", slug, repositories.ErrNotFound)
	}
	group, err := s.groupRepo.GetBySlug(slug)
	if err != nil {
		return nil, nil, fmt.Errorf("group %q: %w", slug, err)
	}
	page, err := s.page(repositories.PostFilter{GroupID: group.ID}, rawPage)
	if err != nil {
		return nil, nil, err
	}
	return group, page, nil
}

// ProfilePage returns the author and one page of the author's posts.
func (s *PostService) ProfilePage(username, rawPage string) (*models.User, *paginator.Page[*models.Post], error) {
	author, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, nil, fmt.Errorf("user %q: %w", username, err)
	}
	page, err := s.page(repositories.PostFilter{AuthorID: author.ID}, rawPage)
	if err != nil {
		return nil, nil, err
	}
	return author, page, nil
}

func (s *PostService) page(filter repositories.PostFilter, rawPage string) (*paginator.Page[*models.Post], error) {
	p, err := paginator.New[*models.Post](&postSource{service: s, filter: filter}, s.perPage)
	if err != nil {
		return nil, err
	}
	return p.GetPage(rawPage)
}

// GetPost retrieves a post by ID with author, group and comments attached
func (s *PostService) GetPost(id int) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("post %d: %w", id, err)
	}
	h := s.newHydrator()
	if err := h.post(post); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	post.Comments = nil
	for _, comment := range comments {
		if err := h.comment(comment); err != nil {
			return nil, err
		}
		comment.Post = post
		if err := post.AddComment(comment); err != nil {
			return nil, err
		}
	}
	return post, nil
}

// CountByAuthor returns how many posts the author has published.
func (s *PostService) CountByAuthor(authorID int) (int, error) {
	return s.postRepo.Count(repositories.PostFilter{AuthorID: authorID})
}

// CreatePost publishes a new post on behalf of author
func (s *PostService) CreatePost(author *models.User, in PostInput) (*models.Post, error) {
	if author == nil {
		return nil, ErrForbidden
	}
	group, err := s.resolveGroup(in.GroupID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{Text: strings.TrimSpace(in.Text)}
	post.BeforeCreate()
	if err := post.SetAuthor(author); err != nil {
		return nil, err
	}
	post.SetGroup(group)
	if err := validationError(post.Validate()); err != nil {
		return nil, err
	}

	if err := s.postRepo.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost edits a post. Only its author may do so.
func (s *PostService) UpdatePost(editor *models.User, id int, in PostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("post %d: %w", id, err)
	}
	if editor == nil || editor.ID != post.AuthorID {
		return nil, ErrForbidden
	}
	group, err := s.resolveGroup(in.GroupID)
	if err != nil {
		return nil, err
	}

	post.Text = strings.TrimSpace(in.Text)
	post.Author = editor
	post.SetGroup(group)
	if err := validationError(post.Validate()); err != nil {
		return nil, err
	}

	if err := s.postRepo.Update(post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost deletes a post and all its comments. Only its author may do so.
func (s *PostService) DeletePost(editor *models.User, id int) error {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return fmt.Errorf("post %d: %w", id, err)
	}
	if editor == nil || editor.ID != post.AuthorID {
		return ErrForbidden
	}
	return s.postRepo.Delete(id)
}

func (s *PostService) resolveGroup(id int) (*models.Group, error) {
	if id == 0 {
		return nil, nil
	}
	group, err := s.groupRepo.GetByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, fieldError("group", "Select a valid choice. That choice is not one of the available choices.")
	}
	if err != nil {
		return nil, err
	}
	return group, nil
}

// postSource adapts a filtered post listing to paginator.Source.
type postSource struct {
	service *PostService
	filter  repositories.PostFilter
}

func (src *postSource) Count() (int, error) {
	return src.service.postRepo.Count(src.filter)
}

func (src *postSource) Fetch(offset, limit int) ([]*models.Post, error) {
	posts, err := src.service.postRepo.List(src.filter, limit, offset)
	if err != nil {
		return nil, err
	}
	h := src.service.newHydrator()
	for _, post := range posts {
		if err := h.post(post); err != nil {
			return nil, err
		}
	}
	return posts, nil
}

// hydrator attaches authors and groups, loading each at most once.
type hydrator struct {
	users  repositories.UserRepository
	groups repositories.GroupRepository

	userCache  map[int]*models.User
	groupCache map[int]*models.Group
}

func (s *PostService) newHydrator() *hydrator {
	return &hydrator{
		users:      s.userRepo,
		groups:     s.groupRepo,
		userCache:  make(map[int]*models.User),
		groupCache: make(map[int]*models.Group),
	}
}

func (h *hydrator) user(id int) (*models.User, error) {
	if u, ok := h.userCache[id]; ok {
		return u, nil
	}
	u, err := h.users.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("user %d: %w", id, err)
	}
	h.userCache[id] = u
	return u, nil
}

func (h *hydrator) post(post *models.Post) error {
	author, err := h.user(post.AuthorID)
	if err != nil {
		return err
	}
	post.Author = author

	if !post.HasGroup() {
		post.Group = nil
		return nil
	}
	if g, ok := h.groupCache[post.GroupID]; ok {
		post.Group = g
		return nil
	}
	group, err := h.groups.GetByID(post.GroupID)
	if err != nil {
		return fmt.Errorf("group %d: %w", post.GroupID, err)
	}
	h.groupCache[post.GroupID] = group
	post.Group = group
	return nil
}

func (h *hydrator) comment(comment *models.Comment) error {
	author, err := h.user(comment.AuthorID)
	if err != nil {
		return err
	}
	comment.Author = author
	return nil
}
