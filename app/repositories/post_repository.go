package repositories

import (
	"fmt"

	"yatube/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create creates a new post. A post carrying a non-zero ID is stored under
// that ID.
func (r *BadgerPostRepository) Create(post *models.Post) error {
	post.BeforeCreate()
	return r.db.Update(func(txn *badger.Txn) error {
		id, err := claimID(txn, PostSeqKey, PostKeyPrefix, post.ID)
		if err != nil {
			return err
		}
		post.ID = id

		if err := setEntity(txn, entityKey(PostKeyPrefix, post.ID), post); err != nil {
			return err
		}
		return writePostIndexes(txn, post)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(id int) (*models.Post, error) {
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(PostKeyPrefix, id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List retrieves a page of posts, newest first. A non-positive limit
// returns everything after offset.
func (r *BadgerPostRepository) List(filter PostFilter, limit, offset int) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		skipped := 0
		return scanPosts(txn, filter, func(post *models.Post) bool {
			if skipped < offset {
				skipped++
				return true
			}
			posts = append(posts, post)
			return limit <= 0 || len(posts) < limit
		})
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Count returns the number of posts matching filter.
func (r *BadgerPostRepository) Count(filter PostFilter) (int, error) {
	count := 0
	err := r.db.View(func(txn *badger.Txn) error {
		switch {
		case filter.GroupID != 0 && filter.AuthorID != 0:
			return scanPosts(txn, filter, func(*models.Post) bool {
				count++
				return true
			})
		case filter.GroupID != 0:
			count = len(keysWithPrefix(txn, indexPrefix(GroupPostsKeyPrefix, filter.GroupID)))
		case filter.AuthorID != 0:
			count = len(keysWithPrefix(txn, indexPrefix(AuthorPostsKeyPrefix, filter.AuthorID)))
		default:
			count = len(keysWithPrefix(txn, []byte(PostKeyPrefix)))
		}
		return nil
	})
	return count, err
}

// Update updates an existing post
func (r *BadgerPostRepository) Update(post *models.Post) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var existing models.Post
		if err := getEntity(txn, entityKey(PostKeyPrefix, post.ID), &existing); err != nil {
			return err
		}
		if err := deletePostIndexes(txn, &existing); err != nil {
			return err
		}
		if err := setEntity(txn, entityKey(PostKeyPrefix, post.ID), post); err != nil {
			return err
		}
		return writePostIndexes(txn, post)
	})
}

// Delete deletes a post and its comments
func (r *BadgerPostRepository) Delete(id int) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var post models.Post
		if err := getEntity(txn, entityKey(PostKeyPrefix, id), &post); err != nil {
			return err
		}
		return deletePostTxn(txn, &post)
	})
}

func writePostIndexes(txn *badger.Txn, post *models.Post) error {
	if err := txn.Set(indexKey(AuthorPostsKeyPrefix, post.AuthorID, post.ID), []byte{}); err != nil {
		return err
	}
	if post.GroupID != 0 {
		return txn.Set(indexKey(GroupPostsKeyPrefix, post.GroupID, post.ID), []byte{})
	}
	return nil
}

func deletePostIndexes(txn *badger.Txn, post *models.Post) error {
	if err := txn.Delete(indexKey(AuthorPostsKeyPrefix, post.AuthorID, post.ID)); err != nil {
		return err
	}
	if post.GroupID != 0 {
		return txn.Delete(indexKey(GroupPostsKeyPrefix, post.GroupID, post.ID))
	}
	return nil
}

func deletePostTxn(txn *badger.Txn, post *models.Post) error {
	if err := deleteCommentsByPostTxn(txn, post.ID); err != nil {
		return err
	}
	if err := deletePostIndexes(txn, post); err != nil {
		return err
	}
	return txn.Delete(entityKey(PostKeyPrefix, post.ID))
}

// scanPosts walks matching posts newest first until fn returns false.
// Group and author filters are served from their secondary indexes.
func scanPosts(txn *badger.Txn, filter PostFilter, fn func(*models.Post) bool) error {
	var prefix []byte
	switch {
	case filter.GroupID != 0:
		prefix = indexPrefix(GroupPostsKeyPrefix, filter.GroupID)
	case filter.AuthorID != 0:
		prefix = indexPrefix(AuthorPostsKeyPrefix, filter.AuthorID)
	default:
		return scanAllPosts(txn, fn)
	}

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Reverse = true
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(seekLast(prefix)); it.ValidForPrefix(prefix); it.Next() {
		id, err := trailingID(it.Item().Key())
		if err != nil {
			return err
		}
		var post models.Post
		if err := getEntity(txn, entityKey(PostKeyPrefix, id), &post); err != nil {
			return fmt.Errorf("index points at post %d: %w", id, err)
		}
		if !filter.Match(&post) {
			continue
		}
		if !fn(&post) {
			return nil
		}
	}
	return nil
}

func scanAllPosts(txn *badger.Txn, fn func(*models.Post) bool) error {
	prefix := []byte(PostKeyPrefix)
	opts := badger.DefaultIteratorOptions
	opts.Reverse = true
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Seek(seekLast(prefix)); it.ValidForPrefix(prefix); it.Next() {
		var post models.Post
		err := it.Item().Value(func(val []byte) error {
			return unmarshalEntity(val, &post)
		})
		if err != nil {
			return fmt.Errorf("failed to unmarshal post: %w", err)
		}
		if !fn(&post) {
			return nil
		}
	}
	return nil
}
