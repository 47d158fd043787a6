package repositories

import (
	"fmt"

	"yatube/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerGroupRepository implements GroupRepository using BadgerDB
type BadgerGroupRepository struct {
	db *badger.DB
}

// NewBadgerGroupRepository creates a new BadgerGroupRepository
func NewBadgerGroupRepository(db *badger.DB) *BadgerGroupRepository {
	return &BadgerGroupRepository{db: db}
}

// Create creates a new group. Slugs are unique.
func (r *BadgerGroupRepository) Create(group *models.Group) error {
	return r.db.Update(func(txn *badger.Txn) error {
		uniq := []byte(GroupSlugKeyPrefix + group.Slug)
		if _, err := txn.Get(uniq); err == nil {
			return fmt.Errorf("slug %q: %w", group.Slug, ErrConflict)
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		id, err := claimID(txn, GroupSeqKey, GroupKeyPrefix, group.ID)
		if err != nil {
			return err
		}
		group.ID = id

		if err := setEntity(txn, entityKey(GroupKeyPrefix, group.ID), group); err != nil {
			return err
		}
		return txn.Set(uniq, []byte(padID(group.ID)))
	})
}

// GetByID retrieves a group by ID
func (r *BadgerGroupRepository) GetByID(id int) (*models.Group, error) {
	var group models.Group
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(GroupKeyPrefix, id), &group)
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// GetBySlug retrieves a group by slug
func (r *BadgerGroupRepository) GetBySlug(slug string) (*models.Group, error) {
	var group models.Group
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := lookupID(txn, []byte(GroupSlugKeyPrefix+slug))
		if err != nil {
			return err
		}
		return getEntity(txn, entityKey(GroupKeyPrefix, id), &group)
	})
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// List returns every group ordered by ID
func (r *BadgerGroupRepository) List() ([]*models.Group, error) {
	groups := []*models.Group{}
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := []byte(GroupKeyPrefix)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var group models.Group
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &group)
			})
			if err != nil {
				return err
			}
			groups = append(groups, &group)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return groups, nil
}

// Delete deletes a group. Its posts stay and lose their group.
func (r *BadgerGroupRepository) Delete(id int) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var group models.Group
		if err := getEntity(txn, entityKey(GroupKeyPrefix, id), &group); err != nil {
			return err
		}

		for _, key := range keysWithPrefix(txn, indexPrefix(GroupPostsKeyPrefix, id)) {
			postID, err := trailingID(key)
			if err != nil {
				return err
			}
			var post models.Post
			if err := getEntity(txn, entityKey(PostKeyPrefix, postID), &post); err != nil {
				return err
			}
			post.GroupID = 0
			if err := setEntity(txn, entityKey(PostKeyPrefix, postID), &post); err != nil {
				return err
			}
			if err := txn.Delete(key); err != nil {
				return err
			}
		}

		if err := txn.Delete([]byte(GroupSlugKeyPrefix + group.Slug)); err != nil {
			return err
		}
		return txn.Delete(entityKey(GroupKeyPrefix, id))
	})
}
