package repositories

import (
	"fmt"

	"yatube/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerUserRepository implements UserRepository using BadgerDB
type BadgerUserRepository struct {
	db *badger.DB
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

// Create creates a new user. Usernames are unique.
func (r *BadgerUserRepository) Create(user *models.User) error {
	user.BeforeCreate()
	return r.db.Update(func(txn *badger.Txn) error {
		uniq := []byte(UsernameKeyPrefix + user.Username)
		if _, err := txn.Get(uniq); err == nil {
			return fmt.Errorf("username %q: %w", user.Username, ErrConflict)
		} else if err != badger.ErrKeyNotFound {
			return err
		}

		id, err := claimID(txn, UserSeqKey, UserKeyPrefix, user.ID)
		if err != nil {
			return err
		}
		user.ID = id

		if err := setEntity(txn, entityKey(UserKeyPrefix, user.ID), user); err != nil {
			return err
		}
		return txn.Set(uniq, []byte(padID(user.ID)))
	})
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(id int) (*models.User, error) {
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, entityKey(UserKeyPrefix, id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername retrieves a user by username
func (r *BadgerUserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := lookupID(txn, []byte(UsernameKeyPrefix+username))
		if err != nil {
			return err
		}
		return getEntity(txn, entityKey(UserKeyPrefix, id), &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete deletes a user together with the user's posts and comments
func (r *BadgerUserRepository) Delete(id int) error {
	return r.db.Update(func(txn *badger.Txn) error {
		var user models.User
		if err := getEntity(txn, entityKey(UserKeyPrefix, id), &user); err != nil {
			return err
		}

		for _, key := range keysWithPrefix(txn, indexPrefix(AuthorPostsKeyPrefix, id)) {
			postID, err := trailingID(key)
			if err != nil {
				return err
			}
			var post models.Post
			if err := getEntity(txn, entityKey(PostKeyPrefix, postID), &post); err != nil {
				return err
			}
			if err := deletePostTxn(txn, &post); err != nil {
				return err
			}
		}
		if err := deleteCommentsByAuthorTxn(txn, id); err != nil {
			return err
		}

		if err := txn.Delete([]byte(UsernameKeyPrefix + user.Username)); err != nil {
			return err
		}
		return txn.Delete(entityKey(UserKeyPrefix, id))
	})
}
