package repositories

import (
	"bytes"

	"yatube/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerCommentRepository implements CommentRepository using BadgerDB.
// Comments are keyed "comment:<post>:<id>" so a post's thread is one
// prefix scan.
type BadgerCommentRepository struct {
	db *badger.DB
}

// NewBadgerCommentRepository creates a new BadgerCommentRepository
func NewBadgerCommentRepository(db *badger.DB) *BadgerCommentRepository {
	return &BadgerCommentRepository{db: db}
}

// Create creates a new comment
func (r *BadgerCommentRepository) Create(comment *models.Comment) error {
	comment.BeforeCreate()
	return r.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(entityKey(PostKeyPrefix, comment.PostID)); err == badger.ErrKeyNotFound {
			return ErrNotFound
		} else if err != nil {
			return err
		}

		id, err := getNextID(txn, CommentSeqKey)
		if err != nil {
			return err
		}
		comment.ID = id
		return setEntity(txn, indexKey(CommentKeyPrefix, comment.PostID, comment.ID), comment)
	})
}

// ListByPost retrieves all comments for a post, oldest first
func (r *BadgerCommentRepository) ListByPost(postID int) ([]*models.Comment, error) {
	comments := []*models.Comment{}
	err := r.db.View(func(txn *badger.Txn) error {
		prefix := indexPrefix(CommentKeyPrefix, postID)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var comment models.Comment
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &comment)
			})
			if err != nil {
				return err
			}
			comments = append(comments, &comment)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// Delete deletes a comment by ID
func (r *BadgerCommentRepository) Delete(id int) error {
	return r.db.Update(func(txn *badger.Txn) error {
		suffix := []byte(":" + padID(id))
		for _, key := range keysWithPrefix(txn, []byte(CommentKeyPrefix)) {
			if bytes.HasSuffix(key, suffix) {
				return txn.Delete(key)
			}
		}
		return ErrNotFound
	})
}

// DeleteByPost deletes every comment under a post
func (r *BadgerCommentRepository) DeleteByPost(postID int) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return deleteCommentsByPostTxn(txn, postID)
	})
}

func deleteCommentsByPostTxn(txn *badger.Txn, postID int) error {
	for _, key := range keysWithPrefix(txn, indexPrefix(CommentKeyPrefix, postID)) {
		if err := txn.Delete(key); err != nil {
			return err
		}
	}
	return nil
}

// deleteCommentsByAuthorTxn removes every comment written by authorID.
func deleteCommentsByAuthorTxn(txn *badger.Txn, authorID int) error {
	prefix := []byte(CommentKeyPrefix)
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	it := txn.NewIterator(opts)

	var doomed [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		item := it.Item()
		var comment models.Comment
		if err := item.Value(func(val []byte) error {
			return unmarshalEntity(val, &comment)
		}); err != nil {
			it.Close()
			return err
		}
		if comment.AuthorID == authorID {
			doomed = append(doomed, item.KeyCopy(nil))
		}
	}
	it.Close()

	for _, key := range doomed {
		if err := txn.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
