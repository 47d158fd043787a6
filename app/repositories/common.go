package repositories

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

const (
	// Key prefixes for different entity types
	UserKeyPrefix    = "user:"
	GroupKeyPrefix   = "group:"
	PostKeyPrefix    = "post:"
	CommentKeyPrefix = "comment:"

	// Unique lookups, value is the padded record ID
	UsernameKeyPrefix  = "uniq:username:"
	GroupSlugKeyPrefix = "uniq:slug:"

	// Secondary indexes, the key alone carries the post ID
	GroupPostsKeyPrefix  = "idx:group:"
	AuthorPostsKeyPrefix = "idx:author:"

	// Sequence keys for auto-incrementing IDs
	UserSeqKey    = "seq:user"
	GroupSeqKey   = "seq:group"
	PostSeqKey    = "seq:post"
	CommentSeqKey = "seq:comment"
)

// idWidth keeps lexical key order equal to numeric ID order.
const idWidth = 10

func padID(id int) string {
	return fmt.Sprintf("%0*d", idWidth, id)
}

func entityKey(prefix string, id int) []byte {
	return []byte(prefix + padID(id))
}

// indexKey builds "<prefix><owner>:<id>".
func indexKey(prefix string, owner, id int) []byte {
	return []byte(prefix + padID(owner) + ":" + padID(id))
}

func indexPrefix(prefix string, owner int) []byte {
	return []byte(prefix + padID(owner) + ":")
}

// trailingID parses the padded ID at the end of an entity or index key.
func trailingID(key []byte) (int, error) {
	if len(key) < idWidth {
		return 0, fmt.Errorf("key %q too short", key)
	}
	id, err := strconv.Atoi(string(key[len(key)-idWidth:]))
	if err != nil {
		return 0, fmt.Errorf("key %q: %w", key, err)
	}
	return id, nil
}

// seekLast returns the key a reverse iterator must seek to in order to
// start at the last key carrying prefix.
func seekLast(prefix []byte) []byte {
	key := make([]byte, len(prefix)+1)
	copy(key, prefix)
	key[len(prefix)] = 0xFF
	return key
}

func readSeq(txn *badger.Txn, seqKey string) (int, error) {
	item, err := txn.Get([]byte(seqKey))
	if err == badger.ErrKeyNotFound {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var id int
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("sequence %s: bad value length %d", seqKey, len(val))
		}
		id = int(binary.BigEndian.Uint64(val))
		return nil
	})
	return id, err
}

func writeSeq(txn *badger.Txn, seqKey string, id int) error {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(id))
	return txn.Set([]byte(seqKey), buf[:])
}

// getNextID gets the next available ID for a given sequence key
func getNextID(txn *badger.Txn, seqKey string) (int, error) {
	id, err := readSeq(txn, seqKey)
	if err != nil {
		return 0, err
	}
	id++
	if err := writeSeq(txn, seqKey, id); err != nil {
		return 0, err
	}
	return id, nil
}

// claimID resolves the ID for a new record. A zero ID takes the next value
// of the sequence; an explicit ID is kept and moves the sequence past it.
func claimID(txn *badger.Txn, seqKey, prefix string, id int) (int, error) {
	if id < 0 {
		return 0, fmt.Errorf("invalid id %d", id)
	}
	if id == 0 {
		return getNextID(txn, seqKey)
	}
	if _, err := txn.Get(entityKey(prefix, id)); err == nil {
		return 0, fmt.Errorf("%s%d: %w", prefix, id, ErrConflict)
	} else if err != badger.ErrKeyNotFound {
		return 0, err
	}
	current, err := readSeq(txn, seqKey)
	if err != nil {
		return 0, err
	}
	if id > current {
		if err := writeSeq(txn, seqKey, id); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// marshalEntity marshals an entity to JSON
func marshalEntity(entity interface{}) ([]byte, error) {
	data, err := json.Marshal(entity)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity: %w", err)
	}
	return data, nil
}

// unmarshalEntity unmarshals JSON data into an entity
func unmarshalEntity(data []byte, entity interface{}) error {
	if err := json.Unmarshal(data, entity); err != nil {
		return fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return nil
}

// getEntity loads the record stored under key into entity.
func getEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return item.Value(func(val []byte) error {
		return unmarshalEntity(val, entity)
	})
}

func setEntity(txn *badger.Txn, key []byte, entity interface{}) error {
	data, err := marshalEntity(entity)
	if err != nil {
		return err
	}
	return txn.Set(key, data)
}

// lookupID resolves a unique lookup key to the record ID it points at.
func lookupID(txn *badger.Txn, key []byte) (int, error) {
	item, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	var id int
	err = item.Value(func(val []byte) error {
		n, err := strconv.Atoi(string(val))
		id = n
		return err
	})
	return id, err
}

// keysWithPrefix collects every key under prefix without loading values.
func keysWithPrefix(txn *badger.Txn, prefix []byte) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Prefix = prefix
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys
}
