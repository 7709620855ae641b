package persistence

import (
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// LabelsBucket is the bbolt bucket holding all values of a BoltStore.
var LabelsBucket = []byte("kv")

// BoltStore is a KVStore backed by a bbolt database file.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens or creates the database at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open database: %v", ErrStorageFailure, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(LabelsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to create bucket %s: %v", ErrStorageFailure, LabelsBucket, err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// SyncSetKeyValue stores value under key.
func (s *BoltStore) SyncSetKeyValue(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(LabelsBucket).Put([]byte(key), value)
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return nil
}

// SyncGetKeyValue copies the value stored under key into buf.
func (s *BoltStore) SyncGetKeyValue(key string, buf []byte) (int, error) {
	if err := validateKey(key); err != nil {
		return 0, err
	}

	var (
		n      int
		getErr error
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(LabelsBucket).Get([]byte(key))
		if value == nil {
			getErr = fmt.Errorf("%w: %s", ErrKeyNotFound, key)
			return nil
		}
		// The slice is only valid during the transaction.
		n, getErr = copyOut(buf, value)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	return n, getErr
}

// SyncDeleteKeyValue removes key.
func (s *BoltStore) SyncDeleteKeyValue(key string) error {
	if err := validateKey(key); err != nil {
		return err
	}

	var missing bool
	err := s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(LabelsBucket)
		if bucket.Get([]byte(key)) == nil {
			missing = true
			return nil
		}
		return bucket.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}
	if missing {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return nil
}

// Compile-time interface satisfaction check.
var _ KVStore = (*BoltStore)(nil)
