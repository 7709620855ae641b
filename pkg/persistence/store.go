package persistence

import (
	"errors"
	"fmt"
)

// MaxKeyLength is the longest key a backend accepts, in bytes.
const MaxKeyLength = 32

// Storage errors.
var (
	ErrStorageFailure = errors.New("storage failure")
	ErrKeyNotFound    = errors.New("key not found")
	ErrBufferTooSmall = errors.New("buffer too small")
	ErrInvalidKey     = errors.New("invalid key")
)

// KVStore is a synchronous key-value store.
//
// SyncGetKeyValue copies the stored value into buf and returns the number of
// bytes copied. If buf is shorter than the value, the prefix that fits is
// copied and ErrBufferTooSmall is returned along with len(buf).
type KVStore interface {
	SyncSetKeyValue(key string, value []byte) error
	SyncGetKeyValue(key string, buf []byte) (int, error)
	SyncDeleteKeyValue(key string) error
}

func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if len(key) > MaxKeyLength {
		return fmt.Errorf("%w: %q exceeds %d bytes", ErrInvalidKey, key, MaxKeyLength)
	}
	return nil
}

// copyOut copies value into buf following the SyncGetKeyValue contract.
func copyOut(buf, value []byte) (int, error) {
	n := copy(buf, value)
	if n < len(value) {
		return n, fmt.Errorf("%w: need %d bytes, have %d", ErrBufferTooSmall, len(value), len(buf))
	}
	return n, nil
}
