// Package storage provides the key-value store behind the plan journal.
package storage

import "errors"

var (
	// ErrNotFound is returned by Get for a missing key.
	ErrNotFound = errors.New("key not found")
	// ErrLocked is returned when another process holds the journal directory.
	ErrLocked = errors.New("journal is locked by another process")
)

// KV is one key/value pair of an atomic write.
type KV struct {
	Key   []byte
	Value []byte
}

// DB is the store a journal writes through. A journal entry and its time
// index are written together with PutAll.
type DB interface {
	Get(key []byte) ([]byte, error)
	Put(key, value []byte) error
	// PutAll stores every pair or none of them.
	PutAll(kvs []KV) error
	Delete(key []byte) error
	Has(key []byte) (bool, error)
	// ForEach iterates over all keys with the given prefix in ascending key
	// order. The callback receives copies of key and value.
	// Return a non-nil error from fn to stop iteration early.
	ForEach(prefix []byte, fn func(key, value []byte) error) error
	Close() error
}
