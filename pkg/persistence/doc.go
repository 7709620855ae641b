// Package persistence provides the key-value storage collaborator used by the
// device metadata store.
//
// The KVStore interface mirrors a synchronous persistent-storage delegate:
// values are addressed by short string keys and read into caller-provided
// buffers. Three backends are provided:
//   - MemoryStore: volatile map, used by tests and devices without flash
//   - FileStore: a single JSON document, rewritten on every mutation
//   - BoltStore: a bbolt database with one bucket
//
// Keys for user labels are derived by UserLabelLengthKey and
// UserLabelIndexKey so that every backend lays out records identically.
package persistence
