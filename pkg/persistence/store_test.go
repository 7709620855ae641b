package persistence

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns a fresh instance of every KVStore implementation.
func backends(t *testing.T) map[string]KVStore {
	t.Helper()
	dir := t.TempDir()

	fileStore, err := OpenFileStore(filepath.Join(dir, "kv.json"))
	require.NoError(t, err)

	boltStore, err := OpenBoltStore(filepath.Join(dir, "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = boltStore.Close() })

	return map[string]KVStore{
		"memory": NewMemoryStore(),
		"file":   fileStore,
		"bolt":   boltStore,
	}
}

func TestKVStoreContract(t *testing.T) {
	for name, store := range backends(t) {
		t.Run(name, func(t *testing.T) {
			t.Run("SetGet", func(t *testing.T) {
				require.NoError(t, store.SyncSetKeyValue("a", []byte("hello")))

				buf := make([]byte, 16)
				n, err := store.SyncGetKeyValue("a", buf)
				require.NoError(t, err)
				assert.Equal(t, "hello", string(buf[:n]))
			})

			t.Run("Overwrite", func(t *testing.T) {
				require.NoError(t, store.SyncSetKeyValue("b", []byte("first")))
				require.NoError(t, store.SyncSetKeyValue("b", []byte("2nd")))

				buf := make([]byte, 16)
				n, err := store.SyncGetKeyValue("b", buf)
				require.NoError(t, err)
				assert.Equal(t, "2nd", string(buf[:n]))
			})

			t.Run("ValueIsCopied", func(t *testing.T) {
				value := []byte("abc")
				require.NoError(t, store.SyncSetKeyValue("c", value))
				value[0] = 'x'

				buf := make([]byte, 3)
				_, err := store.SyncGetKeyValue("c", buf)
				require.NoError(t, err)
				assert.Equal(t, "abc", string(buf))
			})

			t.Run("Missing", func(t *testing.T) {
				_, err := store.SyncGetKeyValue("missing", make([]byte, 4))
				assert.ErrorIs(t, err, ErrKeyNotFound)
				assert.ErrorIs(t, store.SyncDeleteKeyValue("missing"), ErrKeyNotFound)
			})

			t.Run("BufferTooSmall", func(t *testing.T) {
				require.NoError(t, store.SyncSetKeyValue("d", []byte("0123456789")))

				buf := make([]byte, 4)
				n, err := store.SyncGetKeyValue("d", buf)
				assert.ErrorIs(t, err, ErrBufferTooSmall)
				assert.Equal(t, 4, n)
				assert.Equal(t, "0123", string(buf))
			})

			t.Run("Delete", func(t *testing.T) {
				require.NoError(t, store.SyncSetKeyValue("e", []byte("x")))
				require.NoError(t, store.SyncDeleteKeyValue("e"))

				_, err := store.SyncGetKeyValue("e", make([]byte, 4))
				assert.ErrorIs(t, err, ErrKeyNotFound)
			})

			t.Run("InvalidKey", func(t *testing.T) {
				assert.ErrorIs(t, store.SyncSetKeyValue("", []byte("x")), ErrInvalidKey)
				long := strings.Repeat("k", MaxKeyLength+1)
				assert.ErrorIs(t, store.SyncSetKeyValue(long, []byte("x")), ErrInvalidKey)
				_, err := store.SyncGetKeyValue(long, nil)
				assert.ErrorIs(t, err, ErrInvalidKey)
				assert.ErrorIs(t, store.SyncDeleteKeyValue(""), ErrInvalidKey)
			})
		})
	}
}

func TestFileStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "kv.json")

	store, err := OpenFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SyncSetKeyValue(UserLabelIndexKey(1, 0), []byte{0xA2, 0x00}))
	require.NoError(t, store.SyncSetKeyValue(UserLabelLengthKey(1), []byte{1, 0, 0, 0, 0, 0, 0, 0}))

	reopened, err := OpenFileStore(path)
	require.NoError(t, err)

	buf := make([]byte, 8)
	n, err := reopened.SyncGetKeyValue(UserLabelLengthKey(1), buf)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 0, 0, 0, 0, 0, 0, 0}, buf[:n])

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, reopened.Clear())
		_, err := os.Stat(path)
		assert.True(t, os.IsNotExist(err))

		_, err = reopened.SyncGetKeyValue(UserLabelLengthKey(1), buf)
		assert.ErrorIs(t, err, ErrKeyNotFound)
	})
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0600))

	_, err := OpenFileStore(path)
	assert.ErrorIs(t, err, ErrStorageFailure)
}

func TestFileStoreUnsupportedVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 99}`), 0600))

	_, err := OpenFileStore(path)
	assert.ErrorIs(t, err, ErrStorageFailure)
}

func TestBoltStoreReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")

	store, err := OpenBoltStore(path)
	require.NoError(t, err)
	require.NoError(t, store.SyncSetKeyValue("g/userlbl/1", []byte("persisted")))
	require.NoError(t, store.Close())

	reopened, err := OpenBoltStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	buf := make([]byte, 16)
	n, err := reopened.SyncGetKeyValue("g/userlbl/1", buf)
	require.NoError(t, err)
	assert.Equal(t, "persisted", string(buf[:n]))
}

func TestStorageKeys(t *testing.T) {
	tests := []struct {
		got  string
		want string
	}{
		{UserLabelLengthKey(0), "g/userlbl/0"},
		{UserLabelLengthKey(1), "g/userlbl/1"},
		{UserLabelLengthKey(0xFFFE), "g/userlbl/fffe"},
		{UserLabelIndexKey(1, 0), "g/userlbl/1/0"},
		{UserLabelIndexKey(10, 26), "g/userlbl/a/1a"},
		{UserLabelIndexKey(0xFFFF, 0xFFFFFFFF), "g/userlbl/ffff/ffffffff"},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("key = %q, want %q", tt.got, tt.want)
		}
		if len(tt.got) > MaxKeyLength {
			t.Errorf("key %q exceeds MaxKeyLength", tt.got)
		}
	}
}

func TestMemoryStoreLen(t *testing.T) {
	store := NewMemoryStore()
	if store.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", store.Len())
	}
	_ = store.SyncSetKeyValue("a", nil)
	_ = store.SyncSetKeyValue("b", nil)
	if store.Len() != 2 {
		t.Errorf("Len() = %d, want 2", store.Len())
	}
}
