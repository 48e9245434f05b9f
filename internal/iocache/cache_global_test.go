package iocache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/destiny/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)

// resetGlobals lets a test run InitStores again.
func resetGlobals(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	t.Cleanup(func() {
		CloseStores()
		Manager.Lock()
		Manager.session, Manager.history = nil, nil
		Manager.Unlock()
	})
}

func TestInitStores(t *testing.T) {
	t.Run("sqlite setup", func(t *testing.T) {
		resetGlobals(t)
		dir := t.TempDir()
		sessionPath := filepath.Join(dir, "session.db")
		historyPath := filepath.Join(dir, "history.db")

		err := InitStores(schema.SQLiteBackend, sessionPath, schema.SQLiteBackend, historyPath)
		require.NoError(t, err)

		assert.NotNil(t, Manager.GetSessionStore())
		assert.NotNil(t, Manager.GetHistoryStore())

		_, err = os.Stat(sessionPath)
		assert.NoError(t, err, "Session database file should be created")
		_, err = os.Stat(historyPath)
		assert.NoError(t, err, "History database file should be created")
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetGlobals(t)

		// Multiple initializations should be safe (sync.Once)
		assert.NoError(t, InitStores(schema.NoneBackend, "", schema.NoneBackend, ""))
		assert.NoError(t, InitStores(schema.DatabaseBackend("bogus"), "", "", ""))

		// Multiple closes should be safe (sync.Once)
		CloseStores()
		CloseStores()
	})

	t.Run("empty backends leave stores unset", func(t *testing.T) {
		resetGlobals(t)

		require.NoError(t, InitStores("", "", "", ""))
		assert.Nil(t, Manager.GetSessionStore())
		assert.Nil(t, Manager.GetHistoryStore())
	})

	t.Run("session error", func(t *testing.T) {
		resetGlobals(t)

		err := InitStores(schema.DatabaseBackend("bogus"), "", schema.NoneBackend, "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize session store")
	})

	t.Run("history error", func(t *testing.T) {
		resetGlobals(t)

		err := InitStores(schema.NoneBackend, "", schema.RedisBackend, "")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to initialize history store")
	})
}

func TestClearSession(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "session.db")
		store, err := NewCacheStore(sessionTable, schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearSession(schema.SQLiteBackend, dbPath, ""))
		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))

		// Clearing a missing file is fine
		assert.NoError(t, ClearSession(schema.SQLiteBackend, dbPath, ""))
	})

	t.Run("sqlite needs path", func(t *testing.T) {
		assert.Error(t, ClearSession(schema.SQLiteBackend, "", ""))
	})

	t.Run("none", func(t *testing.T) {
		assert.NoError(t, ClearSession(schema.NoneBackend, "", ""))
	})

	t.Run("redis", func(t *testing.T) {
		store, mr := newTestRedisStore(t)
		require.NoError(t, store.Set("session:default", []byte("{}"), 1, 1))

		require.NoError(t, ClearSession(schema.RedisBackend, "", mr.Addr()))
		_, _, _, err := store.Get("session:default")
		assert.Error(t, err)
	})

	t.Run("unsupported", func(t *testing.T) {
		assert.Error(t, ClearSession(schema.DatabaseBackend("bogus"), "", ""))
	})
}

func TestClearHistory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearHistory(schema.SQLiteBackend, dbPath, ""))
	_, err = os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, ClearHistory(schema.NoneBackend, "", ""))
	assert.Error(t, ClearHistory(schema.RedisBackend, "", ""))
}

func TestCacheStoreManagerConcurrency(t *testing.T) {
	mgr := &CacheStoreManager{}

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = mgr.GetSessionStore()
			_ = mgr.GetHistoryStore()
		}()
	}
	wg.Wait()
}
