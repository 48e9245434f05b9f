package iocache

import (
	"sync"

	"github.com/huangsam/destiny/internal/contract"
)

// CacheStoreManager manages the session and history stores.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	session      contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetSessionStore returns the session CacheStore.
func (mgr *CacheStoreManager) GetSessionStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.session
}

// GetHistoryStore returns the HistoryStore.
func (mgr *CacheStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
