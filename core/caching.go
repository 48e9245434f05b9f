package core

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/destiny/internal/contract"
	"github.com/huangsam/destiny/schema"
)

// currentSessionVersion defines the version of the stored session schema
const currentSessionVersion = 1

// sessionKey returns the store key for a named session
func sessionKey(name string) string {
	return "session:" + name
}

// loadSession returns the stored session, or a fresh one on a miss
func loadSession(store contract.CacheStore, name string, ttl time.Duration) *Session {
	if store == nil {
		return NewSession()
	}
	if s := checkSessionHit(store, name, ttl); s != nil {
		return s
	}
	return NewSession()
}

// checkSessionHit attempts to retrieve and validate a stored session
func checkSessionHit(store contract.CacheStore, name string, ttl time.Duration) *Session {
	data, version, ts, err := store.Get(sessionKey(name))
	if err != nil {
		return nil // Miss
	}

	// Validate version and staleness
	if version != currentSessionVersion {
		return nil
	}
	if time.Since(time.Unix(ts, 0)) > ttl {
		return nil
	}

	var snap schema.Session
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil
	}
	return SessionFromSnapshot(snap)
}

// saveSession stores the session under its name
func saveSession(store contract.CacheStore, name string, s *Session) error {
	if store == nil {
		return nil
	}
	data, err := json.Marshal(s.Snapshot())
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := store.Set(sessionKey(name), data, currentSessionVersion, time.Now().Unix()); err != nil {
		return fmt.Errorf("failed to save session %q: %w", name, err)
	}
	return nil
}

// dropSession removes the named session from the store
func dropSession(store contract.CacheStore, name string) error {
	if store == nil {
		return nil
	}
	if err := store.Delete(sessionKey(name)); err != nil {
		return fmt.Errorf("failed to delete session %q: %w", name, err)
	}
	return nil
}
