// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"github.com/huangsam/destiny/schema"
)

// CacheManager defines the interface for managing the session and history stores.
// This allows the storage layer to be mocked for testing.
type CacheManager interface {
	GetSessionStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for versioned key/value storage.
// It backs the persisted interactive session.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	Delete(key string) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for recording predictions and share attempts.
type HistoryStore interface {
	// RecordPrediction stores one evaluation and returns its row ID
	RecordPrediction(record schema.PredictionRecord) (int64, error)

	// RecordShare stores one share attempt for a previously recorded prediction
	RecordShare(record schema.ShareEventRecord) (int64, error)

	// GetAllPredictions returns every prediction ordered by ID
	GetAllPredictions() ([]schema.PredictionRecord, error)

	// GetAllShareEvents returns every share event ordered by ID
	GetAllShareEvents() ([]schema.ShareEventRecord, error)

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// Close closes the underlying connection
	Close() error
}
