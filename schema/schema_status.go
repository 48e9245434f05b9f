package schema

import "time"

// CacheStatus represents the status of the session store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus represents the status of the history store.
type HistoryStatus struct {
	Backend              string           `json:"backend"`
	Connected            bool             `json:"connected"`
	TotalPredictions     int              `json:"total_predictions"`
	LastPredictionID     int64            `json:"last_prediction_id"`
	LastPredictionTime   time.Time        `json:"last_prediction_time"`
	OldestPredictionTime time.Time        `json:"oldest_prediction_time"`
	TotalShares          int              `json:"total_shares"`
	TableSizes           map[string]int64 `json:"table_sizes"`
}

// PredictionRecord represents a row from the destiny_predictions table.
type PredictionRecord struct {
	PredictionID   int64
	PredictionUUID string
	SignA          int32
	SignB          int32
	SignAName      string
	SignBName      string
	TotalScore     int32
	MaxScore       int32
	Percentage     int32
	Stars          int32
	ScoreLabel     string
	PredictionText string
	Categories     string // JSON-encoded []CategoryScore
	Seed           *int64
	CreatedAt      time.Time
}

// ShareEventRecord represents a row from the destiny_share_events table.
type ShareEventRecord struct {
	ShareID        int64
	PredictionUUID string
	Sink           string
	Outcome        string
	Detail         *string
	CreatedAt      time.Time
}
