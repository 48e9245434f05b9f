package iocache

import (
	"database/sql"
	"fmt"

	"github.com/huangsam/destiny/internal/contract"
	"github.com/huangsam/destiny/schema"
)

// Table names for prediction history.
const (
	predictionsTable = "destiny_predictions"
	shareEventsTable = "destiny_share_events"
)

// historyTables lists the history tables in creation order.
var historyTables = []string{predictionsTable, shareEventsTable}

// predictionColumns are the insertable columns of the predictions table.
const predictionColumns = `prediction_uuid, sign_a, sign_b, sign_a_name, sign_b_name,
	total_score, max_score, percentage, stars, score_label, prediction_text, categories, seed, created_at`

// shareEventColumns are the insertable columns of the share events table.
const shareEventColumns = `prediction_uuid, sink, outcome, detail, created_at`

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	switch backend {
	case schema.NoneBackend:
		// Return a no-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
	default:
		return nil, fmt.Errorf("unsupported history backend: %s", backend)
	}

	db, err := openSQL(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// createHistoryTables creates the history tables.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{predictionsTable, getCreatePredictionsQuery(backend)},
		{shareEventsTable, getCreateShareEventsQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreatePredictionsQuery returns the CREATE TABLE query for destiny_predictions.
func getCreatePredictionsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(predictionsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				prediction_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				prediction_uuid VARCHAR(36) NOT NULL UNIQUE,
				sign_a INT NOT NULL,
				sign_b INT NOT NULL,
				sign_a_name VARCHAR(64) NOT NULL,
				sign_b_name VARCHAR(64) NOT NULL,
				total_score INT NOT NULL,
				max_score INT NOT NULL,
				percentage INT NOT NULL,
				stars INT NOT NULL,
				score_label VARCHAR(100) NOT NULL,
				prediction_text TEXT NOT NULL,
				categories TEXT NOT NULL,
				seed BIGINT,
				created_at DATETIME(6) NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				prediction_id BIGSERIAL PRIMARY KEY,
				prediction_uuid TEXT NOT NULL UNIQUE,
				sign_a INT NOT NULL,
				sign_b INT NOT NULL,
				sign_a_name TEXT NOT NULL,
				sign_b_name TEXT NOT NULL,
				total_score INT NOT NULL,
				max_score INT NOT NULL,
				percentage INT NOT NULL,
				stars INT NOT NULL,
				score_label TEXT NOT NULL,
				prediction_text TEXT NOT NULL,
				categories TEXT NOT NULL,
				seed BIGINT,
				created_at TIMESTAMPTZ NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				prediction_id INTEGER PRIMARY KEY AUTOINCREMENT,
				prediction_uuid TEXT NOT NULL UNIQUE,
				sign_a INTEGER NOT NULL,
				sign_b INTEGER NOT NULL,
				sign_a_name TEXT NOT NULL,
				sign_b_name TEXT NOT NULL,
				total_score INTEGER NOT NULL,
				max_score INTEGER NOT NULL,
				percentage INTEGER NOT NULL,
				stars INTEGER NOT NULL,
				score_label TEXT NOT NULL,
				prediction_text TEXT NOT NULL,
				categories TEXT NOT NULL,
				seed INTEGER,
				created_at TEXT NOT NULL
			);
		`, quotedTableName)
	}
}

// getCreateShareEventsQuery returns the CREATE TABLE query for destiny_share_events.
func getCreateShareEventsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(shareEventsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				share_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				prediction_uuid VARCHAR(36) NOT NULL,
				sink VARCHAR(32) NOT NULL,
				outcome VARCHAR(32) NOT NULL,
				detail TEXT,
				created_at DATETIME(6) NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				share_id BIGSERIAL PRIMARY KEY,
				prediction_uuid TEXT NOT NULL,
				sink TEXT NOT NULL,
				outcome TEXT NOT NULL,
				detail TEXT,
				created_at TIMESTAMPTZ NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				share_id INTEGER PRIMARY KEY AUTOINCREMENT,
				prediction_uuid TEXT NOT NULL,
				sink TEXT NOT NULL,
				outcome TEXT NOT NULL,
				detail TEXT,
				created_at TEXT NOT NULL
			);
		`, quotedTableName)
	}
}

// insert runs an INSERT and returns the generated ID of idColumn.
func (hs *HistoryStoreImpl) insert(table, columns, idColumn string, args ...any) (int64, error) {
	quotedTableName := quoteTableName(table, hs.backend)
	values := placeholders(hs.backend, len(args))

	if hs.backend == schema.PostgreSQLBackend {
		var id int64
		query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`, quotedTableName, columns, values, idColumn)
		if err := hs.db.QueryRow(query, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	// SQLite and MySQL
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, quotedTableName, columns, values)
	result, err := hs.db.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// RecordPrediction stores one evaluation and returns its row ID.
func (hs *HistoryStoreImpl) RecordPrediction(record schema.PredictionRecord) (int64, error) {
	// Skip for NoneBackend
	if hs.db == nil {
		return 0, nil
	}

	id, err := hs.insert(predictionsTable, predictionColumns, "prediction_id",
		record.PredictionUUID, record.SignA, record.SignB, record.SignAName, record.SignBName,
		record.TotalScore, record.MaxScore, record.Percentage, record.Stars, record.ScoreLabel,
		record.PredictionText, record.Categories, record.Seed, formatTime(record.CreatedAt, hs.backend),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert prediction: %w", err)
	}
	return id, nil
}

// RecordShare stores one share attempt and returns its row ID.
func (hs *HistoryStoreImpl) RecordShare(record schema.ShareEventRecord) (int64, error) {
	// Skip for NoneBackend
	if hs.db == nil {
		return 0, nil
	}

	id, err := hs.insert(shareEventsTable, shareEventColumns, "share_id",
		record.PredictionUUID, record.Sink, record.Outcome, record.Detail, formatTime(record.CreatedAt, hs.backend),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert share event: %w", err)
	}
	return id, nil
}

// GetAllPredictions retrieves all predictions ordered by ID.
func (hs *HistoryStoreImpl) GetAllPredictions() ([]schema.PredictionRecord, error) {
	if hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT prediction_id, %s FROM %s ORDER BY prediction_id`,
		predictionColumns, quoteTableName(predictionsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.PredictionRecord
	for rows.Next() {
		var record schema.PredictionRecord
		var seed sql.NullInt64
		created := timeScanner{backend: hs.backend}

		if err := rows.Scan(
			&record.PredictionID, &record.PredictionUUID, &record.SignA, &record.SignB,
			&record.SignAName, &record.SignBName, &record.TotalScore, &record.MaxScore,
			&record.Percentage, &record.Stars, &record.ScoreLabel, &record.PredictionText,
			&record.Categories, &seed, created.dest(),
		); err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		if seed.Valid {
			record.Seed = &seed.Int64
		}
		if record.CreatedAt, err = created.value(); err != nil {
			return nil, err
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating predictions: %w", err)
	}
	return results, nil
}

// GetAllShareEvents retrieves all share events ordered by ID.
func (hs *HistoryStoreImpl) GetAllShareEvents() ([]schema.ShareEventRecord, error) {
	if hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT share_id, %s FROM %s ORDER BY share_id`,
		shareEventColumns, quoteTableName(shareEventsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query share events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ShareEventRecord
	for rows.Next() {
		var record schema.ShareEventRecord
		var detail sql.NullString
		created := timeScanner{backend: hs.backend}

		if err := rows.Scan(
			&record.ShareID, &record.PredictionUUID, &record.Sink, &record.Outcome, &detail, created.dest(),
		); err != nil {
			return nil, fmt.Errorf("failed to scan share event: %w", err)
		}
		if detail.Valid {
			record.Detail = &detail.String
		}
		if record.CreatedAt, err = created.value(); err != nil {
			return nil, err
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating share events: %w", err)
	}
	return results, nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.db == nil {
		return status, nil
	}

	quotedPredictions := quoteTableName(predictionsTable, hs.backend)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quotedPredictions)
	if err := hs.db.QueryRow(countQuery).Scan(&status.TotalPredictions); err != nil {
		return status, fmt.Errorf("failed to get total predictions: %w", err)
	}

	if status.TotalPredictions > 0 {
		last := timeScanner{backend: hs.backend}
		lastQuery := fmt.Sprintf("SELECT prediction_id, created_at FROM %s ORDER BY prediction_id DESC LIMIT 1", quotedPredictions)
		if err := hs.db.QueryRow(lastQuery).Scan(&status.LastPredictionID, last.dest()); err != nil {
			return status, fmt.Errorf("failed to get last prediction: %w", err)
		}
		lastTime, err := last.value()
		if err != nil {
			return status, err
		}
		status.LastPredictionTime = lastTime

		oldest := timeScanner{backend: hs.backend}
		oldestQuery := fmt.Sprintf("SELECT created_at FROM %s ORDER BY prediction_id ASC LIMIT 1", quotedPredictions)
		if err := hs.db.QueryRow(oldestQuery).Scan(oldest.dest()); err != nil {
			return status, fmt.Errorf("failed to get oldest prediction: %w", err)
		}
		oldestTime, err := oldest.value()
		if err != nil {
			return status, err
		}
		status.OldestPredictionTime = oldestTime
	}

	for _, table := range historyTables {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	status.TotalShares = int(status.TableSizes[shareEventsTable])

	return status, nil
}
