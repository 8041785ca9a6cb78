package repositories

import (
	"database/sql"

	"signalrelay/internal/platform/models"
)

type SignalRepository struct {
	db *sql.DB
}

func NewSignalRepository(db *sql.DB) *SignalRepository {
	return &SignalRepository{db: db}
}

// InitSchema creates the signal log table. The table is append-only;
// there are no UPDATE or DELETE paths anywhere in the codebase.
func (r *SignalRepository) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS signals (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		symbol TEXT NOT NULL,
		name TEXT NOT NULL,
		data TEXT,
		status TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		sent_at INTEGER,
		response_code INTEGER,
		response_text TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_signals_symbol ON signals(symbol);
	CREATE INDEX IF NOT EXISTS idx_signals_name ON signals(name);
	`
	_, err := r.db.Exec(query)
	return err
}

func (r *SignalRepository) Insert(rec *models.DeliveryRecord) error {
	query := `
		INSERT INTO signals (symbol, name, data, status, created_at, sent_at, response_code, response_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	res, err := r.db.Exec(query, rec.Symbol, rec.Name, rec.Data, rec.Status,
		rec.CreatedAt, rec.SentAt, rec.ResponseCode, rec.ResponseText)
	if err != nil {
		return err
	}

	if id, err := res.LastInsertId(); err == nil {
		rec.ID = id
	}
	return nil
}

// List returns the most recent records, newest first. symbol "all" matches
// everything; otherwise rows whose queue symbol or target name match.
func (r *SignalRepository) List(symbol string, limit int) ([]*models.DeliveryRecord, error) {
	var rows *sql.Rows
	var err error

	if symbol == "all" {
		rows, err = r.db.Query(
			`SELECT id, symbol, name, data, status, created_at, sent_at, response_code, response_text
			 FROM signals ORDER BY id DESC LIMIT ?`, limit)
	} else {
		rows, err = r.db.Query(
			`SELECT id, symbol, name, data, status, created_at, sent_at, response_code, response_text
			 FROM signals WHERE symbol = ? OR name = ? ORDER BY id DESC LIMIT ?`, symbol, symbol, limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*models.DeliveryRecord
	for rows.Next() {
		var rec models.DeliveryRecord
		var data sql.NullString
		var sentAt sql.NullInt64
		var responseCode sql.NullInt64
		var responseText sql.NullString

		if err := rows.Scan(&rec.ID, &rec.Symbol, &rec.Name, &data, &rec.Status,
			&rec.CreatedAt, &sentAt, &responseCode, &responseText); err != nil {
			return nil, err
		}

		if data.Valid {
			rec.Data = data.String
		}
		if sentAt.Valid {
			v := sentAt.Int64
			rec.SentAt = &v
		}
		if responseCode.Valid {
			v := int(responseCode.Int64)
			rec.ResponseCode = &v
		}
		if responseText.Valid {
			v := responseText.String
			rec.ResponseText = &v
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// StatusCounts aggregates status and symbol distribution over the most
// recent sample of rows, for the stats endpoint.
func (r *SignalRepository) StatusCounts(sample int) (map[string]int, map[string]int, error) {
	rows, err := r.db.Query(
		`SELECT status, symbol FROM (
			SELECT status, symbol FROM signals ORDER BY id DESC LIMIT ?
		)`, sample)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	byStatus := make(map[string]int)
	bySymbol := make(map[string]int)
	for rows.Next() {
		var status, symbol string
		if err := rows.Scan(&status, &symbol); err != nil {
			return nil, nil, err
		}
		byStatus[status]++
		bySymbol[symbol]++
	}
	return byStatus, bySymbol, rows.Err()
}

func (r *SignalRepository) Ping() error {
	return r.db.Ping()
}
