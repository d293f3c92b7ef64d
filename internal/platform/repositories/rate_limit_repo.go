package repositories

import (
	"database/sql"
	"errors"
)

// WindowMs is the fixed rate-limit window length.
const WindowMs = 60_000

type RateLimitRepository struct {
	db *sql.DB
}

func NewRateLimitRepository(db *sql.DB) *RateLimitRepository {
	return &RateLimitRepository{db: db}
}

// CheckAndIncrement admits or rejects one request for the given tenant key.
// The read-modify-write runs in a single transaction; SQLite serializes
// writers, so two racing requests cannot both slip past the limit.
func (r *RateLimitRepository) CheckAndIncrement(key string, limit int, now int64) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var windowStart int64
	var count int
	err = tx.QueryRow(`SELECT window_start_ms, count FROM rate_limits WHERE tenant_key = ?`, key).
		Scan(&windowStart, &count)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := tx.Exec(`INSERT INTO rate_limits (tenant_key, window_start_ms, count) VALUES (?, ?, 1)`, key, now); err != nil {
			return false, err
		}
	case err != nil:
		return false, err
	case now-windowStart >= WindowMs:
		// Window rolled over: no carry-over of unused quota.
		if _, err := tx.Exec(`UPDATE rate_limits SET window_start_ms = ?, count = 1 WHERE tenant_key = ?`, now, key); err != nil {
			return false, err
		}
	case count+1 > limit:
		// Rejected requests do not count against quota.
		return false, tx.Commit()
	default:
		if _, err := tx.Exec(`UPDATE rate_limits SET count = count + 1 WHERE tenant_key = ?`, key); err != nil {
			return false, err
		}
	}

	return true, tx.Commit()
}
