package state

import (
	"database/sql"
)

// SQLiteStore is the default, file-backed cache.
type SQLiteStore struct {
	sqlStore
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{sqlStore{
		db: db,
		upsertSQL: `INSERT OR REPLACE INTO sync_cache (offer_id, item_group_id, hash, updated_at)
		 VALUES (?, ?, ?, ?)`,
	}}
}
