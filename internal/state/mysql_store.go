package state

import (
	"database/sql"
)

type MySQLStore struct {
	sqlStore
}

func NewMySQLStore(db *sql.DB) *MySQLStore {
	return &MySQLStore{sqlStore{
		db: db,
		upsertSQL: `INSERT INTO sync_cache (offer_id, item_group_id, hash, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON DUPLICATE KEY UPDATE
		   item_group_id = VALUES(item_group_id),
		   hash = VALUES(hash),
		   updated_at = VALUES(updated_at)`,
	}}
}
