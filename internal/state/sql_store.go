package state

import (
	"context"
	"database/sql"
	"time"
)

// sqlStore is the sync_cache table access shared by the SQL backends; only
// the upsert statement differs per dialect.
type sqlStore struct {
	db        *sql.DB
	upsertSQL string
}

func (s *sqlStore) LoadAll(ctx context.Context) (map[string]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT offer_id, item_group_id, hash, updated_at FROM sync_cache`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]Record)
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.OfferID, &r.ItemGroupID, &r.Hash, &r.UpdatedAt); err != nil {
			return nil, err
		}
		r.UpdatedAt = r.UpdatedAt.UTC()
		out[r.OfferID] = r
	}

	return out, rows.Err()
}

func (s *sqlStore) Upsert(ctx context.Context, rec Record) error {
	updated := rec.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	_, err := s.db.ExecContext(ctx, s.upsertSQL,
		rec.OfferID, rec.ItemGroupID, rec.Hash, updated.UTC(),
	)
	return err
}

func (s *sqlStore) Delete(ctx context.Context, offerID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sync_cache WHERE offer_id = ?`, offerID)
	return err
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}
