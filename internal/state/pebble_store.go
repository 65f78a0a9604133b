package state

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/cockroachdb/pebble"
)

// PebbleStore keeps the cache in an embedded Pebble database, one JSON value
// per offer id.
type PebbleStore struct {
	db *pebble.DB
}

func NewPebbleStore(dir string) (*PebbleStore, error) {
	d, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("pebble open: %w", err)
	}
	return &PebbleStore{db: d}, nil
}

func encodePebbleRecord(r Record) ([]byte, error) { return json.Marshal(r) }
func decodePebbleRecord(val []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(val, &r); err != nil {
		return Record{}, err
	}
	return r, nil
}

func (p *PebbleStore) LoadAll(ctx context.Context) (map[string]Record, error) {
	it, err := p.db.NewIter(nil)
	if err != nil {
		return nil, err
	}
	defer it.Close()

	out := make(map[string]Record)
	for it.First(); it.Valid(); it.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v := append([]byte(nil), it.Value()...)
		r, err := decodePebbleRecord(v)
		if err != nil {
			return nil, fmt.Errorf("decode %q: %w", it.Key(), err)
		}
		out[string(it.Key())] = r
	}

	return out, it.Error()
}

func (p *PebbleStore) Upsert(ctx context.Context, rec Record) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	rec.UpdatedAt = rec.UpdatedAt.UTC()

	b, err := encodePebbleRecord(rec)
	if err != nil {
		return err
	}
	return p.db.Set([]byte(rec.OfferID), b, pebble.Sync)
}

func (p *PebbleStore) Delete(ctx context.Context, offerID string) error {
	return p.db.Delete([]byte(offerID), pebble.Sync)
}

func (p *PebbleStore) Close() error { return p.db.Close() }
