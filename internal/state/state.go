package state

import (
	"context"
	"errors"
	"time"
)

var ErrClosed = errors.New("state: store is closed")

// Record is the cached remote state of one offer: what was last uploaded
// successfully.
type Record struct {
	OfferID     string    `json:"offer_id"`
	ItemGroupID string    `json:"item_group_id"`
	Hash        string    `json:"hash"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store persists the sync cache. Each call is durable on its own; there are
// no multi-record transactions.
type Store interface {
	LoadAll(ctx context.Context) (map[string]Record, error)
	Upsert(ctx context.Context, rec Record) error
	Delete(ctx context.Context, offerID string) error
	Close() error
}

// Hashes projects records to offer id -> hash.
func Hashes(records map[string]Record) map[string]string {
	out := make(map[string]string, len(records))
	for id, r := range records {
		out[id] = r.Hash
	}
	return out
}
