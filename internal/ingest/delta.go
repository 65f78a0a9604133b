package ingest

import "github.com/ETAnderson/catalogsync/internal/domain"

type Decision struct {
	Disposition domain.Disposition `json:"disposition"`
	Reason      string             `json:"reason"`
}

// Classify decides whether a variant with fingerprint hash must be uploaded,
// given the cache (offer id -> last uploaded hash). Presence in the cache is
// what counts, so a cached empty hash is still a change rather than a new offer.
func Classify(cached map[string]string, offerID, hash string) Decision {
	prev, ok := cached[offerID]
	switch {
	case !ok:
		return Decision{Disposition: domain.DispositionEnqueued, Reason: domain.ReasonNewOffer}
	case prev == hash:
		return Decision{Disposition: domain.DispositionUnchanged, Reason: domain.ReasonNoChange}
	default:
		return Decision{Disposition: domain.DispositionEnqueued, Reason: domain.ReasonContentChanged}
	}
}
