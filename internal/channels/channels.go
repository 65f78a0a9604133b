package channels

import (
	"context"
	"errors"
	"strings"

	"github.com/ETAnderson/catalogsync/internal/domain"
)

// ErrNotFound is returned (possibly wrapped) when the remote catalog has no
// product under the given key.
var ErrNotFound = errors.New("channels: product not found")

// Client is a remote catalog the orchestrator pushes variants to.
type Client interface {
	Name() string
	Insert(ctx context.Context, accountID string, v domain.Variant) error
	Delete(ctx context.Context, accountID string, productKey string) error
}

// ProductKey is the remote product id: "channel:lang:country:offerId".
func ProductKey(channel domain.Channel, lang, country, offerID string) string {
	return strings.Join([]string{
		string(channel),
		strings.ToLower(lang),
		strings.ToUpper(country),
		offerID,
	}, ":")
}

// VariantKey is ProductKey for a built variant.
func VariantKey(v domain.Variant) string {
	return ProductKey(v.Channel, v.ContentLanguage, v.TargetCountry, v.OfferID)
}

type Registry struct {
	byName map[string]Client
}

func NewRegistry(clients ...Client) Registry {
	m := make(map[string]Client, len(clients))
	for _, c := range clients {
		if c == nil {
			continue
		}
		m[c.Name()] = c
	}
	return Registry{byName: m}
}

func (r Registry) Get(name string) (Client, bool) {
	if r.byName == nil {
		return nil, false
	}
	c, ok := r.byName[name]
	return c, ok
}
