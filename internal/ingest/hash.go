package ingest

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/ETAnderson/catalogsync/internal/domain"
)

type Hasher struct{}

// Fingerprint is the sha256 of the variant's canonical projection.
func (h Hasher) Fingerprint(v domain.Variant) (string, error) {
	b, err := json.Marshal(normalizeForHash(v))
	if err != nil {
		return "", err
	}

	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}

// normalizeForHash builds the projection that decides whether a variant must
// be re-sent. encoding/json sorts map keys, so field order never matters.
// Additional image order is kept: it is the display order on the remote side.
// BuiltAt is bookkeeping and not part of it.
func normalizeForHash(v domain.Variant) any {
	return map[string]any{
		"offer_id":      v.OfferID,
		"item_group_id": v.ItemGroupID,

		"title":       v.Title,
		"description": v.Description,

		"link":                   v.Link,
		"image_link":             v.ImageLink,
		"additional_image_links": orEmpty(v.AdditionalImageLinks),

		"content_language": v.ContentLanguage,
		"target_country":   v.TargetCountry,
		"channel":          string(v.Channel),

		"availability": v.Availability,
		"condition":    v.Condition,
		"price":        priceMap(v.Price),

		"brand":                   v.Brand,
		"mpn":                     v.MPN,
		"product_types":           orEmpty(v.ProductTypes),
		"google_product_category": v.GoogleProductCategory,
		"custom_label_0":          v.CustomLabel0,

		"gender":    v.Gender,
		"age_group": v.AgeGroup,
		"color":     v.Color,
		"sizes":     orEmpty(v.Sizes),
	}
}

func priceMap(p *domain.Price) any {
	if p == nil {
		return nil
	}
	return map[string]any{
		"amount_decimal": p.AmountDecimal(),
		"currency":       p.Currency,
	}
}

// orEmpty makes nil and empty slices hash the same.
func orEmpty(s []string) []string {
	if len(s) == 0 {
		return []string{}
	}
	return s
}
