package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Price struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
}

// AmountDecimal renders the price with two decimal places (e.g. "19.99").
func (p Price) AmountDecimal() string {
	return p.Value.StringFixed(2)
}

// Variant is one sellable color/size combination of a feed product, fully
// resolved for the remote catalog.
type Variant struct {
	OfferID     string `json:"offer_id"`
	ItemGroupID string `json:"item_group_id,omitempty"`

	Title       string `json:"title"`
	Description string `json:"description"`

	Link      string `json:"link"`
	ImageLink string `json:"image_link,omitempty"`

	AdditionalImageLinks []string `json:"additional_image_links,omitempty"`

	ContentLanguage string  `json:"content_language"`
	TargetCountry   string  `json:"target_country"`
	Channel         Channel `json:"channel"`

	Availability string `json:"availability"`
	Condition    string `json:"condition"`
	Price        *Price `json:"price,omitempty"`

	Brand                 string   `json:"brand,omitempty"`
	MPN                   string   `json:"mpn,omitempty"`
	ProductTypes          []string `json:"product_types,omitempty"`
	GoogleProductCategory string   `json:"google_product_category,omitempty"`
	CustomLabel0          string   `json:"custom_label_0,omitempty"`

	Gender   string   `json:"gender,omitempty"`
	AgeGroup string   `json:"age_group,omitempty"`
	Color    string   `json:"color,omitempty"`
	Sizes    []string `json:"sizes,omitempty"`

	// Bookkeeping only; never part of the fingerprint.
	BuiltAt time.Time `json:"-"`
}
