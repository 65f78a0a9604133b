package google

import "github.com/ETAnderson/catalogsync/internal/domain"

// Price is the Content API price object.
type Price struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// Item is the Content API v2.1 product resource. Only the attributes we send
// are modelled.
type Item struct {
	OfferID     string `json:"offerId"`
	ItemGroupID string `json:"itemGroupId,omitempty"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	Link                 string   `json:"link"`
	ImageLink            string   `json:"imageLink,omitempty"`
	AdditionalImageLinks []string `json:"additionalImageLinks,omitempty"`

	ContentLanguage string `json:"contentLanguage"`
	TargetCountry   string `json:"targetCountry"`
	Channel         string `json:"channel"`

	Availability string `json:"availability,omitempty"`
	Condition    string `json:"condition,omitempty"`
	Price        *Price `json:"price,omitempty"`

	Brand                 string   `json:"brand,omitempty"`
	MPN                   string   `json:"mpn,omitempty"`
	ProductTypes          []string `json:"productTypes,omitempty"`
	GoogleProductCategory string   `json:"googleProductCategory,omitempty"`
	CustomLabel0          string   `json:"customLabel0,omitempty"`

	Gender   string   `json:"gender,omitempty"`
	AgeGroup string   `json:"ageGroup,omitempty"`
	Color    string   `json:"color,omitempty"`
	Sizes    []string `json:"sizes,omitempty"`
}

func NewItem(v domain.Variant) Item {
	it := Item{
		OfferID:               v.OfferID,
		ItemGroupID:           v.ItemGroupID,
		Title:                 v.Title,
		Description:           v.Description,
		Link:                  v.Link,
		ImageLink:             v.ImageLink,
		AdditionalImageLinks:  v.AdditionalImageLinks,
		ContentLanguage:       v.ContentLanguage,
		TargetCountry:         v.TargetCountry,
		Channel:               string(v.Channel),
		Availability:          v.Availability,
		Condition:             v.Condition,
		Brand:                 v.Brand,
		MPN:                   v.MPN,
		ProductTypes:          v.ProductTypes,
		GoogleProductCategory: v.GoogleProductCategory,
		CustomLabel0:          v.CustomLabel0,
		Gender:                v.Gender,
		AgeGroup:              v.AgeGroup,
		Color:                 v.Color,
		Sizes:                 v.Sizes,
	}

	if v.Price != nil {
		it.Price = &Price{
			Value:    v.Price.AmountDecimal(),
			Currency: v.Price.Currency,
		}
	}

	return it
}
