package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ETAnderson/catalogsync/internal/domain"
)

// Mapping is the static part of every variant: where links and images live,
// locale and targeting, commerce defaults and the classifier tables.
type Mapping struct {
	StoreBaseURL        string
	AssetBaseURL        string
	ProductPathTemplate string

	ContentLanguage string
	TargetCountry   string
	Channel         domain.Channel

	Currency        string
	Availability    string
	Condition       string
	DefaultCategory string

	PreferredImageSizeID string
	ExcludedSizes        []string

	NeutralColors ColorGroup
	CoolColors    ColorGroup
}

func DefaultMapping() Mapping {
	return Mapping{
		StoreBaseURL:        "https://www.example.com",
		AssetBaseURL:        "https://www.example.com",
		ProductPathTemplate: "/product/{id}/{nameSlug}",
		ContentLanguage:     "en",
		TargetCountry:       "US",
		Channel:             domain.ChannelOnline,
		Currency:            "USD",
		Availability:        "in stock",
		Condition:           "new",
		DefaultCategory:     "Apparel & Accessories > Clothing",
		ExcludedSizes:       DefaultExcludedSizes,
		NeutralColors:       NeutralColors,
		CoolColors:          CoolColors,
	}
}

// Builder expands feed products into canonical variants.
type Builder struct {
	Mapping   Mapping
	Metadata  domain.Metadata
	Inference InferenceConfig
	Now       func() time.Time

	excluded SizeSet
}

func NewBuilder(m Mapping, md domain.Metadata, inf InferenceConfig) *Builder {
	return &Builder{
		Mapping:   m,
		Metadata:  md,
		Inference: inf,
		Now:       time.Now,
		excluded:  NewSizeSet(m.ExcludedSizes),
	}
}

func (b *Builder) now() time.Time {
	if b.Now == nil {
		return time.Now().UTC()
	}
	return b.Now().UTC()
}

// Identifiers returns the base offer id and the item group id of p.
func (b *Builder) Identifiers(p domain.FeedProduct) (base, group string) {
	id := strings.TrimSpace(p.ID)
	code := strings.TrimSpace(p.Code)
	nameSlug := Slug(DecodeEntities(p.Name))

	switch {
	case code != "" && id != "":
		base = code + "-" + id
	case code != "":
		base = code
	case id != "":
		base = id
	case nameSlug != "":
		base = nameSlug
	default:
		base = fmt.Sprintf("item-%d", b.now().UnixNano())
	}

	switch {
	case code != "" && id != "":
		group = base
	case (code != "" || id != "") && nameSlug != "":
		group = nameSlug
	default:
		group = base
	}

	return base, group
}

// Build expands p into its variants. Products that cannot be mapped yield
// nothing.
func (b *Builder) Build(p domain.FeedProduct) []domain.Variant {
	excluded := b.excluded
	if excluded == nil {
		excluded = NewSizeSet(b.Mapping.ExcludedSizes)
	}

	sizes := NormalizeSizes(p.Sizes, excluded)
	if p.HasSizeNodes && len(sizes) == 0 {
		return nil
	}

	base, group := b.Identifiers(p)
	colorLabels := GroupColors(ColorNames(p.Colors), b.Mapping.NeutralColors, b.Mapping.CoolColors)
	categories := CategoryLabels(p.CategoryIDs, b.Metadata.Categories)
	demo := InferDemographics(b.Inference, p.Name, p.Code, p.Description, categories)

	images := MergeImages(p)
	defColor, _ := DefaultColor(p.Colors, p.DefaultColorID)
	defSize := b.defaultSize(p.Sizes, excluded)

	var fallbackColors []domain.ColorEntry
	if len(p.Colors) > 0 {
		fallbackColors = []domain.ColorEntry{defColor}
	}
	fallbackImages := SelectImages(b.Mapping.AssetBaseURL, images, fallbackColors,
		ImageSize{ID: defSize.ID, Value: SizeValue(defSize)})
	variantSize := b.preferredImageSize(p.Sizes, defSize)

	template := b.baseVariant(p, group, categories, demo)

	colorAxis := colorLabels
	if len(colorAxis) == 0 {
		colorAxis = []string{""}
	}
	sizeAxis := sizes
	if len(sizeAxis) == 0 {
		sizeAxis = []string{""}
	}

	builtAt := b.now()
	out := make([]domain.Variant, 0, len(colorAxis)*len(sizeAxis))

	for _, color := range colorAxis {
		imgs := fallbackImages
		if color != "" {
			colors := ColorsForLabel(color, p.Colors, defColor)
			if sel := SelectImages(b.Mapping.AssetBaseURL, images, colors, variantSize); len(sel) > 0 {
				imgs = sel
			}
		}

		for _, size := range sizeAxis {
			v := template
			v.OfferID = NormalizeOfferID(base, color, size)
			v.Color = color
			if size != "" {
				v.Sizes = []string{size}
			}
			if len(imgs) > 0 {
				v.ImageLink = imgs[0]
				if len(imgs) > 1 {
					v.AdditionalImageLinks = append([]string(nil), imgs[1:]...)
				}
			}
			v.BuiltAt = builtAt
			out = append(out, v)
		}
	}

	return out
}

func (b *Builder) baseVariant(p domain.FeedProduct, group string, categories []string, demo Demographics) domain.Variant {
	m := b.Mapping

	title := DecodeEntities(p.Name)
	if title == "" {
		title = strings.TrimSpace(p.Code)
	}

	brand := strings.TrimSpace(p.ManufacturerID)
	if name, ok := b.Metadata.Manufacturers[brand]; ok && strings.TrimSpace(name) != "" {
		brand = strings.TrimSpace(name)
	}

	mpn := strings.TrimSpace(p.Code)
	if mpn == "" {
		mpn = strings.TrimSpace(p.ID)
	}

	v := domain.Variant{
		ItemGroupID:           group,
		Title:                 title,
		Description:           SanitizeDescription(p.Description),
		Link:                  b.productLink(p),
		ContentLanguage:       m.ContentLanguage,
		TargetCountry:         m.TargetCountry,
		Channel:               m.Channel,
		Availability:          m.Availability,
		Condition:             m.Condition,
		Price:                 ParsePrice(m.Currency, p.Price, p.CheapestPrice),
		Brand:                 brand,
		MPN:                   mpn,
		GoogleProductCategory: m.DefaultCategory,
		CustomLabel0:          strings.TrimSpace(p.TypeID),
		Gender:                demo.Gender,
		AgeGroup:              demo.AgeGroup,
	}
	if len(categories) > 0 {
		v.ProductTypes = categories
	}

	return v
}

func (b *Builder) productLink(p domain.FeedProduct) string {
	path := FillTemplate(b.Mapping.ProductPathTemplate, map[string]string{
		"id":       strings.TrimSpace(p.ID),
		"code":     strings.TrimSpace(p.Code),
		"nameSlug": Slug(DecodeEntities(p.Name)),
	})
	return ResolveURL(b.Mapping.StoreBaseURL, path)
}

// defaultSize prefers an entry whose value survives the exclusion set.
func (b *Builder) defaultSize(entries []domain.SizeEntry, excluded SizeSet) domain.SizeEntry {
	valid := make([]domain.SizeEntry, 0, len(entries))
	for _, e := range entries {
		if v := SizeValue(e); v != "" && !excluded.Contains(v) {
			valid = append(valid, e)
		}
	}
	if s, ok := DefaultSize(valid); ok {
		return s
	}
	s, _ := DefaultSize(entries)
	return s
}

func (b *Builder) preferredImageSize(entries []domain.SizeEntry, def domain.SizeEntry) ImageSize {
	id := strings.TrimSpace(b.Mapping.PreferredImageSizeID)
	if id == "" {
		return ImageSize{ID: def.ID, Value: SizeValue(def)}
	}
	for _, e := range entries {
		if e.ID == id {
			return ImageSize{ID: id, Value: SizeValue(e)}
		}
	}
	return ImageSize{ID: id, Value: SizeValue(def)}
}

// ParsePrice reads the first usable amount. Zero, negative or unparseable
// amounts give nil.
func ParsePrice(currency string, candidates ...string) *domain.Price {
	for _, raw := range candidates {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		// The last separator is the decimal one when both appear ("1.299,00").
		dot, comma := strings.LastIndex(raw, "."), strings.LastIndex(raw, ",")
		if comma > dot && (dot >= 0 || strings.Count(raw, ",") == 1) {
			raw = strings.ReplaceAll(raw, ".", "")
			raw = strings.Replace(raw, ",", ".", 1)
		} else {
			raw = strings.ReplaceAll(raw, ",", "")
		}

		d, err := decimal.NewFromString(raw)
		if err != nil || !d.IsPositive() {
			continue
		}
		return &domain.Price{Value: d.Round(2), Currency: currency}
	}
	return nil
}
