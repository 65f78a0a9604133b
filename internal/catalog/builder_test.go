package catalog

import (
	"reflect"
	"testing"
	"time"

	"github.com/ETAnderson/catalogsync/internal/domain"
)

func testBuilder() *Builder {
	m := DefaultMapping()
	m.StoreBaseURL = "https://shop.example.com"
	m.AssetBaseURL = "https://cdn.example.com"

	md := domain.Metadata{
		Categories:    map[string]string{"10": "Apparel > Tees"},
		Manufacturers: map[string]string{"7": "Acme"},
	}

	b := NewBuilder(m, md, DefaultInference())
	b.Now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }
	return b
}

func TestBuild_ColorBySize(t *testing.T) {
	p := domain.FeedProduct{
		Code:         "TS1",
		Name:         "Men's Tee",
		HasSizeNodes: true,
		Sizes:        []domain.SizeEntry{{Value: "S"}, {Value: "M"}, {Value: "3XL"}},
		Colors:       []domain.ColorEntry{{ID: "1", Name: "Black"}, {ID: "2", Name: "Navy"}},
	}

	vs := testBuilder().Build(p)
	if len(vs) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(vs))
	}

	want := []string{"ts1-black-navy-s", "ts1-black-navy-m"}
	for i, v := range vs {
		if v.OfferID != want[i] {
			t.Fatalf("expected offer id %q, got %q", want[i], v.OfferID)
		}
		if v.Gender != GenderMale || v.AgeGroup != AgeGroupAdult {
			t.Fatalf("expected male/adult, got %s/%s", v.Gender, v.AgeGroup)
		}
		if v.Color != "Black/Navy" {
			t.Fatalf("expected color Black/Navy, got %q", v.Color)
		}
		if v.ItemGroupID != "mens-tee" {
			t.Fatalf("expected item group mens-tee, got %q", v.ItemGroupID)
		}
	}
	if !reflect.DeepEqual(vs[1].Sizes, []string{"M"}) {
		t.Fatalf("expected sizes [M], got %v", vs[1].Sizes)
	}
}

func TestBuild_CartesianProductIsUnique(t *testing.T) {
	p := domain.FeedProduct{
		ID:           "44",
		Code:         "HD",
		Name:         "Hoodie",
		HasSizeNodes: true,
		Sizes:        []domain.SizeEntry{{Value: "S"}, {Value: "M"}, {Value: "L"}},
		Colors: []domain.ColorEntry{
			{ID: "1", Name: "Black"}, {ID: "2", Name: "White"},
			{ID: "3", Name: "Navy"}, {ID: "4", Name: "Red"},
		},
	}

	vs := testBuilder().Build(p)
	// Black/White/Navy, Multicolor x S, M, L
	if len(vs) != 6 {
		t.Fatalf("expected 6 variants, got %d", len(vs))
	}

	seen := map[string]bool{}
	for _, v := range vs {
		if seen[v.OfferID] {
			t.Fatalf("duplicate offer id %q", v.OfferID)
		}
		seen[v.OfferID] = true
		if v.ItemGroupID != "HD-44" {
			t.Fatalf("expected item group HD-44, got %q", v.ItemGroupID)
		}
	}
}

func TestBuild_CaseOnlySizesDoNotCollide(t *testing.T) {
	p := domain.FeedProduct{
		ID:           "5",
		Code:         "K1",
		Name:         "Kids Tee",
		HasSizeNodes: true,
		Sizes:        []domain.SizeEntry{{Value: "S"}, {Value: "s"}, {Value: "M"}},
	}

	vs := testBuilder().Build(p)
	if len(vs) != 2 || vs[0].OfferID != "k1-5-s" || vs[1].OfferID != "k1-5-m" {
		t.Fatalf("expected offers [k1-5-s k1-5-m], got %+v", vs)
	}
}

func TestBuild_AllSizesExcludedYieldsNothing(t *testing.T) {
	p := domain.FeedProduct{
		Code:         "BIG",
		Name:         "Big Tee",
		HasSizeNodes: true,
		Sizes:        []domain.SizeEntry{{Value: "3XL"}, {Value: "4XL"}},
		Colors:       []domain.ColorEntry{{Name: "Black"}},
	}

	if vs := testBuilder().Build(p); len(vs) != 0 {
		t.Fatalf("expected no variants, got %d", len(vs))
	}
}

func TestBuild_NoAxesSingleVariant(t *testing.T) {
	p := domain.FeedProduct{
		ID:             "44",
		Code:           "MUG",
		Name:           "Coffee &amp; Tea Mug",
		Description:    "<p>Holds 12oz.</p>",
		Price:          "12.5",
		ManufacturerID: "7",
		TypeID:         "drinkware",
		CategoryIDs:    []string{"10", "55"},
		Images:         []domain.ImageEntry{{Type: "main", Src: "/img/mug.jpg"}},
	}

	vs := testBuilder().Build(p)
	if len(vs) != 1 {
		t.Fatalf("expected 1 variant, got %d", len(vs))
	}
	v := vs[0]

	if v.OfferID != "mug-44" || v.Color != "" || len(v.Sizes) != 0 {
		t.Fatalf("unexpected axes: offer=%q color=%q sizes=%v", v.OfferID, v.Color, v.Sizes)
	}
	if v.Title != "Coffee & Tea Mug" {
		t.Fatalf("expected decoded title, got %q", v.Title)
	}
	if v.Description != "Holds 12oz." {
		t.Fatalf("unexpected description %q", v.Description)
	}
	if v.Link != "https://shop.example.com/product/44/coffee-tea-mug" {
		t.Fatalf("unexpected link %q", v.Link)
	}
	if v.ImageLink != "https://cdn.example.com/img/mug.jpg" {
		t.Fatalf("unexpected image link %q", v.ImageLink)
	}
	if v.Price == nil || v.Price.AmountDecimal() != "12.50" || v.Price.Currency != "USD" {
		t.Fatalf("unexpected price %+v", v.Price)
	}
	if v.Brand != "Acme" || v.MPN != "MUG" || v.CustomLabel0 != "drinkware" {
		t.Fatalf("unexpected brand/mpn/label: %q %q %q", v.Brand, v.MPN, v.CustomLabel0)
	}
	if !reflect.DeepEqual(v.ProductTypes, []string{"Apparel > Tees", "55"}) {
		t.Fatalf("unexpected product types %v", v.ProductTypes)
	}
	if v.BuiltAt.IsZero() {
		t.Fatalf("expected BuiltAt to be set")
	}
}

func TestBuild_ImagesPerColor(t *testing.T) {
	p := domain.FeedProduct{
		Code:         "TS2",
		Name:         "Tee",
		HasSizeNodes: true,
		Sizes:        []domain.SizeEntry{{ID: "s1", Value: "S"}, {ID: "s2", Value: "M", Selected: true}},
		Colors:       []domain.ColorEntry{{ID: "c1", Name: "Black"}, {ID: "c2", Name: "Red"}},
		Images: []domain.ImageEntry{
			{Type: "other", Src: "/i/[COLOR_ID]/detail.jpg"},
			{Type: "back", Src: "/i/[COLOR_ID]/back.jpg"},
			{Type: "front", Src: "/i/[COLOR_ID]/front-[SIZE_ID].jpg"},
		},
		AlternateViews: []domain.AlternateView{
			{Name: "Left Sleeve", Src: "/alt/[COLOR_ID]/ls.jpg"},
			{Name: "Back", Src: "/alt/[COLOR_ID]/b.jpg"},
		},
	}

	vs := testBuilder().Build(p)
	// Black, Multicolor x S, M
	if len(vs) != 4 {
		t.Fatalf("expected 4 variants, got %d", len(vs))
	}

	black := vs[0]
	if black.Color != "Black" {
		t.Fatalf("expected first color Black, got %q", black.Color)
	}
	if black.ImageLink != "https://cdn.example.com/i/c1/front-s2.jpg" {
		t.Fatalf("unexpected main image %q", black.ImageLink)
	}
	wantAdditional := []string{
		"https://cdn.example.com/alt/c1/b.jpg",
		"https://cdn.example.com/i/c1/back.jpg",
		"https://cdn.example.com/alt/c1/ls.jpg",
		"https://cdn.example.com/i/c1/detail.jpg",
	}
	if !reflect.DeepEqual(black.AdditionalImageLinks, wantAdditional) {
		t.Fatalf("expected %v, got %v", wantAdditional, black.AdditionalImageLinks)
	}

	multi := vs[2]
	if multi.Color != MulticolorLabel {
		t.Fatalf("expected Multicolor, got %q", multi.Color)
	}
	if multi.ImageLink != "https://cdn.example.com/i/c1/front-s2.jpg" || len(multi.AdditionalImageLinks) != 9 {
		t.Fatalf("expected images of both colors, got %q + %v", multi.ImageLink, multi.AdditionalImageLinks)
	}
}

func TestBuild_PreferredImageSize(t *testing.T) {
	p := domain.FeedProduct{
		Code:         "TS3",
		Name:         "Tee",
		HasSizeNodes: true,
		Sizes:        []domain.SizeEntry{{ID: "s1", Value: "S"}, {ID: "s2", Value: "M", Selected: true}},
		Colors:       []domain.ColorEntry{{ID: "c1", Name: "Black"}},
		Images:       []domain.ImageEntry{{Type: "front", Src: "/i/[COLOR_ID]/front-[SIZE_ID]-[SIZE].jpg"}},
	}

	cases := []struct {
		name      string
		preferred string
		want      string
	}{
		{"unset uses selected size", "", "https://cdn.example.com/i/c1/front-s2-M.jpg"},
		{"configured id overrides sold size", "s1", "https://cdn.example.com/i/c1/front-s1-S.jpg"},
		{"unknown id keeps default size value", "zz", "https://cdn.example.com/i/c1/front-zz-M.jpg"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := testBuilder()
			b.Mapping.PreferredImageSizeID = tc.preferred

			vs := b.Build(p)
			if len(vs) != 2 {
				t.Fatalf("expected 2 variants, got %d", len(vs))
			}
			for _, v := range vs {
				if v.ImageLink != tc.want {
					t.Fatalf("expected %q, got %q", tc.want, v.ImageLink)
				}
			}
		})
	}
}

func TestBuild_FallbackImagesFollowDefaultColor(t *testing.T) {
	p := domain.FeedProduct{
		ID:             "9",
		Code:           "CAP",
		Name:           "Cap",
		DefaultColorID: "c3",
		Colors:         []domain.ColorEntry{{ID: "c1"}, {ID: "c2", Selected: true}, {ID: "c3"}},
		Images:         []domain.ImageEntry{{Type: "front", Src: "/i/[COLOR_ID].jpg"}},
	}

	vs := testBuilder().Build(p)
	if len(vs) != 1 {
		t.Fatalf("expected 1 variant, got %d", len(vs))
	}
	if vs[0].Color != "" {
		t.Fatalf("expected no color label, got %q", vs[0].Color)
	}
	if vs[0].ImageLink != "https://cdn.example.com/i/c3.jpg" {
		t.Fatalf("expected default color image, got %q", vs[0].ImageLink)
	}

	p.DefaultColorID = ""
	if vs := testBuilder().Build(p); vs[0].ImageLink != "https://cdn.example.com/i/c2.jpg" {
		t.Fatalf("expected selected color image, got %q", vs[0].ImageLink)
	}
}

func TestSelectImages_CapsAtMax(t *testing.T) {
	var images []domain.ImageEntry
	for i := 0; i < 20; i++ {
		images = append(images, domain.ImageEntry{Type: "other", Src: "/i/" + string(rune('a'+i)) + ".jpg"})
	}

	got := SelectImages("https://cdn.example.com", images, nil, ImageSize{})
	if len(got) != MaxImages {
		t.Fatalf("expected %d images, got %d", MaxImages, len(got))
	}
}

func TestOrderAlternateViews(t *testing.T) {
	views := []domain.AlternateView{
		{Name: "detail"}, {Name: "Sleeve Left"}, {Name: "back"}, {Name: "zoom"}, {Name: "FRONT"},
	}
	got := OrderAlternateViews(views)

	var names []string
	for _, v := range got {
		names = append(names, v.Name)
	}
	want := []string{"FRONT", "back", "Sleeve Left", "detail", "zoom"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
}

func TestParsePrice(t *testing.T) {
	if p := ParsePrice("USD", "", "9,5"); p == nil || p.AmountDecimal() != "9.50" {
		t.Fatalf("expected fallback to cheapest price 9.50, got %+v", p)
	}
	if p := ParsePrice("USD", "0", "abc"); p != nil {
		t.Fatalf("expected nil price, got %+v", p)
	}

	cases := map[string]string{
		"1.299,00":  "1299.00",
		"1,299.00":  "1299.00",
		"1,299,000": "1299000.00",
		"12.5":      "12.50",
	}
	for raw, want := range cases {
		t.Run(raw, func(t *testing.T) {
			if p := ParsePrice("EUR", raw); p == nil || p.AmountDecimal() != want {
				t.Fatalf("expected %s, got %+v", want, p)
			}
		})
	}
}

func TestIdentifiers(t *testing.T) {
	b := testBuilder()

	cases := []struct {
		name      string
		p         domain.FeedProduct
		wantBase  string
		wantGroup string
	}{
		{"code and id", domain.FeedProduct{ID: "1", Code: "A", Name: "X"}, "A-1", "A-1"},
		{"code only", domain.FeedProduct{Code: "A", Name: "Nice Tee"}, "A", "nice-tee"},
		{"id only no name", domain.FeedProduct{ID: "1"}, "1", "1"},
		{"name only", domain.FeedProduct{Name: "Nice Tee"}, "nice-tee", "nice-tee"},
		{"nothing", domain.FeedProduct{}, "item-1704164645000000000", "item-1704164645000000000"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			base, group := b.Identifiers(tc.p)
			if base != tc.wantBase || group != tc.wantGroup {
				t.Fatalf("expected %q/%q, got %q/%q", tc.wantBase, tc.wantGroup, base, group)
			}
		})
	}
}
