package feed

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/ETAnderson/catalogsync/internal/domain"
)

var ErrNoProducts = errors.New("feed: document has no product elements")

// ParseProducts reads the product feed document. Every repeated element may
// appear zero, one or many times; the result always uses slices.
func ParseProducts(r io.Reader) ([]domain.FeedProduct, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	nodes := xmlquery.Find(doc, "//product")
	if len(nodes) == 0 {
		if xmlquery.FindOne(doc, "/products") != nil {
			return []domain.FeedProduct{}, nil
		}
		return nil, ErrNoProducts
	}

	out := make([]domain.FeedProduct, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, parseProduct(n))
	}

	return out, nil
}

// ReadProductsFile opens path and parses it with ParseProducts.
func ReadProductsFile(path string) ([]domain.FeedProduct, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feed: %w", err)
	}
	defer f.Close()

	return ParseProducts(f)
}

func parseProduct(n *xmlquery.Node) domain.FeedProduct {
	p := domain.FeedProduct{
		ID:             childText(n, "id"),
		Code:           childText(n, "code"),
		Name:           childText(n, "name"),
		Description:    childMarkup(n, "description"),
		Price:          childText(n, "price"),
		CheapestPrice:  childText(n, "cheapest_price"),
		ManufacturerID: childText(n, "manufacturer_id"),
		TypeID:         childText(n, "type_id"),
		DefaultColorID: childText(n, "default_color_id"),

		Images:         []domain.ImageEntry{},
		AlternateViews: []domain.AlternateView{},
		Sizes:          []domain.SizeEntry{},
		Colors:         []domain.ColorEntry{},
		CategoryIDs:    []string{},
	}

	for _, img := range xmlquery.Find(n, "./images/image") {
		p.Images = append(p.Images, domain.ImageEntry{
			Type: childText(img, "type"),
			Src:  childText(img, "src"),
		})
	}

	for _, v := range xmlquery.Find(n, "./alternate_views/view") {
		p.AlternateViews = append(p.AlternateViews, domain.AlternateView{
			Name: childText(v, "name"),
			Src:  childText(v, "src"),
		})
	}

	sizes := xmlquery.Find(n, "./sizes/size")
	p.HasSizeNodes = len(sizes) > 0
	for _, s := range sizes {
		p.Sizes = append(p.Sizes, domain.SizeEntry{
			ID:       childText(s, "id"),
			Name:     childText(s, "name"),
			Value:    childText(s, "value"),
			Label1:   childText(s, "label1"),
			Label2:   childText(s, "label2"),
			Selected: truthy(childText(s, "selected")),
		})
	}

	for _, c := range xmlquery.Find(n, "./colors/color") {
		entry := domain.ColorEntry{
			ID:       childText(c, "id"),
			GroupID:  childText(c, "group_id"),
			Name:     childText(c, "name"),
			Selected: truthy(childText(c, "selected")),
			SubNames: []string{},
		}
		for _, sub := range xmlquery.Find(c, "./sub_colors/sub_color") {
			if name := childText(sub, "name"); name != "" {
				entry.SubNames = append(entry.SubNames, name)
			}
		}
		p.Colors = append(p.Colors, entry)
	}

	for _, c := range xmlquery.Find(n, "./categories/category") {
		id := childText(c, "id")
		if id == "" {
			id = strings.TrimSpace(c.InnerText())
		}
		if id != "" {
			p.CategoryIDs = append(p.CategoryIDs, id)
		}
	}

	return p
}

func childText(n *xmlquery.Node, name string) string {
	c := xmlquery.FindOne(n, "./"+name)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.InnerText())
}

// childMarkup keeps embedded markup of the child (escaped text, raw elements)
// so the description sanitizer can turn it into line breaks.
func childMarkup(n *xmlquery.Node, name string) string {
	c := xmlquery.FindOne(n, "./"+name)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.OutputXML(false))
}

func truthy(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}
