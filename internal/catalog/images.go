package catalog

import (
	"sort"
	"strings"

	"github.com/ETAnderson/catalogsync/internal/domain"
)

// MaxImages caps the images (main + additional) of one variant.
const MaxImages = 11

// AlternateViewPriority orders alternate views by normalized name.
var AlternateViewPriority = []string{"front", "back", "right_sleeve", "left_sleeve", "sleeve_right", "sleeve_left"}

type imageCategory int

const (
	categoryFront imageCategory = iota
	categoryBack
	categoryOther
)

func categorize(typeTag string) imageCategory {
	t := strings.ToLower(typeTag)
	switch {
	case strings.Contains(t, "front"):
		return categoryFront
	case strings.Contains(t, "back"):
		return categoryBack
	default:
		return categoryOther
	}
}

func viewKey(name string) string {
	return strings.ReplaceAll(Slug(name), "-", "_")
}

// OrderAlternateViews sorts views by AlternateViewPriority. Unknown names go
// last; ties keep feed order.
func OrderAlternateViews(views []domain.AlternateView) []domain.AlternateView {
	rank := func(name string) int {
		k := viewKey(name)
		for i, p := range AlternateViewPriority {
			if k == p {
				return i
			}
		}
		return len(AlternateViewPriority)
	}

	out := make([]domain.AlternateView, len(views))
	copy(out, views)
	sort.SliceStable(out, func(i, j int) bool {
		return rank(out[i].Name) < rank(out[j].Name)
	})
	return out
}

// MergeImages puts the ordered alternate views ahead of the direct images.
func MergeImages(p domain.FeedProduct) []domain.ImageEntry {
	out := make([]domain.ImageEntry, 0, len(p.AlternateViews)+len(p.Images))
	for _, v := range OrderAlternateViews(p.AlternateViews) {
		if strings.TrimSpace(v.Src) == "" {
			continue
		}
		out = append(out, domain.ImageEntry{Type: v.Name, Src: v.Src})
	}
	for _, img := range p.Images {
		if strings.TrimSpace(img.Src) == "" {
			continue
		}
		out = append(out, img)
	}
	return out
}

// ImageSize is what the size placeholders are filled with.
type ImageSize struct {
	ID    string
	Value string
}

// SelectImages resolves the image list for the given colors: front, then back,
// then everything else, each category applying every color in turn. URLs are
// de-duplicated and capped at MaxImages.
func SelectImages(assetBase string, images []domain.ImageEntry, colors []domain.ColorEntry, size ImageSize) []string {
	if len(images) == 0 {
		return nil
	}
	if len(colors) == 0 {
		colors = []domain.ColorEntry{{}}
	}

	out := make([]string, 0, MaxImages)
	seen := make(map[string]struct{})

	for _, cat := range []imageCategory{categoryFront, categoryBack, categoryOther} {
		for _, c := range colors {
			for _, img := range images {
				if categorize(img.Type) != cat {
					continue
				}
				src := SubstitutePlaceholders(img.Src, c.ID, size.ID, size.Value)
				u := ResolveURL(assetBase, src)
				if u == "" {
					continue
				}
				if _, dup := seen[u]; dup {
					continue
				}
				seen[u] = struct{}{}
				out = append(out, u)
				if len(out) == MaxImages {
					return out
				}
			}
		}
	}

	return out
}

// DefaultColor is the entry matching defaultColorID, else the selected one,
// else the first.
func DefaultColor(entries []domain.ColorEntry, defaultColorID string) (domain.ColorEntry, bool) {
	if len(entries) == 0 {
		return domain.ColorEntry{}, false
	}
	if id := strings.TrimSpace(defaultColorID); id != "" {
		for _, e := range entries {
			if e.ID == id {
				return e, true
			}
		}
	}
	for _, e := range entries {
		if e.Selected {
			return e, true
		}
	}
	return entries[0], true
}

// DefaultSize is the selected entry, else the first.
func DefaultSize(entries []domain.SizeEntry) (domain.SizeEntry, bool) {
	if len(entries) == 0 {
		return domain.SizeEntry{}, false
	}
	for _, e := range entries {
		if e.Selected {
			return e, true
		}
	}
	return entries[0], true
}

// ColorsForLabel picks the color entries a grouped label stands for.
// Multicolor means all of them; otherwise each slash token is matched against
// entry tokens, falling back to the default entry.
func ColorsForLabel(label string, entries []domain.ColorEntry, fallback domain.ColorEntry) []domain.ColorEntry {
	if len(entries) == 0 {
		return nil
	}
	if label == MulticolorLabel {
		return entries
	}

	var out []domain.ColorEntry
	for _, tok := range strings.Split(label, "/") {
		tok = strings.ToLower(strings.TrimSpace(tok))
		if tok == "" {
			continue
		}
		for _, e := range entries {
			if entryMatches(e, tok) && !containsColor(out, e) {
				out = append(out, e)
			}
		}
	}

	if len(out) == 0 {
		return []domain.ColorEntry{fallback}
	}
	return out
}

func entryMatches(e domain.ColorEntry, token string) bool {
	for _, t := range colorTokens(e) {
		if t == token || strings.Contains(t, token) {
			return true
		}
	}
	return false
}

func containsColor(list []domain.ColorEntry, e domain.ColorEntry) bool {
	for _, x := range list {
		if x.ID == e.ID && x.Name == e.Name {
			return true
		}
	}
	return false
}
