package catalog

import (
	"strings"

	"github.com/ETAnderson/catalogsync/internal/domain"
)

// DefaultExcludedSizes are dropped from every product's size list.
var DefaultExcludedSizes = []string{"3XL", "4XL", "5XL", "6XL", "XXXL", "XXXXL"}

// SizeSet is a case-insensitive set of size tokens.
type SizeSet map[string]struct{}

func NewSizeSet(tokens []string) SizeSet {
	s := make(SizeSet, len(tokens))
	for _, t := range tokens {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			s[t] = struct{}{}
		}
	}
	return s
}

func (s SizeSet) Contains(token string) bool {
	_, ok := s[strings.ToUpper(strings.TrimSpace(token))]
	return ok
}

// SizeValue is the entry's display token: value, then name, then label1.
func SizeValue(e domain.SizeEntry) string {
	for _, v := range []string{e.Value, e.Name, e.Label1} {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// NormalizeSizes returns the ordered size tokens that survive the exclusion
// set. Tokens are de-duplicated on their offer-id suffix, so "S" and "s" keep
// only the first.
func NormalizeSizes(entries []domain.SizeEntry, excluded SizeSet) []string {
	out := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))

	for _, e := range entries {
		v := SizeValue(e)
		if v == "" || excluded.Contains(v) {
			continue
		}
		key := Slug(v)
		if key == "" {
			key = strings.ToLower(v)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, v)
	}

	return out
}

// ColorNames returns the raw color strings of the product in feed order.
// An entry without a name falls back to its first sub-color name.
func ColorNames(entries []domain.ColorEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			for _, sub := range e.SubNames {
				if sub = strings.TrimSpace(sub); sub != "" {
					name = sub
					break
				}
			}
		}
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

// colorTokens are the case-folded strings an entry can be matched by.
func colorTokens(e domain.ColorEntry) []string {
	out := make([]string, 0, 1+len(e.SubNames))
	for _, s := range append([]string{e.Name}, e.SubNames...) {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// CategoryLabels resolves category ids to their labels, falling back to the
// raw id for unknown ones. Duplicates are dropped.
func CategoryLabels(ids []string, categories map[string]string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))

	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		label := id
		if l, ok := categories[id]; ok && strings.TrimSpace(l) != "" {
			label = strings.TrimSpace(l)
		}
		if _, dup := seen[label]; dup {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}

	return out
}
