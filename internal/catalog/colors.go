package catalog

import (
	"strings"
)

const (
	// MatchCap bounds the labels a single color group may contribute.
	MatchCap = 3
	// MergeLimit is the largest combined label count still emitted as one
	// merged color label.
	MergeLimit = 3

	MulticolorLabel = "Multicolor"
)

// ColorGroup is a named keyword table. Keywords are matched case-insensitively.
type ColorGroup struct {
	Name     string
	Keywords []string
}

var (
	NeutralColors = ColorGroup{Name: "neutral", Keywords: []string{"black", "white", "grey"}}
	CoolColors    = ColorGroup{Name: "cool", Keywords: []string{"navy", "blue", "royal"}}
)

// Match returns the title-cased keyword labels found in colors (exact matches
// first, then substring matches, at most MatchCap) and, per input color,
// whether any keyword matched it.
func (g ColorGroup) Match(colors []string) (labels []string, matched []bool) {
	matched = make([]bool, len(colors))
	folded := make([]string, len(colors))
	for i, c := range colors {
		folded[i] = strings.ToLower(strings.TrimSpace(c))
	}

	seen := make(map[string]struct{})
	add := func(kw string) {
		label := titleWord(kw)
		if _, ok := seen[label]; ok || len(labels) >= MatchCap {
			return
		}
		seen[label] = struct{}{}
		labels = append(labels, label)
	}

	for i, c := range folded {
		for _, kw := range g.Keywords {
			if c == strings.ToLower(kw) {
				matched[i] = true
				add(kw)
				break
			}
		}
	}

	for i, c := range folded {
		if matched[i] || c == "" {
			continue
		}
		for _, kw := range g.Keywords {
			if strings.Contains(c, strings.ToLower(kw)) {
				matched[i] = true
				add(kw)
			}
		}
	}

	return labels, matched
}

// GroupColors reduces raw color names to the variant color axis.
func GroupColors(colors []string, neutral, cool ColorGroup) []string {
	if len(colors) == 0 {
		return nil
	}

	nl, nm := neutral.Match(colors)
	cl, cm := cool.Match(colors)

	var out []string
	if len(nl) > 0 && len(cl) > 0 && len(nl)+len(cl) <= MergeLimit {
		merged := make([]string, 0, len(nl)+len(cl))
		merged = append(merged, nl...)
		merged = append(merged, cl...)
		out = append(out, strings.Join(merged, "/"))
	} else {
		if len(nl) > 0 {
			out = append(out, strings.Join(nl, "/"))
		}
		if len(cl) > 0 {
			out = append(out, strings.Join(cl, "/"))
		}
	}

	for i := range colors {
		if !nm[i] && !cm[i] {
			out = append(out, MulticolorLabel)
			break
		}
	}

	return out
}

func titleWord(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
