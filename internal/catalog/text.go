package catalog

import (
	"net/url"
	"strings"
	"unicode"
)

// Slug lower-cases s, drops apostrophes, collapses every run of
// non-alphanumeric characters into a single hyphen and trims hyphens.
func Slug(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r == '\'' || r == '’':
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}

	return b.String()
}

// NormalizeOfferID joins the non-empty parts and slugs the result, so
// ("TS1", "Black/Navy", "S") becomes "ts1-black-navy-s".
func NormalizeOfferID(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return Slug(strings.Join(kept, "-"))
}

// FillTemplate replaces {key} tokens in tpl with values[key]. Unknown tokens
// are left untouched.
func FillTemplate(tpl string, values map[string]string) string {
	out := tpl
	for k, v := range values {
		out = strings.ReplaceAll(out, "{"+k+"}", v)
	}
	return out
}

const (
	PlaceholderColorID = "[COLOR_ID]"
	PlaceholderSizeID  = "[SIZE_ID]"
	PlaceholderSize    = "[SIZE]"
)

// SubstitutePlaceholders fills the image source placeholders.
func SubstitutePlaceholders(src, colorID, sizeID, size string) string {
	r := strings.NewReplacer(
		PlaceholderColorID, colorID,
		PlaceholderSizeID, sizeID,
		PlaceholderSize, size,
	)
	return r.Replace(src)
}

// ResolveURL makes ref absolute against base. Absolute refs are returned as is,
// protocol-relative refs get https.
func ResolveURL(base, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "//") {
		return "https:" + ref
	}

	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	if r.IsAbs() {
		return ref
	}

	b, err := url.Parse(strings.TrimSpace(base))
	if err != nil || !b.IsAbs() {
		return ref
	}

	return b.ResolveReference(r).String()
}
