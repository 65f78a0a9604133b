package catalog

import (
	"strings"
	"unicode"
)

const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderUnisex = "unisex"

	AgeGroupNewborn = "newborn"
	AgeGroupInfant  = "infant"
	AgeGroupToddler = "toddler"
	AgeGroupKids    = "kids"
	AgeGroupAdult   = "adult"
)

// Keywords are the token tables demographic inference matches against.
type Keywords struct {
	Unisex  []string
	Female  []string
	Male    []string
	Newborn []string
	Infant  []string
	Toddler []string
	Kids    []string
	Adult   []string
}

var DefaultKeywords = Keywords{
	Unisex:  []string{"unisex"},
	Female:  []string{"women", "womens", "woman", "ladies", "lady", "female", "girl", "girls"},
	Male:    []string{"men", "mens", "man", "male", "gents", "boy", "boys"},
	Newborn: []string{"newborn", "newborns", "preemie"},
	Infant:  []string{"infant", "infants", "baby", "babies"},
	Toddler: []string{"toddler", "toddlers"},
	Kids:    []string{"kids", "kid", "youth", "child", "children", "childrens", "boys", "girls", "junior", "juniors"},
	Adult:   []string{"adult", "adults"},
}

type InferenceConfig struct {
	Keywords           Keywords
	DefaultGender      string
	DefaultAgeGroup    string
	KidsDefaultGender  string
	IncludeDescription bool
}

func DefaultInference() InferenceConfig {
	return InferenceConfig{
		Keywords:          DefaultKeywords,
		DefaultGender:     GenderUnisex,
		DefaultAgeGroup:   AgeGroupAdult,
		KidsDefaultGender: GenderUnisex,
	}
}

type Demographics struct {
	Gender   string
	AgeGroup string
}

// Tokenize lower-cases the inputs, drops apostrophes ("Men's" -> "mens") and
// splits on anything that is not a letter or digit.
func Tokenize(parts ...string) map[string]struct{} {
	tokens := make(map[string]struct{})
	for _, p := range parts {
		p = strings.NewReplacer("'", "", "’", "").Replace(strings.ToLower(p))
		for _, f := range strings.FieldsFunc(p, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}) {
			tokens[f] = struct{}{}
		}
	}
	return tokens
}

func anyToken(tokens map[string]struct{}, words []string) bool {
	for _, w := range words {
		if _, ok := tokens[w]; ok {
			return true
		}
	}
	return false
}

// InferDemographics derives gender and age group from the product's text.
func InferDemographics(cfg InferenceConfig, name, code, description string, categories []string) Demographics {
	parts := append([]string{name, code}, categories...)
	if cfg.IncludeDescription {
		parts = append(parts, description)
	}
	tokens := Tokenize(parts...)
	kw := cfg.Keywords

	var d Demographics

	female := anyToken(tokens, kw.Female)
	male := anyToken(tokens, kw.Male)
	switch {
	case anyToken(tokens, kw.Unisex):
		d.Gender = GenderUnisex
	case female && male:
		d.Gender = GenderUnisex
	case female:
		d.Gender = GenderFemale
	case male:
		d.Gender = GenderMale
	default:
		d.Gender = cfg.DefaultGender
	}

	switch {
	case anyToken(tokens, kw.Newborn):
		d.AgeGroup = AgeGroupNewborn
	case anyToken(tokens, kw.Infant):
		d.AgeGroup = AgeGroupInfant
	case anyToken(tokens, kw.Toddler):
		d.AgeGroup = AgeGroupToddler
	case anyToken(tokens, kw.Kids):
		d.AgeGroup = AgeGroupKids
	case anyToken(tokens, kw.Adult):
		d.AgeGroup = AgeGroupAdult
	default:
		d.AgeGroup = cfg.DefaultAgeGroup
	}

	if d.AgeGroup == AgeGroupKids {
		d.Gender = cfg.KidsDefaultGender
	}

	return d
}
