package catalog

import "testing"

func TestInferDemographics(t *testing.T) {
	cfg := DefaultInference()

	cases := []struct {
		name       string
		title      string
		categories []string
		desc       string
		withDesc   bool
		want       Demographics
	}{
		{"mens apostrophe", "Men's Tee", nil, "", false, Demographics{GenderMale, AgeGroupAdult}},
		{"womens", "Womens Hoodie", nil, "", false, Demographics{GenderFemale, AgeGroupAdult}},
		{"both genders", "Men and Women Jacket", nil, "", false, Demographics{GenderUnisex, AgeGroupAdult}},
		{"unisex wins", "Unisex Mens Cap", nil, "", false, Demographics{GenderUnisex, AgeGroupAdult}},
		{"kids forces default gender", "Boys Tee", nil, "", false, Demographics{GenderUnisex, AgeGroupKids}},
		{"toddler from category", "Tee", []string{"Apparel > Toddler"}, "", false, Demographics{GenderUnisex, AgeGroupToddler}},
		{"newborn before infant", "Newborn Baby Onesie", nil, "", false, Demographics{GenderUnisex, AgeGroupNewborn}},
		{"description ignored by default", "Tee", nil, "for ladies", false, Demographics{GenderUnisex, AgeGroupAdult}},
		{"description when enabled", "Tee", nil, "for ladies", true, Demographics{GenderFemale, AgeGroupAdult}},
		{"substring is not a token", "Mensa Puzzle Shirt", nil, "", false, Demographics{GenderUnisex, AgeGroupAdult}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := cfg
			c.IncludeDescription = tc.withDesc
			got := InferDemographics(c, tc.title, "", tc.desc, tc.categories)
			if got != tc.want {
				t.Fatalf("expected %+v, got %+v", tc.want, got)
			}
		})
	}
}
