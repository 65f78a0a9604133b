package ingest

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ETAnderson/catalogsync/internal/domain"
)

func TestValidateVariant_RequiredFields(t *testing.T) {
	tests := []struct {
		name         string
		mutate       func(v *domain.Variant)
		wantIssueKey string
	}{
		{"missing offer_id", func(v *domain.Variant) { v.OfferID = "" }, "offer_id"},
		{"missing title", func(v *domain.Variant) { v.Title = " " }, "title"},
		{"missing link", func(v *domain.Variant) { v.Link = "" }, "link"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := baseVariantForHash()
			tt.mutate(&v)

			res := ValidateVariant(v)
			if res.IsValid() {
				t.Fatalf("expected invalid result")
			}
			if !hasIssuePath(res, tt.wantIssueKey) {
				t.Fatalf("expected issue for path %q, got %#v", tt.wantIssueKey, res.Issues)
			}
		})
	}
}

func TestValidateVariant_PriceAndChannel(t *testing.T) {
	t.Run("nil price is fine", func(t *testing.T) {
		v := baseVariantForHash()
		v.Price = nil
		if res := ValidateVariant(v); !res.IsValid() {
			t.Fatalf("expected valid, got %#v", res.Issues)
		}
	})

	t.Run("invalid currency length", func(t *testing.T) {
		v := baseVariantForHash()
		v.Price = &domain.Price{Value: decimal.NewFromInt(1), Currency: "US"}

		res := ValidateVariant(v)
		if !hasIssueCode(res, "invalid_currency") {
			t.Fatalf("expected invalid_currency, got %#v", res.Issues)
		}
	})

	t.Run("unknown channel", func(t *testing.T) {
		v := baseVariantForHash()
		v.Channel = "tiktok"

		res := ValidateVariant(v)
		if !hasIssueCode(res, "invalid_channel") {
			t.Fatalf("expected invalid_channel, got %#v", res.Issues)
		}
	})
}

func hasIssuePath(res ValidationResult, path string) bool {
	for _, it := range res.Issues {
		if it.Path == path {
			return true
		}
	}
	return false
}

func hasIssueCode(res ValidationResult, code string) bool {
	for _, it := range res.Issues {
		if it.Code == code {
			return true
		}
	}
	return false
}
