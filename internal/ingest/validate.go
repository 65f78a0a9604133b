package ingest

import (
	"strings"

	"github.com/ETAnderson/catalogsync/internal/domain"
)

type ValidationIssue struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationResult struct {
	Issues []ValidationIssue `json:"issues"`
}

func (r ValidationResult) IsValid() bool {
	return len(r.Issues) == 0
}

// ValidateVariant checks what the remote catalog refuses outright. A variant
// failing here is neither uploaded nor cached.
func ValidateVariant(v domain.Variant) ValidationResult {
	var res ValidationResult

	requireNonEmpty(&res, "offer_id", v.OfferID)
	requireNonEmpty(&res, "title", v.Title)
	requireNonEmpty(&res, "link", v.Link)

	if v.Price != nil {
		if len(v.Price.Currency) != 3 {
			addIssue(&res, "price.currency", "invalid_currency", "currency must be a 3-letter ISO code (e.g. \"USD\")")
		}
		if !v.Price.Value.IsPositive() {
			addIssue(&res, "price.value", "invalid_amount", "price must be positive")
		}
	}

	if v.Channel != "" {
		if _, ok := domain.ParseChannel(string(v.Channel)); !ok {
			addIssue(&res, "channel", "invalid_channel", "channel must be one of: online, local")
		}
	}

	return res
}

func requireNonEmpty(res *ValidationResult, path string, v string) {
	if strings.TrimSpace(v) == "" {
		addIssue(res, path, "required", "field is required")
	}
}

func addIssue(res *ValidationResult, path string, code string, msg string) {
	res.Issues = append(res.Issues, ValidationIssue{
		Path:    path,
		Code:    code,
		Message: msg,
	})
}
