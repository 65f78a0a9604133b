package ingest

import "github.com/google/uuid"

// NewRunID creates a random run id for logs and reports.
// Format: "run_" + uuid v4.
func NewRunID() string {
	return "run_" + uuid.NewString()
}
