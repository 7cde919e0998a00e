package output

import (
	"context"
	"encoding/json"

	"eventledger/internal/domain/entities"
)

// InsightProvider turns structured context into a structured annotation
// matching the schema of req.Kind.
type InsightProvider interface {
	Generate(ctx context.Context, req entities.InsightRequest) (json.RawMessage, error)
}
