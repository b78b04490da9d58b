package core

// service.go runs the import pipeline end to end:
//
//	received -> kind-checked -> parsed -> validated -> (reject-all | persisted) -> reported
//
// Two error gates apply deliberately different blast radii:
//   - validation errors reject the entire batch with nothing persisted,
//     so an operator can fix the file and resubmit without partial state;
//   - persistence errors skip only the failing row and never roll back
//     rows already written in the same call.
// This split matches the station's established operator workflow and is
// applied uniformly across all record kinds.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stationcms/import-service/internal/logging"
	"github.com/stationcms/import-service/internal/store"
)

// BadRequestError marks input-shape failures (unsupported kind, empty
// payload) that are rejected before any row is examined. The web layer
// maps it to a 400 response.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return e.Message
}

// Service runs bulk imports against an injected document store.
type Service struct {
	store store.Store
}

// NewService creates an import service backed by the given store.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// Import validates and persists one batch of raw tabular text for the
// given record kind.
//
// A non-nil error is always a *BadRequestError (unsupported kind or an
// empty payload). Input that reaches the validation stage produces a
// structured ImportResult, never an error.
func (s *Service) Import(ctx context.Context, kindKey, rawText string) (*ImportResult, error) {
	def, ok := Get(kindKey)
	if !ok {
		return nil, &BadRequestError{Message: fmt.Sprintf(
			"unsupported record kind %q: supported kinds are %s",
			kindKey, strings.Join(Keys(), ", "))}
	}

	if strings.TrimSpace(rawText) == "" {
		return nil, &BadRequestError{Message: "import payload is empty"}
	}

	header, rows, err := ParseTable(rawText)
	if err != nil {
		return nil, &BadRequestError{Message: err.Error()}
	}
	if len(rows) == 0 {
		return nil, &BadRequestError{Message: "import payload is empty: no data rows after header"}
	}

	logger := logging.FromContext(ctx).With("kind", kindKey, "rows", len(rows))
	start := time.Now()

	outcome := ValidateRows(def, header, rows)

	// All-or-nothing gate: any structurally bad row voids the batch
	// before a single insert happens.
	if len(outcome.Errors) > 0 {
		logger.Info("import rejected by validation",
			"invalid_rows", len(outcome.Errors),
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return &ImportResult{
			Success:          false,
			ImportedCount:    0,
			ErrorCount:       len(outcome.Errors),
			Errors:           []string{},
			ValidationErrors: outcome.Errors,
		}, nil
	}

	result := &ImportResult{
		Errors:           []string{},
		ValidationErrors: []string{},
	}

	for _, row := range outcome.Valid {
		record, err := def.Build(row.Fields)
		if err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", row.Line, err))
			continue
		}

		if err := s.store.InsertOne(ctx, def.Info.Collection, record); err != nil {
			result.ErrorCount++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", row.Line, err))
			continue
		}

		result.ImportedCount++
	}

	result.Success = result.ErrorCount == 0

	logger.Info("import finished",
		"imported", result.ImportedCount,
		"failed", result.ErrorCount,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return result, nil
}
