package facts

import "errors"

// Sentinel errors for consolidation.
var (
	// ErrAnalysisMissing indicates consolidation was attempted without an
	// analysis document. Labels and structural facts have no safe default.
	ErrAnalysisMissing = errors.New("analysis document missing")
	// ErrSchemaInvalid indicates the merged record failed schema validation.
	ErrSchemaInvalid = errors.New("consolidated facts record failed schema validation")
)
