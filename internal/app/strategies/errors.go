package strategies

import "balatro-viewer/internal/lineage"

// The lineage sentinels double as the package errors so transport can
// match on one set.
var (
	ErrNotFound      = lineage.ErrNotFound
	ErrCycleDetected = lineage.ErrCycleDetected
)
