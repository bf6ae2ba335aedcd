package storage

import (
	"errors"

	"marketScope/internal/model"
)

// ErrDisabled is returned by optional stores that were not configured.
// Callers treat it as an empty result, never as a failure.
var ErrDisabled = errors.New("feature disabled")

// Sink receives completed datasets.
type Sink interface {
	PutSnapshot(records []model.SnapshotRecord) error
}
