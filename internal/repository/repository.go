package repository

import (
	"context"

	"ltvreport/internal/pipeline"
)

// Source reads one named table into raw row maps. Implementations are
// schema-agnostic: every column comes back as its string representation
// and the pipeline's schema normalizer sorts out what the columns mean.
type Source interface {
	FetchTable(ctx context.Context, table string) ([]pipeline.RawRecord, error)
}
