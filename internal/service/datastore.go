// Package service holds the application services: the in-memory deposit
// snapshot, report building and the legacy export rebuild.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ltvreport/internal/config"
	"ltvreport/internal/pipeline"
	"ltvreport/internal/repository"
)

// DataStore owns the cleaned deposit snapshot every report is built from.
// Reload assembles a fresh snapshot off to the side and swaps it in under
// the lock, so readers always see a complete load, never a partial one.
type DataStore struct {
	log      *zap.Logger
	primary  repository.Source
	fallback repository.Source
	sources  config.SourcesConfig

	mu       sync.RWMutex
	records  []pipeline.CleanRecord
	loadedAt time.Time
	runID    string
	ready    bool
}

func NewDataStore(log *zap.Logger, primary, fallback repository.Source, sources config.SourcesConfig) *DataStore {
	return &DataStore{
		log:      log,
		primary:  primary,
		fallback: fallback,
		sources:  sources,
	}
}

// sourceSpec pairs a table name with the deposit type forced onto its
// rows. An empty type means the table carries its own deposit_type column.
type sourceSpec struct {
	table  string
	forced pipeline.DepositType
}

func (s *DataStore) specs() []sourceSpec {
	out := []sourceSpec{
		{table: s.sources.FTDTable, forced: pipeline.FTD},
		{table: s.sources.RTNTable, forced: pipeline.RTN},
	}
	for _, t := range s.sources.CombinedTables {
		out = append(out, sourceSpec{table: t})
	}
	return out
}

// Reload rebuilds the snapshot from every configured source table. A
// source that cannot be fetched or lacks a required column contributes
// zero rows; the remaining sources still load. Reload only errors when no
// source produced any rows at all, so one broken table never blanks an
// otherwise healthy snapshot.
func (s *DataStore) Reload(ctx context.Context) error {
	runID := uuid.NewString()
	start := time.Now()
	log := s.log.With(zap.String("run_id", runID))

	var snapshot []pipeline.CleanRecord
	loaded := 0
	for _, spec := range s.specs() {
		if spec.table == "" {
			continue
		}
		records, err := s.loadSource(ctx, log, spec)
		if err != nil {
			log.Error("source load failed", zap.String("table", spec.table), zap.Error(err))
			continue
		}
		snapshot = append(snapshot, records...)
		loaded++
	}

	if loaded == 0 {
		// Total failure on the first load degrades to an empty dataset:
		// the service still answers with zeroed reports. An established
		// snapshot is never blanked by a failed reload.
		s.mu.Lock()
		if !s.ready {
			s.records = nil
			s.loadedAt = time.Now().UTC()
			s.runID = runID
			s.ready = true
		}
		s.mu.Unlock()
		return fmt.Errorf("reload %s: no source table loaded", runID)
	}

	s.mu.Lock()
	s.records = snapshot
	s.loadedAt = time.Now().UTC()
	s.runID = runID
	s.ready = true
	s.mu.Unlock()

	log.Info("snapshot reloaded",
		zap.Int("sources", loaded),
		zap.Int("records", len(snapshot)),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

func (s *DataStore) loadSource(ctx context.Context, log *zap.Logger, spec sourceSpec) ([]pipeline.CleanRecord, error) {
	raw, err := fetchTable(ctx, log, s.primary, s.fallback, spec.table)
	if err != nil {
		return nil, err
	}

	if len(raw) == 0 {
		log.Warn("source table is empty", zap.String("table", spec.table))
		return nil, nil
	}

	normalized := pipeline.NormalizeSchema(raw)
	if len(normalized.Missing) > 0 {
		return nil, fmt.Errorf("table %s missing required columns: %s",
			spec.table, strings.Join(normalized.Missing, ", "))
	}

	records, stats := pipeline.Clean(normalized.Rows, spec.forced)
	log.Info("source loaded",
		zap.String("table", spec.table),
		zap.Int("input", stats.Input),
		zap.Int("kept", stats.Kept),
		zap.Int("dropped_dates", stats.DroppedDates),
		zap.Int("defaulted_amounts", stats.DefaultedAmounts),
	)
	return records, nil
}

// Records returns a copy of the current snapshot.
func (s *DataStore) Records() []pipeline.CleanRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]pipeline.CleanRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Ready reports whether at least one load has completed.
func (s *DataStore) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ready
}

func (s *DataStore) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// fetchTable tries the primary source first and falls back to the flat
// file source when the primary fails. Both failing fails the load.
func fetchTable(ctx context.Context, log *zap.Logger, primary, fallback repository.Source, table string) ([]pipeline.RawRecord, error) {
	if primary != nil {
		rows, err := primary.FetchTable(ctx, table)
		if err == nil {
			return rows, nil
		}
		log.Warn("primary source failed, trying fallback",
			zap.String("table", table), zap.Error(err))
	}
	if fallback == nil {
		return nil, fmt.Errorf("table %s: no source available", table)
	}
	rows, err := fallback.FetchTable(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("table %s: fallback failed: %w", table, err)
	}
	return rows, nil
}
