package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"ltvreport/internal/config"
	"ltvreport/internal/pipeline"
	"ltvreport/internal/repository"
)

// RebuildSummary is the audit record of one legacy rebuild pass.
type RebuildSummary struct {
	Rows           int        `json:"rows"`
	Input          int        `json:"input"`
	ShortInput     bool       `json:"short_input"`
	CountryLabels  int        `json:"country_labels"`
	SentinelRows   int        `json:"sentinel_rows"`
	Duplicates     int        `json:"duplicates"`
	DroppedDates   int        `json:"dropped_dates"`
	NearMissLabels []string   `json:"near_miss_labels,omitempty"`
	RebuiltAt      *time.Time `json:"rebuilt_at"`
}

// LegacyService rebuilds the historical LTV export: a denormalized
// spreadsheet dump whose country names ride as interleaved label rows.
// The rebuilt rows are cached in memory until the next rebuild.
type LegacyService struct {
	log      *zap.Logger
	primary  repository.Source
	fallback repository.Source
	cfg      config.LegacyConfig

	mu        sync.RWMutex
	rows      []pipeline.LegacyRow
	summary   RebuildSummary
	rebuiltAt time.Time
}

func NewLegacyService(log *zap.Logger, primary, fallback repository.Source, cfg config.LegacyConfig) *LegacyService {
	return &LegacyService{
		log:      log,
		primary:  primary,
		fallback: fallback,
		cfg:      cfg,
	}
}

// Rebuild fetches the legacy table, remaps its shifted columns and runs
// the unpivot pass, then swaps the cached rows.
func (s *LegacyService) Rebuild(ctx context.Context) (RebuildSummary, error) {
	raw, err := fetchTable(ctx, s.log, s.primary, s.fallback, s.cfg.Table)
	if err != nil {
		return RebuildSummary{}, err
	}

	res := pipeline.Reconstruct(pipeline.ApplyLegacyColumns(raw), pipeline.ReconstructOptions{
		Countries: s.cfg.Countries,
		SkipRows:  s.cfg.SkipRows,
	})

	now := time.Now().UTC()
	summary := RebuildSummary{
		Rows:           len(res.Rows),
		Input:          res.Input,
		ShortInput:     res.ShortInput,
		CountryLabels:  res.CountryLabels,
		SentinelRows:   res.SentinelRows,
		Duplicates:     res.Duplicates,
		DroppedDates:   res.DroppedDates,
		NearMissLabels: res.NearMissLabels,
		RebuiltAt:      &now,
	}

	s.mu.Lock()
	s.rows = res.Rows
	s.summary = summary
	s.rebuiltAt = now
	s.mu.Unlock()

	s.log.Info("legacy export rebuilt",
		zap.String("table", s.cfg.Table),
		zap.Int("input", res.Input),
		zap.Int("rows", len(res.Rows)),
		zap.Int("duplicates", res.Duplicates),
		zap.Int("sentinel_rows", res.SentinelRows),
		zap.Int("dropped_dates", res.DroppedDates),
	)
	if res.ShortInput {
		s.log.Warn("legacy export shorter than configured skip rows",
			zap.Int("input", res.Input), zap.Int("skip_rows", s.cfg.SkipRows))
	}
	if len(res.NearMissLabels) > 0 {
		s.log.Warn("labels within one edit of a country name",
			zap.Strings("labels", res.NearMissLabels))
	}
	return summary, nil
}

// Rows returns a page of the cached rebuilt rows and the total count.
// A non-positive limit returns everything from offset onward.
func (s *LegacyService) Rows(limit, offset int) ([]pipeline.LegacyRow, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.rows)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []pipeline.LegacyRow{}, total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	out := make([]pipeline.LegacyRow, end-offset)
	copy(out, s.rows[offset:end])
	return out, total
}

// Summary returns the audit record of the last rebuild, zero-valued if
// no rebuild has run yet.
func (s *LegacyService) Summary() RebuildSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}
