// Package gormsource reads source tables from MySQL through gorm.
package gormsource

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"

	"ltvreport/internal/pipeline"
)

type Source struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Source {
	return &Source{DB: db}
}

// FetchTable selects every row of table into raw string maps. NULL cells
// become empty strings; the pipeline treats both the same way.
func (s *Source) FetchTable(ctx context.Context, table string) ([]pipeline.RawRecord, error) {
	if s == nil || s.DB == nil {
		return nil, fmt.Errorf("fetch %s: no database connection", table)
	}
	if err := validIdentifier(table); err != nil {
		return nil, err
	}

	rows, err := s.DB.WithContext(ctx).Raw("SELECT * FROM `" + table + "`").Rows()
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", table, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("fetch %s columns: %w", table, err)
	}

	var out []pipeline.RawRecord
	values := make([]sql.NullString, len(columns))
	scan := make([]any, len(columns))
	for i := range values {
		scan[i] = &values[i]
	}
	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		rec := make(pipeline.RawRecord, len(columns))
		for i, col := range columns {
			if values[i].Valid {
				rec[col] = values[i].String
			} else {
				rec[col] = ""
			}
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", table, err)
	}
	return out, nil
}

// validIdentifier rejects table names that could escape the backtick
// quoting above. Table names come from config, not users, but the check
// keeps a bad config from turning into injected SQL.
func validIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("empty table name")
	}
	for _, r := range name {
		ok := r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_'
		if !ok {
			return fmt.Errorf("invalid table name %q", name)
		}
	}
	return nil
}
