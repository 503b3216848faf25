// Package pipeline contains the cleaning core: it turns raw rows read from
// heterogeneous deposit tables into the canonical record shape every
// downstream aggregation runs on.
package pipeline

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositType distinguishes first-time deposits from returning deposits.
type DepositType string

const (
	FTD DepositType = "FTD"
	RTN DepositType = "RTN"
)

// RawRecord is one row as read from a source table or file: an untyped
// field bag keyed by whatever column names the source happens to use.
type RawRecord map[string]string

// CleanRecord is the canonical post-normalization unit. Text fields are
// trimmed and title-cased; nil means the source value was empty, "nan" or
// "none". Date is always a valid UTC-midnight calendar date (records whose
// date fails to parse are dropped before a CleanRecord is built).
type CleanRecord struct {
	Date      time.Time
	Country   *string
	Affiliate *string
	Source    *string
	Type      DepositType
	USDTotal  decimal.Decimal

	// AmountDefaulted marks records whose monetary field failed to parse
	// and was replaced with zero, so a genuine zero stays distinguishable.
	AmountDefaulted bool
}

// LegacyRow is one reconstructed row of the denormalized legacy export:
// a (country, affiliate) pair recovered from interleaved label rows, with
// the row-level LTV ratio recomputed where possible.
type LegacyRow struct {
	Date       time.Time
	Country    *string
	Affiliate  string
	USDTotal   decimal.Decimal
	CountFTD   int64
	GeneralLTV decimal.Decimal
}
