package mysql

import (
	"database/sql"
	"encoding/json"

	"babystay/internal/domain"
)

// Result shaping is centralized here: the driver hands aggregate DECIMALs
// and JSON documents back in storage-layer types, and every caller-facing
// record goes through these coercions exactly once.

// ratingOrZero applies the no-reviews invariant: a missing average is 0,
// never NULL.
func ratingOrZero(v sql.NullFloat64) float64 {
	if !v.Valid {
		return 0
	}
	return v.Float64
}

// priceOrNil keeps a missing MIN(price) absent: a listing without room
// types has no minimum price.
func priceOrNil(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func strOrNil(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func intOrNil(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nilToEmptyTags(b []byte) []domain.TagRef {
	out := []domain.TagRef{}
	if len(b) > 0 {
		_ = json.Unmarshal(b, &out)
	}
	return out
}

func nilToEmptyImages(b []byte) []domain.ReviewImage {
	out := []domain.ReviewImage{}
	if len(b) > 0 {
		_ = json.Unmarshal(b, &out)
	}
	return out
}
