package search

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

type SortKey string

const (
	SortCreatedAt     SortKey = "created_at"
	SortName          SortKey = "name"
	SortAverageRating SortKey = "average_rating"
	SortMinPrice      SortKey = "min_price"
)

type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

const (
	DefaultPage  = 1
	DefaultLimit = 12
)

// Filters is the normalized search filter record. Optional fields are
// explicit: a nil pointer or empty slice means the filter is absent.
type Filters struct {
	Region     *string
	AgeMonths  []int
	AmenityIDs []int64
	MinPrice   *float64
	MaxPrice   *float64
	MinRating  *float64
	Page       int
	Limit      int
	SortBy     SortKey
	SortOrder  SortOrder

	// Accepted but never classified into predicates; there is no
	// availability model yet.
	CheckIn  *time.Time
	CheckOut *time.Time
	Adults   *int
	Children *int
	Infants  *int
}

// ParseFilters normalizes a raw query-parameter bag. Malformed or
// out-of-range inputs coerce to defaults instead of erroring; unknown
// sort keys fail closed to created_at.
func ParseFilters(q url.Values) Filters {
	f := Filters{
		Page:      DefaultPage,
		Limit:     DefaultLimit,
		SortBy:    SortCreatedAt,
		SortOrder: OrderDesc,
	}

	if v := strings.TrimSpace(q.Get("region")); v != "" {
		f.Region = &v
	}
	f.AgeMonths = parseIntList(q.Get("ageMonths"))
	for _, id := range parseIntList(q.Get("amenities")) {
		f.AmenityIDs = append(f.AmenityIDs, int64(id))
	}
	f.MinPrice = parseFloat(q.Get("minPrice"))
	f.MaxPrice = parseFloat(q.Get("maxPrice"))
	f.MinRating = parseFloat(q.Get("minRating"))

	if n, err := strconv.Atoi(q.Get("page")); err == nil && n >= 1 {
		f.Page = n
	}
	if n, err := strconv.Atoi(q.Get("limit")); err == nil && n >= 1 {
		f.Limit = n
	}
	f.SortBy = normalizeSortKey(q.Get("sortBy"))
	if strings.EqualFold(q.Get("sortOrder"), string(OrderAsc)) {
		f.SortOrder = OrderAsc
	}

	f.CheckIn = parseDate(q.Get("checkIn"))
	f.CheckOut = parseDate(q.Get("checkOut"))
	f.Adults = parseInt(q.Get("adults"))
	f.Children = parseInt(q.Get("children"))
	f.Infants = parseInt(q.Get("infants"))

	return f
}

func normalizeSortKey(s string) SortKey {
	switch SortKey(s) {
	case SortCreatedAt, SortName, SortAverageRating, SortMinPrice:
		return SortKey(s)
	}
	return SortCreatedAt
}

func parseIntList(s string) []int {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue // drop malformed elements, keep the rest
		}
		out = append(out, n)
	}
	return out
}

func parseFloat(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseInt(s string) *int {
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &t
}
