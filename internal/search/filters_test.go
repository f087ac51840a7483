package search

import (
	"net/url"
	"testing"
)

func TestParseFilters_Defaults(t *testing.T) {
	f := ParseFilters(url.Values{})
	if f.Page != 1 || f.Limit != 12 {
		t.Fatalf("expected page=1 limit=12, got page=%d limit=%d", f.Page, f.Limit)
	}
	if f.SortBy != SortCreatedAt || f.SortOrder != OrderDesc {
		t.Fatalf("expected created_at desc, got %s %s", f.SortBy, f.SortOrder)
	}
	if f.Region != nil || f.MinPrice != nil || f.MaxPrice != nil || f.MinRating != nil {
		t.Fatalf("expected absent optional filters: %+v", f)
	}
	if len(f.AgeMonths) != 0 || len(f.AmenityIDs) != 0 {
		t.Fatalf("expected empty sets: %+v", f)
	}
}

func TestParseFilters_LenientCoercion(t *testing.T) {
	q := url.Values{}
	q.Set("page", "-3")
	q.Set("limit", "zero")
	q.Set("sortBy", "malicious_column")
	q.Set("sortOrder", "sideways")
	q.Set("minPrice", "cheap")
	q.Set("ageMonths", "6,abc,24")

	f := ParseFilters(q)
	if f.Page != 1 || f.Limit != 12 {
		t.Fatalf("expected defaults for bad page/limit, got %d/%d", f.Page, f.Limit)
	}
	if f.SortBy != SortCreatedAt {
		t.Fatalf("unknown sort key must fail closed, got %s", f.SortBy)
	}
	if f.SortOrder != OrderDesc {
		t.Fatalf("unknown sort order must default to desc, got %s", f.SortOrder)
	}
	if f.MinPrice != nil {
		t.Fatalf("malformed minPrice must be absent, got %v", *f.MinPrice)
	}
	if len(f.AgeMonths) != 2 || f.AgeMonths[0] != 6 || f.AgeMonths[1] != 24 {
		t.Fatalf("expected malformed list elements dropped, got %v", f.AgeMonths)
	}
}

func TestParseFilters_AllFields(t *testing.T) {
	q := url.Values{}
	q.Set("region", "Jeju")
	q.Set("amenities", "3,7")
	q.Set("minPrice", "50000")
	q.Set("maxPrice", "120000")
	q.Set("minRating", "4.5")
	q.Set("page", "2")
	q.Set("limit", "24")
	q.Set("sortBy", "min_price")
	q.Set("sortOrder", "asc")
	q.Set("checkIn", "2025-07-01")
	q.Set("checkOut", "2025-07-03")
	q.Set("adults", "2")
	q.Set("infants", "1")

	f := ParseFilters(q)
	if f.Region == nil || *f.Region != "Jeju" {
		t.Fatalf("region: %+v", f.Region)
	}
	if len(f.AmenityIDs) != 2 || f.AmenityIDs[0] != 3 || f.AmenityIDs[1] != 7 {
		t.Fatalf("amenities: %v", f.AmenityIDs)
	}
	if *f.MinPrice != 50000 || *f.MaxPrice != 120000 || *f.MinRating != 4.5 {
		t.Fatalf("price/rating bounds: %+v", f)
	}
	if f.Page != 2 || f.Limit != 24 || f.SortBy != SortMinPrice || f.SortOrder != OrderAsc {
		t.Fatalf("paging/sort: %+v", f)
	}
	if f.CheckIn == nil || f.CheckOut == nil || *f.Adults != 2 || *f.Infants != 1 {
		t.Fatalf("inert fields must still be captured: %+v", f)
	}
	if f.Children != nil {
		t.Fatalf("absent children must stay nil")
	}
}

func TestParseFilters_BadDates(t *testing.T) {
	q := url.Values{}
	q.Set("checkIn", "next tuesday")
	f := ParseFilters(q)
	if f.CheckIn != nil {
		t.Fatalf("malformed date must be absent, got %v", f.CheckIn)
	}
}
