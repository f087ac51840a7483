package domain

import "time"

type Accommodation struct {
	ID             int64
	Name           string
	Description    string
	Address        string
	Region         string
	ThumbnailImage *string
	TotalRooms     int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type RoomType struct {
	ID              int64
	AccommodationID int64
	Name            string
	Description     *string
	MaxOccupancy    int
	PricePerNight   float64
}

type Image struct {
	ID        int64
	ImageURL  string
	IsMain    bool
	SortOrder int
}

// AccommodationSummary is one search-result row: the base listing plus
// the aggregates the planner always computes.
type AccommodationSummary struct {
	Accommodation
	AverageRating float64 // 0 when the listing has no reviews
	ReviewCount   int
	MinPrice      *float64 // nil when the listing has no room types
}

type SearchPage struct {
	Items []AccommodationSummary
	Total int
}

// AccommodationDetail is the nested document served by the detail endpoint.
type AccommodationDetail struct {
	Accommodation
	AverageRating float64
	ReviewCount   int
	Images        []Image
	RoomTypes     []RoomType
	Amenities     map[string][]AmenityInfo // keyed by category name
	Reviews       []ReviewView
}

type ReviewStats struct {
	AverageRating float64
	ReviewCount   int
}
