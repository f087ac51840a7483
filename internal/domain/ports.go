package domain

import (
	"context"
	"errors"

	"babystay/internal/search"
)

var ErrNotFound = errors.New("not found")

type AccommodationRepository interface {
	// Search runs the planner's count + page queries for one filter set.
	Search(ctx context.Context, f search.Filters) (SearchPage, error)

	// Detail sub-lookups; independent reads keyed by accommodation id.
	GetAccommodation(ctx context.Context, id int64) (Accommodation, error)
	ListImages(ctx context.Context, id int64) ([]Image, error)
	ListRoomTypes(ctx context.Context, id int64) ([]RoomType, error)
	ListAmenities(ctx context.Context, id int64, ageMonth *int) ([]AccommodationAmenity, error)
	ReviewStats(ctx context.Context, id int64) (ReviewStats, error)
	ListReviews(ctx context.Context, id int64) ([]ReviewView, error)
}

type WishlistRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]WishlistEntry, error)
	Add(ctx context.Context, userID, accommodationID int64) (Wishlist, error)
	Remove(ctx context.Context, userID, accommodationID int64) (bool, error)
	Contains(ctx context.Context, userID, accommodationID int64) (bool, error)
}

type MasterDataRepository interface {
	AgeMonthRanges(ctx context.Context) ([]AgeMonthRange, error)
	AmenityCategories(ctx context.Context) ([]AmenityCategory, error)
	Amenities(ctx context.Context) ([]Amenity, error)
	ReviewPros(ctx context.Context) ([]ReviewTag, error)
	ReviewCons(ctx context.Context) ([]ReviewTag, error)
}

// FixtureRepository is the write surface the seeder drives. Listings are
// otherwise owned by the listing-management subsystem.
type FixtureRepository interface {
	UpsertAmenityCatalog(ctx context.Context, cats []AmenityCategory, ams []Amenity) error
	UpsertAccommodation(ctx context.Context, a Accommodation, rooms []RoomType, images []Image) error
	LinkAmenities(ctx context.Context, accommodationID int64, links []AmenityLink) error
}

type AmenityLink struct {
	AmenityID   int64
	IsAvailable bool
	Notes       *string
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// PlacesClient searches points of interest around a coordinate.
type PlacesClient interface {
	SearchByCategory(ctx context.Context, q CategorySearch) (PlacesResult, error)
}

type CategorySearch struct {
	X, Y         float64 // longitude, latitude
	RadiusMeters int
	CategoryCode string // e.g. HP8 hospitals, PM9 pharmacies
	Size         int
}

type Place struct {
	ID          string `json:"id"`
	Name        string `json:"place_name"`
	Category    string `json:"category_name"`
	Phone       string `json:"phone"`
	Address     string `json:"address_name"`
	RoadAddress string `json:"road_address_name"`
	X           string `json:"x"`
	Y           string `json:"y"`
	PlaceURL    string `json:"place_url"`
	Distance    string `json:"distance"`
}

type PlacesResult struct {
	Success    bool    `json:"success"`
	TotalCount int     `json:"totalCount"`
	IsEnd      bool    `json:"isEnd"`
	Items      []Place `json:"items"`
	Error      string  `json:"error,omitempty"`
}

// TourismClient wraps the national tourism content API.
type TourismClient interface {
	SearchStays(ctx context.Context, q StaySearch) (TourismResult, error)
	SearchNearby(ctx context.Context, q NearbySearch) (TourismResult, error)
	Detail(ctx context.Context, contentID, contentTypeID string) (TourismResult, error)
	AreaCodes(ctx context.Context, areaCode string) (TourismResult, error)
}

type StaySearch struct {
	AreaCode    string
	SigunguCode string
	Keyword     string
	PageNo      int
	NumOfRows   int
}

type NearbySearch struct {
	MapX, MapY    float64
	RadiusMeters  int
	ContentTypeID string
	PageNo        int
	NumOfRows     int
}

// TourismResult passes the upstream item list through with minimal
// reshaping; items keep their upstream field names.
type TourismResult struct {
	Success    bool             `json:"success"`
	TotalCount int              `json:"totalCount"`
	PageNo     int              `json:"pageNo"`
	NumOfRows  int              `json:"numOfRows"`
	Items      []map[string]any `json:"items"`
	Error      string           `json:"error,omitempty"`
}
