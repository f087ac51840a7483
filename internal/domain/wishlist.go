package domain

import "time"

type Wishlist struct {
	ID              int64
	UserID          int64
	AccommodationID int64
	CreatedAt       time.Time
}

// WishlistEntry is a wishlist row enriched with the listing summary the
// wishlist page renders.
type WishlistEntry struct {
	Wishlist
	Name           string
	Description    string
	Address        string
	Region         string
	ThumbnailImage *string
	AverageRating  float64
	ReviewCount    int
	MinPrice       *float64
}
