package domain

import "time"

type Review struct {
	ID              int64
	AccommodationID int64
	UserID          int64
	Rating          float64 // 0.0 - 5.0
	Content         string
	ChildAgeMonths  *int
	TotalPeople     *int
	RoomType        *string
	CreatedAt       time.Time
}

// ReviewView is the review as rendered inside an accommodation detail:
// the review row joined with its author and nested tag/image collections.
type ReviewView struct {
	Review
	UserName         string
	UserProfileImage *string
	Pros             []TagRef
	Cons             []TagRef
	Images           []ReviewImage
}

// TagRef is a pro or con selected on a review.
type TagRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ReviewImage struct {
	ID        int64  `json:"id"`
	ImageURL  string `json:"imageUrl"`
	SortOrder int    `json:"sortOrder"`
}
