package domain

type AmenityCategory struct {
	ID   int64
	Name string
}

// Amenity is a baby/toddler-oriented facility or item. A nil age bound
// means unbounded in that direction.
type Amenity struct {
	ID           int64
	CategoryID   int64
	CategoryName string
	Name         string
	Icon         *string
	AgeMonthFrom *int
	AgeMonthTo   *int
}

// AmenityInfo is an amenity as attached to one accommodation.
type AmenityInfo struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Icon         *string `json:"icon"`
	IsAvailable  bool    `json:"isAvailable"`
	Notes        *string `json:"notes"`
	AgeMonthFrom *int    `json:"ageMonthFrom"`
	AgeMonthTo   *int    `json:"ageMonthTo"`
}

// AccommodationAmenity is the raw join row between an accommodation and
// an amenity, before grouping by category.
type AccommodationAmenity struct {
	AccommodationID int64
	CategoryName    string
	AmenityInfo
}

type AgeMonthRange struct {
	ID        int64
	Label     string
	MonthFrom int
	MonthTo   *int
}

// ReviewTag is a selectable pro or con in the master catalog.
type ReviewTag struct {
	ID       int64
	Category string
	Name     string
}
