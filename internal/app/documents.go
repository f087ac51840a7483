package app

import (
	"time"

	"babystay/internal/domain"
)

// Caller-facing documents. Field names follow the public API contract,
// so shaping from domain read models happens here and nowhere else.

type AccommodationDoc struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Address        string    `json:"address"`
	Region         string    `json:"region"`
	ThumbnailImage *string   `json:"thumbnailImage"`
	TotalRooms     int       `json:"totalRooms"`
	AverageRating  float64   `json:"averageRating"`
	ReviewCount    int       `json:"reviewCount"`
	MinPrice       *float64  `json:"minPrice"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

type SearchResult struct {
	Data       []AccommodationDoc `json:"data"`
	Pagination Pagination         `json:"pagination"`
}

type ImageDoc struct {
	ID        int64  `json:"id"`
	ImageURL  string `json:"imageUrl"`
	IsMain    bool   `json:"isMain"`
	SortOrder int    `json:"sortOrder"`
}

type RoomTypeDoc struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	Description   *string `json:"description"`
	MaxOccupancy  int     `json:"maxOccupancy"`
	PricePerNight float64 `json:"pricePerNight"`
}

type ReviewUserDoc struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	ProfileImage *string `json:"profileImage"`
}

type ReviewDoc struct {
	ID             int64                `json:"id"`
	Rating         float64              `json:"rating"`
	Content        string               `json:"content"`
	ChildAgeMonths *int                 `json:"childAgeMonths"`
	TotalPeople    *int                 `json:"totalPeople"`
	RoomType       *string              `json:"roomType"`
	CreatedAt      time.Time            `json:"createdAt"`
	User           ReviewUserDoc        `json:"user"`
	Pros           []domain.TagRef      `json:"pros"`
	Cons           []domain.TagRef      `json:"cons"`
	Images         []domain.ReviewImage `json:"images"`
}

type DetailDoc struct {
	ID             int64                           `json:"id"`
	Name           string                          `json:"name"`
	Description    string                          `json:"description"`
	Address        string                          `json:"address"`
	Region         string                          `json:"region"`
	ThumbnailImage *string                         `json:"thumbnailImage"`
	TotalRooms     int                             `json:"totalRooms"`
	AverageRating  float64                         `json:"averageRating"`
	ReviewCount    int                             `json:"reviewCount"`
	Images         []ImageDoc                      `json:"images"`
	RoomTypes      []RoomTypeDoc                   `json:"roomTypes"`
	Amenities      map[string][]domain.AmenityInfo `json:"amenities"`
	Reviews        []ReviewDoc                     `json:"reviews"`
	CreatedAt      time.Time                       `json:"createdAt"`
	UpdatedAt      time.Time                       `json:"updatedAt"`
}

type WishlistEntryDoc struct {
	ID              int64     `json:"id"`
	AccommodationID int64     `json:"accommodationId"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	Address         string    `json:"address"`
	Region          string    `json:"region"`
	ThumbnailImage  *string   `json:"thumbnailImage"`
	AverageRating   float64   `json:"averageRating"`
	ReviewCount     int       `json:"reviewCount"`
	MinPrice        *float64  `json:"minPrice"`
	CreatedAt       time.Time `json:"createdAt"`
}

func mapSummary(s domain.AccommodationSummary) AccommodationDoc {
	return AccommodationDoc{
		ID:             s.ID,
		Name:           s.Name,
		Description:    s.Description,
		Address:        s.Address,
		Region:         s.Region,
		ThumbnailImage: s.ThumbnailImage,
		TotalRooms:     s.TotalRooms,
		AverageRating:  s.AverageRating,
		ReviewCount:    s.ReviewCount,
		MinPrice:       s.MinPrice,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func mapImages(in []domain.Image) []ImageDoc {
	out := make([]ImageDoc, len(in))
	for i, img := range in {
		out[i] = ImageDoc{ID: img.ID, ImageURL: img.ImageURL, IsMain: img.IsMain, SortOrder: img.SortOrder}
	}
	return out
}

func mapRoomTypes(in []domain.RoomType) []RoomTypeDoc {
	out := make([]RoomTypeDoc, len(in))
	for i, rt := range in {
		out[i] = RoomTypeDoc{
			ID:            rt.ID,
			Name:          rt.Name,
			Description:   rt.Description,
			MaxOccupancy:  rt.MaxOccupancy,
			PricePerNight: rt.PricePerNight,
		}
	}
	return out
}

func mapReviews(in []domain.ReviewView) []ReviewDoc {
	out := make([]ReviewDoc, len(in))
	for i, rv := range in {
		out[i] = ReviewDoc{
			ID:             rv.ID,
			Rating:         rv.Rating,
			Content:        rv.Content,
			ChildAgeMonths: rv.ChildAgeMonths,
			TotalPeople:    rv.TotalPeople,
			RoomType:       rv.RoomType,
			CreatedAt:      rv.CreatedAt,
			User:           ReviewUserDoc{ID: rv.UserID, Name: rv.UserName, ProfileImage: rv.UserProfileImage},
			Pros:           rv.Pros,
			Cons:           rv.Cons,
			Images:         rv.Images,
		}
	}
	return out
}

// groupAmenities keys the mapping by the human-readable category name, a
// display-shaping decision the frontend relies on.
func groupAmenities(rows []domain.AccommodationAmenity) map[string][]domain.AmenityInfo {
	grouped := make(map[string][]domain.AmenityInfo)
	for _, row := range rows {
		grouped[row.CategoryName] = append(grouped[row.CategoryName], row.AmenityInfo)
	}
	return grouped
}

func mapWishlist(in []domain.WishlistEntry) []WishlistEntryDoc {
	out := make([]WishlistEntryDoc, len(in))
	for i, e := range in {
		out[i] = WishlistEntryDoc{
			ID:              e.ID,
			AccommodationID: e.AccommodationID,
			Name:            e.Name,
			Description:     e.Description,
			Address:         e.Address,
			Region:          e.Region,
			ThumbnailImage:  e.ThumbnailImage,
			AverageRating:   e.AverageRating,
			ReviewCount:     e.ReviewCount,
			MinPrice:        e.MinPrice,
			CreatedAt:       e.CreatedAt,
		}
	}
	return out
}
