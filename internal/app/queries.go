package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"babystay/internal/domain"
	"babystay/internal/search"
)

type QueryService struct {
	repo     domain.AccommodationRepository
	master   domain.MasterDataRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.AccommodationRepository, m domain.MasterDataRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, master: m, cache: c, cacheTTL: ttl}
}

// Search runs one planned search and shapes the count-aware page.
func (s *QueryService) Search(ctx context.Context, f search.Filters) (SearchResult, error) {
	key := searchKey(f)
	var cached SearchResult
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}

	page, err := s.repo.Search(ctx, f)
	if err != nil {
		return SearchResult{}, err
	}

	plan := search.BuildPlan(f)
	out := SearchResult{
		Data: make([]AccommodationDoc, len(page.Items)),
		Pagination: Pagination{
			Total:      page.Total,
			Page:       f.Page,
			Limit:      plan.Limit(),
			TotalPages: plan.TotalPages(page.Total),
		},
	}
	for i, it := range page.Items {
		out.Data[i] = mapSummary(it)
	}

	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}

// searchKey derives a cache key from the full normalized filter record,
// so two requests normalize to the same key exactly when they plan the
// same queries.
func searchKey(f search.Filters) string {
	b, _ := json.Marshal(f)
	sum := sha1.Sum(b)
	return "search:" + hex.EncodeToString(sum[:])
}

// GetAccommodation assembles the nested detail document. The sub-lookups
// are independent reads keyed by the same id, so they run concurrently.
func (s *QueryService) GetAccommodation(ctx context.Context, id int64) (DetailDoc, error) {
	key := fmt.Sprintf("accommodation:%d", id)
	var cached DetailDoc
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}

	var (
		base      domain.Accommodation
		images    []domain.Image
		roomTypes []domain.RoomType
		amenities []domain.AccommodationAmenity
		stats     domain.ReviewStats
		reviews   []domain.ReviewView
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { base, err = s.repo.GetAccommodation(gctx, id); return })
	g.Go(func() (err error) { images, err = s.repo.ListImages(gctx, id); return })
	g.Go(func() (err error) { roomTypes, err = s.repo.ListRoomTypes(gctx, id); return })
	g.Go(func() (err error) { amenities, err = s.repo.ListAmenities(gctx, id, nil); return })
	g.Go(func() (err error) { stats, err = s.repo.ReviewStats(gctx, id); return })
	g.Go(func() (err error) { reviews, err = s.repo.ListReviews(gctx, id); return })
	if err := g.Wait(); err != nil {
		return DetailDoc{}, err
	}

	doc := DetailDoc{
		ID:             base.ID,
		Name:           base.Name,
		Description:    base.Description,
		Address:        base.Address,
		Region:         base.Region,
		ThumbnailImage: base.ThumbnailImage,
		TotalRooms:     base.TotalRooms,
		AverageRating:  stats.AverageRating,
		ReviewCount:    stats.ReviewCount,
		Images:         mapImages(images),
		RoomTypes:      mapRoomTypes(roomTypes),
		Amenities:      groupAmenities(amenities),
		Reviews:        mapReviews(reviews),
		CreatedAt:      base.CreatedAt,
		UpdatedAt:      base.UpdatedAt,
	}

	_ = s.cache.Set(ctx, key, doc, int(s.cacheTTL.Seconds()))
	return doc, nil
}

// GetAmenities returns one accommodation's amenities grouped by category
// name, optionally restricted to a single age in months.
func (s *QueryService) GetAmenities(ctx context.Context, id int64, ageMonth *int) (map[string][]domain.AmenityInfo, error) {
	if _, err := s.repo.GetAccommodation(ctx, id); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListAmenities(ctx, id, ageMonth)
	if err != nil {
		return nil, err
	}
	return groupAmenities(rows), nil
}

// ---- master data (small, hot, cached) ----

func (s *QueryService) AgeMonthRanges(ctx context.Context) ([]domain.AgeMonthRange, error) {
	return cachedList(ctx, s, "master:age-months", s.master.AgeMonthRanges)
}

func (s *QueryService) AmenityCategories(ctx context.Context) ([]domain.AmenityCategory, error) {
	return cachedList(ctx, s, "master:amenity-categories", s.master.AmenityCategories)
}

func (s *QueryService) Amenities(ctx context.Context) ([]domain.Amenity, error) {
	return cachedList(ctx, s, "master:amenities", s.master.Amenities)
}

func (s *QueryService) ReviewPros(ctx context.Context) ([]domain.ReviewTag, error) {
	return cachedList(ctx, s, "master:review-pros", s.master.ReviewPros)
}

func (s *QueryService) ReviewCons(ctx context.Context) ([]domain.ReviewTag, error) {
	return cachedList(ctx, s, "master:review-cons", s.master.ReviewCons)
}

func cachedList[T any](ctx context.Context, s *QueryService, key string, fetch func(context.Context) ([]T, error)) ([]T, error) {
	var cached []T
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}
	out, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}
