package app_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"babystay/internal/app"
	"babystay/internal/domain"
	"babystay/internal/search"
)

// ---- fakes ----

type fakeRepo struct {
	page    domain.SearchPage
	acc     domain.Accommodation
	accErr  error
	images  []domain.Image
	rooms   []domain.RoomType
	rows    []domain.AccommodationAmenity
	stats   domain.ReviewStats
	reviews []domain.ReviewView

	ranges []domain.AgeMonthRange

	lastAgeMonth *int
}

func (f *fakeRepo) Search(ctx context.Context, q search.Filters) (domain.SearchPage, error) {
	return f.page, nil
}
func (f *fakeRepo) GetAccommodation(ctx context.Context, id int64) (domain.Accommodation, error) {
	return f.acc, f.accErr
}
func (f *fakeRepo) ListImages(ctx context.Context, id int64) ([]domain.Image, error) {
	return f.images, nil
}
func (f *fakeRepo) ListRoomTypes(ctx context.Context, id int64) ([]domain.RoomType, error) {
	return f.rooms, nil
}
func (f *fakeRepo) ListAmenities(ctx context.Context, id int64, ageMonth *int) ([]domain.AccommodationAmenity, error) {
	f.lastAgeMonth = ageMonth
	return f.rows, nil
}
func (f *fakeRepo) ReviewStats(ctx context.Context, id int64) (domain.ReviewStats, error) {
	return f.stats, nil
}
func (f *fakeRepo) ListReviews(ctx context.Context, id int64) ([]domain.ReviewView, error) {
	return f.reviews, nil
}

func (f *fakeRepo) AgeMonthRanges(ctx context.Context) ([]domain.AgeMonthRange, error) {
	return f.ranges, nil
}
func (f *fakeRepo) AmenityCategories(ctx context.Context) ([]domain.AmenityCategory, error) {
	return nil, nil
}
func (f *fakeRepo) Amenities(ctx context.Context) ([]domain.Amenity, error)    { return nil, nil }
func (f *fakeRepo) ReviewPros(ctx context.Context) ([]domain.ReviewTag, error) { return nil, nil }
func (f *fakeRepo) ReviewCons(ctx context.Context) ([]domain.ReviewTag, error) { return nil, nil }

// fakeCache round-trips through JSON so it works for any document type.
type fakeCache struct {
	store map[string][]byte
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	b, ok := c.store[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, dst)
}
func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	if c.store == nil {
		c.store = map[string][]byte{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.store[key] = b
	return nil
}
func (c *fakeCache) Del(ctx context.Context, key string) error {
	delete(c.store, key)
	return nil
}

func ptr[T any](v T) *T { return &v }

func summary(id int64, name string) domain.AccommodationSummary {
	return domain.AccommodationSummary{
		Accommodation: domain.Accommodation{ID: id, Name: name, Region: "Seoul"},
		AverageRating: 4.2,
		ReviewCount:   2,
		MinPrice:      ptr(50000.0),
	}
}

// ---- tests ----

func TestSearch_PaginationShape(t *testing.T) {
	repo := &fakeRepo{page: domain.SearchPage{
		Items: []domain.AccommodationSummary{summary(1, "Riverside"), summary(2, "Sunny Stay")},
		Total: 5,
	}}
	q := app.NewQueryService(repo, repo, &fakeCache{}, 10*time.Minute)

	f := search.Filters{Page: 2, Limit: 2, SortBy: search.SortCreatedAt, SortOrder: search.OrderDesc}
	out, err := q.Search(context.Background(), f)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out.Data) != 2 || out.Data[0].Name != "Riverside" {
		t.Fatalf("unexpected data: %+v", out.Data)
	}
	p := out.Pagination
	if p.Total != 5 || p.Page != 2 || p.Limit != 2 || p.TotalPages != 3 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
	if out.Data[0].MinPrice == nil || *out.Data[0].MinPrice != 50000 {
		t.Fatalf("aggregates should survive mapping: %+v", out.Data[0])
	}
}

func TestSearch_CacheMissThenHit(t *testing.T) {
	repo := &fakeRepo{page: domain.SearchPage{
		Items: []domain.AccommodationSummary{summary(1, "Riverside")},
		Total: 1,
	}}
	cache := &fakeCache{}
	q := app.NewQueryService(repo, repo, cache, 10*time.Minute)
	f := search.Filters{Page: 1, Limit: 12, SortBy: search.SortCreatedAt, SortOrder: search.OrderDesc}

	out, err := q.Search(context.Background(), f)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if out.Data[0].Name != "Riverside" {
		t.Fatalf("unexpected name: %s", out.Data[0].Name)
	}

	// Mutate repo to prove the second read is served from cache.
	repo.page.Items[0].Name = "SHOULD NOT SEE THIS"
	out2, err := q.Search(context.Background(), f)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if out2.Data[0].Name != "Riverside" {
		t.Fatalf("expected cached result, got %s", out2.Data[0].Name)
	}

	// A different filter set is a different key.
	f2 := f
	f2.Region = ptr("Busan")
	out3, err := q.Search(context.Background(), f2)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if out3.Data[0].Name != "SHOULD NOT SEE THIS" {
		t.Fatalf("distinct filters must not share a cache entry: %s", out3.Data[0].Name)
	}
}

func TestGetAccommodation_AssemblesDetail(t *testing.T) {
	repo := &fakeRepo{
		acc:    domain.Accommodation{ID: 7, Name: "Sunny Stay", Region: "Busan"},
		images: []domain.Image{{ID: 1, ImageURL: "https://img.example/1.jpg", IsMain: true}},
		rooms:  []domain.RoomType{{ID: 10, Name: "Family", PricePerNight: 70000, MaxOccupancy: 4}},
		rows: []domain.AccommodationAmenity{
			{AccommodationID: 7, CategoryName: "Sleep", AmenityInfo: domain.AmenityInfo{ID: 1, Name: "Toddler bed", IsAvailable: true}},
			{AccommodationID: 7, CategoryName: "Sleep", AmenityInfo: domain.AmenityInfo{ID: 2, Name: "Bassinet", IsAvailable: true}},
			{AccommodationID: 7, CategoryName: "Safety", AmenityInfo: domain.AmenityInfo{ID: 3, Name: "Bed rail", IsAvailable: false}},
		},
		stats: domain.ReviewStats{AverageRating: 4.5, ReviewCount: 1},
		reviews: []domain.ReviewView{{
			Review:   domain.Review{ID: 100, AccommodationID: 7, UserID: 9, Rating: 4.5, Content: "Great"},
			UserName: "Mina",
			Pros:     []domain.TagRef{{ID: 1, Name: "Very clean"}},
			Cons:     []domain.TagRef{},
			Images:   []domain.ReviewImage{},
		}},
	}
	q := app.NewQueryService(repo, repo, &fakeCache{}, 10*time.Minute)

	doc, err := q.GetAccommodation(context.Background(), 7)
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if doc.ID != 7 || doc.AverageRating != 4.5 || doc.ReviewCount != 1 {
		t.Fatalf("unexpected doc head: %+v", doc)
	}
	if len(doc.Amenities["Sleep"]) != 2 || len(doc.Amenities["Safety"]) != 1 {
		t.Fatalf("amenities should group by category name: %+v", doc.Amenities)
	}
	if len(doc.Reviews) != 1 || doc.Reviews[0].User.Name != "Mina" {
		t.Fatalf("review should nest its author: %+v", doc.Reviews)
	}
	if doc.Reviews[0].Cons == nil {
		t.Fatalf("empty tag sets should stay empty slices")
	}
	if len(doc.Images) != 1 || len(doc.RoomTypes) != 1 {
		t.Fatalf("unexpected sub-collections: %+v", doc)
	}
	if repo.lastAgeMonth != nil {
		t.Fatalf("detail must list amenities unfiltered, got age %d", *repo.lastAgeMonth)
	}
}

func TestGetAccommodation_NotFound(t *testing.T) {
	repo := &fakeRepo{accErr: domain.ErrNotFound}
	q := app.NewQueryService(repo, repo, &fakeCache{}, 10*time.Minute)

	if _, err := q.GetAccommodation(context.Background(), 404); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestGetAmenities_ChecksExistenceAndForwardsAge(t *testing.T) {
	repo := &fakeRepo{
		acc: domain.Accommodation{ID: 7},
		rows: []domain.AccommodationAmenity{
			{AccommodationID: 7, CategoryName: "Sleep", AmenityInfo: domain.AmenityInfo{ID: 1, Name: "Toddler bed"}},
		},
	}
	q := app.NewQueryService(repo, repo, &fakeCache{}, 10*time.Minute)

	out, err := q.GetAmenities(context.Background(), 7, ptr(18))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out["Sleep"]) != 1 {
		t.Fatalf("unexpected grouping: %+v", out)
	}
	if repo.lastAgeMonth == nil || *repo.lastAgeMonth != 18 {
		t.Fatalf("age filter should pass through, got %v", repo.lastAgeMonth)
	}

	repo.accErr = domain.ErrNotFound
	if _, err := q.GetAmenities(context.Background(), 404, nil); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want ErrNotFound for missing listing, got %v", err)
	}
}

func TestMasterData_Cached(t *testing.T) {
	repo := &fakeRepo{ranges: []domain.AgeMonthRange{{ID: 1, Label: "0-6 months", MonthFrom: 0, MonthTo: ptr(6)}}}
	cache := &fakeCache{}
	q := app.NewQueryService(repo, repo, cache, 10*time.Minute)

	out, err := q.AgeMonthRanges(context.Background())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(out) != 1 || out[0].Label != "0-6 months" {
		t.Fatalf("unexpected ranges: %+v", out)
	}

	repo.ranges[0].Label = "Changed"
	out2, _ := q.AgeMonthRanges(context.Background())
	if out2[0].Label != "0-6 months" {
		t.Fatalf("expected cached label, got %s", out2[0].Label)
	}
}
