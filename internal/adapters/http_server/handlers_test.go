package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpserver "babystay/internal/adapters/http_server"
	"babystay/internal/app"
	"babystay/internal/domain"
	"babystay/internal/search"
)

// ---- fakes ----

type fakeStore struct {
	page    domain.SearchPage
	acc     domain.Accommodation
	accErr  error
	entries []domain.WishlistEntry
}

func (f *fakeStore) Search(ctx context.Context, q search.Filters) (domain.SearchPage, error) {
	return f.page, nil
}
func (f *fakeStore) GetAccommodation(ctx context.Context, id int64) (domain.Accommodation, error) {
	return f.acc, f.accErr
}
func (f *fakeStore) ListImages(ctx context.Context, id int64) ([]domain.Image, error) {
	return []domain.Image{}, nil
}
func (f *fakeStore) ListRoomTypes(ctx context.Context, id int64) ([]domain.RoomType, error) {
	return []domain.RoomType{}, nil
}
func (f *fakeStore) ListAmenities(ctx context.Context, id int64, ageMonth *int) ([]domain.AccommodationAmenity, error) {
	return []domain.AccommodationAmenity{}, nil
}
func (f *fakeStore) ReviewStats(ctx context.Context, id int64) (domain.ReviewStats, error) {
	return domain.ReviewStats{}, nil
}
func (f *fakeStore) ListReviews(ctx context.Context, id int64) ([]domain.ReviewView, error) {
	return []domain.ReviewView{}, nil
}

func (f *fakeStore) ListByUser(ctx context.Context, userID int64) ([]domain.WishlistEntry, error) {
	return f.entries, nil
}
func (f *fakeStore) Add(ctx context.Context, userID, accommodationID int64) (domain.Wishlist, error) {
	return domain.Wishlist{ID: 1, UserID: userID, AccommodationID: accommodationID, CreatedAt: time.Now()}, nil
}
func (f *fakeStore) Remove(ctx context.Context, userID, accommodationID int64) (bool, error) {
	return true, nil
}
func (f *fakeStore) Contains(ctx context.Context, userID, accommodationID int64) (bool, error) {
	return false, nil
}

func (f *fakeStore) AgeMonthRanges(ctx context.Context) ([]domain.AgeMonthRange, error) {
	return []domain.AgeMonthRange{{ID: 1, Label: "0-6 months", MonthFrom: 0}}, nil
}
func (f *fakeStore) AmenityCategories(ctx context.Context) ([]domain.AmenityCategory, error) {
	return []domain.AmenityCategory{}, nil
}
func (f *fakeStore) Amenities(ctx context.Context) ([]domain.Amenity, error) { return nil, nil }
func (f *fakeStore) ReviewPros(ctx context.Context) ([]domain.ReviewTag, error) {
	return nil, nil
}
func (f *fakeStore) ReviewCons(ctx context.Context) ([]domain.ReviewTag, error) {
	return nil, nil
}

type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string, dst any) (bool, error) { return false, nil }
func (noopCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	return nil
}
func (noopCache) Del(ctx context.Context, key string) error { return nil }

type fakePlaces struct{ err error }

func (f *fakePlaces) SearchByCategory(ctx context.Context, q domain.CategorySearch) (domain.PlacesResult, error) {
	if f.err != nil {
		return domain.PlacesResult{}, f.err
	}
	return domain.PlacesResult{Success: true, TotalCount: 1, IsEnd: true, Items: []domain.Place{{ID: "1", Name: "City Hospital"}}}, nil
}

type fakeTourism struct{}

func (fakeTourism) SearchStays(ctx context.Context, q domain.StaySearch) (domain.TourismResult, error) {
	return domain.TourismResult{Success: true, Items: []map[string]any{}}, nil
}
func (fakeTourism) SearchNearby(ctx context.Context, q domain.NearbySearch) (domain.TourismResult, error) {
	return domain.TourismResult{Success: true, Items: []map[string]any{}}, nil
}
func (fakeTourism) Detail(ctx context.Context, contentID, contentTypeID string) (domain.TourismResult, error) {
	return domain.TourismResult{Success: true, Items: []map[string]any{}}, nil
}
func (fakeTourism) AreaCodes(ctx context.Context, areaCode string) (domain.TourismResult, error) {
	return domain.TourismResult{Success: true, Items: []map[string]any{}}, nil
}

func newTestServer(t *testing.T, store *fakeStore, pl domain.PlacesClient) *httptest.Server {
	t.Helper()
	q := app.NewQueryService(store, store, noopCache{}, time.Minute)
	wl := app.NewWishlistService(store, store)
	s := httpserver.New()
	s.MountHandlers(&httpserver.Handlers{Q: q, W: wl, Places: pl, Tourism: fakeTourism{}})
	ts := httptest.NewServer(s.Mux())
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()
	res, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	return res
}

// ---- tests ----

func TestSearchEndpoint_ShapesPage(t *testing.T) {
	store := &fakeStore{page: domain.SearchPage{
		Items: []domain.AccommodationSummary{{
			Accommodation: domain.Accommodation{ID: 1, Name: "Riverside", Region: "Seoul"},
			AverageRating: 4.2,
			ReviewCount:   2,
		}},
		Total: 25,
	}}
	ts := newTestServer(t, store, &fakePlaces{})

	res := get(t, ts.URL+"/v1/accommodations?limit=10&page=2&sortBy=average_rating")
	defer res.Body.Close()
	if res.StatusCode != 200 {
		t.Fatalf("status %d", res.StatusCode)
	}
	var body app.SearchResult
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].Name != "Riverside" {
		t.Fatalf("unexpected data: %+v", body.Data)
	}
	p := body.Pagination
	if p.Total != 25 || p.Page != 2 || p.Limit != 10 || p.TotalPages != 3 {
		t.Fatalf("unexpected pagination: %+v", p)
	}
}

func TestDetailEndpoint_NotFoundAndETag(t *testing.T) {
	store := &fakeStore{acc: domain.Accommodation{ID: 7, Name: "Sunny Stay"}}
	ts := newTestServer(t, store, &fakePlaces{})

	res := get(t, ts.URL+"/v1/accommodations/abc")
	res.Body.Close()
	if res.StatusCode != 400 {
		t.Fatalf("non-numeric id should 400, got %d", res.StatusCode)
	}

	res = get(t, ts.URL+"/v1/accommodations/7")
	res.Body.Close()
	if res.StatusCode != 200 {
		t.Fatalf("status %d", res.StatusCode)
	}
	etag := res.Header.Get("ETag")
	if etag == "" || !strings.HasPrefix(etag, `W/"`) {
		t.Fatalf("missing weak ETag, got %q", etag)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/v1/accommodations/7", nil)
	req.Header.Set("If-None-Match", etag)
	res2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("conditional GET: %v", err)
	}
	res2.Body.Close()
	if res2.StatusCode != http.StatusNotModified {
		t.Fatalf("matching ETag should 304, got %d", res2.StatusCode)
	}

	store.accErr = domain.ErrNotFound
	res3 := get(t, ts.URL+"/v1/accommodations/404")
	res3.Body.Close()
	if res3.StatusCode != 404 {
		t.Fatalf("missing listing should 404, got %d", res3.StatusCode)
	}
}

func TestWishlistEndpoints_RequireUser(t *testing.T) {
	store := &fakeStore{acc: domain.Accommodation{ID: 2}}
	ts := newTestServer(t, store, &fakePlaces{})

	res := get(t, ts.URL+"/v1/wishlists")
	res.Body.Close()
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("missing X-User-ID should 401, got %d", res.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/v1/wishlists", nil)
	req.Header.Set("X-User-ID", "1")
	res2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer res2.Body.Close()
	if res2.StatusCode != 200 {
		t.Fatalf("status %d", res2.StatusCode)
	}

	req, _ = http.NewRequest(http.MethodPost, ts.URL+"/v1/wishlists", strings.NewReader(`{"accommodationId": 2}`))
	req.Header.Set("X-User-ID", "1")
	req.Header.Set("Content-Type", "application/json")
	res3, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer res3.Body.Close()
	if res3.StatusCode != http.StatusCreated {
		t.Fatalf("status %d", res3.StatusCode)
	}
	var created struct {
		AccommodationID int64 `json:"accommodationId"`
	}
	if err := json.NewDecoder(res3.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.AccommodationID != 2 {
		t.Fatalf("unexpected body: %+v", created)
	}
}

func TestNearby_DegradesToFailureDoc(t *testing.T) {
	ts := newTestServer(t, &fakeStore{}, &fakePlaces{err: errors.New("upstream down")})

	res := get(t, ts.URL+"/v1/nearby/hospitals?x=notanumber&y=37.1")
	res.Body.Close()
	if res.StatusCode != 400 {
		t.Fatalf("bad coordinates should 400, got %d", res.StatusCode)
	}

	res2 := get(t, ts.URL+"/v1/nearby/hospitals?x=127.03&y=37.49")
	defer res2.Body.Close()
	if res2.StatusCode != 200 {
		t.Fatalf("upstream failure must stay 200, got %d", res2.StatusCode)
	}
	var doc domain.PlacesResult
	if err := json.NewDecoder(res2.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.Success || doc.Items == nil || len(doc.Items) != 0 || doc.Error == "" {
		t.Fatalf("unexpected failure doc: %+v", doc)
	}
}

func TestNearbyMedical_CombinesCategories(t *testing.T) {
	ts := newTestServer(t, &fakeStore{}, &fakePlaces{})

	res := get(t, ts.URL+"/v1/nearby/medical?x=127.03&y=37.49")
	defer res.Body.Close()
	if res.StatusCode != 200 {
		t.Fatalf("status %d", res.StatusCode)
	}
	var doc struct {
		Success bool `json:"success"`
		Data    struct {
			Hospitals  []domain.Place `json:"hospitals"`
			Pharmacies []domain.Place `json:"pharmacies"`
		} `json:"data"`
	}
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !doc.Success || len(doc.Data.Hospitals) != 1 || len(doc.Data.Pharmacies) != 1 {
		t.Fatalf("unexpected doc: %+v", doc)
	}
}

func TestTourismDetail_RequiresParams(t *testing.T) {
	ts := newTestServer(t, &fakeStore{}, &fakePlaces{})

	res := get(t, ts.URL+"/v1/tourism/detail")
	res.Body.Close()
	if res.StatusCode != 400 {
		t.Fatalf("missing params should 400, got %d", res.StatusCode)
	}

	res2 := get(t, ts.URL+"/v1/tourism/detail?contentId=1&contentTypeId=32")
	res2.Body.Close()
	if res2.StatusCode != 200 {
		t.Fatalf("status %d", res2.StatusCode)
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, &fakeStore{}, &fakePlaces{})
	res := get(t, ts.URL+"/healthz")
	res.Body.Close()
	if res.StatusCode != 200 {
		t.Fatalf("status %d", res.StatusCode)
	}
}
