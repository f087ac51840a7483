package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"babystay/internal/adapters/observability"
	"babystay/internal/adapters/places"
	"babystay/internal/adapters/tourism"
	"babystay/internal/app"
	"babystay/internal/domain"
	"babystay/internal/search"
)

type Handlers struct {
	Q       *app.QueryService
	W       *app.WishlistService
	Places  domain.PlacesClient
	Tourism domain.TourismClient
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Get("/v1/accommodations", h.searchAccommodations)
	s.mux.Get("/v1/accommodations/{id}", h.getAccommodation)
	s.mux.Get("/v1/accommodations/{id}/amenities", h.getAccommodationAmenities)

	s.mux.Route("/v1/wishlists", func(r chi.Router) {
		r.Use(RequireUser)
		r.Get("/", h.listWishlists)
		r.Post("/", h.addToWishlist)
		r.Delete("/{accommodationID}", h.removeFromWishlist)
		r.Get("/check/{accommodationID}", h.checkWishlist)
	})

	s.mux.Get("/v1/master/age-months", h.masterAgeMonths)
	s.mux.Get("/v1/master/amenity-categories", h.masterAmenityCategories)
	s.mux.Get("/v1/master/amenities", h.masterAmenities)
	s.mux.Get("/v1/master/review-pros", h.masterReviewPros)
	s.mux.Get("/v1/master/review-cons", h.masterReviewCons)

	s.mux.Get("/v1/nearby/hospitals", h.nearbyHospitals)
	s.mux.Get("/v1/nearby/pharmacies", h.nearbyPharmacies)
	s.mux.Get("/v1/nearby/medical", h.nearbyMedical)

	s.mux.Get("/v1/tourism/stays", h.tourismStays)
	s.mux.Get("/v1/tourism/nearby", h.tourismNearby)
	s.mux.Get("/v1/tourism/detail", h.tourismDetail)
	s.mux.Get("/v1/tourism/area-codes", h.tourismAreaCodes)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// ---- accommodations ----

func (h *Handlers) searchAccommodations(w http.ResponseWriter, r *http.Request) {
	f := search.ParseFilters(r.URL.Query())
	observability.ObserveSearch(string(f.SortBy))

	resp, err := h.Q.Search(r.Context(), f)
	if err != nil {
		log.Error().Err(err).Msg("accommodation search failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "failed to search accommodations")
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handlers) getAccommodation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}

	doc, err := h.Q.GetAccommodation(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", "accommodation not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("accommodation detail failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "failed to get accommodation")
		return
	}

	etag, body := calcETagAndBody(doc)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write accommodation body")
	}
}

func (h *Handlers) getAccommodationAmenities(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return
	}
	var ageMonth *int
	if s := r.URL.Query().Get("ageMonth"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			ageMonth = &n
		}
	}

	grouped, err := h.Q.GetAmenities(r.Context(), id, ageMonth)
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", "accommodation not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Int64("id", id).Msg("amenities lookup failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "failed to get amenities")
		return
	}
	writeJSON(w, http.StatusOK, grouped)
}

// ---- wishlists ----

func (h *Handlers) listWishlists(w http.ResponseWriter, r *http.Request) {
	entries, err := h.W.List(r.Context(), userID(r))
	if err != nil {
		log.Error().Err(err).Msg("wishlist list failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "failed to get wishlists")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": entries})
}

func (h *Handlers) addToWishlist(w http.ResponseWriter, r *http.Request) {
	var body struct {
		AccommodationID int64 `json:"accommodationId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.AccommodationID <= 0 {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "accommodationId is required")
		return
	}

	wl, err := h.W.Add(r.Context(), userID(r), body.AccommodationID)
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", "accommodation not found")
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("wishlist add failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "failed to add to wishlist")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":              wl.ID,
		"accommodationId": wl.AccommodationID,
		"createdAt":       wl.CreatedAt,
	})
}

func (h *Handlers) removeFromWishlist(w http.ResponseWriter, r *http.Request) {
	accID, err := strconv.ParseInt(chi.URLParam(r, "accommodationID"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "accommodationID must be a number")
		return
	}
	if err := h.W.Remove(r.Context(), userID(r), accID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "not in wishlist")
			return
		}
		log.Error().Err(err).Msg("wishlist remove failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "failed to remove from wishlist")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) checkWishlist(w http.ResponseWriter, r *http.Request) {
	accID, err := strconv.ParseInt(chi.URLParam(r, "accommodationID"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "accommodationID must be a number")
		return
	}
	ok, err := h.W.Contains(r.Context(), userID(r), accID)
	if err != nil {
		log.Error().Err(err).Msg("wishlist check failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "failed to check wishlist")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"isWishlisted": ok})
}

// ---- master data ----

func (h *Handlers) masterAgeMonths(w http.ResponseWriter, r *http.Request) {
	writeMaster(w, r, h.Q.AgeMonthRanges)
}

func (h *Handlers) masterAmenityCategories(w http.ResponseWriter, r *http.Request) {
	writeMaster(w, r, h.Q.AmenityCategories)
}

func (h *Handlers) masterAmenities(w http.ResponseWriter, r *http.Request) {
	writeMaster(w, r, h.Q.Amenities)
}

func (h *Handlers) masterReviewPros(w http.ResponseWriter, r *http.Request) {
	writeMaster(w, r, h.Q.ReviewPros)
}

func (h *Handlers) masterReviewCons(w http.ResponseWriter, r *http.Request) {
	writeMaster(w, r, h.Q.ReviewCons)
}

func writeMaster[T any](w http.ResponseWriter, r *http.Request, fetch func(context.Context) ([]T, error)) {
	out, err := fetch(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("master data lookup failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Error", "failed to get master data")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

// ---- nearby places proxy ----

func (h *Handlers) nearbyHospitals(w http.ResponseWriter, r *http.Request) {
	h.nearbyCategory(w, r, places.CategoryHospital)
}

func (h *Handlers) nearbyPharmacies(w http.ResponseWriter, r *http.Request) {
	h.nearbyCategory(w, r, places.CategoryPharmacy)
}

func (h *Handlers) nearbyCategory(w http.ResponseWriter, r *http.Request, code string) {
	q, ok := parseCoordQuery(w, r)
	if !ok {
		return
	}
	q.CategoryCode = code
	res, err := h.Places.SearchByCategory(r.Context(), q)
	if err != nil {
		// Upstream trouble degrades to a structured failure, not a 5xx.
		log.Warn().Err(err).Str("category", code).Msg("places lookup failed")
		res = places.Failure(err)
	}
	writeJSON(w, http.StatusOK, res)
}

// nearbyMedical fetches hospitals and pharmacies concurrently; the two
// lookups are independent.
func (h *Handlers) nearbyMedical(w http.ResponseWriter, r *http.Request) {
	q, ok := parseCoordQuery(w, r)
	if !ok {
		return
	}

	var hospitals, pharmacies domain.PlacesResult
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		hq := q
		hq.CategoryCode = places.CategoryHospital
		hq.Size = 10
		var err error
		hospitals, err = h.Places.SearchByCategory(gctx, hq)
		return err
	})
	g.Go(func() error {
		pq := q
		pq.CategoryCode = places.CategoryPharmacy
		pq.Size = 10
		var err error
		pharmacies, err = h.Places.SearchByCategory(gctx, pq)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Warn().Err(err).Msg("medical lookup failed")
		writeJSON(w, http.StatusOK, map[string]any{
			"success": false,
			"data":    map[string]any{"hospitals": []domain.Place{}, "pharmacies": []domain.Place{}},
			"error":   err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data": map[string]any{
			"hospitals":  hospitals.Items,
			"pharmacies": pharmacies.Items,
		},
	})
}

func parseCoordQuery(w http.ResponseWriter, r *http.Request) (domain.CategorySearch, bool) {
	x, errX := strconv.ParseFloat(r.URL.Query().Get("x"), 64)
	y, errY := strconv.ParseFloat(r.URL.Query().Get("y"), 64)
	if errX != nil || errY != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Coordinates", "x and y are required decimal coordinates")
		return domain.CategorySearch{}, false
	}
	q := domain.CategorySearch{X: x, Y: y}
	if s := r.URL.Query().Get("radius"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			q.RadiusMeters = n
		}
	}
	if s := r.URL.Query().Get("size"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			q.Size = n
		}
	}
	return q, true
}

// ---- tourism proxy ----

func (h *Handlers) tourismStays(w http.ResponseWriter, r *http.Request) {
	q := domain.StaySearch{
		AreaCode:    r.URL.Query().Get("areaCode"),
		SigunguCode: r.URL.Query().Get("sigunguCode"),
		Keyword:     r.URL.Query().Get("keyword"),
	}
	q.PageNo, _ = strconv.Atoi(r.URL.Query().Get("pageNo"))
	q.NumOfRows, _ = strconv.Atoi(r.URL.Query().Get("numOfRows"))

	res, err := h.Tourism.SearchStays(r.Context(), q)
	if err != nil {
		log.Warn().Err(err).Msg("tourism stay search failed")
		res = tourism.Failure(err)
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) tourismNearby(w http.ResponseWriter, r *http.Request) {
	mapX, errX := strconv.ParseFloat(r.URL.Query().Get("mapX"), 64)
	mapY, errY := strconv.ParseFloat(r.URL.Query().Get("mapY"), 64)
	if errX != nil || errY != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Coordinates", "mapX and mapY are required decimal coordinates")
		return
	}
	q := domain.NearbySearch{
		MapX:          mapX,
		MapY:          mapY,
		ContentTypeID: r.URL.Query().Get("contentTypeId"),
	}
	q.RadiusMeters, _ = strconv.Atoi(r.URL.Query().Get("radius"))
	q.PageNo, _ = strconv.Atoi(r.URL.Query().Get("pageNo"))
	q.NumOfRows, _ = strconv.Atoi(r.URL.Query().Get("numOfRows"))

	res, err := h.Tourism.SearchNearby(r.Context(), q)
	if err != nil {
		log.Warn().Err(err).Msg("tourism nearby search failed")
		res = tourism.Failure(err)
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) tourismDetail(w http.ResponseWriter, r *http.Request) {
	contentID := r.URL.Query().Get("contentId")
	contentTypeID := r.URL.Query().Get("contentTypeId")
	if contentID == "" || contentTypeID == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Query", "contentId and contentTypeId are required")
		return
	}
	res, err := h.Tourism.Detail(r.Context(), contentID, contentTypeID)
	if err != nil {
		log.Warn().Err(err).Msg("tourism detail failed")
		res = tourism.Failure(err)
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) tourismAreaCodes(w http.ResponseWriter, r *http.Request) {
	res, err := h.Tourism.AreaCodes(r.Context(), r.URL.Query().Get("areaCode"))
	if err != nil {
		log.Warn().Err(err).Msg("tourism area codes failed")
		res = tourism.Failure(err)
	}
	writeJSON(w, http.StatusOK, res)
}
