package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"babystay/internal/adapters/observability"
	"babystay/internal/domain"
	"babystay/internal/shared"
	mysqlrepo "babystay/internal/storage/mysql"
)

// Seed file layout: the amenity catalog first (shared), then one entry
// per accommodation with its rooms, images, and amenity links.
type seedFile struct {
	Categories     []domain.AmenityCategory `json:"categories"`
	Amenities      []seedAmenity            `json:"amenities"`
	Accommodations []seedAccommodation      `json:"accommodations"`
}

type seedAmenity struct {
	ID           int64   `json:"id"`
	CategoryID   int64   `json:"categoryId"`
	Name         string  `json:"name"`
	Icon         *string `json:"icon"`
	AgeMonthFrom *int    `json:"ageMonthFrom"`
	AgeMonthTo   *int    `json:"ageMonthTo"`
}

type seedAccommodation struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Address        string  `json:"address"`
	Region         string  `json:"region"`
	ThumbnailImage *string `json:"thumbnailImage"`
	TotalRooms     int     `json:"totalRooms"`
	RoomTypes      []struct {
		ID            int64   `json:"id"`
		Name          string  `json:"name"`
		Description   *string `json:"description"`
		MaxOccupancy  int     `json:"maxOccupancy"`
		PricePerNight float64 `json:"pricePerNight"`
	} `json:"roomTypes"`
	Images []struct {
		ID        int64  `json:"id"`
		ImageURL  string `json:"imageUrl"`
		IsMain    bool   `json:"isMain"`
		SortOrder int    `json:"sortOrder"`
	} `json:"images"`
	Amenities []struct {
		AmenityID   int64   `json:"amenityId"`
		IsAvailable bool    `json:"isAvailable"`
		Notes       *string `json:"notes"`
	} `json:"amenities"`
}

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)
	log.Info().
		Str("file", cfg.SeedFile).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	raw, err := os.ReadFile(cfg.SeedFile)
	if err != nil {
		log.Fatal().Err(err).Msg("read seed file failed")
	}
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		log.Fatal().Err(err).Msg("parse seed file failed")
	}

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	// Catalog first; accommodation amenity links reference it.
	cats := seed.Categories
	ams := make([]domain.Amenity, len(seed.Amenities))
	for i, a := range seed.Amenities {
		ams[i] = domain.Amenity{
			ID:           a.ID,
			CategoryID:   a.CategoryID,
			Name:         a.Name,
			Icon:         a.Icon,
			AgeMonthFrom: a.AgeMonthFrom,
			AgeMonthTo:   a.AgeMonthTo,
		}
	}
	if err := repo.UpsertAmenityCatalog(ctx, cats, ams); err != nil {
		log.Fatal().Err(err).Msg("seed amenity catalog failed")
	}
	log.Info().Int("categories", len(cats)).Int("amenities", len(ams)).Msg("amenity catalog seeded")

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	var wg sync.WaitGroup

	for _, entry := range seed.Accommodations {
		entry := entry

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(acc seedAccommodation) {
			defer wg.Done()
			defer sem.Release(1)

			if err := seedOne(ctx, repo, acc); err != nil {
				log.Warn().Int64("id", acc.ID).Err(err).Msg("seed failed")
				return
			}
			log.Info().Int64("id", acc.ID).Msg("seed ok")
		}(entry)
	}

	wg.Wait()
	log.Info().Msg("seeding completed")
}

func seedOne(ctx context.Context, repo *mysqlrepo.Repo, acc seedAccommodation) error {
	a := domain.Accommodation{
		ID:             acc.ID,
		Name:           acc.Name,
		Description:    acc.Description,
		Address:        acc.Address,
		Region:         acc.Region,
		ThumbnailImage: acc.ThumbnailImage,
		TotalRooms:     acc.TotalRooms,
	}
	rooms := make([]domain.RoomType, len(acc.RoomTypes))
	for i, rt := range acc.RoomTypes {
		rooms[i] = domain.RoomType{
			ID:              rt.ID,
			AccommodationID: acc.ID,
			Name:            rt.Name,
			Description:     rt.Description,
			MaxOccupancy:    rt.MaxOccupancy,
			PricePerNight:   rt.PricePerNight,
		}
	}
	images := make([]domain.Image, len(acc.Images))
	for i, img := range acc.Images {
		images[i] = domain.Image{ID: img.ID, ImageURL: img.ImageURL, IsMain: img.IsMain, SortOrder: img.SortOrder}
	}
	if err := repo.UpsertAccommodation(ctx, a, rooms, images); err != nil {
		return err
	}

	links := make([]domain.AmenityLink, len(acc.Amenities))
	for i, l := range acc.Amenities {
		links[i] = domain.AmenityLink{AmenityID: l.AmenityID, IsAvailable: l.IsAvailable, Notes: l.Notes}
	}
	return repo.LinkAmenities(ctx, acc.ID, links)
}
