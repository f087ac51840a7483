package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	server "babystay/internal/adapters/http_server"
	"babystay/internal/adapters/observability"
	"babystay/internal/adapters/places"
	redisad "babystay/internal/adapters/redis"
	"babystay/internal/adapters/tourism"
	"babystay/internal/app"
	"babystay/internal/shared"
	mysqlrepo "babystay/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	q := app.NewQueryService(repo, repo, cache, cfg.CacheTTL)
	wl := app.NewWishlistService(repo, repo)
	placesClient := places.New(cfg.PlacesBase, cfg.PlacesKey, 5)
	tourismClient := tourism.New(cfg.TourismBase, cfg.TourismKey, 5)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Q:       q,
		W:       wl,
		Places:  placesClient,
		Tourism: tourismClient,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
