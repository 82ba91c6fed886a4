package main

import (
	"context"
	"net/http"
	"time"

	"balatro-viewer/internal/catalog"
	"balatro-viewer/internal/config"
	"balatro-viewer/internal/logging"
	"balatro-viewer/internal/media"
	"balatro-viewer/internal/store"
	httptransport "balatro-viewer/internal/transport/http"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	_ = godotenv.Load()

	logCfg, err := config.LoadLog()
	if err != nil {
		panic(err)
	}
	logging.Init(logCfg)

	cfg, err := config.LoadServer()
	if err != nil {
		log.Fatal().Err(err).Msg("load server config failed")
	}

	st, err := store.New(cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("store init failed")
	}
	if err := st.Ping(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("db ping failed")
	}

	cat, err := catalog.Load(cfg.JokerCatalogPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.JokerCatalogPath).Msg("load joker catalog failed")
	}
	log.Info().Int("jokers", cat.Len()).Msg("joker catalog loaded")

	files, err := media.NewFileStore(cfg.ScreenshotDir, cfg.MaxUploadMB)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.ScreenshotDir).Msg("screenshot dir init failed")
	}

	r, err := httptransport.NewRouter(st, files, cat)
	if err != nil {
		log.Fatal().Err(err).Msg("router init failed")
	}
	httptransport.LogRoutes(r)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}
