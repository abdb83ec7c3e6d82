package main

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"tandabase/internal/app/issues"
	"tandabase/internal/app/playlists"
	"tandabase/internal/app/songs"
	"tandabase/internal/app/suggestions"
	"tandabase/internal/app/tandas"
	"tandabase/internal/app/users"
	"tandabase/internal/httpapi"
	"tandabase/internal/musicapi"
	"tandabase/internal/querycache"
	"tandabase/internal/store"
	"tandabase/shared/go/auth"
	"tandabase/shared/go/config"
)

func newHTTPHandler(cfg *config.Config, dataStore *store.Store) http.Handler {
	tokens := auth.NewTokenManager(cfg.Security.JWTSecret, cfg.Security.JWTTTL)
	enricher := newEnricher(cfg)

	svc := httpapi.Services{
		Users:       users.New(dataStore, tokens),
		Songs:       songs.New(dataStore, enricher),
		Tandas:      tandas.New(dataStore),
		Playlists:   playlists.New(dataStore),
		Suggestions: suggestions.New(dataStore, enricher),
		Issues:      issues.New(dataStore),
	}

	cache := querycache.New(cfg.Cache.TTL)
	if !cache.Enabled() {
		log.Info().Msg("query cache disabled")
	}

	return httpapi.New(svc, httpapi.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		Tokens:         tokens,
		Cache:          cache,
		DB:             dataStore,
	}).Routes()
}

func newEnricher(cfg *config.Config) *songs.Enricher {
	if !cfg.Spotify.Enabled() {
		log.Info().Msg("Spotify credentials not provided, duration enrichment disabled")
		return nil
	}
	log.Info().Msg("Spotify client initialized")
	return songs.NewEnricher(musicapi.NewSpotifyClient(cfg.Spotify.ClientID, cfg.Spotify.ClientSecret, musicapi.SpotifyOptions{}))
}
