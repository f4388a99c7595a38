package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/DibasDebnath/SimpleNotesBackend/internal/server"
)

func main() {
	ctx := context.Background()

	cfg := server.Config{
		MongoURI:  envOr("MONGO_URI", os.Getenv("MONG_URI")), // MONG_URI is the legacy deployment name
		MongoDB:   envOr("MONGO_DB", "simplenotes"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		NotesKey:  os.Getenv("NOTES_SECRET_KEY"),
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}
	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			log.Fatalf("invalid TOKEN_TTL %q: %v", ttl, err)
		}
		cfg.TokenTTL = d
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Addr = ":" + port
	} else {
		cfg.Addr = ":4000"
	}

	s, err := server.New(ctx, cfg)
	if err != nil {
		log.Fatalf("server init: %v", err)
	}
	defer s.Close(context.Background())

	log.Printf("Connected to DB & Listening on %s", cfg.Addr)
	log.Fatal(http.ListenAndServe(cfg.Addr, s.Handler()))
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
