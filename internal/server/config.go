package server

import "time"

type Config struct {
	MongoURI        string
	MongoDB         string
	UsersCollection string
	NotesCollection string

	JWTSecret   string
	JWTIssuer   string
	TokenTTL    time.Duration
	RenewWindow time.Duration // renew allowed when remaining validity drops below this

	NotesKey string // process-wide fallback note key, 64 hex chars

	AllowedOrigins []string
	Addr           string
}

func (c *Config) setDefaults() {
	if c.UsersCollection == "" {
		c.UsersCollection = "users"
	}
	if c.NotesCollection == "" {
		c.NotesCollection = "notes"
	}
	if c.JWTIssuer == "" {
		c.JWTIssuer = "simplenotes-backend"
	}
	if c.TokenTTL <= 0 {
		c.TokenTTL = 30 * 24 * time.Hour
	}
	if c.RenewWindow <= 0 {
		c.RenewWindow = 7 * 24 * time.Hour
	}
	if c.Addr == "" {
		c.Addr = ":4000"
	}
}
