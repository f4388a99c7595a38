package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/time/rate"

	"github.com/DibasDebnath/SimpleNotesBackend/internal/audit"
	"github.com/DibasDebnath/SimpleNotesBackend/internal/auth"
	"github.com/DibasDebnath/SimpleNotesBackend/internal/notes"
)

type Server struct {
	cfg Config

	mux    *http.ServeMux
	signer *auth.JWTSigner
	users  auth.UserStore
	notes  *notes.Service
	audit  *audit.Log
	logger *log.Logger

	storageClient *mongo.Client

	rlAuthIP *multiLimiter
}

func New(ctx context.Context, cfg Config) (*Server, error) {
	cfg.setDefaults()
	if cfg.MongoURI == "" {
		return nil, errors.New("server: MongoURI required")
	}
	if cfg.MongoDB == "" {
		return nil, errors.New("server: MongoDB required")
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("server: JWTSecret required")
	}
	if cfg.NotesKey == "" {
		return nil, errors.New("server: NotesKey required")
	}

	cli, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := cli.Ping(pingCtx, nil); err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, err
	}

	users, err := auth.NewMongoUserStore(ctx, cli, cfg.MongoDB, cfg.UsersCollection)
	if err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, err
	}
	noteStore, err := notes.NewMongoStore(ctx, cli, cfg.MongoDB, cfg.NotesCollection)
	if err != nil {
		_ = cli.Disconnect(context.Background())
		return nil, err
	}

	s := newServer(cfg, users, noteStore)
	s.storageClient = cli
	return s, nil
}

// newServer wires the server against already-constructed stores. Tests use
// it with the in-memory implementations.
func newServer(cfg Config, users auth.UserStore, store notes.Store) *Server {
	cfg.setDefaults()
	s := &Server{
		cfg:    cfg,
		mux:    http.NewServeMux(),
		signer: auth.NewJWTSigner([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.TokenTTL),
		users:  users,
		notes:  notes.NewService(store, notes.NewKeyResolver(cfg.NotesKey)),
		audit:  audit.New(),
		logger: log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lshortfile),
	}

	perWindow := func(n int, window time.Duration) float64 { return float64(n) / window.Seconds() }
	s.rlAuthIP = newMultiLimiter(rate.Limit(perWindow(10, time.Minute)), 10, 1*time.Hour)

	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Printf("panic: %v", rec)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}
	}()

	s.logger.Printf("%s %s", r.Method, r.URL.Path)

	s.addDefaultHeaders(w, r)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	path := r.URL.Path
	if strings.HasPrefix(path, "/api/") {
		if s.isPublic(path) {
			s.mux.ServeHTTP(w, r)
			return
		}
		handler := auth.AuthRequired(s.signer)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.mux.ServeHTTP(w, r)
		}))
		handler.ServeHTTP(w, r)
		return
	}
	s.mux.ServeHTTP(w, r)
}

func (s *Server) Handler() http.Handler {
	return s
}

func (s *Server) Close(ctx context.Context) error {
	if s.storageClient == nil {
		return nil
	}
	return s.storageClient.Disconnect(ctx)
}

func (s *Server) isPublic(path string) bool {
	switch path {
	case "/api/health", "/api/auth/login", "/api/auth/register":
		return true
	default:
		return false
	}
}

func (s *Server) addDefaultHeaders(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if origin != "" && s.originAllowed(origin) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Add("Vary", "Origin")
	}
	w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
	if strings.HasPrefix(r.URL.Path, "/api/") {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
	}
}

func (s *Server) originAllowed(origin string) bool {
	if len(s.cfg.AllowedOrigins) == 0 {
		return true
	}
	for _, o := range s.cfg.AllowedOrigins {
		if o == "*" || strings.EqualFold(o, origin) {
			return true
		}
	}
	return false
}
