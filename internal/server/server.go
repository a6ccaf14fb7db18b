package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ctrl-robotics/maintenance-services/api/internal/catalog"
	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/application"
	"github.com/ctrl-robotics/maintenance-services/api/internal/checklist/domain"
	"github.com/ctrl-robotics/maintenance-services/api/internal/config"
	"github.com/ctrl-robotics/maintenance-services/api/internal/infrastructure/media"
	"github.com/ctrl-robotics/maintenance-services/api/internal/infrastructure/memory"
	mongodoc "github.com/ctrl-robotics/maintenance-services/api/internal/infrastructure/mongo"
	adminhttp "github.com/ctrl-robotics/maintenance-services/api/internal/interfaces/http/admin"
	commonhttp "github.com/ctrl-robotics/maintenance-services/api/internal/interfaces/http/common"
	technicianhttp "github.com/ctrl-robotics/maintenance-services/api/internal/interfaces/http/technician"
)

// Server owns the HTTP lifecycle and wires the checklist services into the
// router. It is the composition root; no checklist logic lives here.
type Server struct {
	logger         *log.Logger
	client         *mongo.Client
	database       *mongo.Database
	pings          *mongo.Collection
	catalog        *domain.Catalog
	sessionService application.SessionService
	reportService  application.ReportQueryService
	location       *time.Location
	jwtConfigs     []config.JWTConfig
	jwtAudience    string
	addr           string
	allowedOrigins []string
}

type authenticatedUser = commonhttp.AuthenticatedUser

// Run starts the HTTP server and assembles routing and middleware.
func (s *Server) Run() error {
	if s.pings != nil {
		if err := s.ensureSamplePing(context.Background()); err != nil {
			s.logger.Printf("failed to prepare sample ping document: %v", err)
		}
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())
	router.Get("/ping", s.pingHandler())

	technicianHandler := technicianhttp.NewHandler(technicianhttp.Config{
		Logger:   s.logger,
		Sessions: s.sessionService,
		Catalog:  s.catalog,
	})
	technicianHandler.Register(router, s.authMiddleware)

	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger:  s.logger,
		Reports: s.reportService,
	})
	router.Route("/admin", func(r chi.Router) {
		r.Use(s.authMiddleware)
		adminHandler.Register(r)
	})

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP server listening on http://%s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	waitForShutdown(httpServer, errChan, s)
	return nil
}

// withCORS returns a middleware adding CORS headers for allowed origins.
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && len(allowed) > 0 && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler reports infrastructure reachability, not domain state. With
// the in-memory driver there is nothing to probe and it always answers ok.
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if s.client == nil {
			s.writeJSON(w, http.StatusOK, map[string]string{
				"status": "ok",
				"time":   time.Now().Format(time.RFC3339),
			})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// authMiddleware validates the bearer JWT and stores the principal into the
// request context. Technician and admin routes share it.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing Authorization header"})
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "expected a Bearer token"})
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "empty access token"})
			return
		}

		claims, err := s.parseAuthToken(tokenString)
		if err != nil {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}

		user := authenticatedUser{
			ID:   claims.Subject,
			Name: claims.Name,
			Role: claims.Role,
		}

		ctx := commonhttp.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseAuthToken tries each configured JWT issuer in turn, verifying the
// signature and issuer/audience consistency.
func (s *Server) parseAuthToken(tokenString string) (*authClaims, error) {
	if len(s.jwtConfigs) == 0 {
		return nil, fmt.Errorf("authentication is not configured")
	}

	for _, cfg := range s.jwtConfigs {
		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
			}
			return cfg.Secret, nil
		}, jwt.WithLeeway(30*time.Second))

		if err != nil || !token.Valid {
			continue
		}

		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			continue
		}

		now := time.Now()
		if claims.ExpiresAt != nil && now.After(claims.ExpiresAt.Time) {
			continue
		}
		if claims.NotBefore != nil && now.Before(claims.NotBefore.Time) {
			continue
		}
		if claims.Subject == "" {
			continue
		}
		if s.jwtAudience != "" && !contains(claims.Audience, s.jwtAudience) {
			continue
		}

		return claims, nil
	}

	return nil, fmt.Errorf("invalid access token")
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

type authClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

type pingDocument struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Message   string             `json:"message" bson:"message"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// pingHandler returns the newest record from the pings collection, as a
// cheap check that the app can reach Mongo.
func (s *Server) pingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		if s.pings == nil {
			s.writeJSON(w, http.StatusOK, map[string]string{"message": "pong"})
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
		var doc pingDocument
		err := s.pings.FindOne(ctx, bson.D{}, opts).Decode(&doc)
		if errors.Is(err, mongo.ErrNoDocuments) {
			s.writeJSON(w, http.StatusNotFound, map[string]string{
				"status":  "not_found",
				"message": "no documents in ping collection",
			})
			return
		}
		if err != nil {
			s.logger.Printf("failed to fetch ping document: %v", err)
			s.writeJSON(w, http.StatusInternalServerError, map[string]string{
				"error": "failed to fetch ping document",
			})
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]any{
			"message":   doc.Message,
			"createdAt": doc.CreatedAt.In(s.location),
			"id":        doc.ID.Hex(),
		})
	}
}

// ensureSamplePing guarantees at least one document in the pings collection
// so /ping does not 404 on a fresh environment.
func (s *Server) ensureSamplePing(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	count, err := s.pings.CountDocuments(ctx, bson.D{})
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err = s.pings.InsertOne(ctx, bson.M{
		"message":   "pong",
		"createdAt": time.Now().In(s.location),
	})
	return err
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Printf("failed to encode JSON response: %v", err)
	}
}

// shutdown disconnects the Mongo client with a timeout.
func (s *Server) shutdown(ctx context.Context) {
	if s.client == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Printf("error while disconnecting MongoDB: %v", err)
	}
}

// waitForShutdown watches both ListenAndServe and OS signals to drive a
// graceful shutdown.
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Fatalf("server exited abnormally: %v", err)
		}
	case sig := <-sigChan:
		srv.logger.Printf("received signal %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Printf("error during server shutdown: %v", err)
		}
	}

	srv.shutdown(context.Background())
}

// New assembles repositories, sinks and services into a Server. The Mongo
// client may be nil when the in-memory storage driver is selected.
func New(cfg config.Config, client *mongo.Client) *Server {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		loc = time.UTC
		cfg.ServerLog.Printf("failed to load timezone %s: %v, falling back to UTC", cfg.Timezone, err)
	}

	questionCatalog := catalog.Default()
	if cfg.CatalogPath != "" {
		loaded, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			cfg.ServerLog.Fatalf("failed to load question catalog from %s: %v", cfg.CatalogPath, err)
		}
		questionCatalog = loaded
	}

	srv := &Server{
		logger:         cfg.ServerLog,
		client:         client,
		catalog:        questionCatalog,
		location:       loc,
		jwtConfigs:     append([]config.JWTConfig(nil), cfg.JWTConfigs...),
		jwtAudience:    cfg.JWTAudience,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
	}

	var (
		sessionRepo application.SessionRepository
		reportSink  application.ReportSink
		reportRepo  application.ReportQueryRepository
	)
	if cfg.StorageDriver == config.StorageMemory || client == nil {
		sessions := memory.NewSessionRepository()
		reports := memory.NewReportRepository()
		sessionRepo = sessions
		reportSink = reports
		reportRepo = reports
	} else {
		srv.database = client.Database(cfg.MongoDatabase)
		srv.pings = srv.database.Collection(cfg.PingCollection)
		sessionRepo = mongodoc.NewSessionRepository(srv.database, cfg.SessionCollection)
		reports := mongodoc.NewReportRepository(srv.database, cfg.ReportCollection, cfg.RobotStatsCollection)
		reportSink = reports
		reportRepo = reports
	}

	srv.sessionService = application.NewSessionService(application.SessionServiceConfig{
		Repository:   sessionRepo,
		EvidenceSink: media.NewRefSink(cfg.MediaBaseURL),
		ReportSink:   reportSink,
		Catalog:      questionCatalog,
		Logger:       cfg.ServerLog,
	})
	srv.reportService = application.NewReportQueryService(reportRepo)

	return srv
}
