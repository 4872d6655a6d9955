package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/svenska-creator/coursegen/pkg/aicache"
	"github.com/svenska-creator/coursegen/pkg/course"
	"github.com/svenska-creator/coursegen/pkg/gateway"
	"github.com/svenska-creator/coursegen/pkg/logging"
	"github.com/svenska-creator/coursegen/pkg/ratelimit"
)

func main() {
	// Configuration from environment
	port := getEnv("PORT", "8080")
	apiKey := os.Getenv("GATEWAY_API_KEY")
	baseURL := getEnv("GATEWAY_BASE_URL", gateway.DefaultBaseURL)
	model := getEnv("GATEWAY_MODEL", gateway.DefaultModel)
	databaseURL := os.Getenv("DATABASE_URL")
	redisURL := os.Getenv("REDIS_URL")
	cacheTTL := getEnvDuration("CACHE_TTL", aicache.DefaultTTL)

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: getEnv("LOG_PRETTY", "false") == "true",
		Output: os.Stderr,
	})

	if apiKey == "" {
		logger.Fatal().Msg("GATEWAY_API_KEY is required")
	}

	ctx := context.Background()

	// Optional Redis: availability gate and cache backend.
	var redisClient *redis.Client
	if redisURL != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: redisURL})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Str("redis_url", redisURL).Msg("Failed to connect to Redis")
		}
		logger.Info().Str("redis_url", redisURL).Msg("Connected to Redis")
	}

	// Cache store selection: Postgres when configured, then Redis, then
	// process-local memory.
	store, storeCleanup := buildStore(ctx, logger, databaseURL, redisClient)
	defer storeCleanup()

	gwConfig := gateway.DefaultConfig(apiKey)
	gwConfig.BaseURL = baseURL
	gwConfig.Model = model
	if redisClient != nil {
		gwConfig.Gate = ratelimit.NewGuard(redisClient, logger)
	}
	gw, err := gateway.New(gwConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to create gateway client")
	}

	cache := aicache.New(store, logger)
	svc := course.NewService(gw, cache, cacheTTL, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/ready", readyHandler(redisClient))
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/api/course/generate-titles", generateTitlesHandler(svc, logger))
	mux.HandleFunc("/api/course/generate-outline", generateOutlineHandler(svc, logger))
	mux.HandleFunc("/api/course/generate-script", generateScriptHandler(svc, logger))
	mux.HandleFunc("/api/course/analyze-structure", analyzeStructureHandler(svc, logger))

	addr := ":" + port
	server := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 5 * time.Minute, // script generation can be slow
	}

	logger.Info().Str("addr", addr).Str("model", model).Msg("Starting course generation API")
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("Server failed")
	}
}

// buildStore picks the cache backend from the environment. The cleanup
// function closes whatever backend was opened.
func buildStore(ctx context.Context, logger zerolog.Logger, databaseURL string, redisClient *redis.Client) (aicache.Store, func()) {
	if databaseURL != "" {
		sqlStore, err := aicache.OpenSQLStore("postgres", databaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to open Postgres cache store")
		}
		if err := sqlStore.EnsureSchema(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Failed to ensure cache schema")
		}
		logger.Info().Msg("Using Postgres cache store")
		return sqlStore, func() { sqlStore.Close() }
	}
	if redisClient != nil {
		logger.Info().Msg("Using Redis cache store")
		return aicache.NewRedisStore(redisClient), func() {}
	}
	logger.Warn().Msg("No DATABASE_URL or REDIS_URL set, using in-memory cache store")
	return aicache.NewMemoryStore(), func() {}
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// readyHandler reports 503 while Redis is unreachable. Without Redis the
// service has no external dependencies to probe.
func readyHandler(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := redisClient.Ping(ctx).Err(); err != nil {
				http.Error(w, "Redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}
}

func generateTitlesHandler(svc *course.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req course.TitleRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		resp, err := svc.GenerateTitles(r.Context(), req)
		writeResponse(w, logger, "generate-titles", resp, err)
	}
}

func generateOutlineHandler(svc *course.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req course.OutlineRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		resp, err := svc.GenerateOutline(r.Context(), req)
		writeResponse(w, logger, "generate-outline", resp, err)
	}
}

func generateScriptHandler(svc *course.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req course.ScriptRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		resp, err := svc.GenerateScript(r.Context(), req)
		writeResponse(w, logger, "generate-script", resp, err)
	}
}

func analyzeStructureHandler(svc *course.Service, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req course.StructureRequest
		if !decodeRequest(w, r, &req) {
			return
		}
		resp, err := svc.AnalyzeStructure(r.Context(), req)
		writeResponse(w, logger, "analyze-structure", resp, err)
	}
}

func decodeRequest(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "invalid JSON body: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

func writeResponse(w http.ResponseWriter, logger zerolog.Logger, operation string, payload any, err error) {
	if err != nil {
		logger.Error().Err(err).Str("operation", operation).Msg("Generation request failed")
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if encErr := json.NewEncoder(w).Encode(payload); encErr != nil {
		logger.Error().Err(encErr).Str("operation", operation).Msg("Failed to write response")
	}
}

// writeError maps gateway error classes onto HTTP statuses so callers can
// distinguish their own bad input from upstream trouble.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway

	var gwErr *gateway.Error
	switch {
	case errors.As(err, &gwErr):
		switch gwErr.Class {
		case gateway.ErrorClassRateLimit:
			status = http.StatusTooManyRequests
		case gateway.ErrorClassCredits:
			status = http.StatusPaymentRequired
		case gateway.ErrorClassClient:
			status = http.StatusBadRequest
		}
	case errors.Is(err, gateway.ErrCoolingDown):
		status = http.StatusTooManyRequests
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case isValidationError(err):
		status = http.StatusBadRequest
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

// isValidationError matches the service's input validation failures, which
// arrive as plain errors rather than gateway errors.
func isValidationError(err error) bool {
	msg := err.Error()
	return msg == "course title is required" || msg == "module title is required"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if hours, err := strconv.Atoi(value); err == nil {
		return time.Duration(hours) * time.Hour
	}
	return defaultValue
}
