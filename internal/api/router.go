package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/niftyscreen/internal/api/handlers"
	"github.com/wonny/niftyscreen/pkg/logger"
)

// Handlers groups the endpoint handlers served by the router
type Handlers struct {
	Screen   *handlers.ScreenHandler
	Stock    *handlers.StockHandler
	Universe *handlers.UniverseHandler
	Jobs     *handlers.JobsHandler
}

// NewRouter creates and configures the HTTP router
// SSOT: routing is configured in this function only
func NewRouter(h Handlers, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/universe", h.Universe.GetUniverse).Methods("GET")
	api.HandleFunc("/strategies", h.Screen.GetStrategies).Methods("GET")
	api.HandleFunc("/screen/{strategy}", h.Screen.GetScreen).Methods("GET")
	api.HandleFunc("/stocks/{symbol}", h.Stock.GetStock).Methods("GET")
	api.HandleFunc("/jobs", h.Jobs.GetJobs).Methods("GET")
	api.HandleFunc("/jobs/{name}/history", h.Jobs.GetJobHistory).Methods("GET")
	api.HandleFunc("/jobs/{name}/run", h.Jobs.RunJob).Methods("POST")

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "niftyscreen-api",
	})
}

// statusRecorder captures the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
