package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/argos/backend/internal/api/handlers"
	"github.com/wonny/argos/backend/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(engine *handlers.EngineHandler, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Liveness probe
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// 분석 조회
	api.HandleFunc("/sentiment", engine.GetSentiment).Methods("GET")
	api.HandleFunc("/calendar", engine.GetCalendar).Methods("GET")
	api.HandleFunc("/passive", engine.GetPassiveFlow).Methods("GET")
	api.HandleFunc("/sectors", engine.GetSectors).Methods("GET")
	api.HandleFunc("/global", engine.GetGlobal).Methods("GET")
	api.HandleFunc("/coupling/{code}", engine.GetCoupling).Methods("GET")
	api.HandleFunc("/weights/{regime}", engine.GetWeights).Methods("GET")
	api.HandleFunc("/futures", engine.GetFutures).Methods("GET")
	api.HandleFunc("/premarket", engine.GetPremarket).Methods("GET")
	api.HandleFunc("/health", engine.GetHealth).Methods("GET")

	// 판정/시뮬레이션
	api.HandleFunc("/validate", engine.Validate).Methods("POST")
	api.HandleFunc("/simulate", engine.Simulate).Methods("POST")

	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server liveness
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "argos-api",
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			next.ServeHTTP(w, r)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
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
