package rest

import (
	"net/http"
	"os"

	"github.com/gorilla/mux"

	"github.com/quanghuy41196/he-thong-danh-gia/internal/service"
	"github.com/quanghuy41196/he-thong-danh-gia/internal/transport/rest/handler"
	"github.com/quanghuy41196/he-thong-danh-gia/internal/transport/rest/middleware"
	"github.com/quanghuy41196/he-thong-danh-gia/internal/transport/ws"
)

// Container holds all dependencies for the router.
type Container struct {
	AuthService     *service.AuthService
	TemplateService *service.TemplateService
	ResponseService *service.ResponseService
	StatsService    *service.StatsService
	ExportService   *service.ExportService
	WSHub           *ws.Hub
}

// NewRouter creates the API router with all endpoints.
func NewRouter(c *Container) http.Handler {
	r := mux.NewRouter()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(c.AuthService)
	templateHandler := handler.NewTemplateHandler(c.TemplateService)
	evaluationHandler := handler.NewEvaluationHandler(c.ResponseService, c.StatsService, c.ExportService)
	wsHandler := ws.NewHandler(c.WSHub, c.AuthService)

	// Initialize middleware
	authMW := middleware.NewAuthMiddleware(c.AuthService)

	// CORS middleware (apply first)
	r.Use(corsMiddleware)

	// API v1 routes
	v1 := r.PathPrefix("/v1").Subrouter()

	// Public routes: login, the published evaluation form, and submission
	v1.HandleFunc("/auth/login", authHandler.Login).Methods("POST", "OPTIONS")
	v1.HandleFunc("/public/templates/{slug}", templateHandler.GetBySlug).Methods("GET", "OPTIONS")
	v1.HandleFunc("/public/evaluations", evaluationHandler.Submit).Methods("POST", "OPTIONS")

	// WebSocket route (admin token in query param)
	v1.HandleFunc("/ws/templates/{templateId}/live", wsHandler.LiveWS).Methods("GET")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Admin routes (require admin auth)
	adminRoutes := v1.NewRoute().Subrouter()
	adminRoutes.Use(authMW.RequireAdmin)

	adminRoutes.HandleFunc("/templates", templateHandler.Create).Methods("POST", "OPTIONS")
	adminRoutes.HandleFunc("/templates", templateHandler.List).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/templates/{templateId}", templateHandler.Get).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/templates/{templateId}", templateHandler.Update).Methods("PUT", "OPTIONS")
	adminRoutes.HandleFunc("/templates/{templateId}", templateHandler.Delete).Methods("DELETE", "OPTIONS")

	adminRoutes.HandleFunc("/evaluations", evaluationHandler.List).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/evaluations/{id}", evaluationHandler.Delete).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/templates/{templateId}/evaluations", evaluationHandler.ListByTemplate).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/templates/{templateId}/evaluations", evaluationHandler.DeleteByTemplate).Methods("DELETE", "OPTIONS")
	adminRoutes.HandleFunc("/templates/{templateId}/statistics", evaluationHandler.Statistics).Methods("GET", "OPTIONS")
	adminRoutes.HandleFunc("/templates/{templateId}/export", evaluationHandler.Export).Methods("GET", "OPTIONS")

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
		if allowedOrigins == "" {
			allowedOrigins = "*"
		}

		allowedMethods := os.Getenv("CORS_ALLOWED_METHODS")
		if allowedMethods == "" {
			allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		}

		allowedHeaders := os.Getenv("CORS_ALLOWED_HEADERS")
		if allowedHeaders == "" {
			allowedHeaders = "Content-Type, Authorization"
		}

		w.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		w.Header().Set("Access-Control-Allow-Methods", allowedMethods)
		w.Header().Set("Access-Control-Allow-Headers", allowedHeaders)

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
