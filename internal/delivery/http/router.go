package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"conventionlist/internal/delivery/http/controllers"
	"conventionlist/internal/delivery/http/helpers"
	"conventionlist/internal/delivery/http/middleware"
	"conventionlist/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	catalogController *controllers.CatalogController,
	conventionController *controllers.ConventionController,
	seriesController *controllers.SeriesController,
	applicationController *controllers.ApplicationController,
) *http.ServeMux {
	mux := http.NewServeMux()

	auth := middleware.RequireAuth(verifier)
	admin := func(next http.HandlerFunc) http.HandlerFunc {
		return auth(middleware.RequireRole(domain.RoleAdmin)(next))
	}

	// Public catalog
	mux.HandleFunc("GET /conventions", catalogController.List)
	mux.HandleFunc("GET /conventions/{slug}", catalogController.GetBySlug)

	// Auth
	mux.HandleFunc("POST /auth/signup", authController.SignUp)
	mux.HandleFunc("POST /auth/login", authController.Login)
	mux.HandleFunc("GET /users/me", auth(authController.GetMe))

	// Organizer
	mux.HandleFunc("POST /organizer/conventions", auth(conventionController.Create))
	mux.HandleFunc("GET /organizer/conventions", auth(conventionController.ListOwn))
	mux.HandleFunc("PUT /organizer/conventions/{conventionID}", auth(conventionController.Update))
	mux.HandleFunc("DELETE /organizer/conventions/{conventionID}", auth(conventionController.Delete))
	mux.HandleFunc("POST /organizer/series", auth(seriesController.Create))
	mux.HandleFunc("GET /organizer/series", auth(seriesController.ListOwn))

	// Role applications
	mux.HandleFunc("POST /applications", auth(applicationController.Apply))
	mux.HandleFunc("GET /admin/applications", admin(applicationController.ListPending))
	mux.HandleFunc("POST /admin/applications/{applicationID}/decision", admin(applicationController.Decide))

	// Operational endpoints
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		helpers.WriteJSONSuccess(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
