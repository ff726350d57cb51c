package router

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"agritrade/internal/config"
	"agritrade/internal/handlers"
	"agritrade/internal/middleware"
	"agritrade/internal/models"
	"agritrade/internal/services"
)

// SetupRouter wires services, handlers and middleware over repos. CORS,
// logging and panic recovery wrap the router itself so preflight and
// unmatched requests pass through them too.
func SetupRouter(cfg config.Config, repos services.Repositories, reg *prometheus.Registry, logger zerolog.Logger) http.Handler {
	if cfg.JWTSecretDefault {
		logger.Warn().Msg("JWT_SECRET not set, using default key")
	}

	hasher := services.NewBcryptHasher(cfg.BcryptCost)
	tokens := services.NewTokenService(cfg.JWTSecret, cfg.JWTTTL, logger)
	resolver := services.NewIdentityResolver(repos.Identities, cfg.RevealRoleMismatch, logger)

	authService := services.NewAuthService(repos, resolver, tokens, hasher, logger)
	farmerService := services.NewFarmerService(repos.Farmers, resolver, hasher, logger)
	merchantService := services.NewMerchantService(repos.Merchants, resolver, hasher, logger)
	cropService := services.NewCropService(repos.Crops, repos.Farmers, logger)
	adminService := services.NewAdminService(farmerService, merchantService, logger)

	authHandler := handlers.NewAuthHandler(authService, cfg.AllowAdminSelfRegister, logger)
	farmerHandler := handlers.NewFarmerHandler(farmerService, logger)
	merchantHandler := handlers.NewMerchantHandler(merchantService, logger)
	cropHandler := handlers.NewCropHandler(cropService, logger)
	adminHandler := handlers.NewAdminHandler(adminService, logger)

	authenticated := middleware.Authentication(tokens, logger)
	protect := func(h http.HandlerFunc) http.Handler { return authenticated(h) }

	r := mux.NewRouter()
	r.NotFoundHandler = jsonStatus(http.StatusNotFound, "not_found", "Resource not found")
	r.MethodNotAllowedHandler = jsonStatus(http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")

	metrics := middleware.NewMetrics(reg)
	r.Use(metrics.Middleware())

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.RequestValidation())

	rateLimiter := middleware.NewRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.Use(rateLimiter.Middleware())
	auth.HandleFunc("/register", authHandler.Register).Methods("POST")
	auth.HandleFunc("/register-admin", authHandler.RegisterAdmin).Methods("POST")
	auth.HandleFunc("/login", authHandler.Login).Methods("POST")
	auth.Handle("/roles", protect(authHandler.Roles)).Methods("GET")

	farmers := api.PathPrefix("/farmers").Subrouter()
	farmers.HandleFunc("/register", farmerHandler.Register).Methods("POST")
	farmers.Handle("", protect(farmerHandler.List)).Methods("GET")
	farmers.Handle("/{id:[0-9]+}", protect(farmerHandler.Get)).Methods("GET")
	farmers.Handle("/{id:[0-9]+}", protect(farmerHandler.Update)).Methods("PUT")
	farmers.Handle("/{id:[0-9]+}", protect(farmerHandler.Delete)).Methods("DELETE")

	merchants := api.PathPrefix("/merchants").Subrouter()
	merchants.HandleFunc("/register", merchantHandler.Register).Methods("POST")
	merchants.Handle("", protect(merchantHandler.List)).Methods("GET")
	merchants.Handle("/{id:[0-9]+}", protect(merchantHandler.Get)).Methods("GET")
	merchants.Handle("/{id:[0-9]+}", protect(merchantHandler.Update)).Methods("PUT")
	merchants.Handle("/{id:[0-9]+}", protect(merchantHandler.Delete)).Methods("DELETE")

	crops := api.PathPrefix("/crops").Subrouter()
	crops.HandleFunc("", cropHandler.List).Methods("GET")
	crops.HandleFunc("/search", cropHandler.Search).Methods("GET")
	crops.Handle("/farmer/{farmerId:[0-9]+}", protect(cropHandler.Add)).Methods("POST")
	crops.Handle("/farmer/{farmerId:[0-9]+}", protect(cropHandler.ListByFarmer)).Methods("GET")
	crops.Handle("/{cropId:[0-9]+}", protect(cropHandler.Update)).Methods("PUT")
	crops.Handle("/{cropId:[0-9]+}", protect(cropHandler.Delete)).Methods("DELETE")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(authenticated)
	admin.Use(middleware.RequireRole(authService, logger, string(models.RoleAdmin)))
	admin.HandleFunc("/farmers", adminHandler.ListFarmers).Methods("GET")
	admin.HandleFunc("/merchants", adminHandler.ListMerchants).Methods("GET")
	admin.HandleFunc("/statistics", adminHandler.Statistics).Methods("GET")
	admin.HandleFunc("/farmer/{id:[0-9]+}", adminHandler.GetFarmer).Methods("GET")
	admin.HandleFunc("/merchant/{id:[0-9]+}", adminHandler.GetMerchant).Methods("GET")
	admin.HandleFunc("/deleteFarmer/{id:[0-9]+}", adminHandler.DeleteFarmer).Methods("DELETE")
	admin.HandleFunc("/deleteMerchant/{id:[0-9]+}", adminHandler.DeleteMerchant).Methods("DELETE")

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{})).Methods("GET")
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	var handler http.Handler = r
	handler = middleware.CORS(cfg.CORSAllowedOrigins)(handler)
	handler = middleware.SecurityHeaders()(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.ErrorHandling(logger)(handler)
	return handler
}

func jsonStatus(code int, errorCode, message string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		w.Write([]byte(`{"success":false,"error":"` + errorCode + `","message":"` + message + `"}`))
	})
}
