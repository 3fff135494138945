package routes

import (
	"net/http"

	"github.com/clementroume/holbertonschool-files-manager/internal/app"
	"github.com/clementroume/holbertonschool-files-manager/internal/handler"
	"github.com/clementroume/holbertonschool-files-manager/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	status := handler.NewStatusHandler(app.StatusService)
	auth := handler.NewAuthHandler(app.AuthService)
	users := handler.NewUserHandler(app.UserService)
	files := handler.NewFileHandler(app.FileService)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /status", status.Status)
	mux.HandleFunc("GET /stats", status.Stats)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /users", users.Create)

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth(app.Cfg.ConnectRateLimit, app.Cfg.ConnectRateWindow)
	mux.HandleFunc("GET /connect", rateLimiter(auth.Connect))

	// Public files need no token; private ones are checked by the service
	mux.HandleFunc("GET /files/{id}/data", files.Data)

	// ============================================================================
	// PROTECTED ROUTES (session token)
	// ============================================================================

	mux.HandleFunc("GET /disconnect", middleware.RequireToken(auth.Disconnect))
	mux.HandleFunc("GET /users/me", middleware.RequireToken(users.Me))

	mux.HandleFunc("POST /files", middleware.RequireToken(files.Upload))
	mux.HandleFunc("GET /files", middleware.RequireToken(files.List))
	mux.HandleFunc("GET /files/{id}", middleware.RequireToken(files.Get))
	mux.HandleFunc("PUT /files/{id}/publish", middleware.RequireToken(files.Publish))
	mux.HandleFunc("PUT /files/{id}/unpublish", middleware.RequireToken(files.Unpublish))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", handler.NotFound)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: app.Cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.TokenHeader},
		ExposedHeaders: []string{"Warning"},
	})

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.RealIP(app.Cfg.TrustedProxies), // Client IP first, used by logging and rate limiting
		middleware.RequestLogging,
		corsHandler.Handler,
		middleware.SecurityHeaders,
		middleware.Token,
		middleware.Metrics, // Must wrap the mux directly to see the matched pattern
	)

	return handler
}
