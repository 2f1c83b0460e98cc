package http

import (
	"net/http"

	"github.com/GioMjds/Printify-Mobile/internal/application/auth"
	"github.com/GioMjds/Printify-Mobile/internal/application/customer"
	"github.com/GioMjds/Printify-Mobile/internal/application/upload"
	"github.com/GioMjds/Printify-Mobile/internal/config"
	"github.com/GioMjds/Printify-Mobile/internal/domain"
	jwtinfra "github.com/GioMjds/Printify-Mobile/internal/infrastructure/jwt"
	"github.com/GioMjds/Printify-Mobile/internal/infrastructure/otp"
	"github.com/GioMjds/Printify-Mobile/internal/infrastructure/smtp"
	"github.com/GioMjds/Printify-Mobile/internal/transport/http/handler"
	appmiddleware "github.com/GioMjds/Printify-Mobile/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo    UserRepository
	UploadRepo  UploadRepository
	S3Store     ObjectStore
	Mailer      smtp.Mailer
	OTPStore    otp.Store
	JWTProvider *jwtinfra.Provider
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		// Cookies carry the tokens for browser clients.
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider, deps.UserRepo)

	// 5 requests/second, burst of 10 — applied to sensitive public endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	authSvc := auth.NewService(auth.ServiceDeps{
		UserRepo: deps.UserRepo,
		OTPStore: deps.OTPStore,
		Mailer:   deps.Mailer,
		Tokens:   deps.JWTProvider,
	})
	customerSvc := customer.NewService(deps.UserRepo)
	uploadSvc := upload.NewService(deps.UploadRepo, deps.S3Store)

	healthH := handler.NewHealthHandler()
	authH := handler.NewAuthHandler(authSvc, cfg)
	customerH := handler.NewCustomerHandler(customerSvc)
	uploadH := handler.NewUploadHandler(uploadSvc)

	r.Route("/api", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check", healthH.Check)
		r.With(sensitiveRL.Limit).Post("/auth/register", authH.Register)
		r.With(sensitiveRL.Limit).Post("/auth/verify_otp", authH.VerifyOTP)
		r.With(sensitiveRL.Limit).Post("/auth/resend_otp", authH.ResendOTP)
		r.With(sensitiveRL.Limit).Post("/auth/login", authH.Login)
		r.With(sensitiveRL.Limit).Post("/auth/forgot_password", authH.ForgotPassword)
		r.With(sensitiveRL.Limit).Post("/auth/reset_password", authH.ResetPassword)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Post("/auth/logout", authH.Logout)

			r.Get("/customer/{id}", customerH.Get)
			r.Put("/customer/{id}", customerH.Update)

			// Customer-role only
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleCustomer))

				r.Post("/upload/upload-file", uploadH.UploadFile)
				r.Get("/upload/my-uploads", uploadH.MyUploads)
				r.Get("/upload/{id}", uploadH.Get)
			})

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))

				r.Post("/customer", customerH.Create)
				r.Delete("/customer/{id}", customerH.Delete)
			})
		})
	})

	return r
}
