// Package estateaggregator собирает HTTP-приложение: хранилище, кэш,
// очередь уведомлений, сервисы и маршруты.
package estateaggregator

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/auth/resetpassword"
	"github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/auth/sendotp"
	"github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/auth/validateotp"
	favouritesadd "github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/favourites/add"
	favouriteslist "github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/favourites/list"
	favouritesremove "github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/favourites/remove"
	projectcreate "github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/project/create"
	projectlist "github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/project/list"
	projectread "github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/project/read"
	projectremove "github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/project/remove"
	projectupdate "github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/project/update"
	propertyadd "github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/property/add"
	propertyremove "github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/property/remove"
	userlist "github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/user/list"
	userread "github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/user/read"
	userremove "github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/user/remove"
	userupdate "github.com/magabrotheeeer/estate-aggregator/internal/http/handlers/user/update"
	"github.com/magabrotheeeer/estate-aggregator/internal/http/middlewarectx"
	libjwt "github.com/magabrotheeeer/estate-aggregator/internal/lib/jwt"
	"github.com/magabrotheeeer/estate-aggregator/internal/models"
	authservice "github.com/magabrotheeeer/estate-aggregator/internal/services/auth"
	projectservice "github.com/magabrotheeeer/estate-aggregator/internal/services/project"
	userservice "github.com/magabrotheeeer/estate-aggregator/internal/services/user"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker libjwt.Maker,
	authService *authservice.Service, userService *userservice.Service,
	projectService *projectservice.Service) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/auth", func(r chi.Router) {
		r.Use(middlewarectx.RateLimitMiddleware(logger))
		r.Post("/signup", signup.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
		r.Post("/validateUserAndSendOtp", sendotp.New(logger, authService).ServeHTTP)
		r.Post("/validate-otp", validateotp.New(logger, authService).ServeHTTP)
		r.Post("/reset-password-otp", resetpassword.New(logger, authService).ServeHTTP)
	})

	r.Route("/api/users", func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger))
		r.With(middlewarectx.RequireRoles(logger, models.RoleAdmin)).
			Get("/", userlist.New(logger, userService).ServeHTTP)
		r.Get("/favourites", favouriteslist.New(logger, userService).ServeHTTP)
		r.Post("/favourites", favouritesadd.New(logger, userService).ServeHTTP)
		r.Delete("/favourites/{propertyId}", favouritesremove.New(logger, userService).ServeHTTP)
		r.Get("/{id}", userread.New(logger, userService).ServeHTTP)
		r.Put("/{id}", userupdate.New(logger, userService).ServeHTTP)
		r.Delete("/{id}", userremove.New(logger, userService).ServeHTTP)
	})

	r.Route("/api/projects", func(r chi.Router) {
		// Чтение открыто без аутентификации
		r.Get("/", projectlist.New(logger, projectService).ServeHTTP)
		r.Get("/{id}", projectread.New(logger, projectService).ServeHTTP)

		// Мутации доступны только брокерам и администраторам
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Use(middlewarectx.RequireRoles(logger, models.RoleBroker, models.RoleAdmin))
			r.Post("/", projectcreate.New(logger, projectService).ServeHTTP)
			r.Put("/{id}", projectupdate.New(logger, projectService).ServeHTTP)
			r.Delete("/{id}", projectremove.New(logger, projectService).ServeHTTP)
			r.Post("/{id}/properties", propertyadd.New(logger, projectService).ServeHTTP)
			r.Delete("/{id}/properties/{propertyId}", propertyremove.New(logger, projectService).ServeHTTP)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
