// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"strings"

	applicationsfeature "github.com/communityserve/volunteerhub/internal/app/features/applications"
	authfeature "github.com/communityserve/volunteerhub/internal/app/features/auth"
	contactfeature "github.com/communityserve/volunteerhub/internal/app/features/contact"
	healthfeature "github.com/communityserve/volunteerhub/internal/app/features/health"
	opportunitiesfeature "github.com/communityserve/volunteerhub/internal/app/features/opportunities"
	reviewsfeature "github.com/communityserve/volunteerhub/internal/app/features/reviews"
	usersfeature "github.com/communityserve/volunteerhub/internal/app/features/users"
	sysauth "github.com/communityserve/volunteerhub/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. VolunteerHub mounts the JSON API:
// auth, users, opportunities, applications, reviews, and contact, plus the
// health endpoint for load balancers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	tokens := sysauth.NewTokenManager(appCfg.JWTSecret, appCfg.JWTExpiry, logger)
	mail := newMailSender(appCfg, logger)
	db := deps.MongoDatabase

	r := chi.NewRouter()

	r.Use(cors.New(cors.Options{
		AllowedOrigins:   splitOrigins(appCfg.AllowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}).Handler)

	// Global auth middleware: attaches the bearer token's user to context so
	// public endpoints can still see who is asking.
	r.Use(tokens.LoadUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	authHandler := authfeature.NewHandler(db, tokens, mail, appCfg.BaseURL, logger)
	r.Mount("/api/auth", authfeature.Routes(authHandler, tokens))

	usersHandler := usersfeature.NewHandler(db, logger)
	r.Mount("/api/users", usersfeature.Routes(usersHandler, tokens))

	oppHandler := opportunitiesfeature.NewHandler(db, logger)
	r.Mount("/api/opportunities", opportunitiesfeature.Routes(oppHandler, tokens))

	appHandler := applicationsfeature.NewHandler(db, mail, logger)
	appHandler.AdminEmail = appCfg.AdminEmail
	r.Mount("/api/applications", applicationsfeature.Routes(appHandler, tokens))

	reviewHandler := reviewsfeature.NewHandler(db, logger)
	r.Mount("/api/reviews", reviewsfeature.Routes(reviewHandler, tokens))

	contactHandler := contactfeature.NewHandler(mail, appCfg.AdminEmail, logger)
	r.Mount("/api/contact", contactfeature.Routes(contactHandler))

	return r, nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
