// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration: WAFFLE's CoreConfig covers
// framework-level settings like HTTP ports, TLS, logging, and request
// limits. Everything specific to this application lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session token configuration
	JWTSecret string        // Secret for signing bearer tokens (must be strong in production)
	JWTExpiry time.Duration // Token lifetime (e.g., 168h)

	// Email/SMTP configuration
	MailSMTPHost string // SMTP server host (empty disables outbound mail)
	MailSMTPPort int    // SMTP server port (e.g., 1025 for Mailpit, 587 for SES)
	MailSMTPUser string // SMTP username
	MailSMTPPass string // SMTP password
	MailFrom     string // From email address (e.g., noreply@volunteerhub.org)
	MailFromName string // From display name (e.g., VolunteerHub)

	// Where contact-form submissions and new-application copies go.
	AdminEmail string

	// Base URL for email links (password reset)
	BaseURL string // e.g., "https://volunteerhub.org" or "http://localhost:3000"

	// SiteName appears in outbound email subjects and bodies.
	SiteName string

	// AllowedOrigins is the comma-separated CORS allowlist for the API.
	AllowedOrigins string
}
