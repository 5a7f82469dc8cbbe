// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	userstore "github.com/communityserve/volunteerhub/internal/app/store/users"
	"github.com/communityserve/volunteerhub/internal/app/system/mailer"
	"github.com/communityserve/volunteerhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It is the
// place to load shared resources, warm caches, or perform any app-wide setup
// that depends on config and backends.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail != "" {
		if err := ensureAdmin(ctx, deps, appCfg.AdminEmail, logger); err != nil {
			return err
		}
	}
	return nil
}

// ensureAdmin provisions the platform admin account named by admin_email.
// An existing account is promoted; a missing one is created with an unusable
// password so the owner claims it through the password reset flow. Admin is
// the one role the register endpoint never grants.
func ensureAdmin(ctx context.Context, deps DBDeps, email string, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role == models.RoleAdmin {
			return nil
		}
		logger.Info("promoting existing user to admin", zap.String("email", email))
		return users.SetRole(ctx, existing.ID, models.RoleAdmin)
	case err == mongo.ErrNoDocuments:
		// bcrypt never verifies against a random UUID nobody saw.
		hash, err := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		logger.Info("creating admin account", zap.String("email", email))
		_, err = users.Create(ctx, models.User{
			Name:         "Administrator",
			Email:        email,
			PasswordHash: string(hash),
			Role:         models.RoleAdmin,
		})
		return err
	default:
		return err
	}
}

// newMailSender builds the outbound mail transport from config. Without an
// SMTP host every email is logged and dropped, which keeps local development
// working with no mail server.
func newMailSender(appCfg AppConfig, logger *zap.Logger) mailer.Sender {
	if appCfg.MailSMTPHost == "" {
		logger.Info("no SMTP host configured, outbound mail disabled")
		return &mailer.Discard{Log: logger}
	}
	from := appCfg.MailFrom
	if appCfg.MailFromName != "" {
		from = appCfg.MailFromName + " <" + appCfg.MailFrom + ">"
	}
	return &mailer.SMTPSender{
		Host:     appCfg.MailSMTPHost,
		Port:     appCfg.MailSMTPPort,
		Username: appCfg.MailSMTPUser,
		Password: appCfg.MailSMTPPass,
		From:     from,
		Log:      logger,
	}
}
