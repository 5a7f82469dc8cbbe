package bootstrap

import (
	"testing"

	userstore "github.com/communityserve/volunteerhub/internal/app/store/users"
	"github.com/communityserve/volunteerhub/internal/domain/models"
	"github.com/communityserve/volunteerhub/internal/testutil"
	"go.uber.org/zap"
)

func TestEnsureAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}

	if err := ensureAdmin(ctx, deps, "admin@test.org", zap.NewNop()); err != nil {
		t.Fatalf("ensureAdmin: %v", err)
	}

	user, err := userstore.New(db).GetByEmail(ctx, "admin@test.org")
	if err != nil {
		t.Fatalf("find created admin: %v", err)
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("role: got %q, want admin", user.Role)
	}
	if user.PasswordHash == "" {
		t.Error("admin should have an unusable password hash, not an empty one")
	}
}

func TestEnsureAdmin_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	vol := fixtures.CreateVolunteer(ctx, "Future Admin")
	deps := DBDeps{MongoDatabase: db}

	if err := ensureAdmin(ctx, deps, vol.Email, zap.NewNop()); err != nil {
		t.Fatalf("ensureAdmin: %v", err)
	}

	promoted, err := userstore.New(db).GetByID(ctx, vol.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if promoted.Role != models.RoleAdmin {
		t.Errorf("role: got %q, want admin", promoted.Role)
	}

	// Idempotent on the second run.
	if err := ensureAdmin(ctx, deps, vol.Email, zap.NewNop()); err != nil {
		t.Fatalf("second ensureAdmin: %v", err)
	}
}
