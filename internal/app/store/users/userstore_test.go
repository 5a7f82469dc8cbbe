package userstore_test

import (
	"testing"
	"time"

	"github.com/communityserve/volunteerhub/internal/app/system/paging"
	userstore "github.com/communityserve/volunteerhub/internal/app/store/users"
	"github.com/communityserve/volunteerhub/internal/domain/models"
	"github.com/communityserve/volunteerhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		Name:         "Ada Volunteer",
		Email:        "Ada@Example.org",
		PasswordHash: "hash",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.EmailCI != "ada@example.org" {
		t.Errorf("EmailCI: got %q, want %q", created.EmailCI, "ada@example.org")
	}
	if created.Role != models.RoleVolunteer {
		t.Errorf("expected default role volunteer, got %q", created.Role)
	}
	if created.CreatedAt.IsZero() || created.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.User{Name: "First", Email: "dup@example.org", PasswordHash: "x"})
	if err != nil {
		t.Fatalf("first Create failed: %v", err)
	}

	// Same email with different case should collide on email_ci
	_, err = store.Create(ctx, models.User{Name: "Second", Email: "DUP@example.org", PasswordHash: "x"})
	if err != userstore.ErrDuplicateEmail {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_GetByEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{Name: "Casey", Email: "casey@example.org", PasswordHash: "x"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	found, err := store.GetByEmail(ctx, "CASEY@EXAMPLE.ORG")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID: got %v, want %v", found.ID, created.ID)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}

func TestStore_UpdateProfile(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{Name: "Original", Email: "profile@example.org", PasswordHash: "x"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	name := "Updated Name"
	phone := "555-0100"
	profile := models.VolunteerProfile{Skills: []string{"tutoring"}}
	err = store.UpdateProfile(ctx, created.ID, userstore.ProfileUpdate{
		Name:             &name,
		Phone:            &phone,
		VolunteerProfile: &profile,
	})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}

	found, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if found.Name != "Updated Name" {
		t.Errorf("Name: got %q, want %q", found.Name, "Updated Name")
	}
	if found.Phone != "555-0100" {
		t.Errorf("Phone: got %q, want %q", found.Phone, "555-0100")
	}
	if found.VolunteerProfile == nil || len(found.VolunteerProfile.Skills) != 1 {
		t.Errorf("VolunteerProfile not updated: %+v", found.VolunteerProfile)
	}
	// Email must be untouched
	if found.Email != "profile@example.org" {
		t.Errorf("Email changed unexpectedly: %q", found.Email)
	}
}

func TestStore_ResetTokenLifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{Name: "Reset", Email: "reset@example.org", PasswordHash: "x"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err = store.SetResetToken(ctx, created.ID, "tokenhash", time.Now().Add(10*time.Minute))
	if err != nil {
		t.Fatalf("SetResetToken failed: %v", err)
	}

	found, err := store.GetByResetToken(ctx, "tokenhash")
	if err != nil {
		t.Fatalf("GetByResetToken failed: %v", err)
	}
	if found.ID != created.ID {
		t.Errorf("ID: got %v, want %v", found.ID, created.ID)
	}

	if err := store.ClearResetToken(ctx, created.ID); err != nil {
		t.Fatalf("ClearResetToken failed: %v", err)
	}
	if _, err := store.GetByResetToken(ctx, "tokenhash"); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments after clear, got %v", err)
	}
}

func TestStore_GetByResetToken_Expired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{Name: "Stale", Email: "stale@example.org", PasswordHash: "x"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	err = store.SetResetToken(ctx, created.ID, "stalehash", time.Now().Add(-1*time.Minute))
	if err != nil {
		t.Fatalf("SetResetToken failed: %v", err)
	}

	if _, err := store.GetByResetToken(ctx, "stalehash"); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments for expired token, got %v", err)
	}
}

func TestStore_List_FiltersByRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateVolunteer(ctx, "Vol One")
	fixtures.CreateVolunteer(ctx, "Vol Two")
	fixtures.CreateOrganization(ctx, "Org One")

	page := paging.Page{Number: 1, Limit: 10, SortBy: "created_at", SortOrder: -1}

	vols, total, err := store.List(ctx, models.RoleVolunteer, page)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if total != 2 || len(vols) != 2 {
		t.Errorf("volunteer list: got %d/%d, want 2/2", len(vols), total)
	}

	all, total, err := store.List(ctx, "", page)
	if err != nil {
		t.Fatalf("List all failed: %v", err)
	}
	if total != 3 || len(all) != 3 {
		t.Errorf("full list: got %d/%d, want 3/3", len(all), total)
	}
}

func TestStore_Delete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateVolunteer(ctx, "Doomed")

	n, err := store.Delete(ctx, u.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted count: got %d, want 1", n)
	}

	if _, err := store.GetByID(ctx, u.ID); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments after delete, got %v", err)
	}
}
