// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	applicationstore "github.com/communityserve/volunteerhub/internal/app/store/applications"
	opportunitystore "github.com/communityserve/volunteerhub/internal/app/store/opportunities"
	userstore "github.com/communityserve/volunteerhub/internal/app/store/users"
	"github.com/communityserve/volunteerhub/internal/domain/models"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures creates commonly needed documents for tests.
type Fixtures struct {
	t     *testing.T
	users *userstore.Store
	opps  *opportunitystore.Store
	apps  *applicationstore.Store
}

func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{
		t:     t,
		users: userstore.New(db),
		opps:  opportunitystore.New(db),
		apps:  applicationstore.New(db),
	}
}

// CreateVolunteer inserts a volunteer user. The email is derived from the
// name so distinct names never collide on the unique email index.
func (f *Fixtures) CreateVolunteer(ctx context.Context, name string) models.User {
	f.t.Helper()
	u, err := f.users.Create(ctx, models.User{
		Name:         name,
		Email:        emailFor(name),
		PasswordHash: "x",
		Role:         models.RoleVolunteer,
	})
	if err != nil {
		f.t.Fatalf("fixture CreateVolunteer(%q): %v", name, err)
	}
	return u
}

// CreateOrganization inserts an organization user.
func (f *Fixtures) CreateOrganization(ctx context.Context, name string) models.User {
	f.t.Helper()
	u, err := f.users.Create(ctx, models.User{
		Name:             name,
		Email:            emailFor(name),
		PasswordHash:     "x",
		Role:             models.RoleOrganization,
		OrganizationName: name,
	})
	if err != nil {
		f.t.Fatalf("fixture CreateOrganization(%q): %v", name, err)
	}
	return u
}

// CreateAdmin inserts an admin user.
func (f *Fixtures) CreateAdmin(ctx context.Context, name string) models.User {
	f.t.Helper()
	u, err := f.users.Create(ctx, models.User{
		Name:         name,
		Email:        emailFor(name),
		PasswordHash: "x",
		Role:         models.RoleAdmin,
	})
	if err != nil {
		f.t.Fatalf("fixture CreateAdmin(%q): %v", name, err)
	}
	return u
}

// CreateOpportunity inserts an active opportunity for org with sensible
// defaults: starts in 30 days, needs 5 volunteers.
func (f *Fixtures) CreateOpportunity(ctx context.Context, org models.User, title string) models.Opportunity {
	f.t.Helper()
	o, err := f.opps.Create(ctx, models.Opportunity{
		Title:          title,
		Description:    "Fixture opportunity",
		Category:       "community",
		Location:       models.Location{Type: models.LocationVirtual},
		Schedule:       models.Schedule{StartDate: time.Now().UTC().AddDate(0, 0, 30)},
		Status:         models.OpportunityActive,
		OrganizationID: org.ID,
		VolunteersNeeded: 5,
	})
	if err != nil {
		f.t.Fatalf("fixture CreateOpportunity(%q): %v", title, err)
	}
	return o
}

// CreateApplication inserts an application in the given status.
func (f *Fixtures) CreateApplication(ctx context.Context, opp models.Opportunity, vol models.User, status string) models.Application {
	f.t.Helper()
	a, err := f.apps.Create(ctx, models.Application{
		OpportunityID:  opp.ID,
		VolunteerID:    vol.ID,
		OrganizationID: opp.OrganizationID,
		Status:         status,
	})
	if err != nil {
		f.t.Fatalf("fixture CreateApplication: %v", err)
	}
	return a
}

func emailFor(name string) string {
	folded := text.Fold(name)
	out := make([]byte, 0, len(folded))
	for i := 0; i < len(folded); i++ {
		c := folded[i]
		if c == ' ' {
			c = '.'
		}
		out = append(out, c)
	}
	return string(out) + "@example.org"
}
