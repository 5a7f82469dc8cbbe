// Command volunteerhub-seed populates a development database with fake
// organizations, volunteers, opportunities, and applications so the API has
// something to serve out of the box. Never point it at production.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	applicationstore "github.com/communityserve/volunteerhub/internal/app/store/applications"
	opportunitystore "github.com/communityserve/volunteerhub/internal/app/store/opportunities"
	userstore "github.com/communityserve/volunteerhub/internal/app/store/users"
	"github.com/communityserve/volunteerhub/internal/app/system/indexes"
	"github.com/communityserve/volunteerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

var (
	uri      = flag.String("uri", "mongodb://localhost:27017", "MongoDB connection URI")
	database = flag.String("database", "volunteer_hub", "database name")
	orgs     = flag.Int("orgs", 8, "number of organizations to create")
	vols     = flag.Int("volunteers", 40, "number of volunteers to create")
	seed     = flag.Int64("seed", 0, "random seed (0 means random)")
	password = flag.String("password", "password123", "password assigned to every seeded account")
)

var categories = []string{
	"hunger", "housing", "education", "environment", "health",
	"animals", "community", "seniors", "youth",
}

var durations = []string{"one-time", "short-term", "long-term", "ongoing"}

var urgencies = []string{
	models.UrgencyLow, models.UrgencyMedium, models.UrgencyHigh, models.UrgencyUrgent,
}

var skills = []string{
	"tutoring", "cooking", "driving", "carpentry", "first aid",
	"fundraising", "translation", "web design", "event planning", "gardening",
}

func main() {
	flag.Parse()
	gofakeit.Seed(*seed)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(*uri))
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database(*database)
	if err := indexes.EnsureAll(ctx, db); err != nil {
		log.Fatalf("ensure indexes: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	users := userstore.New(db)
	opps := opportunitystore.New(db)
	apps := applicationstore.New(db)

	organizations := make([]models.User, 0, *orgs)
	for i := 0; i < *orgs; i++ {
		name := gofakeit.Company()
		org, err := users.Create(ctx, models.User{
			Name:             name,
			Email:            fmt.Sprintf("org%d@%s", i+1, gofakeit.DomainName()),
			PasswordHash:     string(hash),
			Role:             models.RoleOrganization,
			Phone:            gofakeit.Phone(),
			OrganizationName: name,
			OrganizationProfile: &models.OrganizationProfile{
				Website:     fmt.Sprintf("https://www.%s", gofakeit.DomainName()),
				Description: gofakeit.Paragraph(1, 3, 12, " "),
				Mission:     gofakeit.Sentence(12),
				Causes:      pick(categories, gofakeit.Number(1, 3)),
			},
		})
		if err != nil {
			log.Fatalf("create organization: %v", err)
		}
		organizations = append(organizations, org)
	}
	log.Printf("created %d organizations", len(organizations))

	volunteers := make([]models.User, 0, *vols)
	for i := 0; i < *vols; i++ {
		vol, err := users.Create(ctx, models.User{
			Name:         gofakeit.Name(),
			Email:        fmt.Sprintf("vol%d@%s", i+1, gofakeit.DomainName()),
			PasswordHash: string(hash),
			Role:         models.RoleVolunteer,
			Phone:        gofakeit.Phone(),
			VolunteerProfile: &models.VolunteerProfile{
				Skills:    pick(skills, gofakeit.Number(1, 4)),
				Interests: pick(categories, gofakeit.Number(1, 3)),
				Availability: models.Availability{
					Weekdays: gofakeit.Bool(),
					Weekends: gofakeit.Bool(),
					Evenings: gofakeit.Bool(),
				},
				Experience: gofakeit.Sentence(10),
			},
		})
		if err != nil {
			log.Fatalf("create volunteer: %v", err)
		}
		volunteers = append(volunteers, vol)
	}
	log.Printf("created %d volunteers", len(volunteers))

	var opportunities []models.Opportunity
	for _, org := range organizations {
		for i := 0; i < gofakeit.Number(1, 4); i++ {
			opp, err := opps.Create(ctx, models.Opportunity{
				Title:       gofakeit.JobTitle() + " Volunteer",
				Description: gofakeit.Paragraph(1, 4, 14, " "),
				Category:    categories[gofakeit.Number(0, len(categories)-1)],
				Location:    randomLocation(),
				Schedule: models.Schedule{
					StartDate: time.Now().UTC().AddDate(0, 0, gofakeit.Number(7, 90)),
					TimeCommitment: models.TimeCommitment{
						HoursPerWeek: gofakeit.Number(1, 20),
						Duration:     durations[gofakeit.Number(0, len(durations)-1)],
					},
				},
				Skills:           pick(skills, gofakeit.Number(0, 3)),
				Urgency:          urgencies[gofakeit.Number(0, len(urgencies)-1)],
				Status:           models.OpportunityActive,
				OrganizationID:   org.ID,
				VolunteersNeeded: gofakeit.Number(2, 12),
			})
			if err != nil {
				log.Fatalf("create opportunity: %v", err)
			}
			opportunities = append(opportunities, opp)
		}
	}
	log.Printf("created %d opportunities", len(opportunities))

	created := 0
	statuses := []string{
		models.ApplicationPending, models.ApplicationPending,
		models.ApplicationAccepted, models.ApplicationRejected,
		models.ApplicationCompleted,
	}
	for _, vol := range volunteers {
		for _, opp := range pickOpportunities(opportunities, gofakeit.Number(0, 3)) {
			_, err := apps.Create(ctx, models.Application{
				OpportunityID:      opp.ID,
				VolunteerID:        vol.ID,
				OrganizationID:     opp.OrganizationID,
				Status:             statuses[gofakeit.Number(0, len(statuses)-1)],
				ApplicationMessage: gofakeit.Sentence(14),
			})
			if err == applicationstore.ErrAlreadyApplied {
				continue
			}
			if err != nil {
				log.Fatalf("create application: %v", err)
			}
			created++
		}
	}
	log.Printf("created %d applications", created)
	log.Printf("every account signs in with password %q", *password)
}

func randomLocation() models.Location {
	if gofakeit.Bool() {
		return models.Location{Type: models.LocationVirtual}
	}
	return models.Location{
		Type: models.LocationInPerson,
		Address: models.Address{
			Street:  gofakeit.Street(),
			City:    gofakeit.City(),
			State:   gofakeit.StateAbr(),
			ZipCode: gofakeit.Zip(),
		},
	}
}

func pick(from []string, n int) []string {
	if n >= len(from) {
		n = len(from)
	}
	seen := map[int]bool{}
	out := make([]string, 0, n)
	for len(out) < n {
		i := gofakeit.Number(0, len(from)-1)
		if seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, from[i])
	}
	return out
}

func pickOpportunities(from []models.Opportunity, n int) []models.Opportunity {
	if len(from) == 0 || n == 0 {
		return nil
	}
	if n > len(from) {
		n = len(from)
	}
	seen := map[int]bool{}
	out := make([]models.Opportunity, 0, n)
	for len(out) < n {
		i := gofakeit.Number(0, len(from)-1)
		if seen[i] {
			continue
		}
		seen[i] = true
		out = append(out, from[i])
	}
	return out
}
