// internal/app/store/applications/applicationstore.go
package applicationstore

import (
	"context"
	"errors"
	"time"

	"github.com/communityserve/volunteerhub/internal/app/system/paging"
	"github.com/communityserve/volunteerhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

var ErrAlreadyApplied = errors.New("you have already applied to this opportunity")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("applications")}
}

func (s *Store) Create(ctx context.Context, a models.Application) (models.Application, error) {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	if a.Status == "" {
		a.Status = models.ApplicationPending
	}
	if a.CommunicationPreference == "" {
		a.CommunicationPreference = models.CommPlatform
	}
	a.CreatedAt = now
	a.UpdatedAt = now

	// Populated references are query-time only.
	a.Opportunity = nil
	a.Volunteer = nil
	a.Organization = nil

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Application{}, ErrAlreadyApplied
		}
		return models.Application{}, err
	}
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Application, error) {
	var a models.Application
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return models.Application{}, err
	}
	return a, nil
}

// GetDetail returns one application with the opportunity, volunteer, and
// organization populated. Returns mongo.ErrNoDocuments when absent.
func (s *Store) GetDetail(ctx context.Context, id primitive.ObjectID) (models.Application, error) {
	results, err := s.aggregate(ctx, []bson.M{{"$match": bson.M{"_id": id}}})
	if err != nil {
		return models.Application{}, err
	}
	if len(results) == 0 {
		return models.Application{}, mongo.ErrNoDocuments
	}
	return results[0], nil
}

// ListFilter narrows application listings. Zero values mean "any".
type ListFilter struct {
	VolunteerID    primitive.ObjectID
	OrganizationID primitive.ObjectID
	OpportunityID  primitive.ObjectID
	Status         string
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	if !f.VolunteerID.IsZero() {
		q["volunteer"] = f.VolunteerID
	}
	if !f.OrganizationID.IsZero() {
		q["organization"] = f.OrganizationID
	}
	if !f.OpportunityID.IsZero() {
		q["opportunity"] = f.OpportunityID
	}
	if f.Status != "" {
		q["status"] = f.Status
	}
	return q
}

// List returns a page of applications matching the filter, populated, newest
// first, plus the total match count for pagination.
func (s *Store) List(ctx context.Context, f ListFilter, page paging.Page) ([]models.Application, int64, error) {
	filter := f.query()

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	apps, err := s.aggregate(ctx, []bson.M{
		{"$match": filter},
		{"$sort": bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}},
		{"$skip": page.Skip()},
		{"$limit": int64(page.Limit)},
	})
	if err != nil {
		return nil, 0, err
	}
	return apps, total, nil
}

// ListRated returns completed applications carrying at least one rating,
// populated, most recently updated first. A zero participant means all
// applications; otherwise only those where the participant is the volunteer
// or the organization.
func (s *Store) ListRated(ctx context.Context, participant primitive.ObjectID) ([]models.Application, error) {
	match := bson.M{
		"status": models.ApplicationCompleted,
		"$or": []bson.M{
			{"rating.volunteer_rating": bson.M{"$ne": nil}},
			{"rating.organization_rating": bson.M{"$ne": nil}},
		},
	}
	if !participant.IsZero() {
		match = bson.M{"$and": []bson.M{match, {"$or": []bson.M{
			{"volunteer": participant},
			{"organization": participant},
		}}}}
	}
	return s.aggregate(ctx, []bson.M{
		{"$match": match},
		{"$sort": bson.D{{Key: "updated_at", Value: -1}, {Key: "_id", Value: 1}}},
	})
}

func (s *Store) aggregate(ctx context.Context, head []bson.M) ([]models.Application, error) {
	first := func(field string) bson.M {
		return bson.M{"$arrayElemAt": []interface{}{"$" + field, 0}}
	}
	pipeline := append(head,
		bson.M{"$lookup": bson.M{
			"from":         "opportunities",
			"localField":   "opportunity",
			"foreignField": "_id",
			"as":           "opportunity_detail",
		}},
		bson.M{"$lookup": bson.M{
			"from":         "users",
			"localField":   "volunteer",
			"foreignField": "_id",
			"as":           "volunteer_detail",
		}},
		bson.M{"$lookup": bson.M{
			"from":         "users",
			"localField":   "organization",
			"foreignField": "_id",
			"as":           "organization_detail",
		}},
		bson.M{"$addFields": bson.M{
			"opportunity_detail":  first("opportunity_detail"),
			"volunteer_detail":    first("volunteer_detail"),
			"organization_detail": first("organization_detail"),
		}},
	)

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	apps := []models.Application{}
	if err := cur.All(ctx, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// SetStatus records an organization's decision. ReviewedBy/ReviewedAt are
// stamped on every transition; CompletedAt only when moving to completed.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status, notes string, reviewedBy primitive.ObjectID) error {
	now := time.Now().UTC()
	set := bson.M{
		"status":      status,
		"reviewed_at": now,
		"reviewed_by": reviewedBy,
		"updated_at":  now,
	}
	if notes != "" {
		set["organization_notes"] = notes
	}
	if status == models.ApplicationCompleted {
		set["completed_at"] = now
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// Withdraw flips a pending application to withdrawn.
func (s *Store) Withdraw(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     models.ApplicationWithdrawn,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// SetVolunteerRating stores the organization's rating of the volunteer.
// Calling it again overwrites the previous entry.
func (s *Store) SetVolunteerRating(ctx context.Context, id primitive.ObjectID, entry models.RatingEntry) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"rating.volunteer_rating": entry,
		"updated_at":              time.Now().UTC(),
	}})
	return err
}

// SetOrganizationRating stores the volunteer's rating of the organization.
// Calling it again overwrites the previous entry.
func (s *Store) SetOrganizationRating(ctx context.Context, id primitive.ObjectID, entry models.RatingEntry) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"rating.organization_rating": entry,
		"updated_at":                 time.Now().UTC(),
	}})
	return err
}

// SetCommunicationPreference updates how the volunteer wants to be contacted.
func (s *Store) SetCommunicationPreference(ctx context.Context, id primitive.ObjectID, pref string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"communication_preference": pref,
		"updated_at":               time.Now().UTC(),
	}})
	return err
}

// Delete removes an application by ID. Returns the number of documents
// deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByVolunteer removes all applications a volunteer has filed. Returns
// the number of documents deleted.
func (s *Store) DeleteByVolunteer(ctx context.Context, volunteerID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"volunteer": volunteerID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByOpportunityAndStatus returns how many applications an opportunity
// has in the given statuses. Feeds the capacity check on apply.
func (s *Store) CountByOpportunityAndStatus(ctx context.Context, oppID primitive.ObjectID, statuses ...string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"opportunity": oppID,
		"status":      bson.M{"$in": statuses},
	})
}

// CountByVolunteerAndStatus returns how many applications a volunteer has in
// the given status. Feeds the volunteer stats endpoint.
func (s *Store) CountByVolunteerAndStatus(ctx context.Context, volunteerID primitive.ObjectID, status string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"volunteer": volunteerID,
		"status":    status,
	})
}
