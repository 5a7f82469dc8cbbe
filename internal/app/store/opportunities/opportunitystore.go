// internal/app/store/opportunities/opportunitystore.go
package opportunitystore

import (
	"context"
	"regexp"
	"time"

	"github.com/communityserve/volunteerhub/internal/app/system/paging"
	"github.com/communityserve/volunteerhub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("opportunities")}
}

func (s *Store) Create(ctx context.Context, o models.Opportunity) (models.Opportunity, error) {
	now := time.Now().UTC()
	o.ID = primitive.NewObjectID()
	if o.Status == "" {
		o.Status = models.OpportunityActive
	}
	if o.Urgency == "" {
		o.Urgency = models.UrgencyMedium
	}
	if o.AgeRequirement.Minimum == 0 {
		o.AgeRequirement.Minimum = models.DefaultAgeMinimum
	}
	o.CreatedAt = now
	o.UpdatedAt = now

	// Counts and populated fields are query-time only.
	o.PendingCount = 0
	o.AcceptedCount = 0
	o.Organization = nil

	if _, err := s.c.InsertOne(ctx, o); err != nil {
		return models.Opportunity{}, err
	}
	return o, nil
}

// GetByID returns the raw document without counts or the populated
// organization. Use GetDetail when those are needed.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Opportunity, error) {
	var o models.Opportunity
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		return models.Opportunity{}, err
	}
	return o, nil
}

// GetDetail returns one opportunity with application counts and the posting
// organization populated. Returns mongo.ErrNoDocuments when absent.
func (s *Store) GetDetail(ctx context.Context, id primitive.ObjectID) (models.Opportunity, error) {
	pipeline := []bson.M{{"$match": bson.M{"_id": id}}}
	pipeline = append(pipeline, enrichStages()...)

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return models.Opportunity{}, err
	}
	defer cur.Close(ctx)

	var results []models.Opportunity
	if err := cur.All(ctx, &results); err != nil {
		return models.Opportunity{}, err
	}
	if len(results) == 0 {
		return models.Opportunity{}, mongo.ErrNoDocuments
	}
	return results[0], nil
}

// ListFilter narrows the public opportunity listing. Zero values mean "any".
type ListFilter struct {
	Status         string
	Category       string
	LocationType   string
	City           string // case-insensitive substring on location.address.city
	State          string // case-insensitive substring on location.address.state
	Urgency        string
	Skill          string
	Search         string // case-insensitive substring on title/description
	OrganizationID primitive.ObjectID
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	if f.Status != "" {
		q["status"] = f.Status
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.LocationType != "" {
		q["location.type"] = f.LocationType
	}
	if f.City != "" {
		q["location.address.city"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.City), Options: "i"}
	}
	if f.State != "" {
		q["location.address.state"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.State), Options: "i"}
	}
	if f.Urgency != "" {
		q["urgency"] = f.Urgency
	}
	if f.Skill != "" {
		q["skills"] = f.Skill
	}
	if !f.OrganizationID.IsZero() {
		q["organization"] = f.OrganizationID
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		q["$or"] = []bson.M{
			{"title": re},
			{"description": re},
		}
	}
	return q
}

// List returns a page of opportunities matching the filter, with counts and
// organizations populated, plus the total match count for pagination.
func (s *Store) List(ctx context.Context, f ListFilter, page paging.Page) ([]models.Opportunity, int64, error) {
	filter := f.query()

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	pipeline := []bson.M{
		{"$match": filter},
		{"$sort": bson.D{{Key: page.SortBy, Value: page.SortOrder}, {Key: "_id", Value: 1}}},
		{"$skip": page.Skip()},
		{"$limit": int64(page.Limit)},
	}
	pipeline = append(pipeline, enrichStages()...)

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	opps := []models.Opportunity{}
	if err := cur.All(ctx, &opps); err != nil {
		return nil, 0, err
	}
	return opps, total, nil
}

// enrichStages appends the pending/accepted roll-ups from the applications
// collection and the posting organization's summary.
func enrichStages() []bson.M {
	countOf := func(status string) bson.M {
		return bson.M{"$size": bson.M{"$filter": bson.M{
			"input": "$apps",
			"as":    "a",
			"cond":  bson.M{"$eq": []interface{}{"$$a.status", status}},
		}}}
	}
	return []bson.M{
		{"$lookup": bson.M{
			"from":         "applications",
			"localField":   "_id",
			"foreignField": "opportunity",
			"as":           "apps",
		}},
		{"$addFields": bson.M{
			"pending_count":  countOf(models.ApplicationPending),
			"accepted_count": countOf(models.ApplicationAccepted),
		}},
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "organization",
			"foreignField": "_id",
			"as":           "organization_detail",
		}},
		{"$addFields": bson.M{
			"organization_detail": bson.M{"$arrayElemAt": []interface{}{"$organization_detail", 0}},
		}},
		{"$project": bson.M{"apps": 0}},
	}
}

// Update carries the editable opportunity fields. Nil pointers are left
// unchanged. OrganizationID is not updatable.
type Update struct {
	Title               *string
	Description         *string
	Category            *string
	Location            *models.Location
	Schedule            *models.Schedule
	Skills              *[]string
	Urgency             *string
	Status              *string
	ContactInfo         *models.ContactInfo
	VolunteersNeeded    *int
	ApplicationDeadline *time.Time
	AgeRequirement      *models.AgeRequirement
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	if upd.Schedule != nil {
		set["schedule"] = *upd.Schedule
	}
	if upd.Skills != nil {
		set["skills"] = *upd.Skills
	}
	if upd.Urgency != nil {
		set["urgency"] = *upd.Urgency
	}
	if upd.Status != nil {
		set["status"] = *upd.Status
	}
	if upd.ContactInfo != nil {
		set["contact_info"] = *upd.ContactInfo
	}
	if upd.VolunteersNeeded != nil {
		set["volunteers_needed"] = *upd.VolunteersNeeded
	}
	if upd.ApplicationDeadline != nil {
		set["application_deadline"] = upd.ApplicationDeadline.UTC()
	}
	if upd.AgeRequirement != nil {
		set["age_requirement"] = *upd.AgeRequirement
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// Delete removes an opportunity by ID. Returns the number of documents
// deleted (0 or 1). Applications pointing at it are left in place.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// DeleteByOrganization removes all opportunities posted by an organization.
// Returns the number of documents deleted.
func (s *Store) DeleteByOrganization(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"organization": orgID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByOrganization returns the number of opportunities an organization has
// posted.
func (s *Store) CountByOrganization(ctx context.Context, orgID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"organization": orgID})
}
