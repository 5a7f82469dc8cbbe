// internal/app/store/reviews/reviewstore.go
package reviewstore

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

var ErrDuplicateReview = errors.New("this volunteer has already been reviewed for this opportunity")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("reviews")}
}

func (s *Store) Create(ctx context.Context, r models.Review) (models.Review, error) {
	now := time.Now().UTC()
	r.ID = primitive.NewObjectID()
	if r.CompletionDate.IsZero() {
		r.CompletionDate = now
	}
	r.CreatedAt = now
	r.UpdatedAt = now

	r.Volunteer = nil
	r.Organization = nil
	r.Opportunity = nil

	if _, err := s.c.InsertOne(ctx, r); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Review{}, ErrDuplicateReview
		}
		return models.Review{}, err
	}
	return r, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Review, error) {
	var r models.Review
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		return models.Review{}, err
	}
	return r, nil
}

// ListFilter narrows review listings. Zero values mean "any".
type ListFilter struct {
	VolunteerID    primitive.ObjectID
	OrganizationID primitive.ObjectID
	OpportunityID  primitive.ObjectID
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
	return q
}

// List returns a page of reviews matching the filter, populated, newest
// first, plus the total match count for pagination.
func (s *Store) List(ctx context.Context, f ListFilter, page paging.Page) ([]models.Review, int64, error) {
	filter := f.query()

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	first := func(field string) bson.M {
		return bson.M{"$arrayElemAt": []interface{}{"$" + field, 0}}
	}
	pipeline := []bson.M{
		{"$match": filter},
		{"$sort": bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}},
		{"$skip": page.Skip()},
		{"$limit": int64(page.Limit)},
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "volunteer",
			"foreignField": "_id",
			"as":           "volunteer_detail",
		}},
		{"$lookup": bson.M{
			"from":         "users",
			"localField":   "organization",
			"foreignField": "_id",
			"as":           "organization_detail",
		}},
		{"$lookup": bson.M{
			"from":         "opportunities",
			"localField":   "opportunity",
			"foreignField": "_id",
			"as":           "opportunity_detail",
		}},
		{"$addFields": bson.M{
			"volunteer_detail":    first("volunteer_detail"),
			"organization_detail": first("organization_detail"),
			"opportunity_detail":  first("opportunity_detail"),
		}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	reviews := []models.Review{}
	if err := cur.All(ctx, &reviews); err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

// UpdateFeedback changes the rating and feedback of an existing review.
func (s *Store) UpdateFeedback(ctx context.Context, id primitive.ObjectID, rating int, feedback string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"rating":     rating,
		"feedback":   feedback,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// Delete removes a review by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// AverageForVolunteer returns the volunteer's mean rating and review count.
func (s *Store) AverageForVolunteer(ctx context.Context, volunteerID primitive.ObjectID) (float64, int64, error) {
	cur, err := s.c.Aggregate(ctx, []bson.M{
		{"$match": bson.M{"volunteer": volunteerID}},
		{"$group": bson.M{
			"_id":   nil,
			"avg":   bson.M{"$avg": "$rating"},
			"count": bson.M{"$sum": 1},
		}},
	})
	if err != nil {
		return 0, 0, err
	}
	defer cur.Close(ctx)

	var out []struct {
		Avg   float64 `bson:"avg"`
		Count int64   `bson:"count"`
	}
	if err := cur.All(ctx, &out); err != nil {
		return 0, 0, err
	}
	if len(out) == 0 {
		return 0, 0, nil
	}
	return out[0].Avg, out[0].Count, nil
}
