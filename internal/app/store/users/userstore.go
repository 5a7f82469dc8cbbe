// internal/app/store/users/userstore.go
package userstore

import (
	"context"
	"errors"
	"time"

	"github.com/communityserve/volunteerhub/internal/app/system/paging"
	"github.com/communityserve/volunteerhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateEmail = errors.New("an account with this email already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

// GetByEmail looks up a user by case-folded email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, bson.M{"email_ci": text.Fold(email)}).Decode(&u); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.EmailCI = text.Fold(u.Email)
	if u.Role == "" {
		u.Role = models.RoleVolunteer
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, u)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// ProfileUpdate carries the user-editable profile fields. Nil pointers are
// left unchanged.
type ProfileUpdate struct {
	Name                *string
	Email               *string
	Phone               *string
	OrganizationName    *string
	OrganizationProfile *models.OrganizationProfile
	VolunteerProfile    *models.VolunteerProfile
}

func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, p ProfileUpdate) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Email != nil {
		set["email"] = *p.Email
		set["email_ci"] = text.Fold(*p.Email)
	}
	if p.Phone != nil {
		set["phone"] = *p.Phone
	}
	if p.OrganizationName != nil {
		set["organization_name"] = *p.OrganizationName
	}
	if p.OrganizationProfile != nil {
		set["organization_profile"] = *p.OrganizationProfile
	}
	if p.VolunteerProfile != nil {
		set["volunteer_profile"] = *p.VolunteerProfile
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if wafflemongo.IsDup(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (s *Store) SetRole(ctx context.Context, id primitive.ObjectID, role string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"role":       role,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

func (s *Store) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"password_hash": hash,
		"updated_at":    time.Now().UTC(),
	}})
	return err
}

// SetResetToken stores the sha256 hex of a reset token with its expiry.
func (s *Store) SetResetToken(ctx context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"reset_password_token":  tokenHash,
		"reset_password_expire": expires.UTC(),
		"updated_at":            time.Now().UTC(),
	}})
	return err
}

// GetByResetToken looks up a user by hashed reset token, ignoring expired
// tokens. Returns mongo.ErrNoDocuments when the token is unknown or stale.
func (s *Store) GetByResetToken(ctx context.Context, tokenHash string) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, bson.M{
		"reset_password_token":  tokenHash,
		"reset_password_expire": bson.M{"$gt": time.Now().UTC()},
	}).Decode(&u)
	if err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (s *Store) ClearResetToken(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$unset": bson.M{
		"reset_password_token":  "",
		"reset_password_expire": "",
	}})
	return err
}

// List returns a page of users, optionally filtered by role, newest first.
func (s *Store) List(ctx context.Context, role string, page paging.Page) ([]models.User, int64, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}

	total, err := s.c.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetSkip(page.Skip()).
		SetLimit(int64(page.Limit))

	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// Delete removes a user by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByRole returns the number of users holding a role. Used by the admin
// overview endpoint.
func (s *Store) CountByRole(ctx context.Context, role string) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"role": role})
}
