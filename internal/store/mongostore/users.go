package mongostore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/joestump/linkpage/internal/store"
)

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Email     string             `bson:"email,omitempty"`
	Password  string             `bson:"password"`
	Name      string             `bson:"name"`
	Bio       string             `bson:"bio"`
	Avatar    string             `bson:"avatar"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *userDoc) toUser() *store.User {
	return &store.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		Email:        d.Email,
		PasswordHash: d.Password,
		Name:         d.Name,
		Bio:          d.Bio,
		Avatar:       d.Avatar,
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}
}

// UserStore implements store.Users on the users collection.
type UserStore struct {
	coll *mongo.Collection
}

// Create inserts u. The username_unique and email_unique indexes decide
// conflicts.
func (s *UserStore) Create(ctx context.Context, u *store.User) (*store.User, error) {
	ts := now()
	doc := userDoc{
		ID:        primitive.NewObjectID(),
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.PasswordHash,
		Name:      u.Name,
		Bio:       u.Bio,
		Avatar:    u.Avatar,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		switch {
		case isDuplicateOn(err, emailIndex):
			return nil, store.ErrEmailTaken
		case mongo.IsDuplicateKeyError(err):
			return nil, store.ErrUsernameTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return doc.toUser(), nil
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*store.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return s.findOne(ctx, bson.M{"_id": oid})
}

// GetByUsername matches case-insensitively through the username index
// collation.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*store.User, error) {
	return s.findOne(ctx, bson.M{"username": username}, options.FindOne().SetCollation(usernameCollation))
}

func (s *UserStore) findOne(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*store.User, error) {
	var doc userDoc
	if err := s.coll.FindOne(ctx, filter, opts...).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.toUser(), nil
}

// UpdateProfile sets the non-nil fields of p and returns the new document.
func (s *UserStore) UpdateProfile(ctx context.Context, id string, p store.ProfileUpdate) (*store.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	set := bson.M{"updatedAt": now()}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.Bio != nil {
		set["bio"] = *p.Bio
	}
	if p.Avatar != nil {
		set["avatar"] = *p.Avatar
	}

	var doc userDoc
	err = s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return nil, notFound(err)
	}
	return doc.toUser(), nil
}
