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

type linkDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	User      primitive.ObjectID `bson:"user"`
	Title     string             `bson:"title"`
	URL       string             `bson:"url"`
	ImageURL  string             `bson:"imageUrl"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d *linkDoc) toLink() *store.Link {
	return &store.Link{
		ID:        d.ID.Hex(),
		UserID:    d.User.Hex(),
		Title:     d.Title,
		URL:       d.URL,
		ImageURL:  d.ImageURL,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// LinkStore implements store.Links on the links collection. Every filter on
// an existing link includes the owner.
type LinkStore struct {
	coll *mongo.Collection
}

func (s *LinkStore) Create(ctx context.Context, l *store.Link) (*store.Link, error) {
	owner, err := objectID(l.UserID)
	if err != nil {
		return nil, fmt.Errorf("link owner %q: %w", l.UserID, err)
	}
	ts := now()
	doc := linkDoc{
		ID:        primitive.NewObjectID(),
		User:      owner,
		Title:     l.Title,
		URL:       l.URL,
		ImageURL:  l.ImageURL,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, store.ErrTitleTaken
		}
		return nil, fmt.Errorf("insert link: %w", err)
	}
	return doc.toLink(), nil
}

// ListByOwner returns the owner's links, oldest first.
func (s *LinkStore) ListByOwner(ctx context.Context, ownerID string) ([]*store.Link, error) {
	links := []*store.Link{}
	owner, err := objectID(ownerID)
	if err != nil {
		return links, nil
	}
	cur, err := s.coll.Find(ctx,
		bson.M{"user": owner},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc linkDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode link: %w", err)
		}
		links = append(links, doc.toLink())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

// Update sets the non-nil fields of p on the link matching {_id, user}.
func (s *LinkStore) Update(ctx context.Context, id, ownerID string, p store.LinkUpdate) (*store.Link, error) {
	filter, err := ownedFilter(id, ownerID)
	if err != nil {
		return nil, err
	}
	set := bson.M{"updatedAt": now()}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.URL != nil {
		set["url"] = *p.URL
	}
	if p.ImageURL != nil {
		set["imageUrl"] = *p.ImageURL
	}

	var doc linkDoc
	err = s.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, store.ErrTitleTaken
		}
		return nil, notFound(err)
	}
	return doc.toLink(), nil
}

// Delete removes the link matching {_id, user}.
func (s *LinkStore) Delete(ctx context.Context, id, ownerID string) error {
	filter, err := ownedFilter(id, ownerID)
	if err != nil {
		return err
	}
	res, err := s.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	if res.DeletedCount == 0 {
		return store.ErrNotFound
	}
	return nil
}

func ownedFilter(id, ownerID string) (bson.M, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	owner, err := objectID(ownerID)
	if err != nil {
		return nil, err
	}
	return bson.M{"_id": oid, "user": owner}, nil
}
