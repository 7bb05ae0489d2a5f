// Package mongostore implements store.Users and store.Links on MongoDB.
// Documents keep the field names of the original mongoose schema so an
// existing database can be served unchanged.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/joestump/linkpage/internal/store"
)

const (
	usersCollection = "users"
	linksCollection = "links"

	connectTimeout = 10 * time.Second
)

// Index names. Duplicate-key errors are told apart by these names.
const (
	usernameIndex  = "username_unique"
	emailIndex     = "email_unique"
	userTitleIndex = "user_title_unique"
	userCreatedIdx = "user_created"
)

// usernameCollation compares usernames case-insensitively, so records written
// with mixed case still match a lower-cased lookup.
var usernameCollation = &options.Collation{Locale: "en", Strength: 2}

// DB is a connected MongoDB database.
type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri and pings the primary before returning.
func Connect(ctx context.Context, uri, database string) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &DB{client: client, db: client.Database(database)}, nil
}

// Close disconnects the client.
func (d *DB) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// Ping checks the connection to the primary.
func (d *DB) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, readpref.Primary())
}

// Drop removes the database. Used by tests.
func (d *DB) Drop(ctx context.Context) error {
	return d.db.Drop(ctx)
}

// Users returns the user store backed by this database.
func (d *DB) Users() *UserStore {
	return &UserStore{coll: d.db.Collection(usersCollection)}
}

// Links returns the link store backed by this database.
func (d *DB) Links() *LinkStore {
	return &LinkStore{coll: d.db.Collection(linksCollection)}
}

// EnsureIndexes creates the unique and lookup indexes. Creating an index that
// already exists with the same definition is a no-op.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	_, err := d.db.Collection(usersCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName(usernameIndex).SetUnique(true).SetCollation(usernameCollation),
		},
		{
			// Users without an email have no email field and are skipped.
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(emailIndex).SetUnique(true).
				SetPartialFilterExpression(bson.M{"email": bson.M{"$type": "string"}}),
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}

	_, err = d.db.Collection(linksCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "title", Value: 1}},
			Options: options.Index().SetName(userTitleIndex).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index().SetName(userCreatedIdx),
		},
	})
	if err != nil {
		return fmt.Errorf("create link indexes: %w", err)
	}
	return nil
}

// objectID parses a hex id. Anything that is not an ObjectID cannot match a
// document, so it reports store.ErrNotFound.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, store.ErrNotFound
	}
	return oid, nil
}

func isDuplicateOn(err error, index string) bool {
	return mongo.IsDuplicateKeyError(err) && strings.Contains(err.Error(), index)
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}

// now is truncated to the millisecond precision BSON dates keep.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
