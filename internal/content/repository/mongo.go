package repository

import (
	"context"
	"errors"
	"time"

	"github.com/meetink/meetink/backend/go-services/internal/content"
	"github.com/meetink/meetink/backend/go-services/internal/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo stores content in the Confession, Comment and earlyAccess
// collections of db.
type MongoRepo struct {
	confessions *mongo.Collection
	comments    *mongo.Collection
	earlyAccess *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{
		confessions: db.Collection(database.ConfessionsCollection),
		comments:    db.Collection(database.CommentsCollection),
		earlyAccess: db.Collection(database.EarlyAccessCollection),
	}
}

// EnsureIndexes creates the lookup index comments are fetched by.
func (m *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := m.comments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "confessionId", Value: 1}},
		Options: options.Index().SetName("confessionId_1"),
	})
	return err
}

func (m *MongoRepo) CreateConfession(ctx context.Context, c *content.Confession) error {
	c.ID = primitive.NewObjectID()
	_, err := m.confessions.InsertOne(ctx, c)
	return err
}

func (m *MongoRepo) GetConfession(ctx context.Context, id primitive.ObjectID) (*content.Confession, error) {
	var c content.Confession
	if err := m.confessions.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (m *MongoRepo) ListConfessions(ctx context.Context, category *string) ([]*content.Confession, error) {
	filter := bson.M{}
	if category != nil {
		filter["category"] = *category
	}
	out := []*content.Confession{}
	if err := findAll(ctx, m.confessions, filter, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MongoRepo) IncrementLikes(ctx context.Context, id primitive.ObjectID) (int, error) {
	var c content.Confession
	err := m.confessions.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"likes": 1}, "$set": bson.M{"updatedAt": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		return 0, notFound(err)
	}
	return c.Likes, nil
}

func (m *MongoRepo) CreateComment(ctx context.Context, c *content.Comment) error {
	c.ID = primitive.NewObjectID()
	_, err := m.comments.InsertOne(ctx, c)
	return err
}

func (m *MongoRepo) GetComment(ctx context.Context, id primitive.ObjectID) (*content.Comment, error) {
	var c content.Comment
	if err := m.comments.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (m *MongoRepo) ListComments(ctx context.Context) ([]*content.Comment, error) {
	out := []*content.Comment{}
	if err := findAll(ctx, m.comments, bson.M{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MongoRepo) CommentsFor(ctx context.Context, confessionIDs ...primitive.ObjectID) ([]*content.Comment, error) {
	out := []*content.Comment{}
	if len(confessionIDs) == 0 {
		return out, nil
	}
	if err := findAll(ctx, m.comments, bson.M{"confessionId": bson.M{"$in": confessionIDs}}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MongoRepo) CreateEarlyAccess(ctx context.Context, e *content.EarlyAccess) error {
	e.ID = primitive.NewObjectID()
	_, err := m.earlyAccess.InsertOne(ctx, e)
	return err
}

func (m *MongoRepo) GetEarlyAccess(ctx context.Context, id primitive.ObjectID) (*content.EarlyAccess, error) {
	var e content.EarlyAccess
	if err := m.earlyAccess.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return nil, notFound(err)
	}
	return &e, nil
}

func (m *MongoRepo) ListEarlyAccess(ctx context.Context) ([]*content.EarlyAccess, error) {
	out := []*content.EarlyAccess{}
	if err := findAll(ctx, m.earlyAccess, bson.M{}, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// findAll decodes every match into out, a pointer to a slice.
func findAll(ctx context.Context, col *mongo.Collection, filter interface{}, out interface{}) error {
	cur, err := col.Find(ctx, filter)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
