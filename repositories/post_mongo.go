package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"posts-api/models"
)

const (
	postsCollection    = "posts"
	countersCollection = "counters"
)

// MongoPostRepository stores posts as documents. Integer ids come from a
// per-collection counter document so they match the relational store.
type MongoPostRepository struct {
	col      *mongo.Collection
	counters *mongo.Collection
}

func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{
		col:      db.Collection(postsCollection),
		counters: db.Collection(countersCollection),
	}
}

// nextID atomically increments and returns the posts sequence.
func (r *MongoPostRepository) nextID(ctx context.Context) (uint, error) {
	var counter struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := r.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": postsCollection},
		bson.M{"$inc": bson.M{"seq": 1}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, fmt.Errorf("next post id: %w", err)
	}
	return uint(counter.Seq), nil
}

// Create inserts a new post document.
func (r *MongoPostRepository) Create(ctx context.Context, p *models.Post) error {
	id, err := r.nextID(ctx)
	if err != nil {
		return err
	}
	p.ID = id
	if _, err := r.col.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// FindByID returns a post by its id
func (r *MongoPostRepository) FindByID(ctx context.Context, id uint) (*models.Post, error) {
	var p models.Post
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post %d: %w", id, err)
	}
	return &p, nil
}

// List returns posts with filters and pagination, sorted by _id asc
func (r *MongoPostRepository) List(ctx context.Context, c PostCriteria) ([]models.Post, int64, error) {
	filter := mongoPredicateFilter(BuildPostPredicates(c))
	w := NormalizeWindow(c.Page, c.Limit)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	results := make([]models.Post, 0, w.Limit)
	if total == 0 || int64(w.Offset) >= total {
		return results, total, nil
	}

	findOpts := options.Find().
		SetSkip(int64(w.Offset)).
		SetLimit(int64(w.Limit)).
		SetSort(bson.D{{Key: "_id", Value: 1}})
	cur, err := r.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("find posts: %w", err)
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var p models.Post
		if err := cur.Decode(&p); err != nil {
			return nil, 0, fmt.Errorf("decode post: %w", err)
		}
		results = append(results, p)
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate posts: %w", err)
	}
	return results, total, nil
}

// Save replaces the stored document with p.
func (r *MongoPostRepository) Save(ctx context.Context, p *models.Post) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("replace post %d: %w", p.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoPostRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete post %d: %w", id, err)
	}
	return res.DeletedCount, nil
}

func (r *MongoPostRepository) Ping(ctx context.Context) error {
	return r.col.Database().Client().Ping(ctx, readpref.Primary())
}

// mongoPredicateFilter builds the query document for the predicates. Each
// predicate becomes one element of a top-level $and.
func mongoPredicateFilter(preds []Predicate) bson.M {
	if len(preds) == 0 {
		return bson.M{}
	}
	conds := make([]bson.M, 0, len(preds))
	for _, pr := range preds {
		field := string(pr.Field)
		switch pr.Op {
		case OpContainsFold:
			conds = append(conds, bson.M{field: primitive.Regex{
				Pattern: regexp.QuoteMeta(pr.Value.(string)),
				Options: "i",
			}})
		case OpGTE:
			conds = append(conds, bson.M{field: bson.M{"$gte": pr.Value}})
		case OpLTE:
			conds = append(conds, bson.M{field: bson.M{"$lte": pr.Value}})
		case OpEq:
			conds = append(conds, bson.M{field: pr.Value})
		case OpNotNull:
			conds = append(conds, bson.M{field: bson.M{"$ne": nil}})
		case OpOverlap:
			conds = append(conds, bson.M{field: bson.M{"$in": pr.Value}})
		}
	}
	return bson.M{"$and": conds}
}
