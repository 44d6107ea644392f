package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"posts-api/config"
	"posts-api/internal/logger"
)

// OpenMongo connects to MongoDB, verifies the connection and ensures the
// posts indexes. The caller disconnects the returned client.
func OpenMongo(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, *mongo.Database, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cl, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongo: %w", err)
	}
	// Ping to verify connection
	if err := cl.Ping(ctx, readpref.Primary()); err != nil {
		_ = cl.Disconnect(context.Background())
		return nil, nil, fmt.Errorf("ping mongo: %w", err)
	}

	d := cl.Database(cfg.DBName)
	if err := ensureIndexes(ctx, d); err != nil {
		_ = cl.Disconnect(context.Background())
		return nil, nil, err
	}
	logger.Log.Info("MongoDB connected and indexes ensured")
	return cl, d, nil
}

func ensureIndexes(ctx context.Context, d *mongo.Database) error {
	posts := d.Collection("posts")

	// created_at range filter
	if _, err := posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: 1}},
		Options: options.Index().SetName("idx_created_at"),
	}); err != nil {
		return fmt.Errorf("create created_at index: %w", err)
	}
	// tags (multikey) for $in overlap
	if _, err := posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "tags", Value: 1}},
		Options: options.Index().SetName("idx_tags"),
	}); err != nil {
		return fmt.Errorf("create tags index: %w", err)
	}
	// published flag
	if _, err := posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "published", Value: 1}},
		Options: options.Index().SetName("idx_published"),
	}); err != nil {
		return fmt.Errorf("create published index: %w", err)
	}
	return nil
}
