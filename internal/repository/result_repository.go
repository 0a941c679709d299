package repository

import (
	"context"

	"review-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ResultRepository struct {
	Col *mongo.Collection
}

func NewResultRepository(db *mongo.Database) *ResultRepository {
	return &ResultRepository{Col: db.Collection("simulation_results")}
}

func (r *ResultRepository) Create(ctx context.Context, results *models.SimulationResults) error {
	res, err := r.Col.InsertOne(ctx, results)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		results.ID = oid.Hex()
	}
	return nil
}

// FindLatestBySession returns the most recent run for a session, or
// (nil, nil) when the session has never been simulated.
func (r *ResultRepository) FindLatestBySession(ctx context.Context, sessionID string) (*models.SimulationResults, error) {
	opts := options.FindOne().SetSort(bson.M{"created_at": -1})
	var results models.SimulationResults
	err := r.Col.FindOne(ctx, bson.M{"session_id": sessionID}, opts).Decode(&results)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &results, nil
}

// FindBySession returns all runs newest first.
func (r *ResultRepository) FindBySession(ctx context.Context, sessionID string) ([]models.SimulationResults, error) {
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := r.Col.Find(ctx, bson.M{"session_id": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []models.SimulationResults
	if err := cursor.All(ctx, &results); err != nil {
		return nil, err
	}
	return results, nil
}
