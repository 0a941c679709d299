package repository

import (
	"context"
	"time"

	"review-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type SessionRepository struct {
	Col *mongo.Collection
}

func NewSessionRepository(db *mongo.Database) *SessionRepository {
	return &SessionRepository{Col: db.Collection("review_sessions")}
}

func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.ReviewSession, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, err
	}
	var session models.ReviewSession
	err = r.Col.FindOne(ctx, bson.M{"_id": objID}).Decode(&session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// FindActive looks for an existing active session for this batch and
// user. Returns (nil, nil) when none exists, so initialization can
// create one without duplicating rows on retry.
func (r *SessionRepository) FindActive(ctx context.Context, importBatchID, userID string) (*models.ReviewSession, error) {
	var session models.ReviewSession
	err := r.Col.FindOne(ctx, bson.M{
		"import_batch_id": importBatchID,
		"user_id":         userID,
		"status":          models.SessionActive,
	}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) Create(ctx context.Context, session *models.ReviewSession) error {
	session.CreatedAt = time.Now().UTC()
	session.UpdatedAt = session.CreatedAt
	res, err := r.Col.InsertOne(ctx, session)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		session.ID = oid.Hex()
	}
	return nil
}

// Update applies a partial update and bumps the modification time.
func (r *SessionRepository) Update(ctx context.Context, id string, update bson.M) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return err
	}
	update["updated_at"] = time.Now().UTC()
	_, err = r.Col.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": update})
	return err
}

// SetSimulationOutcome records a finished simulation run on the
// session row.
func (r *SessionRepository) SetSimulationOutcome(ctx context.Context, id string, passed bool) error {
	return r.Update(ctx, id, bson.M{
		"simulation_completed": true,
		"simulation_passed":    passed,
	})
}
