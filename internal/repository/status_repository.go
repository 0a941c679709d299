package repository

import (
	"context"

	"review-service/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type StatusRepository struct {
	Col *mongo.Collection
}

func NewStatusRepository(db *mongo.Database) *StatusRepository {
	return &StatusRepository{Col: db.Collection("review_statuses")}
}

// BulkCreate inserts the initial unreviewed rows for a new session in
// one write.
func (r *StatusRepository) BulkCreate(ctx context.Context, statuses []models.ReviewStatus) error {
	if len(statuses) == 0 {
		return nil
	}
	docs := make([]interface{}, len(statuses))
	for i, s := range statuses {
		docs[i] = s
	}
	_, err := r.Col.InsertMany(ctx, docs)
	return err
}

// FindBySession returns every status row of one session.
func (r *StatusRepository) FindBySession(ctx context.Context, sessionID string) ([]models.ReviewStatus, error) {
	cursor, err := r.Col.Find(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var statuses []models.ReviewStatus
	if err := cursor.All(ctx, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

// UpdateOne applies a partial update to one (session, question) row.
func (r *StatusRepository) UpdateOne(ctx context.Context, sessionID, questionKey string, update bson.M) error {
	_, err := r.Col.UpdateOne(ctx, bson.M{
		"session_id":   sessionID,
		"question_key": questionKey,
	}, bson.M{"$set": update})
	return err
}

// MarkAll flips the given question keys to reviewed in one write.
func (r *StatusRepository) MarkAll(ctx context.Context, sessionID string, questionKeys []string, update bson.M) error {
	if len(questionKeys) == 0 {
		return nil
	}
	_, err := r.Col.UpdateMany(ctx, bson.M{
		"session_id":   sessionID,
		"question_key": bson.M{"$in": questionKeys},
	}, bson.M{"$set": update})
	return err
}
