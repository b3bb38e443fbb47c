package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sitepulse/site-presence/internal/core/domain"
)

const (
	materialsCollection = "material_requests"
	messagesCollection  = "messages"
)

// SignalRepository implements ports.SignalReader over the collections the
// dashboard writes. Each read is independent.
type SignalRepository struct {
	dprs       *mongo.Collection
	attendance *mongo.Collection
	materials  *mongo.Collection
	messages   *mongo.Collection
}

// NewSignalRepository creates a new SignalRepository.
func NewSignalRepository(db *mongo.Database) *SignalRepository {
	return &SignalRepository{
		dprs:       db.Collection(dprsCollection),
		attendance: db.Collection(attendanceCollection),
		materials:  db.Collection(materialsCollection),
		messages:   db.Collection(messagesCollection),
	}
}

// EnsureIndexes creates the indexes backing the material and message reads.
func (r *SignalRepository) EnsureIndexes(ctx context.Context) error {
	if _, err := r.materials.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "status", Value: 1}},
	}); err != nil {
		return fmt.Errorf("material indexes: %w", err)
	}
	if _, err := r.messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "project_id", Value: 1}, {Key: "created_at", Value: -1}},
	}); err != nil {
		return fmt.Errorf("message indexes: %w", err)
	}
	return nil
}

func (r *SignalRepository) HasDPR(ctx context.Context, projectID, day string) (bool, error) {
	return exists(ctx, r.dprs, bson.M{"project_id": projectID, "date": day})
}

func (r *SignalRepository) HasAttendance(ctx context.Context, projectID, day string) (bool, error) {
	return exists(ctx, r.attendance, bson.M{"project_id": projectID, "date": day})
}

func (r *SignalRepository) CountPendingMaterials(ctx context.Context, projectID string) (int, error) {
	n, err := r.materials.CountDocuments(ctx, bson.M{
		"project_id": projectID,
		"status":     string(domain.MaterialPending),
	})
	if err != nil {
		return 0, fmt.Errorf("count pending materials: %w", err)
	}
	return int(n), nil
}

// LatestMessageAt returns the greatest created_at of the project's messages.
func (r *SignalRepository) LatestMessageAt(ctx context.Context, projectID string) (*time.Time, error) {
	opts := options.FindOne().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetProjection(bson.M{"created_at": 1})

	var doc struct {
		CreatedAt time.Time `bson:"created_at"`
	}
	if err := r.messages.FindOne(ctx, bson.M{"project_id": projectID}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("latest message: %w", err)
	}
	return &doc.CreatedAt, nil
}
