package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sitepulse/site-presence/internal/core/domain"
)

const dprsCollection = "dprs"

// DPRRepository implements ports.DPRRepository using MongoDB.
type DPRRepository struct {
	coll *mongo.Collection
}

// NewDPRRepository creates a new DPRRepository.
func NewDPRRepository(db *mongo.Database) *DPRRepository {
	return &DPRRepository{coll: db.Collection(dprsCollection)}
}

// EnsureIndexes creates the unique (project_id, date) index.
func (r *DPRRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("project_day_unique"),
	})
	if err != nil {
		return fmt.Errorf("dpr indexes: %w", err)
	}
	return nil
}

func (r *DPRRepository) Exists(ctx context.Context, projectID, day string) (bool, error) {
	return exists(ctx, r.coll, bson.M{"project_id": projectID, "date": day})
}

func (r *DPRRepository) Create(ctx context.Context, dpr *domain.DPR) error {
	if _, err := r.coll.InsertOne(ctx, dpr); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDPRAlreadySubmitted
		}
		return fmt.Errorf("insert dpr: %w", err)
	}
	return nil
}

func exists(ctx context.Context, coll *mongo.Collection, filter bson.M) (bool, error) {
	n, err := coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count %s: %w", coll.Name(), err)
	}
	return n > 0, nil
}
