package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sitepulse/site-presence/internal/core/domain"
)

const attendanceCollection = "attendance"

// AttendanceRepository implements ports.AttendanceRepository using MongoDB.
// A unique index on (project_id, date) makes the first accepted check-in of a
// day final.
type AttendanceRepository struct {
	coll *mongo.Collection
}

// NewAttendanceRepository creates a new AttendanceRepository.
func NewAttendanceRepository(db *mongo.Database) *AttendanceRepository {
	return &AttendanceRepository{coll: db.Collection(attendanceCollection)}
}

// EnsureIndexes creates the unique (project_id, date) index.
func (r *AttendanceRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "date", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("project_day_unique"),
	})
	if err != nil {
		return fmt.Errorf("attendance indexes: %w", err)
	}
	return nil
}

func (r *AttendanceRepository) FindByProjectDay(ctx context.Context, projectID, day string) (*domain.AttendanceRecord, error) {
	var rec domain.AttendanceRecord
	err := r.coll.FindOne(ctx, bson.M{"project_id": projectID, "date": day}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAttendanceNotFound
		}
		return nil, fmt.Errorf("find attendance: %w", err)
	}
	return &rec, nil
}

func (r *AttendanceRepository) Create(ctx context.Context, rec *domain.AttendanceRecord) error {
	if _, err := r.coll.InsertOne(ctx, rec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrAlreadyCheckedIn
		}
		return fmt.Errorf("insert attendance: %w", err)
	}
	return nil
}
