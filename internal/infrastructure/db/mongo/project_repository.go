package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sitepulse/site-presence/internal/core/domain"
	"github.com/sitepulse/site-presence/internal/core/ports"
)

const projectsCollection = "projects"

// ProjectRepository implements ports.ProjectRepository using MongoDB.
type ProjectRepository struct {
	coll *mongo.Collection
}

// NewProjectRepository creates a new ProjectRepository.
func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{coll: db.Collection(projectsCollection)}
}

// EnsureIndexes creates the lookup indexes used by List.
func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "engineer_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("project indexes: %w", err)
	}
	return nil
}

// FindByID returns domain.ErrProjectNotFound when no project has the given id.
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*domain.Project, error) {
	var p domain.Project
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return &p, nil
}

// List returns the projects matching filter, oldest first.
func (r *ProjectRepository) List(ctx context.Context, filter ports.ProjectFilter) ([]*domain.Project, error) {
	query := bson.M{}
	if filter.EngineerID != "" {
		query["engineer_id"] = filter.EngineerID
	}
	if filter.OwnerID != "" {
		query["owner_id"] = filter.OwnerID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.coll.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer cursor.Close(ctx)

	var projects []*domain.Project
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("decode projects: %w", err)
	}
	return projects, nil
}
