package domain

import "time"

// Project is a construction site supervised by an engineer on behalf of an owner.
type Project struct {
	ID           string     `json:"id" bson:"_id"`
	Name         string     `json:"name" bson:"name"`
	Location     string     `json:"location" bson:"location"`
	OwnerID      string     `json:"owner_id" bson:"owner_id"`
	EngineerID   string     `json:"engineer_id" bson:"engineer_id"`
	Coordinate   Coordinate `json:"coordinate" bson:"coordinate"`
	RadiusMeters float64    `json:"radius_meters" bson:"radius_meters"`
	CreatedAt    time.Time  `json:"created_at" bson:"created_at"`
}

// Site returns the project's geofence.
func (p *Project) Site() Site {
	return Site{ProjectID: p.ID, Coordinate: p.Coordinate, RadiusMeters: p.RadiusMeters}
}

// VisibleTo reports whether the user may read the project.
func (p *Project) VisibleTo(userID, role string) bool {
	switch role {
	case RoleEngineer:
		return p.EngineerID == userID
	case RoleOwner:
		return p.OwnerID == userID
	default:
		return false
	}
}

// MaterialStatus is the approval state of a material request.
type MaterialStatus string

const (
	MaterialPending   MaterialStatus = "PENDING"
	MaterialApproved  MaterialStatus = "APPROVED"
	MaterialRejected  MaterialStatus = "REJECTED"
	MaterialDelivered MaterialStatus = "DELIVERED"
)

// MaterialRequest is read by the risk aggregator; its lifecycle is managed elsewhere.
type MaterialRequest struct {
	ID        string         `json:"id" bson:"_id"`
	ProjectID string         `json:"project_id" bson:"project_id"`
	Material  string         `json:"material" bson:"material"`
	Quantity  float64        `json:"quantity" bson:"quantity"`
	Unit      string         `json:"unit" bson:"unit"`
	Status    MaterialStatus `json:"status" bson:"status"`
	CreatedAt time.Time      `json:"created_at" bson:"created_at"`
}

// Message is a project chat message.
type Message struct {
	ID        string    `json:"id" bson:"_id"`
	ProjectID string    `json:"project_id" bson:"project_id"`
	SenderID  string    `json:"sender_id" bson:"sender_id"`
	Text      string    `json:"text" bson:"text"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// DPR is a daily progress report. Its existence for a day marks it submitted.
type DPR struct {
	ID             string    `json:"id" bson:"_id"`
	ProjectID      string    `json:"project_id" bson:"project_id"`
	Date           string    `json:"date" bson:"date"`
	SubmittedBy    string    `json:"submitted_by" bson:"submitted_by"`
	Summary        string    `json:"summary" bson:"summary"`
	WorkersPresent int       `json:"workers_present" bson:"workers_present"`
	SubmittedAt    time.Time `json:"submitted_at" bson:"submitted_at"`
}
