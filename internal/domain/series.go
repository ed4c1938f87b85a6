package domain

import (
	"context"
	"time"
)

// ConventionSeries groups the recurring editions of a convention under one
// organizer. Authorization for organizer endpoints is checked against the
// series owner.
// swagger:model ConventionSeries
type ConventionSeries struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	OrganizerID string    `json:"organizer_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewConventionSeries returns a new ConventionSeries. ID is set by the
// repository on create.
func NewConventionSeries(name, slug, organizerID string, createdAt, updatedAt time.Time) *ConventionSeries {
	return &ConventionSeries{
		Name:        name,
		Slug:        slug,
		OrganizerID: organizerID,
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}
}

// SeriesRepository defines the interface for convention series storage.
type SeriesRepository interface {
	Create(ctx context.Context, s *ConventionSeries) error
	GetByID(ctx context.Context, id string) (*ConventionSeries, error)
	ListByOrganizerID(ctx context.Context, organizerID string) ([]*ConventionSeries, error)
}

// SeriesService defines organizer-facing series operations.
type SeriesService interface {
	Create(ctx context.Context, actor Actor, name string) (*ConventionSeries, error)
	ListOwn(ctx context.Context, actor Actor) ([]*ConventionSeries, error)
}
