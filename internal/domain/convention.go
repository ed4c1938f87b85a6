package domain

import (
	"context"
	"time"
)

// ConventionStatus is the lifecycle status of a convention.
type ConventionStatus string

const (
	StatusDraft     ConventionStatus = "DRAFT"
	StatusPublished ConventionStatus = "PUBLISHED"
	StatusPast      ConventionStatus = "PAST"
	StatusCancelled ConventionStatus = "CANCELLED"
)

// ValidStatus reports whether s is one of the known lifecycle statuses.
func ValidStatus(s ConventionStatus) bool {
	switch s {
	case StatusDraft, StatusPublished, StatusPast, StatusCancelled:
		return true
	}
	return false
}

// Convention is the root aggregate: a single convention event. It owns
// zero-or-one primary Venue, zero-or-many secondary Venues, zero-or-one
// primary Hotel, and zero-or-many additional Hotels.
// swagger:model Convention
type Convention struct {
	ID                       string           `json:"id"`
	SeriesID                 string           `json:"series_id"`
	Name                     string           `json:"name"`
	Slug                     string           `json:"slug"`
	StartDate                *time.Time       `json:"start_date"`
	EndDate                  *time.Time       `json:"end_date"`
	IsOneDayEvent            bool             `json:"is_one_day_event"`
	IsTBD                    bool             `json:"is_tbd"`
	City                     string           `json:"city"`
	StateAbbreviation        string           `json:"state_abbreviation"`
	StateName                string           `json:"state_name"`
	Country                  string           `json:"country"`
	DescriptionShort         string           `json:"description_short"`
	DescriptionMain          string           `json:"description_main"`
	WebsiteURL               string           `json:"website_url"`
	RegistrationURL          string           `json:"registration_url"`
	CoverImageURL            *string          `json:"cover_image_url"`
	ProfileImageURL          *string          `json:"profile_image_url"`
	Status                   ConventionStatus `json:"status"`
	GuestsStayAtPrimaryVenue bool             `json:"guests_stay_at_primary_venue"`
	DeletedAt                *time.Time       `json:"deleted_at,omitempty"`
	CreatedAt                time.Time        `json:"created_at"`
	UpdatedAt                time.Time        `json:"updated_at"`
}

// ConventionUpdate is the validated partial field set for a convention
// update. Pointer fields that are nil are left untouched, with one
// exception: on a full (non image-only) update, StartDate and EndDate are
// always written as given, nil meaning NULL (a TBD convention has no dates).
type ConventionUpdate struct {
	Name                     *string
	Slug                     *string
	SeriesID                 *string
	StartDate                *time.Time
	EndDate                  *time.Time
	IsOneDayEvent            *bool
	IsTBD                    *bool
	City                     *string
	StateAbbreviation        *string
	StateName                *string
	Country                  *string
	DescriptionShort         *string
	DescriptionMain          *string
	WebsiteURL               *string
	RegistrationURL          *string
	Status                   *ConventionStatus
	CoverImageURL            *string
	ProfileImageURL          *string
	GuestsStayAtPrimaryVenue *bool
	VenueHotel               *VenueHotelUpdate
}

// ImageOnly reports whether the update touches nothing but the cover and/or
// profile image URLs. Image-only saves short-circuit the reconciliation
// workflow: only the image columns and updated_at change.
func (u *ConventionUpdate) ImageOnly() bool {
	if u.CoverImageURL == nil && u.ProfileImageURL == nil {
		return false
	}
	return u.Name == nil && u.Slug == nil && u.SeriesID == nil &&
		u.StartDate == nil && u.EndDate == nil &&
		u.IsOneDayEvent == nil && u.IsTBD == nil &&
		u.City == nil && u.StateAbbreviation == nil && u.StateName == nil &&
		u.Country == nil && u.DescriptionShort == nil && u.DescriptionMain == nil &&
		u.WebsiteURL == nil && u.RegistrationURL == nil && u.Status == nil &&
		u.GuestsStayAtPrimaryVenue == nil && u.VenueHotel == nil
}

// VenueHotelUpdate is the nested venue/hotel section of a convention update.
type VenueHotelUpdate struct {
	PrimaryVenue             *VenueUpdate
	SecondaryVenues          []VenueUpdate
	GuestsStayAtPrimaryVenue bool
	PrimaryHotel             *HotelUpdate
	Hotels                   []HotelUpdate
}

// CatalogFilter holds the public catalog search parameters.
type CatalogFilter struct {
	Query      string
	Country    string
	Status     *ConventionStatus
	From       *time.Time
	To         *time.Time
	Pagination PaginationParams
}

// ConventionDetail bundles a convention with its resolved venue/hotel tree
// for the public detail view.
type ConventionDetail struct {
	Convention       *Convention `json:"convention"`
	PrimaryVenue     *Venue      `json:"primary_venue"`
	SecondaryVenues  []*Venue    `json:"secondary_venues"`
	PrimaryHotel     *Hotel      `json:"primary_hotel"`
	AdditionalHotels []*Hotel    `json:"additional_hotels"`
}

// ConventionRepository defines the interface for convention storage.
type ConventionRepository interface {
	Create(ctx context.Context, c *Convention) error
	GetByID(ctx context.Context, id string) (*Convention, error)
	GetBySlug(ctx context.Context, slug string) (*Convention, error)
	ListBySeriesIDs(ctx context.Context, seriesIDs []string) ([]*Convention, error)
	// Search returns the page of non-deleted, non-draft conventions matching
	// the filter, plus the total match count.
	Search(ctx context.Context, f CatalogFilter) ([]*Convention, int, error)
	// UpdateImages writes only the image columns and bumps updated_at.
	UpdateImages(ctx context.Context, id string, coverURL, profileURL *string) error
	// SoftDelete sets deleted_at and rewrites the slug so the original slug
	// is freed for reuse.
	SoftDelete(ctx context.Context, id, rewrittenSlug string) error
}

// ConventionTx is the set of persistence primitives available inside a
// single convention-update transaction. Every call operates on the same
// underlying transaction; if any call fails the whole update is rolled back.
type ConventionTx interface {
	UpdateConventionFields(ctx context.Context, id string, u ConventionUpdate) error

	CreateVenue(ctx context.Context, conventionID string, v VenueUpdate, isPrimary bool) (venueID string, err error)
	UpdateVenue(ctx context.Context, venueID string, v VenueUpdate, isPrimary bool) error
	ListSecondaryVenueIDs(ctx context.Context, conventionID string) ([]string, error)
	DeleteVenues(ctx context.Context, conventionID string, ids []string) error
	DeleteVenuePhotosExcept(ctx context.Context, venueID, keepPhotoID string) error
	UpsertVenuePhoto(ctx context.Context, venueID string, p VenuePhoto) error

	CreateHotel(ctx context.Context, conventionID string, h HotelUpdate, isPrimary bool) (hotelID string, err error)
	UpdateHotel(ctx context.Context, hotelID string, h HotelUpdate, isPrimary bool) error
	ListAdditionalHotelIDs(ctx context.Context, conventionID string) ([]string, error)
	DeleteHotels(ctx context.Context, conventionID string, ids []string) error
	// ClearPrimaryHotels clears is_primary_hotel on every hotel of the
	// convention except the one with exceptHotelID (pass "" to clear all).
	// The demoted hotels keep their rows; their ids are returned so the
	// collection sync can exempt them from deletion.
	ClearPrimaryHotels(ctx context.Context, conventionID, exceptHotelID string) ([]string, error)
	DeleteHotelPhotosExcept(ctx context.Context, hotelID, keepPhotoID string) error
	UpsertHotelPhoto(ctx context.Context, hotelID string, p HotelPhoto) error
}

// ConventionTxRunner runs fn inside one database transaction. A nil return
// from fn commits; any error rolls back and is returned.
type ConventionTxRunner interface {
	WithinUpdate(ctx context.Context, fn func(tx ConventionTx) error) error
}

// ConventionService defines organizer-facing convention operations.
type ConventionService interface {
	Create(ctx context.Context, actor Actor, c *Convention) error
	// Update runs the full reconciliation workflow and returns the
	// convention id on success.
	Update(ctx context.Context, actor Actor, conventionID string, u ConventionUpdate) (string, error)
	Delete(ctx context.Context, actor Actor, conventionID string) error
	ListOwn(ctx context.Context, actor Actor) ([]*Convention, error)
}

// CatalogService defines the public browse/search operations.
type CatalogService interface {
	Search(ctx context.Context, f CatalogFilter) ([]*Convention, int, error)
	GetBySlug(ctx context.Context, slug string) (*ConventionDetail, error)
}
