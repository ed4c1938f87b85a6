package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"conventionlist/internal/domain"
)

type venueRepository struct {
	DB *sql.DB
}

func NewVenueRepository(db *sql.DB) domain.VenueRepository {
	return &venueRepository{DB: db}
}

func (r *venueRepository) ListByConventionID(ctx context.Context, conventionID string) ([]*domain.Venue, error) {
	query := `
		SELECT id, convention_id, is_primary_venue, venue_name, description, website_url,
			google_maps_url, street_address, city, state, postal_code, country, contact_email,
			contact_phone, amenities, parking_info, public_transport_info, accessibility_notes
		FROM venues
		WHERE convention_id = $1
		ORDER BY is_primary_venue DESC, venue_name ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, conventionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	venues := make([]*domain.Venue, 0)
	byID := make(map[string]*domain.Venue)
	for rows.Next() {
		v := &domain.Venue{Photos: []domain.VenuePhoto{}}
		if err := rows.Scan(
			&v.ID, &v.ConventionID, &v.IsPrimaryVenue, &v.VenueName, &v.Description, &v.WebsiteURL,
			&v.GoogleMapsURL, &v.StreetAddress, &v.City, &v.State, &v.PostalCode, &v.Country, &v.ContactEmail,
			&v.ContactPhone, pq.Array(&v.Amenities), &v.ParkingInfo, &v.PublicTransportInfo, &v.AccessibilityNotes,
		); err != nil {
			return nil, err
		}
		venues = append(venues, v)
		byID[v.ID] = v
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(venues) == 0 {
		return venues, nil
	}

	photoQuery := `
		SELECT p.id, p.venue_id, p.url, p.caption
		FROM venue_photos p
		INNER JOIN venues v ON v.id = p.venue_id
		WHERE v.convention_id = $1
	`
	photoRows, err := r.DB.QueryContext(ctx, photoQuery, conventionID)
	if err != nil {
		return nil, err
	}
	defer photoRows.Close()
	for photoRows.Next() {
		var p domain.VenuePhoto
		var captionNull sql.NullString
		if err := photoRows.Scan(&p.ID, &p.VenueID, &p.URL, &captionNull); err != nil {
			return nil, err
		}
		if captionNull.Valid {
			p.Caption = &captionNull.String
		}
		if v, ok := byID[p.VenueID]; ok {
			v.Photos = append(v.Photos, p)
		}
	}
	return venues, photoRows.Err()
}
