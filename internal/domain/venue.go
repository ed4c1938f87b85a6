package domain

import "context"

// Venue belongs to exactly one Convention. At most one venue per convention
// has IsPrimaryVenue set; the reconciliation workflow maintains that
// invariant.
// swagger:model Venue
type Venue struct {
	ID                  string       `json:"id"`
	ConventionID        string       `json:"convention_id"`
	IsPrimaryVenue      bool         `json:"is_primary_venue"`
	VenueName           string       `json:"venue_name"`
	Description         string       `json:"description"`
	WebsiteURL          string       `json:"website_url"`
	GoogleMapsURL       string       `json:"google_maps_url"`
	StreetAddress       string       `json:"street_address"`
	City                string       `json:"city"`
	State               string       `json:"state"`
	PostalCode          string       `json:"postal_code"`
	Country             string       `json:"country"`
	ContactEmail        string       `json:"contact_email"`
	ContactPhone        string       `json:"contact_phone"`
	Amenities           []string     `json:"amenities"`
	ParkingInfo         string       `json:"parking_info"`
	PublicTransportInfo string       `json:"public_transport_info"`
	AccessibilityNotes  string       `json:"accessibility_notes"`
	Photos              []VenuePhoto `json:"photos"`
}

// VenuePhoto is a photo attached to a venue. The reconciliation workflow
// keeps at most one photo per venue.
// swagger:model VenuePhoto
type VenuePhoto struct {
	ID      string  `json:"id"`
	VenueID string  `json:"venue_id"`
	URL     string  `json:"url"`
	Caption *string `json:"caption"`
}

// VenueUpdate is one venue entry of an update payload. An empty ID means the
// entry is new. MarkedForPrimaryPromotion requests that this entry replace
// the current primary venue; at most one entry per request may set it.
type VenueUpdate struct {
	ID                        string
	MarkedForPrimaryPromotion bool
	VenueName                 string
	Description               string
	WebsiteURL                string
	GoogleMapsURL             string
	StreetAddress             string
	City                      string
	State                     string
	PostalCode                string
	Country                   string
	ContactEmail              string
	ContactPhone              string
	Amenities                 []string
	ParkingInfo               string
	PublicTransportInfo       string
	AccessibilityNotes        string
	Photos                    []PhotoUpdate
}

// PhotoUpdate is the photo entry of a venue or hotel update payload. An
// empty URL means "remove the photo".
type PhotoUpdate struct {
	ID      string
	URL     string
	Caption *string
}

// VenueRepository defines read access to venues outside the update
// transaction (catalog detail views). Photos are loaded on each venue.
type VenueRepository interface {
	ListByConventionID(ctx context.Context, conventionID string) ([]*Venue, error)
}
