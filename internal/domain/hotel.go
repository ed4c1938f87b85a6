package domain

import (
	"context"
	"time"
)

// Hotel belongs to exactly one Convention. At most one hotel per convention
// has IsPrimaryHotel set, and none may have it while the convention's
// guests-stay-at-primary-venue flag is true.
// swagger:model Hotel
type Hotel struct {
	ID                  string       `json:"id"`
	ConventionID        string       `json:"convention_id"`
	IsPrimaryHotel      bool         `json:"is_primary_hotel"`
	HotelName           string       `json:"hotel_name"`
	Description         string       `json:"description"`
	WebsiteURL          string       `json:"website_url"`
	GoogleMapsURL       string       `json:"google_maps_url"`
	BookingLink         string       `json:"booking_link"`
	BookingCutoffDate   *time.Time   `json:"booking_cutoff_date"`
	GroupRateCode       string       `json:"group_rate_code"`
	GroupPrice          string       `json:"group_price"`
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
	Photos              []HotelPhoto `json:"photos"`
}

// HotelPhoto is a photo attached to a hotel. The reconciliation workflow
// keeps at most one photo per hotel.
// swagger:model HotelPhoto
type HotelPhoto struct {
	ID      string  `json:"id"`
	HotelID string  `json:"hotel_id"`
	URL     string  `json:"url"`
	Caption *string `json:"caption"`
}

// HotelUpdate is one hotel entry of an update payload. An empty ID means the
// entry is new.
type HotelUpdate struct {
	ID                  string
	HotelName           string
	Description         string
	WebsiteURL          string
	GoogleMapsURL       string
	BookingLink         string
	BookingCutoffDate   *time.Time
	GroupRateCode       string
	GroupPrice          string
	StreetAddress       string
	City                string
	State               string
	PostalCode          string
	Country             string
	ContactEmail        string
	ContactPhone        string
	Amenities           []string
	ParkingInfo         string
	PublicTransportInfo string
	AccessibilityNotes  string
	Photos              []PhotoUpdate
}

// HotelRepository defines read access to hotels outside the update
// transaction (catalog detail views). Photos are loaded on each hotel.
type HotelRepository interface {
	ListByConventionID(ctx context.Context, conventionID string) ([]*Hotel, error)
}
