package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"conventionlist/internal/domain"
)

type hotelRepository struct {
	DB *sql.DB
}

func NewHotelRepository(db *sql.DB) domain.HotelRepository {
	return &hotelRepository{DB: db}
}

func (r *hotelRepository) ListByConventionID(ctx context.Context, conventionID string) ([]*domain.Hotel, error) {
	query := `
		SELECT id, convention_id, is_primary_hotel, hotel_name, description, website_url,
			google_maps_url, booking_link, booking_cutoff_date, group_rate_code, group_price,
			street_address, city, state, postal_code, country, contact_email, contact_phone,
			amenities, parking_info, public_transport_info, accessibility_notes
		FROM hotels
		WHERE convention_id = $1
		ORDER BY is_primary_hotel DESC, hotel_name ASC
	`
	rows, err := r.DB.QueryContext(ctx, query, conventionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	hotels := make([]*domain.Hotel, 0)
	byID := make(map[string]*domain.Hotel)
	for rows.Next() {
		h := &domain.Hotel{Photos: []domain.HotelPhoto{}}
		var cutoffNull sql.NullTime
		if err := rows.Scan(
			&h.ID, &h.ConventionID, &h.IsPrimaryHotel, &h.HotelName, &h.Description, &h.WebsiteURL,
			&h.GoogleMapsURL, &h.BookingLink, &cutoffNull, &h.GroupRateCode, &h.GroupPrice,
			&h.StreetAddress, &h.City, &h.State, &h.PostalCode, &h.Country, &h.ContactEmail, &h.ContactPhone,
			pq.Array(&h.Amenities), &h.ParkingInfo, &h.PublicTransportInfo, &h.AccessibilityNotes,
		); err != nil {
			return nil, err
		}
		if cutoffNull.Valid {
			h.BookingCutoffDate = &cutoffNull.Time
		}
		hotels = append(hotels, h)
		byID[h.ID] = h
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(hotels) == 0 {
		return hotels, nil
	}

	photoQuery := `
		SELECT p.id, p.hotel_id, p.url, p.caption
		FROM hotel_photos p
		INNER JOIN hotels h ON h.id = p.hotel_id
		WHERE h.convention_id = $1
	`
	photoRows, err := r.DB.QueryContext(ctx, photoQuery, conventionID)
	if err != nil {
		return nil, err
	}
	defer photoRows.Close()
	for photoRows.Next() {
		var p domain.HotelPhoto
		var captionNull sql.NullString
		if err := photoRows.Scan(&p.ID, &p.HotelID, &p.URL, &captionNull); err != nil {
			return nil, err
		}
		if captionNull.Valid {
			p.Caption = &captionNull.String
		}
		if h, ok := byID[p.HotelID]; ok {
			h.Photos = append(h.Photos, p)
		}
	}
	return hotels, photoRows.Err()
}
