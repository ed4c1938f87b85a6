package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"conventionlist/internal/domain"
)

type txRunner struct {
	DB *sql.DB
}

// NewConventionTxRunner returns a domain.ConventionTxRunner backed by
// database/sql transactions. The transaction is the unit of atomicity for
// the whole update workflow: any error from fn rolls back every write.
func NewConventionTxRunner(db *sql.DB) domain.ConventionTxRunner {
	return &txRunner{DB: db}
}

func (r *txRunner) WithinUpdate(ctx context.Context, fn func(tx domain.ConventionTx) error) error {
	sqlTx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(&conventionTx{tx: sqlTx}); err != nil {
		_ = sqlTx.Rollback()
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// conventionTx implements domain.ConventionTx on a single *sql.Tx.
type conventionTx struct {
	tx *sql.Tx
}

func (t *conventionTx) UpdateConventionFields(ctx context.Context, id string, u domain.ConventionUpdate) error {
	// Dates are always written on a full update: a nil pointer writes NULL
	// (a TBD convention has no dates).
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	set := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	set("start_date", u.StartDate)
	set("end_date", u.EndDate)
	if u.Name != nil {
		set("name", *u.Name)
	}
	if u.Slug != nil {
		set("slug", *u.Slug)
	}
	if u.SeriesID != nil {
		set("series_id", *u.SeriesID)
	}
	if u.IsOneDayEvent != nil {
		set("is_one_day_event", *u.IsOneDayEvent)
	}
	if u.IsTBD != nil {
		set("is_tbd", *u.IsTBD)
	}
	if u.City != nil {
		set("city", *u.City)
	}
	if u.StateAbbreviation != nil {
		set("state_abbreviation", *u.StateAbbreviation)
	}
	if u.StateName != nil {
		set("state_name", *u.StateName)
	}
	if u.Country != nil {
		set("country", *u.Country)
	}
	if u.DescriptionShort != nil {
		set("description_short", *u.DescriptionShort)
	}
	if u.DescriptionMain != nil {
		set("description_main", *u.DescriptionMain)
	}
	if u.WebsiteURL != nil {
		set("website_url", *u.WebsiteURL)
	}
	if u.RegistrationURL != nil {
		set("registration_url", *u.RegistrationURL)
	}
	if u.Status != nil {
		set("status", string(*u.Status))
	}
	if u.CoverImageURL != nil {
		set("cover_image_url", *u.CoverImageURL)
	}
	if u.ProfileImageURL != nil {
		set("profile_image_url", *u.ProfileImageURL)
	}
	if u.GuestsStayAtPrimaryVenue != nil {
		set("guests_stay_at_primary_venue", *u.GuestsStayAtPrimaryVenue)
	}
	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE conventions SET %s
		WHERE id = $%d AND deleted_at IS NULL
	`, strings.Join(setClauses, ", "), n)
	result, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *conventionTx) CreateVenue(ctx context.Context, conventionID string, v domain.VenueUpdate, isPrimary bool) (string, error) {
	query := `
		INSERT INTO venues (convention_id, is_primary_venue, venue_name, description, website_url,
			google_maps_url, street_address, city, state, postal_code, country, contact_email,
			contact_phone, amenities, parking_info, public_transport_info, accessibility_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id
	`
	var id string
	err := t.tx.QueryRowContext(ctx, query,
		conventionID, isPrimary, v.VenueName, v.Description, v.WebsiteURL,
		v.GoogleMapsURL, v.StreetAddress, v.City, v.State, v.PostalCode, v.Country, v.ContactEmail,
		v.ContactPhone, pq.Array(v.Amenities), v.ParkingInfo, v.PublicTransportInfo, v.AccessibilityNotes,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (t *conventionTx) UpdateVenue(ctx context.Context, venueID string, v domain.VenueUpdate, isPrimary bool) error {
	query := `
		UPDATE venues
		SET is_primary_venue = $1, venue_name = $2, description = $3, website_url = $4,
			google_maps_url = $5, street_address = $6, city = $7, state = $8, postal_code = $9,
			country = $10, contact_email = $11, contact_phone = $12, amenities = $13,
			parking_info = $14, public_transport_info = $15, accessibility_notes = $16
		WHERE id = $17
	`
	result, err := t.tx.ExecContext(ctx, query,
		isPrimary, v.VenueName, v.Description, v.WebsiteURL,
		v.GoogleMapsURL, v.StreetAddress, v.City, v.State, v.PostalCode,
		v.Country, v.ContactEmail, v.ContactPhone, pq.Array(v.Amenities),
		v.ParkingInfo, v.PublicTransportInfo, v.AccessibilityNotes, venueID,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *conventionTx) ListSecondaryVenueIDs(ctx context.Context, conventionID string) ([]string, error) {
	query := `SELECT id FROM venues WHERE convention_id = $1 AND is_primary_venue = FALSE`
	return t.listIDs(ctx, query, conventionID)
}

func (t *conventionTx) DeleteVenues(ctx context.Context, conventionID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `DELETE FROM venues WHERE convention_id = $1 AND id = ANY($2)`
	_, err := t.tx.ExecContext(ctx, query, conventionID, pq.Array(ids))
	return err
}

func (t *conventionTx) DeleteVenuePhotosExcept(ctx context.Context, venueID, keepPhotoID string) error {
	if keepPhotoID == "" {
		_, err := t.tx.ExecContext(ctx, `DELETE FROM venue_photos WHERE venue_id = $1`, venueID)
		return err
	}
	_, err := t.tx.ExecContext(ctx, `DELETE FROM venue_photos WHERE venue_id = $1 AND id <> $2`, venueID, keepPhotoID)
	return err
}

func (t *conventionTx) UpsertVenuePhoto(ctx context.Context, venueID string, p domain.VenuePhoto) error {
	query := `
		INSERT INTO venue_photos (id, venue_id, url, caption)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET url = EXCLUDED.url, caption = EXCLUDED.caption
	`
	_, err := t.tx.ExecContext(ctx, query, p.ID, venueID, p.URL, p.Caption)
	return err
}

func (t *conventionTx) CreateHotel(ctx context.Context, conventionID string, h domain.HotelUpdate, isPrimary bool) (string, error) {
	query := `
		INSERT INTO hotels (convention_id, is_primary_hotel, hotel_name, description, website_url,
			google_maps_url, booking_link, booking_cutoff_date, group_rate_code, group_price,
			street_address, city, state, postal_code, country, contact_email, contact_phone,
			amenities, parking_info, public_transport_info, accessibility_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING id
	`
	var id string
	err := t.tx.QueryRowContext(ctx, query,
		conventionID, isPrimary, h.HotelName, h.Description, h.WebsiteURL,
		h.GoogleMapsURL, h.BookingLink, h.BookingCutoffDate, h.GroupRateCode, h.GroupPrice,
		h.StreetAddress, h.City, h.State, h.PostalCode, h.Country, h.ContactEmail, h.ContactPhone,
		pq.Array(h.Amenities), h.ParkingInfo, h.PublicTransportInfo, h.AccessibilityNotes,
	).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (t *conventionTx) UpdateHotel(ctx context.Context, hotelID string, h domain.HotelUpdate, isPrimary bool) error {
	query := `
		UPDATE hotels
		SET is_primary_hotel = $1, hotel_name = $2, description = $3, website_url = $4,
			google_maps_url = $5, booking_link = $6, booking_cutoff_date = $7,
			group_rate_code = $8, group_price = $9, street_address = $10, city = $11,
			state = $12, postal_code = $13, country = $14, contact_email = $15,
			contact_phone = $16, amenities = $17, parking_info = $18,
			public_transport_info = $19, accessibility_notes = $20
		WHERE id = $21
	`
	result, err := t.tx.ExecContext(ctx, query,
		isPrimary, h.HotelName, h.Description, h.WebsiteURL,
		h.GoogleMapsURL, h.BookingLink, h.BookingCutoffDate,
		h.GroupRateCode, h.GroupPrice, h.StreetAddress, h.City,
		h.State, h.PostalCode, h.Country, h.ContactEmail,
		h.ContactPhone, pq.Array(h.Amenities), h.ParkingInfo,
		h.PublicTransportInfo, h.AccessibilityNotes, hotelID,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *conventionTx) ListAdditionalHotelIDs(ctx context.Context, conventionID string) ([]string, error) {
	query := `SELECT id FROM hotels WHERE convention_id = $1 AND is_primary_hotel = FALSE`
	return t.listIDs(ctx, query, conventionID)
}

func (t *conventionTx) DeleteHotels(ctx context.Context, conventionID string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	query := `DELETE FROM hotels WHERE convention_id = $1 AND id = ANY($2)`
	_, err := t.tx.ExecContext(ctx, query, conventionID, pq.Array(ids))
	return err
}

func (t *conventionTx) ClearPrimaryHotels(ctx context.Context, conventionID, exceptHotelID string) ([]string, error) {
	if exceptHotelID == "" {
		query := `UPDATE hotels SET is_primary_hotel = FALSE WHERE convention_id = $1 AND is_primary_hotel = TRUE RETURNING id`
		return t.listIDs(ctx, query, conventionID)
	}
	query := `UPDATE hotels SET is_primary_hotel = FALSE WHERE convention_id = $1 AND is_primary_hotel = TRUE AND id <> $2 RETURNING id`
	return t.listIDs(ctx, query, conventionID, exceptHotelID)
}

func (t *conventionTx) DeleteHotelPhotosExcept(ctx context.Context, hotelID, keepPhotoID string) error {
	if keepPhotoID == "" {
		_, err := t.tx.ExecContext(ctx, `DELETE FROM hotel_photos WHERE hotel_id = $1`, hotelID)
		return err
	}
	_, err := t.tx.ExecContext(ctx, `DELETE FROM hotel_photos WHERE hotel_id = $1 AND id <> $2`, hotelID, keepPhotoID)
	return err
}

func (t *conventionTx) UpsertHotelPhoto(ctx context.Context, hotelID string, p domain.HotelPhoto) error {
	query := `
		INSERT INTO hotel_photos (id, hotel_id, url, caption)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET url = EXCLUDED.url, caption = EXCLUDED.caption
	`
	_, err := t.tx.ExecContext(ctx, query, p.ID, hotelID, p.URL, p.Caption)
	return err
}

func (t *conventionTx) listIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
