package controllers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"conventionlist/internal/delivery/http/helpers"
	"conventionlist/internal/delivery/http/middleware"
	"conventionlist/internal/domain"
)

// dateLayout is the wire format for convention and hotel dates.
const dateLayout = "2006-01-02"

// PhotoPayload is a photo entry in a venue or hotel payload. An empty or
// omitted url removes the photo. An id matching an existing photo updates
// it in place; an unknown or missing id creates a new photo.
type PhotoPayload struct {
	ID      string  `json:"id"`
	URL     string  `json:"url"`
	Caption *string `json:"caption"`
}

// VenuePayload is a venue entry in the venue_hotel section of an update.
type VenuePayload struct {
	ID                        string         `json:"id"`
	MarkedForPrimaryPromotion bool           `json:"marked_for_primary_promotion"`
	VenueName                 string         `json:"venue_name"`
	Description               string         `json:"description"`
	WebsiteURL                string         `json:"website_url"`
	GoogleMapsURL             string         `json:"google_maps_url"`
	StreetAddress             string         `json:"street_address"`
	City                      string         `json:"city"`
	State                     string         `json:"state"`
	PostalCode                string         `json:"postal_code"`
	Country                   string         `json:"country"`
	ContactEmail              string         `json:"contact_email"`
	ContactPhone              string         `json:"contact_phone"`
	Amenities                 []string       `json:"amenities"`
	ParkingInfo               string         `json:"parking_info"`
	PublicTransportInfo       string         `json:"public_transport_info"`
	AccessibilityNotes        string         `json:"accessibility_notes"`
	Photos                    []PhotoPayload `json:"photos"`
}

// HotelPayload is a hotel entry in the venue_hotel section of an update.
type HotelPayload struct {
	ID                  string         `json:"id"`
	HotelName           string         `json:"hotel_name"`
	Description         string         `json:"description"`
	WebsiteURL          string         `json:"website_url"`
	GoogleMapsURL       string         `json:"google_maps_url"`
	BookingLink         string         `json:"booking_link"`
	BookingCutoffDate   *string        `json:"booking_cutoff_date"`
	GroupRateCode       string         `json:"group_rate_code"`
	GroupPrice          string         `json:"group_price"`
	StreetAddress       string         `json:"street_address"`
	City                string         `json:"city"`
	State               string         `json:"state"`
	PostalCode          string         `json:"postal_code"`
	Country             string         `json:"country"`
	ContactEmail        string         `json:"contact_email"`
	ContactPhone        string         `json:"contact_phone"`
	Amenities           []string       `json:"amenities"`
	ParkingInfo         string         `json:"parking_info"`
	PublicTransportInfo string         `json:"public_transport_info"`
	AccessibilityNotes  string         `json:"accessibility_notes"`
	Photos              []PhotoPayload `json:"photos"`
}

// VenueHotelPayload is the nested venue/hotel section of an update request.
type VenueHotelPayload struct {
	PrimaryVenue             *VenuePayload  `json:"primary_venue"`
	SecondaryVenues          []VenuePayload `json:"secondary_venues"`
	GuestsStayAtPrimaryVenue bool           `json:"guests_stay_at_primary_venue"`
	PrimaryHotelDetails      *HotelPayload  `json:"primary_hotel_details"`
	Hotels                   []HotelPayload `json:"hotels"`
}

// CreateConventionRequest is the request body for POST /organizer/conventions.
type CreateConventionRequest struct {
	Name              string  `json:"name"`
	SeriesID          string  `json:"series_id"`
	StartDate         *string `json:"start_date"`
	EndDate           *string `json:"end_date"`
	IsOneDayEvent     bool    `json:"is_one_day_event"`
	IsTBD             bool    `json:"is_tbd"`
	City              string  `json:"city"`
	StateAbbreviation string  `json:"state_abbreviation"`
	StateName         string  `json:"state_name"`
	Country           string  `json:"country"`
	DescriptionShort  string  `json:"description_short"`
	DescriptionMain   string  `json:"description_main"`
	WebsiteURL        string  `json:"website_url"`
	RegistrationURL   string  `json:"registration_url"`
	Status            *string `json:"status"`
}

// Validate implements Validator.
func (c CreateConventionRequest) Validate() []string {
	var errs []string
	if c.Name == "" {
		errs = append(errs, "name is required")
	}
	if c.SeriesID == "" {
		errs = append(errs, "series_id is required")
	}
	errs = append(errs, validateDate("start_date", c.StartDate)...)
	errs = append(errs, validateDate("end_date", c.EndDate)...)
	if c.Status != nil && !domain.ValidStatus(domain.ConventionStatus(*c.Status)) {
		errs = append(errs, fmt.Sprintf("status %q is not valid", *c.Status))
	}
	return errs
}

// UpdateConventionRequest is the request body for PUT /organizer/conventions/{conventionID}.
// All fields are optional; omitted fields are left unchanged, except start_date
// and end_date which are written as given on any non image-only update (an
// omitted date clears the column, so a TBD convention ends up with no dates).
// A request carrying only cover_image_url and/or profile_image_url is treated
// as an image-only save and skips the venue/hotel workflow entirely.
type UpdateConventionRequest struct {
	Name              *string            `json:"name"`
	Slug              *string            `json:"slug"`
	SeriesID          *string            `json:"series_id"`
	StartDate         *string            `json:"start_date"`
	EndDate           *string            `json:"end_date"`
	IsOneDayEvent     *bool              `json:"is_one_day_event"`
	IsTBD             *bool              `json:"is_tbd"`
	City              *string            `json:"city"`
	StateAbbreviation *string            `json:"state_abbreviation"`
	StateName         *string            `json:"state_name"`
	Country           *string            `json:"country"`
	DescriptionShort  *string            `json:"description_short"`
	DescriptionMain   *string            `json:"description_main"`
	WebsiteURL        *string            `json:"website_url"`
	RegistrationURL   *string            `json:"registration_url"`
	Status            *string            `json:"status"`
	CoverImageURL     *string            `json:"cover_image_url"`
	ProfileImageURL   *string            `json:"profile_image_url"`
	VenueHotel        *VenueHotelPayload `json:"venue_hotel"`
}

// Validate implements Validator.
func (u UpdateConventionRequest) Validate() []string {
	var errs []string
	if u.Name != nil && *u.Name == "" {
		errs = append(errs, "name cannot be empty")
	}
	if u.Slug != nil && *u.Slug == "" {
		errs = append(errs, "slug cannot be empty")
	}
	errs = append(errs, validateDate("start_date", u.StartDate)...)
	errs = append(errs, validateDate("end_date", u.EndDate)...)
	if u.Status != nil && !domain.ValidStatus(domain.ConventionStatus(*u.Status)) {
		errs = append(errs, fmt.Sprintf("status %q is not valid", *u.Status))
	}
	if u.VenueHotel != nil {
		errs = append(errs, u.VenueHotel.validate()...)
	}
	return errs
}

func (vh VenueHotelPayload) validate() []string {
	var errs []string
	marks := 0
	if vh.PrimaryVenue != nil {
		if vh.PrimaryVenue.VenueName == "" {
			errs = append(errs, "venue_hotel.primary_venue.venue_name is required")
		}
		if vh.PrimaryVenue.MarkedForPrimaryPromotion {
			marks++
		}
	}
	for i, v := range vh.SecondaryVenues {
		if v.VenueName == "" {
			errs = append(errs, fmt.Sprintf("venue_hotel.secondary_venues[%d].venue_name is required", i))
		}
		if v.MarkedForPrimaryPromotion {
			marks++
		}
	}
	if marks > 1 {
		errs = append(errs, "at most one venue can be marked for primary promotion")
	}
	if vh.PrimaryHotelDetails != nil {
		if vh.PrimaryHotelDetails.HotelName == "" {
			errs = append(errs, "venue_hotel.primary_hotel_details.hotel_name is required")
		}
		errs = append(errs, validateDate("venue_hotel.primary_hotel_details.booking_cutoff_date", vh.PrimaryHotelDetails.BookingCutoffDate)...)
	}
	for i, h := range vh.Hotels {
		if h.HotelName == "" {
			errs = append(errs, fmt.Sprintf("venue_hotel.hotels[%d].hotel_name is required", i))
		}
		errs = append(errs, validateDate(fmt.Sprintf("venue_hotel.hotels[%d].booking_cutoff_date", i), h.BookingCutoffDate)...)
	}
	return errs
}

func validateDate(field string, s *string) []string {
	if s == nil || *s == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, *s); err != nil {
		return []string{fmt.Sprintf("%s must be in YYYY-MM-DD format", field)}
	}
	return nil
}

// parseDate converts a validated date string to *time.Time. nil or empty in,
// nil out.
func parseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, _ := time.Parse(dateLayout, *s)
	return &t
}

func (p PhotoPayload) toDomain() domain.PhotoUpdate {
	return domain.PhotoUpdate{ID: p.ID, URL: p.URL, Caption: p.Caption}
}

func photosToDomain(payloads []PhotoPayload) []domain.PhotoUpdate {
	if len(payloads) == 0 {
		return nil
	}
	out := make([]domain.PhotoUpdate, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, p.toDomain())
	}
	return out
}

func (v VenuePayload) toDomain() domain.VenueUpdate {
	return domain.VenueUpdate{
		ID:                        v.ID,
		MarkedForPrimaryPromotion: v.MarkedForPrimaryPromotion,
		VenueName:                 v.VenueName,
		Description:               v.Description,
		WebsiteURL:                v.WebsiteURL,
		GoogleMapsURL:             v.GoogleMapsURL,
		StreetAddress:             v.StreetAddress,
		City:                      v.City,
		State:                     v.State,
		PostalCode:                v.PostalCode,
		Country:                   v.Country,
		ContactEmail:              v.ContactEmail,
		ContactPhone:              v.ContactPhone,
		Amenities:                 v.Amenities,
		ParkingInfo:               v.ParkingInfo,
		PublicTransportInfo:       v.PublicTransportInfo,
		AccessibilityNotes:        v.AccessibilityNotes,
		Photos:                    photosToDomain(v.Photos),
	}
}

func (h HotelPayload) toDomain() domain.HotelUpdate {
	return domain.HotelUpdate{
		ID:                  h.ID,
		HotelName:           h.HotelName,
		Description:         h.Description,
		WebsiteURL:          h.WebsiteURL,
		GoogleMapsURL:       h.GoogleMapsURL,
		BookingLink:         h.BookingLink,
		BookingCutoffDate:   parseDate(h.BookingCutoffDate),
		GroupRateCode:       h.GroupRateCode,
		GroupPrice:          h.GroupPrice,
		StreetAddress:       h.StreetAddress,
		City:                h.City,
		State:               h.State,
		PostalCode:          h.PostalCode,
		Country:             h.Country,
		ContactEmail:        h.ContactEmail,
		ContactPhone:        h.ContactPhone,
		Amenities:           h.Amenities,
		ParkingInfo:         h.ParkingInfo,
		PublicTransportInfo: h.PublicTransportInfo,
		AccessibilityNotes:  h.AccessibilityNotes,
		Photos:              photosToDomain(h.Photos),
	}
}

func (u UpdateConventionRequest) toDomain() domain.ConventionUpdate {
	upd := domain.ConventionUpdate{
		Name:              u.Name,
		Slug:              u.Slug,
		SeriesID:          u.SeriesID,
		StartDate:         parseDate(u.StartDate),
		EndDate:           parseDate(u.EndDate),
		IsOneDayEvent:     u.IsOneDayEvent,
		IsTBD:             u.IsTBD,
		City:              u.City,
		StateAbbreviation: u.StateAbbreviation,
		StateName:         u.StateName,
		Country:           u.Country,
		DescriptionShort:  u.DescriptionShort,
		DescriptionMain:   u.DescriptionMain,
		WebsiteURL:        u.WebsiteURL,
		RegistrationURL:   u.RegistrationURL,
		CoverImageURL:     u.CoverImageURL,
		ProfileImageURL:   u.ProfileImageURL,
	}
	if u.Status != nil {
		st := domain.ConventionStatus(*u.Status)
		upd.Status = &st
	}
	if u.VenueHotel != nil {
		vh := domain.VenueHotelUpdate{
			GuestsStayAtPrimaryVenue: u.VenueHotel.GuestsStayAtPrimaryVenue,
		}
		upd.GuestsStayAtPrimaryVenue = &u.VenueHotel.GuestsStayAtPrimaryVenue
		if u.VenueHotel.PrimaryVenue != nil {
			pv := u.VenueHotel.PrimaryVenue.toDomain()
			vh.PrimaryVenue = &pv
		}
		for _, v := range u.VenueHotel.SecondaryVenues {
			vh.SecondaryVenues = append(vh.SecondaryVenues, v.toDomain())
		}
		if u.VenueHotel.PrimaryHotelDetails != nil {
			ph := u.VenueHotel.PrimaryHotelDetails.toDomain()
			vh.PrimaryHotel = &ph
		}
		for _, h := range u.VenueHotel.Hotels {
			vh.Hotels = append(vh.Hotels, h.toDomain())
		}
		upd.VenueHotel = &vh
	}
	return upd
}

// UpdateConventionResponse is the success payload for PUT /organizer/conventions/{conventionID}.
type UpdateConventionResponse struct {
	ID string `json:"id"`
}

// ConventionController serves the organizer-facing convention endpoints.
type ConventionController struct {
	Logger  *slog.Logger
	Service domain.ConventionService
}

func NewConventionController(logger *slog.Logger, svc domain.ConventionService) *ConventionController {
	return &ConventionController{Logger: logger, Service: svc}
}

// Create godoc
// @Summary Create a convention
// @Description Create a convention in one of the caller's series. The slug is generated from the name; status defaults to DRAFT.
// @Tags organizer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param convention body CreateConventionRequest true "Convention data"
// @Success 201 {object} helpers.APIResponse "data contains the created convention"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizer/conventions [post]
func (c *ConventionController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateConventionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	conv := &domain.Convention{
		SeriesID:          req.SeriesID,
		Name:              req.Name,
		StartDate:         parseDate(req.StartDate),
		EndDate:           parseDate(req.EndDate),
		IsOneDayEvent:     req.IsOneDayEvent,
		IsTBD:             req.IsTBD,
		City:              req.City,
		StateAbbreviation: req.StateAbbreviation,
		StateName:         req.StateName,
		Country:           req.Country,
		DescriptionShort:  req.DescriptionShort,
		DescriptionMain:   req.DescriptionMain,
		WebsiteURL:        req.WebsiteURL,
		RegistrationURL:   req.RegistrationURL,
	}
	if req.Status != nil {
		conv.Status = domain.ConventionStatus(*req.Status)
	}
	if err := c.Service.Create(r.Context(), actor, conv); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, conv)
}

// Update godoc
// @Summary Update a convention
// @Description Apply a partial update to a convention and reconcile its venue/hotel tree in one transaction. A body carrying only image URLs performs an image-only save.
// @Tags organizer
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param conventionID path string true "Convention ID (UUID)"
// @Param update body UpdateConventionRequest true "Partial update"
// @Success 200 {object} helpers.APIResponse "data contains the convention id"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizer/conventions/{conventionID} [put]
func (c *ConventionController) Update(w http.ResponseWriter, r *http.Request) {
	conventionID := r.PathValue("conventionID")
	if conventionID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing conventionID")
		return
	}
	var req UpdateConventionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	id, err := c.Service.Update(r.Context(), actor, conventionID, req.toDomain())
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, UpdateConventionResponse{ID: id})
}

// Delete godoc
// @Summary Delete a convention
// @Description Soft-delete a convention. The record is hidden from all listings and its slug is released for reuse.
// @Tags organizer
// @Produce json
// @Security BearerAuth
// @Param conventionID path string true "Convention ID (UUID)"
// @Success 204 "no content"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizer/conventions/{conventionID} [delete]
func (c *ConventionController) Delete(w http.ResponseWriter, r *http.Request) {
	conventionID := r.PathValue("conventionID")
	if conventionID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing conventionID")
		return
	}
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Service.Delete(r.Context(), actor, conventionID); err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListOwn godoc
// @Summary List own conventions
// @Description List the conventions in all series owned by the caller, including drafts.
// @Tags organizer
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the caller's conventions"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /organizer/conventions [get]
func (c *ConventionController) ListOwn(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	conventions, err := c.Service.ListOwn(r.Context(), actor)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, conventions)
}

func (c *ConventionController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "convention not found")
	case errors.Is(err, domain.ErrForbidden):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, "not allowed")
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrDuplicateSlug):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "slug already in use")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, err.Error())
	}
}
