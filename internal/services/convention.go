package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"conventionlist/internal/domain"
	"conventionlist/internal/monitoring"
)

type conventionService struct {
	conventionRepo domain.ConventionRepository
	seriesRepo     domain.SeriesRepository
	txRunner       domain.ConventionTxRunner
	logger         *slog.Logger
	contextTimeout time.Duration
	newID          func() string
}

func NewConventionService(conventionRepo domain.ConventionRepository,
	seriesRepo domain.SeriesRepository,
	txRunner domain.ConventionTxRunner,
	logger *slog.Logger,
	timeout time.Duration,
) domain.ConventionService {
	return &conventionService{
		conventionRepo: conventionRepo,
		seriesRepo:     seriesRepo,
		txRunner:       txRunner,
		logger:         logger,
		contextTimeout: timeout,
		newID:          uuid.NewString,
	}
}

func (s *conventionService) Create(ctx context.Context, actor domain.Actor, c *domain.Convention) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if c.SeriesID == "" {
		return fmt.Errorf("%w: series is required", domain.ErrInvalidInput)
	}
	if c.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	series, err := s.seriesRepo.GetByID(ctx, c.SeriesID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get series: %w", err)
	}
	if !actor.IsAdmin() && (series.OrganizerID != actor.ID || !actor.HasRole(domain.RoleOrganizer)) {
		return domain.ErrForbidden
	}

	if c.Slug == "" {
		c.Slug = Slugify(c.Name)
	}
	if c.Status == "" {
		c.Status = domain.StatusDraft
	}
	if !domain.ValidStatus(c.Status) {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, c.Status)
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = time.Now()

	err = s.conventionRepo.Create(ctx, c)
	if errors.Is(err, domain.ErrDuplicateSlug) {
		// Retry once with a random suffix before giving up.
		suffix, sErr := generateShortCode()
		if sErr != nil {
			return fmt.Errorf("generate slug suffix: %w", sErr)
		}
		c.Slug = c.Slug + "-" + suffix
		err = s.conventionRepo.Create(ctx, c)
	}
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateSlug) {
			return domain.ErrDuplicateSlug
		}
		return fmt.Errorf("create convention: %w", err)
	}
	return nil
}

// Update applies a convention update: scalar fields first, then the primary
// venue/hotel reconciliation, then the secondary venue and additional hotel
// collection sync, all inside one transaction. Image-only updates
// short-circuit and touch nothing but the image columns and updated_at.
func (s *conventionService) Update(ctx context.Context, actor domain.Actor, conventionID string, u domain.ConventionUpdate) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conv, err := s.authorize(ctx, actor, conventionID)
	if err != nil {
		return "", err
	}

	if u.ImageOnly() {
		if err := s.conventionRepo.UpdateImages(ctx, conventionID, u.CoverImageURL, u.ProfileImageURL); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return "", domain.ErrNotFound
			}
			return "", fmt.Errorf("update images: %w", err)
		}
		monitoring.RecordConventionUpdate(monitoring.UpdateImageOnly)
		return conv.ID, nil
	}

	if err := validateUpdate(u); err != nil {
		monitoring.RecordConventionUpdate(monitoring.UpdateRejected)
		return "", err
	}

	s.logger.InfoContext(ctx, "convention update started", "convention_id", conventionID)
	err = s.txRunner.WithinUpdate(ctx, func(tx domain.ConventionTx) error {
		if err := tx.UpdateConventionFields(ctx, conventionID, u); err != nil {
			return fmt.Errorf("update convention fields: %w", err)
		}
		if u.VenueHotel == nil {
			return nil
		}
		return s.reconcileVenueHotel(ctx, tx, conventionID, *u.VenueHotel)
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "convention update rolled back", "convention_id", conventionID, "err", err)
		monitoring.RecordConventionUpdate(monitoring.UpdateRolledBack)
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrNotFound
		}
		return "", err
	}
	s.logger.InfoContext(ctx, "convention update committed", "convention_id", conventionID)
	monitoring.RecordConventionUpdate(monitoring.UpdateCommitted)
	return conv.ID, nil
}

func (s *conventionService) Delete(ctx context.Context, actor domain.Actor, conventionID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	conv, err := s.authorize(ctx, actor, conventionID)
	if err != nil {
		return err
	}
	// The slug is rewritten on soft delete so the original is freed for
	// reuse by a future convention.
	suffix, err := generateShortCode()
	if err != nil {
		return fmt.Errorf("generate slug suffix: %w", err)
	}
	rewritten := fmt.Sprintf("%s-deleted-%s", conv.Slug, suffix)
	if err := s.conventionRepo.SoftDelete(ctx, conventionID, rewritten); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("soft delete convention: %w", err)
	}
	return nil
}

func (s *conventionService) ListOwn(ctx context.Context, actor domain.Actor) ([]*domain.Convention, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	series, err := s.seriesRepo.ListByOrganizerID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("list series: %w", err)
	}
	ids := make([]string, 0, len(series))
	for _, sr := range series {
		ids = append(ids, sr.ID)
	}
	return s.conventionRepo.ListBySeriesIDs(ctx, ids)
}

// authorize loads the convention and checks that the actor is an admin or
// the organizer owning the convention's series.
func (s *conventionService) authorize(ctx context.Context, actor domain.Actor, conventionID string) (*domain.Convention, error) {
	conv, err := s.conventionRepo.GetByID(ctx, conventionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get convention: %w", err)
	}
	if actor.IsAdmin() {
		return conv, nil
	}
	if !actor.HasRole(domain.RoleOrganizer) {
		return nil, domain.ErrForbidden
	}
	series, err := s.seriesRepo.GetByID(ctx, conv.SeriesID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get series: %w", err)
	}
	if series.OrganizerID != actor.ID {
		return nil, domain.ErrForbidden
	}
	return conv, nil
}

// validateUpdate enforces the semantic rules the JSON-shape validation
// cannot: known status, at most one venue marked for promotion.
func validateUpdate(u domain.ConventionUpdate) error {
	if u.Status != nil && !domain.ValidStatus(*u.Status) {
		return fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, *u.Status)
	}
	if u.VenueHotel == nil {
		return nil
	}
	marked := 0
	for i := range u.VenueHotel.SecondaryVenues {
		if u.VenueHotel.SecondaryVenues[i].MarkedForPrimaryPromotion {
			marked++
		}
	}
	if marked > 1 {
		return fmt.Errorf("%w: at most one secondary venue may be marked for primary promotion", domain.ErrInvalidInput)
	}
	return nil
}

// reconcileVenueHotel runs the primary-entity reconciliation and the
// collection sync. The promotion swap happens in memory, exactly once,
// before anything is persisted, so the collection sync always sees the
// already resolved primary/secondary split.
func (s *conventionService) reconcileVenueHotel(ctx context.Context, tx domain.ConventionTx, conventionID string, vh domain.VenueHotelUpdate) error {
	primary, secondaries, demoted := applyVenuePromotion(vh.PrimaryVenue, vh.SecondaryVenues)

	// The demotion is persisted before the promoted upsert so the former
	// primary lands in the non-primary set and the collection sync updates
	// it in place instead of re-creating it.
	if demoted != nil {
		if err := tx.UpdateVenue(ctx, demoted.ID, *demoted, false); err != nil {
			return fmt.Errorf("demote previous primary venue: %w", err)
		}
	}

	if primary != nil {
		venueID := primary.ID
		if venueID == "" {
			id, err := tx.CreateVenue(ctx, conventionID, *primary, true)
			if err != nil {
				return fmt.Errorf("create primary venue: %w", err)
			}
			venueID = id
		} else {
			if err := tx.UpdateVenue(ctx, venueID, *primary, true); err != nil {
				return fmt.Errorf("update primary venue: %w", err)
			}
		}
		if err := s.reconcileVenuePhotos(ctx, tx, venueID, primary.Photos); err != nil {
			return fmt.Errorf("reconcile primary venue photos: %w", err)
		}
	}

	// Primary hotel: when guests stay at the primary venue no hotel may be
	// primary, regardless of what else the payload carries. Hotels demoted
	// here keep their rows; the collection sync must not treat them as
	// removed just because the payload's additional list omits them.
	var demotedHotels []string
	if vh.GuestsStayAtPrimaryVenue {
		ids, err := tx.ClearPrimaryHotels(ctx, conventionID, "")
		if err != nil {
			return fmt.Errorf("clear primary hotels: %w", err)
		}
		demotedHotels = ids
	} else if vh.PrimaryHotel != nil {
		ids, err := tx.ClearPrimaryHotels(ctx, conventionID, vh.PrimaryHotel.ID)
		if err != nil {
			return fmt.Errorf("demote other primary hotels: %w", err)
		}
		demotedHotels = ids
		hotelID := vh.PrimaryHotel.ID
		if hotelID == "" {
			id, err := tx.CreateHotel(ctx, conventionID, *vh.PrimaryHotel, true)
			if err != nil {
				return fmt.Errorf("create primary hotel: %w", err)
			}
			hotelID = id
		} else {
			if err := tx.UpdateHotel(ctx, hotelID, *vh.PrimaryHotel, true); err != nil {
				return fmt.Errorf("update primary hotel: %w", err)
			}
		}
		if err := s.reconcileHotelPhotos(ctx, tx, hotelID, vh.PrimaryHotel.Photos); err != nil {
			return fmt.Errorf("reconcile primary hotel photos: %w", err)
		}
	}

	if err := s.syncSecondaryVenues(ctx, tx, conventionID, secondaries); err != nil {
		return fmt.Errorf("sync secondary venues: %w", err)
	}
	if err := s.syncAdditionalHotels(ctx, tx, conventionID, vh.Hotels, demotedHotels); err != nil {
		return fmt.Errorf("sync additional hotels: %w", err)
	}
	return nil
}

// applyVenuePromotion resolves the markedForPrimaryPromotion flag in memory.
// If a secondary venue is marked, it becomes the primary payload with the
// mark cleared and is removed from the secondary working set; the previous
// primary, if it has a persisted identity, is demoted into the secondary
// working set and also returned separately so the caller can persist the
// demotion before the promoted upsert. With nothing marked, the inputs pass
// through unchanged.
func applyVenuePromotion(primary *domain.VenueUpdate, secondaries []domain.VenueUpdate) (*domain.VenueUpdate, []domain.VenueUpdate, *domain.VenueUpdate) {
	idx := -1
	for i := range secondaries {
		if secondaries[i].MarkedForPrimaryPromotion {
			idx = i
			break
		}
	}
	if idx < 0 {
		return primary, secondaries, nil
	}
	promoted := secondaries[idx]
	promoted.MarkedForPrimaryPromotion = false

	rest := make([]domain.VenueUpdate, 0, len(secondaries))
	rest = append(rest, secondaries[:idx]...)
	rest = append(rest, secondaries[idx+1:]...)

	if primary == nil || primary.ID == "" {
		return &promoted, rest, nil
	}
	demoted := *primary
	demoted.MarkedForPrimaryPromotion = false
	rest = append(rest, demoted)
	return &promoted, rest, &demoted
}

// syncSecondaryVenues diffs the incoming list against the persisted
// non-primary set: persisted ids missing from the payload are deleted first,
// then each incoming entry is updated (id known) or created (no id, or a
// stale id that matches nothing — the stale id is silently discarded).
func (s *conventionService) syncSecondaryVenues(ctx context.Context, tx domain.ConventionTx, conventionID string, incoming []domain.VenueUpdate) error {
	existing, err := tx.ListSecondaryVenueIDs(ctx, conventionID)
	if err != nil {
		return fmt.Errorf("list secondary venues: %w", err)
	}
	existingSet := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		existingSet[id] = struct{}{}
	}
	incomingSet := make(map[string]struct{}, len(incoming))
	for i := range incoming {
		if incoming[i].ID != "" {
			incomingSet[incoming[i].ID] = struct{}{}
		}
	}
	var toDelete []string
	for _, id := range existing {
		if _, ok := incomingSet[id]; !ok {
			toDelete = append(toDelete, id)
		}
	}
	// Deletions go first so a reused id cannot collide with an upsert.
	if err := tx.DeleteVenues(ctx, conventionID, toDelete); err != nil {
		return fmt.Errorf("delete removed venues: %w", err)
	}
	for i := range incoming {
		v := incoming[i]
		venueID := v.ID
		_, known := existingSet[venueID]
		if venueID != "" && known {
			if err := tx.UpdateVenue(ctx, venueID, v, false); err != nil {
				return fmt.Errorf("update venue %s: %w", venueID, err)
			}
		} else {
			id, err := tx.CreateVenue(ctx, conventionID, v, false)
			if err != nil {
				return fmt.Errorf("create venue: %w", err)
			}
			venueID = id
		}
		if err := s.reconcileVenuePhotos(ctx, tx, venueID, v.Photos); err != nil {
			return fmt.Errorf("reconcile venue photos: %w", err)
		}
	}
	return nil
}

// syncAdditionalHotels mirrors syncSecondaryVenues for hotels, with one
// extra rule: hotels demoted by the primary-hotel step this request are in
// the non-primary set but absent from the payload; they survive with the
// flag cleared rather than being deleted.
func (s *conventionService) syncAdditionalHotels(ctx context.Context, tx domain.ConventionTx, conventionID string, incoming []domain.HotelUpdate, justDemoted []string) error {
	existing, err := tx.ListAdditionalHotelIDs(ctx, conventionID)
	if err != nil {
		return fmt.Errorf("list additional hotels: %w", err)
	}
	existingSet := make(map[string]struct{}, len(existing))
	for _, id := range existing {
		existingSet[id] = struct{}{}
	}
	demotedSet := make(map[string]struct{}, len(justDemoted))
	for _, id := range justDemoted {
		demotedSet[id] = struct{}{}
	}
	incomingSet := make(map[string]struct{}, len(incoming))
	for i := range incoming {
		if incoming[i].ID != "" {
			incomingSet[incoming[i].ID] = struct{}{}
		}
	}
	var toDelete []string
	for _, id := range existing {
		if _, ok := incomingSet[id]; ok {
			continue
		}
		if _, ok := demotedSet[id]; ok {
			continue
		}
		toDelete = append(toDelete, id)
	}
	if err := tx.DeleteHotels(ctx, conventionID, toDelete); err != nil {
		return fmt.Errorf("delete removed hotels: %w", err)
	}
	for i := range incoming {
		h := incoming[i]
		hotelID := h.ID
		_, known := existingSet[hotelID]
		if hotelID != "" && known {
			if err := tx.UpdateHotel(ctx, hotelID, h, false); err != nil {
				return fmt.Errorf("update hotel %s: %w", hotelID, err)
			}
		} else {
			id, err := tx.CreateHotel(ctx, conventionID, h, false)
			if err != nil {
				return fmt.Errorf("create hotel: %w", err)
			}
			hotelID = id
		}
		if err := s.reconcileHotelPhotos(ctx, tx, hotelID, h.Photos); err != nil {
			return fmt.Errorf("reconcile hotel photos: %w", err)
		}
	}
	return nil
}

// reconcileVenuePhotos enforces "at most one photo per venue": a payload
// with a URL replaces whatever is stored (keeping the row when the id
// matches), an absent or empty-URL payload removes all photos.
func (s *conventionService) reconcileVenuePhotos(ctx context.Context, tx domain.ConventionTx, venueID string, photos []domain.PhotoUpdate) error {
	var incoming *domain.PhotoUpdate
	if len(photos) > 0 {
		incoming = &photos[0]
	}
	if incoming == nil || incoming.URL == "" {
		return tx.DeleteVenuePhotosExcept(ctx, venueID, "")
	}
	if err := tx.DeleteVenuePhotosExcept(ctx, venueID, incoming.ID); err != nil {
		return err
	}
	id := incoming.ID
	if id == "" {
		id = s.newID()
	}
	return tx.UpsertVenuePhoto(ctx, venueID, domain.VenuePhoto{
		ID:      id,
		VenueID: venueID,
		URL:     incoming.URL,
		Caption: incoming.Caption,
	})
}

func (s *conventionService) reconcileHotelPhotos(ctx context.Context, tx domain.ConventionTx, hotelID string, photos []domain.PhotoUpdate) error {
	var incoming *domain.PhotoUpdate
	if len(photos) > 0 {
		incoming = &photos[0]
	}
	if incoming == nil || incoming.URL == "" {
		return tx.DeleteHotelPhotosExcept(ctx, hotelID, "")
	}
	if err := tx.DeleteHotelPhotosExcept(ctx, hotelID, incoming.ID); err != nil {
		return err
	}
	id := incoming.ID
	if id == "" {
		id = s.newID()
	}
	return tx.UpsertHotelPhoto(ctx, hotelID, domain.HotelPhoto{
		ID:      id,
		HotelID: hotelID,
		URL:     incoming.URL,
		Caption: incoming.Caption,
	})
}

const shortCodeLength = 6

var shortCodeAlphabet = []rune("abcdefghijklmnopqrstuvwxyz0123456789")

func generateShortCode() (string, error) {
	b := make([]rune, shortCodeLength)
	max := big.NewInt(int64(len(shortCodeAlphabet)))
	for i := 0; i < shortCodeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = shortCodeAlphabet[n.Int64()]
	}
	return string(b), nil
}

// Slugify converts a display name into a URL-safe slug.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
