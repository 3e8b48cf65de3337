package service

import (
	"context"
	"errors"

	"voyago/internal/store"
	storeerrors "voyago/internal/store/errors"
	"voyago/internal/trips/validator"
	"voyago/pkg/config"
	apperrors "voyago/pkg/errors"
	"voyago/pkg/events"
	"voyago/pkg/model"
	"voyago/pkg/sanitizer"
	"voyago/pkg/validation"
)

// searchFields are the string fields the catalog search looks at.
var searchFields = []string{"title", "description", "location", "category"}

type TripService interface {
	Create(ctx context.Context, trip *model.Trip) (*model.Trip, error)
	GetByID(ctx context.Context, id string) (*model.Trip, error)
	GetAll(ctx context.Context) ([]*model.Trip, error)
	GetByCategory(ctx context.Context, category string) ([]*model.Trip, error)
	GetByHost(ctx context.Context, hostID string) ([]*model.Trip, error)
	Search(ctx context.Context, term string) ([]*model.Trip, error)
	Update(ctx context.Context, id string, update *model.TripUpdate) (*model.Trip, error)
	Deactivate(ctx context.Context, id string) (*model.Trip, error)
	HardDelete(ctx context.Context, id string) error
	AddRating(ctx context.Context, id string, rating float64) (*model.Trip, error)
}

type tripService struct {
	store     *store.Store
	validator *validator.TripValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewTripService(
	documents *store.Store,
	tripValidator *validator.TripValidator,
	publisher events.Publisher,
	cfg *config.Config,
) TripService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &tripService{
		store:     documents,
		validator: tripValidator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *tripService) Create(ctx context.Context, trip *model.Trip) (*model.Trip, error) {
	trip.Title = sanitizer.NormalizeTitle(trip.Title)
	trip.Category = sanitizer.NormalizeCategory(trip.Category)
	trip.IsActive = true
	trip.RatingsAverage = 0
	trip.RatingsCount = 0

	if err := s.validator.Validate(trip); err != nil {
		return nil, validation.AsAppError(err)
	}

	doc, err := store.Marshal(trip)
	if err != nil {
		return nil, apperrors.Internal("Failed to encode trip", err)
	}
	created, err := s.store.Create(ctx, store.CollectionTrips, "", doc)
	if err != nil {
		s.cfg.Log.Error("Failed to create trip", "host_id", trip.HostID, "error", err)
		return nil, apperrors.Internal("Failed to create trip", err)
	}
	if err := store.Unmarshal(created, trip); err != nil {
		return nil, apperrors.Internal("Failed to decode trip", err)
	}

	s.cfg.Log.Info("Trip created successfully", "id", trip.ID, "host_id", trip.HostID)
	return trip, nil
}

// GetByID returns the trip regardless of its active flag: soft-deleted
// trips stay retrievable by id.
func (s *tripService) GetByID(ctx context.Context, id string) (*model.Trip, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Trip ID cannot be empty")
	}

	doc, found, err := s.store.FindByID(ctx, store.CollectionTrips, id)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve trip", err)
	}
	if !found {
		return nil, apperrors.NotFoundWithID("Trip", id)
	}

	var trip model.Trip
	if err := store.Unmarshal(doc, &trip); err != nil {
		return nil, apperrors.Internal("Failed to decode trip", err)
	}
	return &trip, nil
}

func (s *tripService) GetAll(ctx context.Context) ([]*model.Trip, error) {
	docs, err := s.store.FindAll(ctx, store.CollectionTrips, store.ListOptions{})
	if err != nil {
		return nil, apperrors.Internal("Failed to list trips", err)
	}
	return s.decodeActive(docs)
}

func (s *tripService) GetByCategory(ctx context.Context, category string) ([]*model.Trip, error) {
	category = sanitizer.NormalizeCategory(category)
	if category == "" {
		return nil, apperrors.InvalidInput("Category cannot be empty")
	}

	docs, err := s.store.FindByField(ctx, store.CollectionTrips, "category", category, store.ListOptions{})
	if err != nil {
		return nil, apperrors.Internal("Failed to list trips by category", err)
	}
	return s.decodeActive(docs)
}

func (s *tripService) GetByHost(ctx context.Context, hostID string) ([]*model.Trip, error) {
	if hostID == "" {
		return nil, apperrors.InvalidInput("Host ID cannot be empty")
	}

	docs, err := s.store.FindByField(ctx, store.CollectionTrips, "hostId", hostID, store.ListOptions{})
	if err != nil {
		return nil, apperrors.Internal("Failed to list trips by host", err)
	}
	return s.decodeActive(docs)
}

func (s *tripService) Search(ctx context.Context, term string) ([]*model.Trip, error) {
	if term == "" {
		return nil, apperrors.InvalidInput("Search term cannot be empty")
	}

	docs, err := s.store.Search(ctx, store.CollectionTrips, term, searchFields)
	if err != nil {
		return nil, apperrors.Internal("Failed to search trips", err)
	}
	return s.decodeActive(docs)
}

func (s *tripService) Update(ctx context.Context, id string, update *model.TripUpdate) (*model.Trip, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Trip ID cannot be empty")
	}
	update.Title = sanitizer.NormalizeTitle(update.Title)
	update.Category = sanitizer.NormalizeCategory(update.Category)
	if err := s.validator.ValidateUpdate(update); err != nil {
		return nil, validation.AsAppError(err)
	}

	patch, err := store.Marshal(update)
	if err != nil {
		return nil, apperrors.Internal("Failed to encode update", err)
	}
	updated, err := s.store.Update(ctx, store.CollectionTrips, id, patch)
	if err != nil {
		if errors.Is(err, storeerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Trip", id)
		}
		s.cfg.Log.Error("Failed to update trip", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update trip", err)
	}

	var trip model.Trip
	if err := store.Unmarshal(updated, &trip); err != nil {
		return nil, apperrors.Internal("Failed to decode trip", err)
	}
	s.cfg.Log.Info("Trip updated successfully", "id", id)
	return &trip, nil
}

// Deactivate is the default delete: the trip disappears from listings
// and search but its document and booking history survive.
func (s *tripService) Deactivate(ctx context.Context, id string) (*model.Trip, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Trip ID cannot be empty")
	}

	patch := store.Document{"isActive": false}
	updated, err := s.store.Update(ctx, store.CollectionTrips, id, patch)
	if err != nil {
		if errors.Is(err, storeerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Trip", id)
		}
		return nil, apperrors.Internal("Failed to deactivate trip", err)
	}

	var trip model.Trip
	if err := store.Unmarshal(updated, &trip); err != nil {
		return nil, apperrors.Internal("Failed to decode trip", err)
	}

	s.publish(ctx, events.Event{Type: events.TripDeactivated, Key: id, Payload: trip})
	s.cfg.Log.Info("Trip deactivated", "id", id)
	return &trip, nil
}

// HardDelete physically removes the document. The only path that does.
func (s *tripService) HardDelete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Trip ID cannot be empty")
	}

	if _, err := s.store.Delete(ctx, store.CollectionTrips, id); err != nil {
		if errors.Is(err, storeerrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Trip", id)
		}
		return apperrors.Internal("Failed to delete trip", err)
	}

	s.cfg.Log.Info("Trip hard-deleted", "id", id)
	return nil
}

// AddRating folds a new rating into the running average under optimistic
// concurrency, so two concurrent raters cannot drop each other's rating.
func (s *tripService) AddRating(ctx context.Context, id string, rating float64) (*model.Trip, error) {
	if rating < 1 || rating > 5 {
		return nil, apperrors.InvalidInput("Rating must be between 1 and 5")
	}

	for attempt := 0; attempt < s.cfg.UpdateRetryLimit; attempt++ {
		trip, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		trip.ApplyRating(rating)
		patch := store.Document{
			"ratingsAverage": trip.RatingsAverage,
			"ratingsCount":   trip.RatingsCount,
		}
		updated, err := s.store.UpdateWithVersion(ctx, store.CollectionTrips, id, patch, trip.Version)
		if err != nil {
			if errors.Is(err, storeerrors.ErrVersionConflict) {
				s.cfg.Log.Debug("Rating update conflicted, retrying", "id", id, "attempt", attempt+1)
				continue
			}
			return nil, apperrors.Internal("Failed to update rating", err)
		}

		if err := store.Unmarshal(updated, trip); err != nil {
			return nil, apperrors.Internal("Failed to decode trip", err)
		}
		s.cfg.Log.Info("Trip rating updated", "id", id, "average", trip.RatingsAverage, "count", trip.RatingsCount)
		return trip, nil
	}
	return nil, apperrors.Conflict("Trip rating is being updated concurrently, retry later")
}

// decodeActive rehydrates documents and drops soft-deleted trips.
func (s *tripService) decodeActive(docs []store.Document) ([]*model.Trip, error) {
	trips := make([]*model.Trip, 0, len(docs))
	for _, doc := range docs {
		var trip model.Trip
		if err := store.Unmarshal(doc, &trip); err != nil {
			return nil, apperrors.Internal("Failed to decode trip", err)
		}
		if !trip.IsActive {
			continue
		}
		trips = append(trips, &trip)
	}
	return trips, nil
}

func (s *tripService) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.cfg.Log.Warn("Failed to publish event", "type", event.Type, "key", event.Key, "error", err)
	}
}
