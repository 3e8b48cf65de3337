package service

import (
	"context"

	"voyago/internal/reviews/validator"
	"voyago/internal/store"
	tripservice "voyago/internal/trips/service"
	"voyago/pkg/config"
	apperrors "voyago/pkg/errors"
	"voyago/pkg/model"
	"voyago/pkg/validation"
)

type ReviewService interface {
	Create(ctx context.Context, review *model.Review) (*model.Review, error)
	GetByTrip(ctx context.Context, tripID string) ([]*model.Review, error)
}

type reviewService struct {
	store     *store.Store
	trips     tripservice.TripService
	validator *validator.ReviewValidator
	cfg       *config.Config
}

func NewReviewService(
	documents *store.Store,
	trips tripservice.TripService,
	reviewValidator *validator.ReviewValidator,
	cfg *config.Config,
) ReviewService {
	return &reviewService{
		store:     documents,
		trips:     trips,
		validator: reviewValidator,
		cfg:       cfg,
	}
}

// Create persists the review and folds its rating into the trip's
// running average. The two writes are independent; a rating update
// failure leaves the review in place and is reported to the caller.
func (s *reviewService) Create(ctx context.Context, review *model.Review) (*model.Review, error) {
	if err := s.validator.Validate(review); err != nil {
		return nil, validation.AsAppError(err)
	}

	trip, err := s.trips.GetByID(ctx, review.TripID)
	if err != nil {
		return nil, err
	}
	if !trip.IsActive {
		return nil, apperrors.Conflict("Cannot review an inactive trip")
	}

	doc, err := store.Marshal(review)
	if err != nil {
		return nil, apperrors.Internal("Failed to encode review", err)
	}
	created, err := s.store.Create(ctx, store.CollectionReviews, "", doc)
	if err != nil {
		s.cfg.Log.Error("Failed to create review", "trip_id", review.TripID, "error", err)
		return nil, apperrors.Internal("Failed to create review", err)
	}
	if err := store.Unmarshal(created, review); err != nil {
		return nil, apperrors.Internal("Failed to decode review", err)
	}

	if _, err := s.trips.AddRating(ctx, review.TripID, review.Rating); err != nil {
		s.cfg.Log.Error("Review saved but rating aggregation failed", "review_id", review.ID, "trip_id", review.TripID, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Review created successfully", "id", review.ID, "trip_id", review.TripID, "rating", review.Rating)
	return review, nil
}

func (s *reviewService) GetByTrip(ctx context.Context, tripID string) ([]*model.Review, error) {
	if tripID == "" {
		return nil, apperrors.InvalidInput("Trip ID cannot be empty")
	}

	docs, err := s.store.FindByField(ctx, store.CollectionReviews, "tripId", tripID, store.ListOptions{})
	if err != nil {
		return nil, apperrors.Internal("Failed to list reviews", err)
	}

	reviews := make([]*model.Review, 0, len(docs))
	for _, doc := range docs {
		var review model.Review
		if err := store.Unmarshal(doc, &review); err != nil {
			return nil, apperrors.Internal("Failed to decode review", err)
		}
		reviews = append(reviews, &review)
	}
	return reviews, nil
}
