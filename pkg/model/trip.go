package model

import "time"

const (
	DifficultyEasy        = "easy"
	DifficultyModerate    = "moderate"
	DifficultyChallenging = "challenging"
	DifficultyExtreme     = "extreme"
)

type Trip struct {
	ID             string             `json:"_id,omitempty" validate:"omitempty"`
	HostID         string             `json:"hostId" validate:"required"`
	Title          string             `json:"title" validate:"required,min=1,max=200"`
	Description    string             `json:"description" validate:"required,min=1"`
	Category       string             `json:"category,omitempty" validate:"omitempty,max=100"`
	Location       string             `json:"location,omitempty" validate:"omitempty,max=200"`
	Price          float64            `json:"price" validate:"gte=0"`
	MaxGroupSize   int                `json:"maxGroupSize" validate:"min=1"`
	Difficulty     string             `json:"difficulty" validate:"required,oneof=easy moderate challenging extreme"`
	Images         []string           `json:"images,omitempty"`
	Availability   []TripAvailability `json:"availability,omitempty" validate:"omitempty,dive"`
	RatingsAverage float64            `json:"ratingsAverage" validate:"gte=0,lte=5"`
	RatingsCount   int                `json:"ratingsCount" validate:"gte=0"`
	IsActive       bool               `json:"isActive"`
	CreatedAt      string             `json:"createdAt,omitempty"`
	UpdatedAt      string             `json:"updatedAt,omitempty"`
	Version        int64              `json:"_version,omitempty"`
}

type TripUpdate struct {
	Title        string             `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description  string             `json:"description,omitempty" validate:"omitempty,min=1"`
	Category     string             `json:"category,omitempty" validate:"omitempty,max=100"`
	Location     string             `json:"location,omitempty" validate:"omitempty,max=200"`
	Price        *float64           `json:"price,omitempty" validate:"omitempty,gte=0"`
	MaxGroupSize *int               `json:"maxGroupSize,omitempty" validate:"omitempty,min=1"`
	Difficulty   string             `json:"difficulty,omitempty" validate:"omitempty,oneof=easy moderate challenging extreme"`
	Images       []string           `json:"images,omitempty"`
	Availability []TripAvailability `json:"availability,omitempty" validate:"omitempty,dive"`
}

type TripAvailability struct {
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
	Available bool   `json:"available"`
	Slots     int    `json:"slots,omitempty" validate:"gte=0"`
}

// IsAvailableOn reports availability for a calendar date. Open-world: a
// date with no explicit entry is available.
func (t *Trip) IsAvailableOn(date time.Time) bool {
	day := date.Format(time.DateOnly)
	for _, entry := range t.Availability {
		if entry.Date == day {
			return entry.Available
		}
	}
	return true
}

// ApplyRating folds one new rating into the running average.
func (t *Trip) ApplyRating(rating float64) {
	t.RatingsAverage = (t.RatingsAverage*float64(t.RatingsCount) + rating) / float64(t.RatingsCount+1)
	t.RatingsCount++
}
