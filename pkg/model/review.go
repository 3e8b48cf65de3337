package model

type Review struct {
	ID        string  `json:"_id,omitempty" validate:"omitempty"`
	TripID    string  `json:"tripId" validate:"required"`
	UserID    string  `json:"userId" validate:"required"`
	Rating    float64 `json:"rating" validate:"gte=1,lte=5"`
	Comment   string  `json:"comment,omitempty" validate:"omitempty,max=2000"`
	CreatedAt string  `json:"createdAt,omitempty"`
	UpdatedAt string  `json:"updatedAt,omitempty"`
	Version   int64   `json:"_version,omitempty"`
}
