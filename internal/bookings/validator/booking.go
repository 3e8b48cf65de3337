package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"voyago/pkg/logger"
	"voyago/pkg/model"
	"voyago/pkg/validation"
)

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *BookingValidator) Validate(booking *model.Booking) error {
	if err := v.validate.Struct(booking); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}

	if booking.TravelDate.IsZero() {
		return validation.Errors{
			validation.Error{
				Field:   "TravelDate",
				Message: "travelDate is required",
			},
		}
	}

	return nil
}
