package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"voyago/pkg/logger"
	"voyago/pkg/model"
	"voyago/pkg/validation"
)

type TripValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewTripValidator(log *logger.Logger) *TripValidator {
	return &TripValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *TripValidator) Validate(trip *model.Trip) error {
	if err := v.validate.Struct(trip); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}
	return nil
}

func (v *TripValidator) ValidateUpdate(update *model.TripUpdate) error {
	if err := v.validate.Struct(update); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}
	return nil
}
