package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"

	"voyago/pkg/logger"
	"voyago/pkg/model"
	"voyago/pkg/validation"
)

type UserValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewUserValidator(log *logger.Logger) *UserValidator {
	return &UserValidator{
		validate: validator.New(),
		logger:   log,
	}
}

func (v *UserValidator) ValidateSignup(input *model.UserSignup) error {
	return v.run(input)
}

func (v *UserValidator) Validate(user *model.User) error {
	return v.run(user)
}

func (v *UserValidator) ValidateUpdate(update *model.UserUpdate) error {
	return v.run(update)
}

func (v *UserValidator) run(value any) error {
	if err := v.validate.Struct(value); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs)
		}
		return err
	}
	return nil
}
