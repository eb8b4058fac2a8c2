package service

import (
	"errors"
	"github.com/go-playground/validator/v10"
	"museum-ticket/common/errs"
	"strings"
)

// typoDomains are mistyped mail domains seen on real checkouts.
var typoDomains = []string{"@gmail.con", "@gmial.com", "@hotmail.con"}

// NewValidator returns a validator with the booking specific tags registered.
func NewValidator() *validator.Validate {
	validate := validator.New()

	err := validate.RegisterValidation("not_typo_domain", func(fl validator.FieldLevel) bool {
		email := strings.ToLower(fl.Field().String())
		for _, domain := range typoDomains {
			if strings.HasSuffix(email, domain) {
				return false
			}
		}
		return true
	})
	if err != nil {
		panic(err)
	}

	return validate
}

// toValidationError turns validator failures into a typed validation outcome,
// keyed by field with the failed tag as reason.
func toValidationError(err error) error {
	var validationErr validator.ValidationErrors
	if !errors.As(err, &validationErr) {
		return err
	}

	data := make(map[string]any, len(validationErr))
	for _, fieldErr := range validationErr {
		data[fieldErr.Field()] = fieldErr.Tag()
	}

	return &errs.Error{Kind: errs.KindValidation, Message: "Validation failed", Data: data}
}
