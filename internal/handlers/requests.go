package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/katariyakhushi/umbrella-customiser/internal/domain"
)

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new CustomValidator that knows the domain's custom tags.
func NewValidator() (*CustomValidator, error) {
	v := validator.New()
	if err := domain.RegisterValidations(v); err != nil {
		return nil, err
	}
	return &CustomValidator{validator: v}, nil
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i any) error {
	return cv.validator.Struct(i)
}

// ColorRequest is the form posted by a color swatch.
type ColorRequest struct {
	Color string `form:"color" validate:"required,umbrellacolor"`
}
