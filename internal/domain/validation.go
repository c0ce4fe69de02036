package domain

import (
	"github.com/go-playground/validator/v10"
)

// validatorInstance is a package-level validator instance.
// A single instance caches struct information.
var validatorInstance = validator.New()

func init() {
	_ = validatorInstance.RegisterValidation("umbrellacolor", validateColor)
}

// RegisterValidations adds the domain's custom tags to another validator,
// such as the one used by the HTTP layer.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("umbrellacolor", validateColor)
}

func validateColor(fl validator.FieldLevel) bool {
	_, err := ParseColor(fl.Field().String())
	return err == nil
}
