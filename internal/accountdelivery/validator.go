package accountdelivery

import (
	"github.com/go-playground/validator/v10"
)

const maxAccountNoLen = 20

// ValidAccountNo validates that the field holds a numeric account number.
var ValidAccountNo validator.Func = func(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok || s == "" || len(s) > maxAccountNoLen {
		return false
	}

	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}

	return true
}
