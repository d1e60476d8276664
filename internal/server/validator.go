package server

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

type apiValidator struct {
	v *validator.Validate
}

func newValidator() *apiValidator {
	return &apiValidator{validator.New()}
}

func (av *apiValidator) Validate(i interface{}) error {
	return av.v.Struct(i)
}

// validationMessages renders validator failures as one user-facing message.
func validationMessages(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	messages := make([]string, len(errs))
	for i, e := range errs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			messages[i] = "'" + field + "' is a required property"
		case "max":
			messages[i] = field + " is too long"
		default:
			messages[i] = "Invalid " + field
		}
	}

	return strings.Join(messages, " ; ")
}
