package ledger

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return strings.ToLower(f.Name)
	})
	return v
}

type memberInput struct {
	Name  string `validate:"required,max=100" label:"name"`
	Email string `validate:"required,email,max=254" label:"email"`
}

type familyInput struct {
	Founder    memberInput
	FamilyName string `validate:"required,max=100" label:"family name"`
}

type joinInput struct {
	Member     memberInput
	FamilyID   string `validate:"required" label:"family ID"`
	Passphrase string `validate:"required" label:"passphrase"`
}

type signInInput struct {
	Email      string `validate:"required,email" label:"email"`
	FamilyID   string `validate:"required" label:"family ID"`
	Passphrase string `validate:"required" label:"passphrase"`
}

// checkInput validates a struct and folds the failures into one ErrInvalidInput.
func checkInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "email":
			msgs = append(msgs, fe.Field()+" must be a valid email address")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fe.Field()+" is invalid")
		}
	}
	return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(msgs, "; "))
}
