package validator

import (
	"regexp"

	"github.com/go-playground/validator/v10"

	"openhackathon/internal/model"
)

var hackathonNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// Custom validators
	v.RegisterValidation("verdict", validateVerdict)
	v.RegisterValidation("hackathon_name", validateHackathonName)

	return &Validator{validate: v}
}

func (v *Validator) Validate(i any) error {
	return v.validate.Struct(i)
}

// validateVerdict accepts the statuses a verification may end in.
func validateVerdict(fl validator.FieldLevel) bool {
	return model.EnrollmentStatus(fl.Field().String()).IsTerminal()
}

func validateHackathonName(fl validator.FieldLevel) bool {
	return hackathonNamePattern.MatchString(fl.Field().String())
}
