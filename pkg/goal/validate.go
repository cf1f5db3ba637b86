package goal

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// MaxTitleLen is the longest accepted title, counted after trimming.
const MaxTitleLen = 200

// Input carries the user-supplied fields for a new goal. Validation runs
// before the store sees it; the store trusts well-formed input.
type Input struct {
	Title   string    `validate:"required,max=200"`
	EndDate time.Time `validate:"required,today-or-later"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// today-or-later compares calendar days, not instants, so a goal due
	// later today is still valid.
	_ = v.RegisterValidation("today-or-later", func(fl validator.FieldLevel) bool {
		d, ok := fl.Field().Interface().(time.Time)
		if !ok {
			return false
		}
		return !StartOfDay(d).Before(StartOfDay(time.Now()))
	})
	return v
}

// ValidateInput checks a new-goal submission: a non-empty trimmed title of
// at most MaxTitleLen characters and an end date of today or later.
func ValidateInput(in Input) error {
	in.Title = strings.TrimSpace(in.Title)

	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch {
		case fe.Field() == "Title" && fe.Tag() == "required":
			return errors.New("title is required")
		case fe.Field() == "Title":
			return fmt.Errorf("title must be at most %d characters", MaxTitleLen)
		default:
			return errors.New("end date must be today or later")
		}
	}
	return err
}
