package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/stefanpenner/goalie/pkg/goal"
)

const dateLayout = "2006-01-02"

// addForm collects the fields for a new goal. The huh form owns focus and
// editing; the model only asks whether it finished or was aborted.
type addForm struct {
	title string
	date  string
	form  *huh.Form
}

func newAddForm(now func() time.Time) *addForm {
	f := &addForm{
		date: now().Format(dateLayout),
	}
	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Goal").
				CharLimit(goal.MaxTitleLen+1).
				Validate(validateTitle).
				Value(&f.title),
			huh.NewInput().
				Title("Due date").
				Description("YYYY-MM-DD").
				Validate(validateDueDate(now)).
				Value(&f.date),
		),
	).WithShowHelp(false)
	return f
}

func validateTitle(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("title is required")
	}
	if len([]rune(s)) > goal.MaxTitleLen {
		return fmt.Errorf("title must be at most %d characters", goal.MaxTitleLen)
	}
	return nil
}

func validateDueDate(now func() time.Time) func(string) error {
	return func(s string) error {
		d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(s), time.Local)
		if err != nil {
			return fmt.Errorf("use the form YYYY-MM-DD")
		}
		if goal.StartOfDay(d).Before(goal.StartOfDay(now())) {
			return fmt.Errorf("end date must be today or later")
		}
		return nil
	}
}

// Input returns the validated submission. Call only after the form reports
// huh.StateCompleted.
func (f *addForm) Input() goal.Input {
	d, _ := time.ParseInLocation(dateLayout, strings.TrimSpace(f.date), time.Local)
	return goal.Input{
		Title:   strings.TrimSpace(f.title),
		EndDate: d,
	}
}
