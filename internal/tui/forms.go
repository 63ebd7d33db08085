package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daycount/internal/calculator"
	"github.com/julianstephens/daycount/internal/constants"
	"github.com/julianstephens/daycount/internal/identity"
)

type SignInFormModel struct {
	Email string
}

// CalculatorFormModel holds the calculator inputs. The label is asked for
// only after a successful preview.
type CalculatorFormModel struct {
	StartDate   string
	EndDate     string
	AddExtraDay bool
	Label       string
}

func newSignInForm(fm *SignInFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("E-mail").
				Description(constants.MsgSignInRequired).
				Value(&fm.Email).
				Validate(func(s string) error {
					_, err := identity.Normalize(s)
					return err
				}),
		),
	).WithTheme(huh.ThemeDracula())
}

func validateDate(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New(constants.MsgSelectBothDates)
	}
	if _, err := calculator.ParseDate(s); err != nil {
		return errors.New(constants.MsgDateFormat)
	}
	return nil
}

func newDatesForm(fm *CalculatorFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Start date (YYYY-MM-DD)").
				Value(&fm.StartDate).
				Validate(validateDate),
			huh.NewInput().
				Title("End date (YYYY-MM-DD)").
				Value(&fm.EndDate).
				Validate(validateDate),
			huh.NewConfirm().
				Title("Add one extra day?").
				Value(&fm.AddExtraDay),
		),
	).WithTheme(huh.ThemeDracula())
}

func newLabelForm(fm *CalculatorFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Label").
				Description("Enter saves the countdown, esc changes the dates").
				Value(&fm.Label).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New(constants.MsgEnterLabel)
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}
