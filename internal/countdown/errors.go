package countdown

import (
	"errors"

	"github.com/julianstephens/daycount/internal/calculator"
	"github.com/julianstephens/daycount/internal/constants"
)

var (
	ErrNotAuthorized      = errors.New("not signed in")
	ErrEmptyLabel         = errors.New("label cannot be empty")
	ErrNoCalculationYet   = errors.New("days have not been calculated yet")
	ErrInvalidRange       = calculator.ErrInvalidRange
	ErrPersistenceFailure = errors.New("failed to persist countdowns")
	ErrClosed             = errors.New("countdown store is closed")
)

// UserMessage returns the sentence shown to a person for a store or
// calculator error. Unknown errors fall back to err.Error().
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNotAuthorized):
		return constants.MsgSignInRequired
	case errors.Is(err, ErrEmptyLabel):
		return constants.MsgEnterLabel
	case errors.Is(err, ErrNoCalculationYet):
		return constants.MsgCalculateFirst
	case errors.Is(err, calculator.ErrMissingDate):
		return constants.MsgSelectBothDates
	case errors.Is(err, calculator.ErrInvalidDate):
		return constants.MsgDateFormat
	case errors.Is(err, ErrInvalidRange):
		return constants.MsgStartAfterEnd
	default:
		return err.Error()
	}
}
