package booking

import (
	"strings"
	"time"

	"museovini/internal/models"
)

// ValidationError is a client-side rejection. It never reaches the network.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(message string) error {
	return &ValidationError{Message: message}
}

// validateSlot checks a composed booking time against the offered slots and
// the clock. A slot equal to now counts as passed.
func validateSlot(slot time.Time, now time.Time, allowed []string) error {
	if slot.IsZero() {
		return validationErrorf("please select a valid date and time before booking")
	}
	if !slot.After(now) {
		return validationErrorf("selected slot has already passed, choose a future slot")
	}
	if len(allowed) > 0 {
		entry := slot.Format("15:04")
		found := false
		for _, s := range allowed {
			if s == entry {
				found = true
				break
			}
		}
		if !found {
			return validationErrorf("selected time is not an offered slot")
		}
	}
	return nil
}

// validateChangeRequest blocks no-op update requests before they reach the
// network: at least one of date, people or notes must actually differ from
// the booking's current values, and a proposed date must be strictly in the
// future.
func validateChangeRequest(original models.Booking, req models.UpdateRequestCreate, now time.Time) error {
	hasDateChange := req.RequestedDateTime != nil && !req.RequestedDateTime.Equal(original.DateTime)
	hasPeopleChange := req.RequestedPeople != nil && *req.RequestedPeople != original.People

	hasInfoChange := false
	if req.RequestedInfoMessage != nil {
		hasInfoChange = strings.TrimSpace(*req.RequestedInfoMessage) != strings.TrimSpace(original.InfoMessage)
	}

	if !hasDateChange && !hasPeopleChange && !hasInfoChange {
		return validationErrorf("update at least one field before sending your request")
	}

	if req.RequestedDateTime != nil && !req.RequestedDateTime.After(now) {
		return validationErrorf("requested date must be in the future")
	}
	return nil
}
