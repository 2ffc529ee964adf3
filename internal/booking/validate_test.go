package booking

import (
	"testing"
	"time"

	"museovini/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSlot(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	slots := models.DefaultTimeSlots

	t.Run("MissingSlot", func(t *testing.T) {
		err := validateSlot(time.Time{}, now, slots)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
	})

	t.Run("PastSlot", func(t *testing.T) {
		err := validateSlot(now.Add(-time.Hour), now, slots)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Message, "already passed")
	})

	t.Run("SlotEqualToNowCountsAsPassed", func(t *testing.T) {
		err := validateSlot(now, now, slots)
		assert.Error(t, err)
	})

	t.Run("UnofferedTime", func(t *testing.T) {
		slot := time.Date(2026, 6, 16, 11, 15, 0, 0, time.UTC)
		err := validateSlot(slot, now, slots)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Message, "not an offered slot")
	})

	t.Run("ValidFutureSlot", func(t *testing.T) {
		slot := time.Date(2026, 6, 16, 10, 30, 0, 0, time.UTC)
		assert.NoError(t, validateSlot(slot, now, slots))
	})
}

func TestValidateChangeRequest(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	original := models.Booking{
		ID:          1,
		DateTime:    now.Add(48 * time.Hour),
		People:      2,
		InfoMessage: "wheelchair access",
	}

	intPtr := func(v int) *int { return &v }
	strPtr := func(v string) *string { return &v }
	timePtr := func(v time.Time) *time.Time { return &v }

	t.Run("NothingChangedIsBlocked", func(t *testing.T) {
		req := models.UpdateRequestCreate{
			RequestedDateTime:    timePtr(original.DateTime),
			RequestedPeople:      intPtr(original.People),
			RequestedInfoMessage: strPtr("  wheelchair access "),
		}
		err := validateChangeRequest(original, req, now)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Message, "at least one field")
	})

	t.Run("EmptyRequestIsBlocked", func(t *testing.T) {
		err := validateChangeRequest(original, models.UpdateRequestCreate{}, now)
		assert.Error(t, err)
	})

	t.Run("PastRequestedDateIsBlocked", func(t *testing.T) {
		req := models.UpdateRequestCreate{RequestedDateTime: timePtr(now.Add(-time.Hour))}
		err := validateChangeRequest(original, req, now)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Message, "future")
	})

	t.Run("PeopleChangeAllowed", func(t *testing.T) {
		req := models.UpdateRequestCreate{RequestedPeople: intPtr(4)}
		assert.NoError(t, validateChangeRequest(original, req, now))
	})

	t.Run("DateChangeAllowed", func(t *testing.T) {
		req := models.UpdateRequestCreate{RequestedDateTime: timePtr(now.Add(72 * time.Hour))}
		assert.NoError(t, validateChangeRequest(original, req, now))
	})

	t.Run("InfoChangeAllowed", func(t *testing.T) {
		req := models.UpdateRequestCreate{RequestedInfoMessage: strPtr("stroller instead")}
		assert.NoError(t, validateChangeRequest(original, req, now))
	})
}
