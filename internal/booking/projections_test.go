package booking

import (
	"testing"
	"time"

	"museovini/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookingAt(id int64, dt time.Time) models.Booking {
	return models.Booking{ID: id, DateTime: dt, People: 2, ExperienceType: models.ExperienceGuidedTour}
}

func TestPartitionByTime(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	bookings := []models.Booking{
		bookingAt(1, now.Add(48 * time.Hour)),
		bookingAt(2, now.Add(-24 * time.Hour)),
		bookingAt(3, now.Add(2 * time.Hour)),
		bookingAt(4, now.Add(-72 * time.Hour)),
		bookingAt(5, now), // boundary counts as upcoming
	}

	upcoming, past := PartitionByTime(bookings, now)

	assert.Equal(t, len(bookings), len(upcoming)+len(past))

	require.Len(t, upcoming, 3)
	assert.Equal(t, int64(5), upcoming[0].ID)
	assert.Equal(t, int64(3), upcoming[1].ID)
	assert.Equal(t, int64(1), upcoming[2].ID)

	require.Len(t, past, 2)
	assert.Equal(t, int64(2), past[0].ID)
	assert.Equal(t, int64(4), past[1].ID)
}

func TestPartitionByTimeEmpty(t *testing.T) {
	upcoming, past := PartitionByTime(nil, time.Now())
	assert.Empty(t, upcoming)
	assert.Empty(t, past)
}

func TestLatestRequestsPicksNewestPerBooking(t *testing.T) {
	base := time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC)

	// Deliberately out of creation order.
	requests := []models.UpdateRequest{
		{ID: 10, BookingID: 1, CreatedAt: base.Add(2 * time.Hour), Status: models.RequestStatusPending},
		{ID: 11, BookingID: 1, CreatedAt: base.Add(5 * time.Hour), Status: models.RequestStatusApproved},
		{ID: 12, BookingID: 1, CreatedAt: base, Status: models.RequestStatusRejected},
		{ID: 20, BookingID: 2, CreatedAt: base.Add(time.Hour), Status: models.RequestStatusPending},
	}

	latest := LatestRequests(requests)

	require.Len(t, latest, 2)
	assert.Equal(t, int64(11), latest[1].ID)
	assert.Equal(t, int64(20), latest[2].ID)
}

func TestInsertSortedKeepsOrder(t *testing.T) {
	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	var list []models.Booking
	list = insertSorted(list, bookingAt(1, base.Add(48*time.Hour)))
	list = insertSorted(list, bookingAt(2, base))
	list = insertSorted(list, bookingAt(3, base.Add(24*time.Hour)))

	require.Len(t, list, 3)
	assert.Equal(t, int64(2), list[0].ID)
	assert.Equal(t, int64(3), list[1].ID)
	assert.Equal(t, int64(1), list[2].ID)
}
