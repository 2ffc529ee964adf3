package booking

import (
	"sort"
	"time"

	"museovini/internal/models"
)

// PartitionByTime splits bookings into upcoming (at or after now, soonest
// first) and past (most recent first). Every booking lands in exactly one
// half. The split is recomputed from the current set and the clock on each
// call; it is never stored.
func PartitionByTime(bookings []models.Booking, now time.Time) (upcoming, past []models.Booking) {
	for _, b := range bookings {
		if !b.DateTime.Before(now) {
			upcoming = append(upcoming, b)
		} else {
			past = append(past, b)
		}
	}
	sort.Slice(upcoming, func(i, j int) bool { return upcoming[i].DateTime.Before(upcoming[j].DateTime) })
	sort.Slice(past, func(i, j int) bool { return past[i].DateTime.After(past[j].DateTime) })
	return upcoming, past
}

// LatestRequests maps each booking id to its most recently created update
// request. Older requests for the same booking are ignored regardless of the
// order they arrived in.
func LatestRequests(requests []models.UpdateRequest) map[int64]models.UpdateRequest {
	latest := make(map[int64]models.UpdateRequest, len(requests))
	for _, req := range requests {
		existing, ok := latest[req.BookingID]
		if !ok || req.CreatedAt.After(existing.CreatedAt) {
			latest[req.BookingID] = req
		}
	}
	return latest
}

// insertSorted adds a booking keeping the list ordered by date_time ascending.
func insertSorted(bookings []models.Booking, b models.Booking) []models.Booking {
	i := sort.Search(len(bookings), func(i int) bool {
		return bookings[i].DateTime.After(b.DateTime)
	})
	bookings = append(bookings, models.Booking{})
	copy(bookings[i+1:], bookings[i:])
	bookings[i] = b
	return bookings
}
